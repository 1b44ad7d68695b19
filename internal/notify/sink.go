// Package notify delivers domain events to systems outside the service.
package notify

import (
	"context"
	"errors"

	"github.com/spec-kit/swift-ticket/internal/events"
)

// ErrSinkClosed is returned when delivering through a closed sink.
var ErrSinkClosed = errors.New("notify: sink closed")

// Sink delivers one event.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event events.Event) error
	Close() error
}
