package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/swift-ticket/internal/events"
)

// EventForwarder hands events to outbound sinks without blocking.
type EventForwarder interface {
	Enqueue(event events.Event) bool
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	forwarder  EventForwarder
}

// NewNotificationService creates the service. A nil forwarder only logs.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, forwarder EventForwarder) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		forwarder:  forwarder,
	}
}

// RegisterHandlers subscribes to every event type.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		n.dispatcher.Subscribe(eventType, n.handle)
	}
}

func (n *NotificationService) handle(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("subject", event.Subject),
		zap.String("actor", event.Actor.Username),
		zap.Any("payload", event.Payload))
	if n.forwarder != nil {
		n.forwarder.Enqueue(event)
	}
	return nil
}
