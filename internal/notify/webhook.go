package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/spec-kit/swift-ticket/internal/events"
)

// WebhookSink posts every event as JSON to a fixed URL.
type WebhookSink struct {
	client *resty.Client
	url    string
}

// NewWebhookSink builds a sink with a bounded timeout and a small retry budget.
func NewWebhookSink(url string, timeout time.Duration) *WebhookSink {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "swift-ticket-notifier")
	return &WebhookSink{client: client, url: url}
}

func (w *WebhookSink) Name() string { return "webhook" }

// Deliver posts event and fails on any non-2xx answer.
func (w *WebhookSink) Deliver(ctx context.Context, event events.Event) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("X-Event-Type", string(event.Type)).
		SetHeader("X-Event-ID", event.ID).
		SetBody(event).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook post: unexpected status %d", resp.StatusCode())
	}
	return nil
}

func (w *WebhookSink) Close() error { return nil }
