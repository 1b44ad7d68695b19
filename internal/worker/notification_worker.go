package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/swift-ticket/internal/events"
	"github.com/spec-kit/swift-ticket/internal/notify"
)

// NotificationWorker delivers queued events to every sink on its own
// goroutine, so slow sinks never hold up a request.
type NotificationWorker struct {
	sinks   []notify.Sink
	queue   chan events.Event
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
}

// NewNotificationWorker builds a worker with a queue of size buffer.
func NewNotificationWorker(logger *zap.Logger, buffer int, timeout time.Duration, sinks ...notify.Sink) *NotificationWorker {
	if buffer <= 0 {
		buffer = 1
	}
	return &NotificationWorker{
		sinks:   sinks,
		queue:   make(chan events.Event, buffer),
		logger:  logger,
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

// StartNotificationWorker starts the delivery loop.
func (w *NotificationWorker) StartNotificationWorker() {
	go w.run()
}

// Enqueue hands event to the worker. It never blocks: a full queue or a
// stopped worker drops the event and reports false.
func (w *NotificationWorker) Enqueue(event events.Event) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped || len(w.sinks) == 0 {
		return false
	}
	select {
	case w.queue <- event:
		return true
	default:
		w.logger.Warn("notification queue full, dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		return false
	}
}

// Stop drains the queue, then closes every sink. It gives up waiting when
// ctx ends.
func (w *NotificationWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.queue)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	for _, sink := range w.sinks {
		if err := sink.Close(); err != nil {
			w.logger.Warn("closing sink", zap.String("sink", sink.Name()), zap.Error(err))
		}
	}
	return nil
}

func (w *NotificationWorker) run() {
	defer close(w.done)
	for event := range w.queue {
		for _, sink := range w.sinks {
			w.deliver(sink, event)
		}
	}
}

func (w *NotificationWorker) deliver(sink notify.Sink, event events.Event) {
	ctx := context.Background()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	if err := sink.Deliver(ctx, event); err != nil {
		w.logger.Warn("notification delivery failed",
			zap.String("sink", sink.Name()),
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return
	}
	w.logger.Debug("notification delivered",
		zap.String("sink", sink.Name()),
		zap.String("event_id", event.ID))
}
