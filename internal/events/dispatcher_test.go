package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherRunsAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	boom := errors.New("boom")

	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.Subject)
		return boom
	})
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.Subject)
		return nil
	})
	d.Subscribe(EventUnitDeleted, func(context.Context, Event) error {
		t.Fatal("unrelated handler called")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketCreated, Subject: "t1"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(calls) != 2 || calls[0] != "first:t1" || calls[1] != "second:t1" {
		t.Fatalf("calls = %v", calls)
	}
}

func TestDispatcherWithoutListeners(t *testing.T) {
	if err := NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventSessionEnded}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}
