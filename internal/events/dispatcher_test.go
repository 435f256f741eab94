package events

import (
	"context"
	"errors"
	"testing"
)

func TestPublishInvokesSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var seen []string
	dispatcher.Subscribe(EventRequestCreated, func(_ context.Context, event Event) error {
		seen = append(seen, event.EntityID)
		return nil
	})
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, event Event) error {
		t.Error("handler for another event type invoked")
		return nil
	})

	if err := dispatcher.Publish(context.Background(), Event{Type: EventRequestCreated, EntityID: "req-1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(seen) != 1 || seen[0] != "req-1" {
		t.Fatalf("seen = %v", seen)
	}
}

func TestPublishContinuesPastFailingHandler(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	invoked := false
	dispatcher.Subscribe(EventContractCreated, func(_ context.Context, _ Event) error {
		return errors.New("handler failure")
	})
	dispatcher.Subscribe(EventContractCreated, func(_ context.Context, _ Event) error {
		invoked = true
		return nil
	})

	if err := dispatcher.Publish(context.Background(), Event{Type: EventContractCreated}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !invoked {
		t.Fatal("second handler skipped after first failed")
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	if err := dispatcher.Publish(context.Background(), Event{Type: EventEquipmentReserved}); err != nil {
		t.Fatalf("publish: %v", err)
	}
}
