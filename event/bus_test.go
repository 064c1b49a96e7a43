package event_test

import (
	"context"
	"testing"

	"github.com/cascadehq/cascade/event"
)

func TestChannelBusDelivers(t *testing.T) {
	bus := event.NewChannelBus(4)

	evt := event.New(event.TypeWorkflowStarted)
	evt.WorkflowType = "etl"
	if err := bus.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case got := <-bus.Events():
		if got.Type != event.TypeWorkflowStarted {
			t.Errorf("type = %q, want %q", got.Type, event.TypeWorkflowStarted)
		}
		if got.ID.IsNil() {
			t.Error("event should carry an ID")
		}
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestChannelBusDropsWhenFull(t *testing.T) {
	bus := event.NewChannelBus(1)
	ctx := context.Background()

	if err := bus.Publish(ctx, event.New(event.TypeStepStarted)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	// Second publish must not block or error even though the buffer is full.
	if err := bus.Publish(ctx, event.New(event.TypeStepCompleted)); err != nil {
		t.Fatalf("Publish (full): %v", err)
	}

	got := <-bus.Events()
	if got.Type != event.TypeStepStarted {
		t.Errorf("type = %q, want the first event", got.Type)
	}
	select {
	case extra := <-bus.Events():
		t.Errorf("unexpected second event %q, overflow should be dropped", extra.Type)
	default:
	}
}

func TestNopBus(t *testing.T) {
	var bus event.NopBus
	if err := bus.Publish(context.Background(), event.New(event.TypeWorkflowFailed)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}
