package ext_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cascadehq/cascade/event"
	"github.com/cascadehq/cascade/ext"
	"github.com/cascadehq/cascade/id"
	"github.com/cascadehq/cascade/step"
)

// recorder implements a subset of the hook interfaces and records calls.
type recorder struct {
	calls []string
	fail  bool
}

func (r *recorder) Name() string { return "recorder" }

func (r *recorder) OnStepCompleted(_ context.Context, _ id.RunID, _ string, def *step.Definition, _ step.Result) error {
	r.calls = append(r.calls, "step:"+def.ID)
	if r.fail {
		return errors.New("hook failure")
	}
	return nil
}

func (r *recorder) OnWorkflowStarted(_ context.Context, _ id.RunID, workflowType string) error {
	r.calls = append(r.calls, "workflow:"+workflowType)
	return nil
}

func newRegistry() *ext.Registry {
	return ext.NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegistryFansOutToImplementedHooks(t *testing.T) {
	reg := newRegistry()
	rec := &recorder{}
	reg.Register(rec)

	ctx := context.Background()
	runID := id.NewRunID()
	def := &step.Definition{ID: "fetch"}

	reg.EmitWorkflowStarted(ctx, runID, "etl")
	reg.EmitStepCompleted(ctx, runID, "etl", def, step.Result{StepID: "fetch"})
	// recorder does not implement StepFailed; this must be a no-op.
	reg.EmitStepFailed(ctx, runID, "etl", def, step.Result{StepID: "fetch"})
	reg.EmitShutdown(ctx)

	want := []string{"workflow:etl", "step:fetch"}
	if len(rec.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", rec.calls, want)
	}
	for i := range want {
		if rec.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, rec.calls[i], want[i])
		}
	}
}

func TestRegistryHookErrorsDoNotPropagate(t *testing.T) {
	reg := newRegistry()
	failing := &recorder{fail: true}
	healthy := &recorder{}
	reg.Register(failing)
	reg.Register(healthy)

	reg.EmitStepCompleted(context.Background(), id.NewRunID(), "etl", &step.Definition{ID: "a"}, step.Result{})

	// The failing hook must not stop delivery to later extensions.
	if len(healthy.calls) != 1 {
		t.Errorf("healthy extension calls = %v, want 1 call", healthy.calls)
	}
}

func TestRegistryExtensionsOrder(t *testing.T) {
	reg := newRegistry()
	first := &recorder{}
	second := &recorder{}
	reg.Register(first)
	reg.Register(second)

	exts := reg.Extensions()
	if len(exts) != 2 {
		t.Fatalf("extensions = %d, want 2", len(exts))
	}
}

func TestBusForwarderPublishesTypedEvents(t *testing.T) {
	bus := event.NewChannelBus(16)
	reg := newRegistry()
	reg.Register(ext.NewBusForwarder(bus))

	ctx := context.Background()
	runID := id.NewRunID()
	def := &step.Definition{ID: "load", Name: "Load rows"}

	reg.EmitStepCompleted(ctx, runID, "etl", def, step.Result{
		StepID:   "load",
		Duration: 42 * time.Millisecond,
	})
	reg.EmitWorkflowFailed(ctx, runID, "etl", []string{"step load: boom", "step x: also"})

	evt := <-bus.Events()
	if evt.Type != event.TypeStepCompleted {
		t.Fatalf("first event type = %q, want %q", evt.Type, event.TypeStepCompleted)
	}
	if evt.StepID != "load" || evt.StepName != "Load rows" {
		t.Errorf("step fields = %q/%q", evt.StepID, evt.StepName)
	}
	if evt.Duration != 42*time.Millisecond {
		t.Errorf("duration = %s, want 42ms", evt.Duration)
	}

	evt = <-bus.Events()
	if evt.Type != event.TypeWorkflowFailed {
		t.Fatalf("second event type = %q, want %q", evt.Type, event.TypeWorkflowFailed)
	}
	if evt.Error != "step load: boom" {
		t.Errorf("error = %q, want first failure", evt.Error)
	}
	if evt.Count != 2 {
		t.Errorf("count = %d, want 2", evt.Count)
	}
}
