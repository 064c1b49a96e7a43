package ext

import (
	"context"
	"time"

	"github.com/cascadehq/cascade/checkpoint"
	"github.com/cascadehq/cascade/event"
	"github.com/cascadehq/cascade/id"
	"github.com/cascadehq/cascade/step"
)

// Compile-time interface checks.
var (
	_ Extension         = (*BusForwarder)(nil)
	_ StepStarted       = (*BusForwarder)(nil)
	_ StepCompleted     = (*BusForwarder)(nil)
	_ StepFailed        = (*BusForwarder)(nil)
	_ WorkflowStarted   = (*BusForwarder)(nil)
	_ WorkflowCompleted = (*BusForwarder)(nil)
	_ WorkflowFailed    = (*BusForwarder)(nil)
	_ CheckpointCreated = (*BusForwarder)(nil)
	_ RollbackStarted   = (*BusForwarder)(nil)
	_ RollbackCompleted = (*BusForwarder)(nil)
)

// BusForwarder converts lifecycle hooks into event.Events and publishes
// them on a Bus. Register it so the engine's notifications reach external
// subscribers; publishing is fire-and-forget per the Bus contract.
type BusForwarder struct {
	bus event.Bus
}

// NewBusForwarder creates a forwarder publishing on the given bus.
func NewBusForwarder(bus event.Bus) *BusForwarder {
	return &BusForwarder{bus: bus}
}

// Name implements Extension.
func (f *BusForwarder) Name() string { return "event-bus-forwarder" }

// OnStepStarted implements StepStarted.
func (f *BusForwarder) OnStepStarted(ctx context.Context, runID id.RunID, workflowType string, def *step.Definition) error {
	evt := event.New(event.TypeStepStarted)
	evt.RunID = runID
	evt.WorkflowType = workflowType
	evt.StepID = def.ID
	evt.StepName = def.Name
	return f.bus.Publish(ctx, evt)
}

// OnStepCompleted implements StepCompleted.
func (f *BusForwarder) OnStepCompleted(ctx context.Context, runID id.RunID, workflowType string, def *step.Definition, res step.Result) error {
	evt := event.New(event.TypeStepCompleted)
	evt.RunID = runID
	evt.WorkflowType = workflowType
	evt.StepID = def.ID
	evt.StepName = def.Name
	evt.Duration = res.Duration
	return f.bus.Publish(ctx, evt)
}

// OnStepFailed implements StepFailed.
func (f *BusForwarder) OnStepFailed(ctx context.Context, runID id.RunID, workflowType string, def *step.Definition, res step.Result) error {
	evt := event.New(event.TypeStepFailed)
	evt.RunID = runID
	evt.WorkflowType = workflowType
	evt.StepID = def.ID
	evt.StepName = def.Name
	evt.Duration = res.Duration
	evt.Error = res.Error
	return f.bus.Publish(ctx, evt)
}

// OnWorkflowStarted implements WorkflowStarted.
func (f *BusForwarder) OnWorkflowStarted(ctx context.Context, runID id.RunID, workflowType string) error {
	evt := event.New(event.TypeWorkflowStarted)
	evt.RunID = runID
	evt.WorkflowType = workflowType
	return f.bus.Publish(ctx, evt)
}

// OnWorkflowCompleted implements WorkflowCompleted.
func (f *BusForwarder) OnWorkflowCompleted(ctx context.Context, runID id.RunID, workflowType string, elapsed time.Duration) error {
	evt := event.New(event.TypeWorkflowCompleted)
	evt.RunID = runID
	evt.WorkflowType = workflowType
	evt.Duration = elapsed
	return f.bus.Publish(ctx, evt)
}

// OnWorkflowFailed implements WorkflowFailed.
func (f *BusForwarder) OnWorkflowFailed(ctx context.Context, runID id.RunID, workflowType string, errs []string) error {
	evt := event.New(event.TypeWorkflowFailed)
	evt.RunID = runID
	evt.WorkflowType = workflowType
	if len(errs) > 0 {
		evt.Error = errs[0]
	}
	evt.Count = len(errs)
	return f.bus.Publish(ctx, evt)
}

// OnCheckpointCreated implements CheckpointCreated.
func (f *BusForwarder) OnCheckpointCreated(ctx context.Context, runID id.RunID, workflowType string, cp *checkpoint.Checkpoint) error {
	evt := event.New(event.TypeCheckpointCreated)
	evt.RunID = runID
	evt.WorkflowType = workflowType
	evt.CheckpointID = cp.ID
	return f.bus.Publish(ctx, evt)
}

// OnRollbackStarted implements RollbackStarted.
func (f *BusForwarder) OnRollbackStarted(ctx context.Context, runID id.RunID, workflowType string, reason string, count int) error {
	evt := event.New(event.TypeRollbackStarted)
	evt.RunID = runID
	evt.WorkflowType = workflowType
	evt.Reason = reason
	evt.Count = count
	return f.bus.Publish(ctx, evt)
}

// OnRollbackCompleted implements RollbackCompleted.
func (f *BusForwarder) OnRollbackCompleted(ctx context.Context, runID id.RunID, workflowType string, reason string, count int) error {
	evt := event.New(event.TypeRollbackCompleted)
	evt.RunID = runID
	evt.WorkflowType = workflowType
	evt.Reason = reason
	evt.Count = count
	return f.bus.Publish(ctx, evt)
}
