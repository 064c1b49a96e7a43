package ext

import (
	"context"
	"log/slog"
	"time"

	"github.com/cascadehq/cascade/checkpoint"
	"github.com/cascadehq/cascade/id"
	"github.com/cascadehq/cascade/step"
)

// Named entry types pair a hook implementation with the extension name
// captured at registration time. This avoids type-asserting back to
// Extension inside the emit methods.
type stepStartedEntry struct {
	name string
	hook StepStarted
}

type stepCompletedEntry struct {
	name string
	hook StepCompleted
}

type stepFailedEntry struct {
	name string
	hook StepFailed
}

type workflowStartedEntry struct {
	name string
	hook WorkflowStarted
}

type workflowCompletedEntry struct {
	name string
	hook WorkflowCompleted
}

type workflowFailedEntry struct {
	name string
	hook WorkflowFailed
}

type checkpointCreatedEntry struct {
	name string
	hook CheckpointCreated
}

type rollbackStartedEntry struct {
	name string
	hook RollbackStarted
}

type rollbackCompletedEntry struct {
	name string
	hook RollbackCompleted
}

type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry fans each lifecycle event out to every registered extension
// that implements the corresponding hook. Hook errors are logged and
// never propagate into the engine.
type Registry struct {
	logger     *slog.Logger
	extensions []Extension

	stepStarted       []stepStartedEntry
	stepCompleted     []stepCompletedEntry
	stepFailed        []stepFailedEntry
	workflowStarted   []workflowStartedEntry
	workflowCompleted []workflowCompletedEntry
	workflowFailed    []workflowFailedEntry
	checkpointCreated []checkpointCreatedEntry
	rollbackStarted   []rollbackStartedEntry
	rollbackCompleted []rollbackCompletedEntry
	shutdown          []shutdownEntry
}

// NewRegistry creates an extension registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register adds an extension and type-asserts it into all applicable
// hook caches. Extensions are notified in registration order.
func (r *Registry) Register(e Extension) {
	r.extensions = append(r.extensions, e)
	name := e.Name()

	if h, ok := e.(StepStarted); ok {
		r.stepStarted = append(r.stepStarted, stepStartedEntry{name, h})
	}
	if h, ok := e.(StepCompleted); ok {
		r.stepCompleted = append(r.stepCompleted, stepCompletedEntry{name, h})
	}
	if h, ok := e.(StepFailed); ok {
		r.stepFailed = append(r.stepFailed, stepFailedEntry{name, h})
	}
	if h, ok := e.(WorkflowStarted); ok {
		r.workflowStarted = append(r.workflowStarted, workflowStartedEntry{name, h})
	}
	if h, ok := e.(WorkflowCompleted); ok {
		r.workflowCompleted = append(r.workflowCompleted, workflowCompletedEntry{name, h})
	}
	if h, ok := e.(WorkflowFailed); ok {
		r.workflowFailed = append(r.workflowFailed, workflowFailedEntry{name, h})
	}
	if h, ok := e.(CheckpointCreated); ok {
		r.checkpointCreated = append(r.checkpointCreated, checkpointCreatedEntry{name, h})
	}
	if h, ok := e.(RollbackStarted); ok {
		r.rollbackStarted = append(r.rollbackStarted, rollbackStartedEntry{name, h})
	}
	if h, ok := e.(RollbackCompleted); ok {
		r.rollbackCompleted = append(r.rollbackCompleted, rollbackCompletedEntry{name, h})
	}
	if h, ok := e.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Extensions returns all registered extensions.
func (r *Registry) Extensions() []Extension { return r.extensions }

// ──────────────────────────────────────────────────
// Step event emitters
// ──────────────────────────────────────────────────

// EmitStepStarted notifies all extensions that implement StepStarted.
func (r *Registry) EmitStepStarted(ctx context.Context, runID id.RunID, workflowType string, def *step.Definition) {
	for _, e := range r.stepStarted {
		if err := e.hook.OnStepStarted(ctx, runID, workflowType, def); err != nil {
			r.logHookError("OnStepStarted", e.name, err)
		}
	}
}

// EmitStepCompleted notifies all extensions that implement StepCompleted.
func (r *Registry) EmitStepCompleted(ctx context.Context, runID id.RunID, workflowType string, def *step.Definition, res step.Result) {
	for _, e := range r.stepCompleted {
		if err := e.hook.OnStepCompleted(ctx, runID, workflowType, def, res); err != nil {
			r.logHookError("OnStepCompleted", e.name, err)
		}
	}
}

// EmitStepFailed notifies all extensions that implement StepFailed.
func (r *Registry) EmitStepFailed(ctx context.Context, runID id.RunID, workflowType string, def *step.Definition, res step.Result) {
	for _, e := range r.stepFailed {
		if err := e.hook.OnStepFailed(ctx, runID, workflowType, def, res); err != nil {
			r.logHookError("OnStepFailed", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Workflow event emitters
// ──────────────────────────────────────────────────

// EmitWorkflowStarted notifies all extensions that implement WorkflowStarted.
func (r *Registry) EmitWorkflowStarted(ctx context.Context, runID id.RunID, workflowType string) {
	for _, e := range r.workflowStarted {
		if err := e.hook.OnWorkflowStarted(ctx, runID, workflowType); err != nil {
			r.logHookError("OnWorkflowStarted", e.name, err)
		}
	}
}

// EmitWorkflowCompleted notifies all extensions that implement WorkflowCompleted.
func (r *Registry) EmitWorkflowCompleted(ctx context.Context, runID id.RunID, workflowType string, elapsed time.Duration) {
	for _, e := range r.workflowCompleted {
		if err := e.hook.OnWorkflowCompleted(ctx, runID, workflowType, elapsed); err != nil {
			r.logHookError("OnWorkflowCompleted", e.name, err)
		}
	}
}

// EmitWorkflowFailed notifies all extensions that implement WorkflowFailed.
func (r *Registry) EmitWorkflowFailed(ctx context.Context, runID id.RunID, workflowType string, errs []string) {
	for _, e := range r.workflowFailed {
		if err := e.hook.OnWorkflowFailed(ctx, runID, workflowType, errs); err != nil {
			r.logHookError("OnWorkflowFailed", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Checkpoint and rollback emitters
// ──────────────────────────────────────────────────

// EmitCheckpointCreated notifies all extensions that implement CheckpointCreated.
func (r *Registry) EmitCheckpointCreated(ctx context.Context, runID id.RunID, workflowType string, cp *checkpoint.Checkpoint) {
	for _, e := range r.checkpointCreated {
		if err := e.hook.OnCheckpointCreated(ctx, runID, workflowType, cp); err != nil {
			r.logHookError("OnCheckpointCreated", e.name, err)
		}
	}
}

// EmitRollbackStarted notifies all extensions that implement RollbackStarted.
func (r *Registry) EmitRollbackStarted(ctx context.Context, runID id.RunID, workflowType string, reason string, count int) {
	for _, e := range r.rollbackStarted {
		if err := e.hook.OnRollbackStarted(ctx, runID, workflowType, reason, count); err != nil {
			r.logHookError("OnRollbackStarted", e.name, err)
		}
	}
}

// EmitRollbackCompleted notifies all extensions that implement RollbackCompleted.
func (r *Registry) EmitRollbackCompleted(ctx context.Context, runID id.RunID, workflowType string, reason string, count int) {
	for _, e := range r.rollbackCompleted {
		if err := e.hook.OnRollbackCompleted(ctx, runID, workflowType, reason, count); err != nil {
			r.logHookError("OnRollbackCompleted", e.name, err)
		}
	}
}

// EmitShutdown notifies all extensions that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

func (r *Registry) logHookError(hook, extension string, err error) {
	r.logger.Warn("extension hook error",
		slog.String("hook", hook),
		slog.String("extension", extension),
		slog.String("error", err.Error()),
	)
}
