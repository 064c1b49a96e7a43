// Package ext defines the extension system for Cascade.
//
// Extensions are notified of lifecycle events and can react to them —
// recording metrics, forwarding to an event bus, writing audit logs.
// Each lifecycle hook is a separate interface so extensions opt in only
// to the events they care about.
//
// # Implementing an Extension
//
//	type MyExtension struct{}
//
//	func (e *MyExtension) Name() string { return "my-extension" }
//
//	// Opt in to specific hooks by implementing their interfaces.
//	func (e *MyExtension) OnStepCompleted(ctx context.Context, runID id.RunID, workflowType string, def *step.Definition, res step.Result) error {
//	    log.Printf("step %s completed in %s", def.ID, res.Duration)
//	    return nil
//	}
//
// The [Registry] fans out each event to all registered extensions that
// implement the corresponding hook interface.
package ext

import (
	"context"
	"time"

	"github.com/cascadehq/cascade/checkpoint"
	"github.com/cascadehq/cascade/id"
	"github.com/cascadehq/cascade/step"
)

// Extension is the base interface all extensions must implement.
type Extension interface {
	// Name returns a unique human-readable name for the extension.
	Name() string
}

// ──────────────────────────────────────────────────
// Step lifecycle hooks
// ──────────────────────────────────────────────────

// StepStarted is called when a step begins its first attempt.
type StepStarted interface {
	OnStepStarted(ctx context.Context, runID id.RunID, workflowType string, def *step.Definition) error
}

// StepCompleted is called after a step reaches completed.
type StepCompleted interface {
	OnStepCompleted(ctx context.Context, runID id.RunID, workflowType string, def *step.Definition, res step.Result) error
}

// StepFailed is called when a step fails after exhausting retries.
type StepFailed interface {
	OnStepFailed(ctx context.Context, runID id.RunID, workflowType string, def *step.Definition, res step.Result) error
}

// ──────────────────────────────────────────────────
// Workflow lifecycle hooks
// ──────────────────────────────────────────────────

// WorkflowStarted is called when a run begins.
type WorkflowStarted interface {
	OnWorkflowStarted(ctx context.Context, runID id.RunID, workflowType string) error
}

// WorkflowCompleted is called after a run finishes with every step
// completed or skipped-without-failure.
type WorkflowCompleted interface {
	OnWorkflowCompleted(ctx context.Context, runID id.RunID, workflowType string, elapsed time.Duration) error
}

// WorkflowFailed is called when a run finishes with at least one failed step.
type WorkflowFailed interface {
	OnWorkflowFailed(ctx context.Context, runID id.RunID, workflowType string, errs []string) error
}

// ──────────────────────────────────────────────────
// Checkpoint and rollback hooks
// ──────────────────────────────────────────────────

// CheckpointCreated is called after a checkpoint is registered.
type CheckpointCreated interface {
	OnCheckpointCreated(ctx context.Context, runID id.RunID, workflowType string, cp *checkpoint.Checkpoint) error
}

// RollbackStarted is called before the first compensating action runs.
type RollbackStarted interface {
	OnRollbackStarted(ctx context.Context, runID id.RunID, workflowType string, reason string, count int) error
}

// RollbackCompleted is called after every targeted rollback was attempted.
// count is the number of steps successfully rolled back.
type RollbackCompleted interface {
	OnRollbackCompleted(ctx context.Context, runID id.RunID, workflowType string, reason string, count int) error
}

// Shutdown is called during graceful executor shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
