package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cascadehq/cascade/id"
	"github.com/cascadehq/cascade/step"
)

// rollbackOptions carries per-rollback options.
type rollbackOptions struct {
	toCheckpoint id.CheckpointID
}

// RollbackOption configures a single Rollback call.
type RollbackOption func(*rollbackOptions)

// RollbackTo restores to the given checkpoint instead of undoing
// everything: only steps completed after the checkpoint was taken are
// compensated.
func RollbackTo(checkpointID id.CheckpointID) RollbackOption {
	return func(o *rollbackOptions) { o.toCheckpoint = checkpointID }
}

// Rollback compensates the run's completed steps in reverse completion
// order. Steps without a rollback action are silently left as they are.
// Compensation is best-effort: a failing rollback action is recorded in
// the result's errors and the pass continues with the remaining steps.
//
// An unknown target checkpoint is the only error return; individual
// compensation failures never abort the pass.
func (e *Executor) Rollback(ctx context.Context, steps []step.Definition, result *ExecutionResult, reason string, opts ...RollbackOption) error {
	var o rollbackOptions
	for _, opt := range opts {
		opt(&o)
	}

	// Steps completed as of the target checkpoint stay untouched.
	preserved := make(map[string]struct{})
	if !o.toCheckpoint.IsNil() {
		cp, err := e.ckpts.GetCheckpoint(ctx, o.toCheckpoint)
		if err != nil {
			return err
		}
		for _, stepID := range cp.CompletedOrder {
			preserved[stepID] = struct{}{}
		}
	}

	byID := make(map[string]*step.Definition, len(steps))
	for i := range steps {
		byID[steps[i].ID] = &steps[i]
	}

	var targets []string
	for _, stepID := range result.Completed() {
		if _, keep := preserved[stepID]; !keep {
			targets = append(targets, stepID)
		}
	}

	e.extensions.EmitRollbackStarted(ctx, result.RunID, result.WorkflowType, reason, len(targets))
	e.logger.Info("rollback started",
		slog.String("run_id", result.RunID.String()),
		slog.String("reason", reason),
		slog.Int("targets", len(targets)),
	)

	rolledBack := 0
	allOK := true
	for i := len(targets) - 1; i >= 0; i-- {
		stepID := targets[i]
		def, ok := byID[stepID]
		if !ok || def.Rollback == nil {
			continue
		}

		if err := def.Rollback.Compensate(ctx, def.Params); err != nil {
			allOK = false
			result.Errors = append(result.Errors, fmt.Sprintf("rollback step %s: %s", stepID, err))
			e.logger.Error("rollback step failed",
				slog.String("run_id", result.RunID.String()),
				slog.String("step_id", stepID),
				slog.String("error", err.Error()),
			)
			continue
		}

		res := result.Results[stepID]
		res.Status = step.StatusRolledBack
		result.Results[stepID] = res
		rolledBack++
	}

	if allOK && len(targets) > 0 {
		result.Status = StatusRolledBack
	}

	e.extensions.EmitRollbackCompleted(ctx, result.RunID, result.WorkflowType, reason, rolledBack)
	e.logger.Info("rollback completed",
		slog.String("run_id", result.RunID.String()),
		slog.String("reason", reason),
		slog.Int("rolled_back", rolledBack),
	)
	return nil
}
