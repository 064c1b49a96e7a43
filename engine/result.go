package engine

import (
	"time"

	"github.com/cascadehq/cascade/checkpoint"
	"github.com/cascadehq/cascade/id"
	"github.com/cascadehq/cascade/step"
)

// Status represents the overall state of a run.
type Status string

const (
	// StatusPending means the run has not started.
	StatusPending Status = "pending"
	// StatusRunning means the run is executing waves.
	StatusRunning Status = "running"
	// StatusCompleted means every step completed or was skipped without
	// any failure.
	StatusCompleted Status = "completed"
	// StatusFailed means at least one step failed.
	StatusFailed Status = "failed"
	// StatusRolledBack means a rollback pass reverted the run's
	// completed work.
	StatusRolledBack Status = "rolled_back"
	// StatusPaused means the run stopped at a checkpoint without
	// reaching a terminal outcome.
	StatusPaused Status = "paused"
)

// ExecutionResult aggregates the outcome of one Execute call. The
// results map is owned by the caller once Execute returns; a later
// Rollback pass mutates it in place.
type ExecutionResult struct {
	RunID        id.RunID `json:"run_id"`
	WorkflowType string   `json:"workflow_type"`

	Success bool   `json:"success"`
	Status  Status `json:"status"`

	// Results holds the terminal result of every submitted step.
	Results map[string]step.Result `json:"results"`

	// CompletedOrder lists step IDs in completion order. Rollback walks
	// it in reverse.
	CompletedOrder []string `json:"completed_order,omitempty"`

	// Checkpoint is the last checkpoint taken during the run, if any.
	// The full registry stays queryable through the checkpoint store.
	Checkpoint *checkpoint.Checkpoint `json:"checkpoint,omitempty"`

	StartedAt   time.Time     `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	Duration    time.Duration `json:"duration"`

	// Errors collects failure messages from failed steps and failed
	// rollback actions.
	Errors []string `json:"errors,omitempty"`
}

// Completed returns the IDs of steps currently completed, in completion
// order.
func (r *ExecutionResult) Completed() []string {
	out := make([]string, 0, len(r.CompletedOrder))
	for _, stepID := range r.CompletedOrder {
		if res, ok := r.Results[stepID]; ok && res.Status == step.StatusCompleted {
			out = append(out, stepID)
		}
	}
	return out
}
