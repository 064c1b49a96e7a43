// Package checkpoint defines the point-in-time snapshot type taken after
// successful waves, and the store interface that retains snapshots for
// resume and rollback targeting.
package checkpoint

import (
	"time"

	"github.com/cascadehq/cascade/id"
	"github.com/cascadehq/cascade/step"
)

// Checkpoint is an immutable snapshot of a run: deep copies of the step
// results and the shared workflow state, plus the completion order at the
// moment the snapshot was taken. Once created a checkpoint is never
// mutated; stores hand out clones.
type Checkpoint struct {
	ID        id.CheckpointID `json:"id"`
	RunID     id.RunID        `json:"run_id"`
	CreatedAt time.Time       `json:"created_at"`

	// Results is a deep copy of the per-step results at snapshot time.
	Results map[string]step.Result `json:"results"`

	// State is a deep copy of the shared workflow state.
	State map[string]any `json:"state,omitempty"`

	// CompletedOrder lists step IDs in true completion order. Rollback
	// uses it to reverse work in reverse-chronological order, and Seq
	// comparisons use its length to decide "completed after this
	// checkpoint".
	CompletedOrder []string `json:"completed_order"`

	// Metadata carries free-form annotations (workflow type, wave number).
	Metadata map[string]string `json:"metadata,omitempty"`
}

// New builds a checkpoint from live run data, deep-copying everything so
// the snapshot is independent of later mutations.
func New(runID id.RunID, results map[string]step.Result, state map[string]any, order []string, meta map[string]string) *Checkpoint {
	cp := &Checkpoint{
		ID:             id.NewCheckpointID(),
		RunID:          runID,
		CreatedAt:      time.Now().UTC(),
		Results:        step.CloneResults(results),
		CompletedOrder: append([]string(nil), order...),
	}
	cp.State = step.CloneMap(state)
	if len(meta) > 0 {
		cp.Metadata = make(map[string]string, len(meta))
		for k, v := range meta {
			cp.Metadata[k] = v
		}
	}
	return cp
}

// Completed reports whether the given step was completed as of this
// checkpoint.
func (c *Checkpoint) Completed(stepID string) bool {
	res, ok := c.Results[stepID]
	return ok && res.Status == step.StatusCompleted
}

// Clone returns an independent deep copy of the checkpoint.
func (c *Checkpoint) Clone() *Checkpoint {
	cp := &Checkpoint{
		ID:             c.ID,
		RunID:          c.RunID,
		CreatedAt:      c.CreatedAt,
		Results:        step.CloneResults(c.Results),
		CompletedOrder: append([]string(nil), c.CompletedOrder...),
	}
	cp.State = step.CloneMap(c.State)
	if len(c.Metadata) > 0 {
		cp.Metadata = make(map[string]string, len(c.Metadata))
		for k, v := range c.Metadata {
			cp.Metadata[k] = v
		}
	}
	return cp
}
