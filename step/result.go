package step

import "time"

// Status represents the lifecycle state of a step within one run.
type Status string

const (
	// StatusPending means the step has not been attempted yet.
	StatusPending Status = "pending"
	// StatusRunning means the step is currently executing.
	StatusRunning Status = "running"
	// StatusCompleted means the step finished successfully.
	StatusCompleted Status = "completed"
	// StatusFailed means the step failed after exhausting its retries.
	StatusFailed Status = "failed"
	// StatusSkipped means the step never ran: a dependency failed or the
	// run halted before the step became ready.
	StatusSkipped Status = "skipped"
	// StatusRolledBack means the step's compensating action ran
	// successfully during an explicit rollback.
	StatusRolledBack Status = "rolled_back"
)

// Terminal reports whether the status is a final outcome for a run.
// Rolled-back counts as terminal: it is only reachable from completed.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusSkipped, StatusRolledBack:
		return true
	default:
		return false
	}
}

// Result records the outcome of one step within a run. Results are owned
// exclusively by the executor for the duration of the run; callers see
// them via the final ExecutionResult or checkpoint snapshots.
type Result struct {
	StepID      string         `json:"step_id"`
	Status      Status         `json:"status"`
	StartedAt   time.Time      `json:"started_at,omitzero"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Output      map[string]any `json:"output,omitempty"`
	Error       string         `json:"error,omitempty"`

	// RetryAttempts is the number of retries actually performed.
	// It never exceeds the definition's RetryCount.
	RetryAttempts int `json:"retry_attempts"`

	// Duration is the wall-clock time of the final attempt.
	Duration time.Duration `json:"duration"`

	// Wave is the scheduling wave the step ran in (1-indexed, zero for
	// steps that never ran).
	Wave int `json:"wave,omitempty"`

	// Seq is the step's position in the run's completion order
	// (1-indexed, zero for steps that never completed). Checkpoints use
	// it to decide which work happened after a snapshot.
	Seq int `json:"seq,omitempty"`
}

// Clone returns an independent copy of the result, including a deep copy
// of the output map.
func (r Result) Clone() Result {
	cp := r
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		cp.CompletedAt = &t
	}
	if r.Output != nil {
		cp.Output = cloneMap(r.Output)
	}
	return cp
}

// CloneResults deep-copies a result map. Used by checkpoints to take
// independent snapshots.
func CloneResults(results map[string]Result) map[string]Result {
	if results == nil {
		return nil
	}
	cp := make(map[string]Result, len(results))
	for k, v := range results {
		cp[k] = v.Clone()
	}
	return cp
}

// CloneMap deep-copies a value map: nested maps and slices are copied
// recursively, scalar values as-is. Caller-supplied pointer values are
// shared, which is documented on the State snapshot contract.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return cloneMap(m)
}

func cloneMap(m map[string]any) map[string]any {
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = cloneValue(v)
	}
	return cp
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		cp := make([]any, len(t))
		for i, e := range t {
			cp[i] = cloneValue(e)
		}
		return cp
	default:
		return v
	}
}
