package step

import (
	"context"
	"time"
)

// Action executes the business logic of a single step. It receives the
// step's params and the run's shared state, and returns an output map
// merged into the step's result.
//
// Implementations must honor ctx cancellation: when the step has a
// timeout configured, the context carries the deadline.
type Action interface {
	Run(ctx context.Context, params map[string]any, state *State) (map[string]any, error)
}

// ActionFunc adapts an ordinary function to the Action interface.
type ActionFunc func(ctx context.Context, params map[string]any, state *State) (map[string]any, error)

// Run implements Action.
func (f ActionFunc) Run(ctx context.Context, params map[string]any, state *State) (map[string]any, error) {
	return f(ctx, params, state)
}

// RollbackAction undoes the side effects of a completed step. It receives
// only the step's original params: compensating actions are not
// result-aware and must derive everything they need from the params.
type RollbackAction interface {
	Compensate(ctx context.Context, params map[string]any) error
}

// RollbackFunc adapts an ordinary function to the RollbackAction interface.
type RollbackFunc func(ctx context.Context, params map[string]any) error

// Compensate implements RollbackAction.
func (f RollbackFunc) Compensate(ctx context.Context, params map[string]any) error {
	return f(ctx, params)
}

// Definition describes a unit of work within a workflow. Definitions are
// treated as immutable by the engine: it never mutates a Definition after
// submission.
type Definition struct {
	// ID uniquely identifies the step within one submitted step set.
	ID string `json:"id"`

	// Name is a human-readable label used in logs and events.
	Name string `json:"name"`

	// Action is the business logic invoked when the step runs.
	Action Action `json:"-"`

	// DependsOn lists the IDs of steps that must complete before this
	// step becomes ready.
	DependsOn []string `json:"depends_on,omitempty"`

	// Parallel marks the step as eligible for concurrent execution
	// within its wave. Non-parallel steps run one at a time, after the
	// parallel subset of the same wave.
	Parallel bool `json:"parallel"`

	// Required marks the step as required for overall success.
	Required bool `json:"required"`

	// Timeout bounds a single execution attempt. Zero means no deadline.
	// Enforcement is cooperative: the attempt context carries the
	// deadline and the action must honor it.
	Timeout time.Duration `json:"timeout,omitempty"`

	// RetryCount is the number of additional attempts after the first
	// failure. A step is attempted at most RetryCount+1 times.
	RetryCount int `json:"retry_count"`

	// Rollback is the optional compensating action. Steps without one
	// are left untouched by a rollback pass.
	Rollback RollbackAction `json:"-"`

	// Params is the step's input, passed verbatim to Action and Rollback.
	Params map[string]any `json:"params,omitempty"`
}
