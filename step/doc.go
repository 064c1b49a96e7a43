// Package step defines the workflow step model: step definitions with
// declared dependencies, the action and rollback interfaces supplied by
// callers, per-step results, and the mutex-guarded shared workflow state.
package step
