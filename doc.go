// Package cascade provides a dependency-aware workflow execution engine
// for Go. Steps declare their dependencies; the engine runs independent
// steps concurrently in waves, sequences dependent ones, retries failing
// steps, snapshots progress into checkpoints, and can roll back completed
// work through caller-supplied compensating actions.
//
// Cascade is designed as a library, not a service. Import it, build your
// step definitions, and hand them to an engine.Executor.
//
// # Quick Start
//
//	exec := engine.New(
//	    engine.WithMaxWorkers(8),
//	    engine.WithCheckpointStore(memory.New()),
//	)
//	res, err := exec.Execute(ctx, steps, "provision", step.NewState(nil))
//
// # Architecture
//
// The step package holds the step model and the guarded shared state.
// The engine package owns wave scheduling, parallel execution, retry,
// checkpointing, and rollback. Checkpoint persistence is a small store
// interface with in-memory and Redis implementations. Lifecycle
// notifications fan out through the ext hook registry and the event bus.
//
// Checkpoint and event IDs use TypeID — type-prefixed, K-sortable,
// UUIDv7-based, compile-time safe identifiers.
package cascade
