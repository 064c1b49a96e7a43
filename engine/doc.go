// Package engine implements the workflow executor: wave-based
// dependency scheduling, bounded parallel execution, per-step retry,
// automatic checkpointing, and best-effort rollback of completed work.
//
// Execution proceeds in waves. Each iteration the scheduler computes the
// maximal set of steps whose dependencies are all completed, runs the
// parallel-eligible subset concurrently on the worker pool, then runs
// the sequential subset one at a time in list order. A wave barrier
// separates waves: wave n+1 never starts until every step of wave n has
// reached a terminal status.
package engine
