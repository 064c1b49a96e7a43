// Package observability provides a ready-made metrics extension that
// records workflow lifecycle counters through OpenTelemetry. Register it
// on an engine to track run starts, completions, failures, step
// outcomes, checkpoints, and rollbacks without writing custom hooks.
package observability
