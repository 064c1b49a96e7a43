package engine

import (
	"log/slog"

	"github.com/cascadehq/cascade"
	"github.com/cascadehq/cascade/backoff"
	"github.com/cascadehq/cascade/checkpoint"
	"github.com/cascadehq/cascade/event"
	"github.com/cascadehq/cascade/ext"
	"github.com/cascadehq/cascade/middleware"
)

// builder collects option inputs that New can only apply once all
// options have been seen (extensions need the final logger, custom
// middleware appends after the base chain).
type builder struct {
	extensions  []ext.Extension
	middlewares []middleware.Middleware
}

// Option configures an Executor.
type Option func(*Executor, *builder)

// WithConfig replaces the executor's configuration wholesale.
func WithConfig(cfg cascade.Config) Option {
	return func(e *Executor, _ *builder) { e.cfg = cfg }
}

// WithMaxWorkers bounds the number of concurrently running steps.
func WithMaxWorkers(n int) Option {
	return func(e *Executor, _ *builder) { e.cfg.MaxWorkers = n }
}

// WithStopOnFailure controls whether a failed wave halts the run. When
// false, execution continues with whatever steps remain eligible.
func WithStopOnFailure(stop bool) Option {
	return func(e *Executor, _ *builder) { e.cfg.StopOnFailure = stop }
}

// WithAutoCheckpoint controls checkpointing after each fully successful
// wave.
func WithAutoCheckpoint(auto bool) Option {
	return func(e *Executor, _ *builder) { e.cfg.AutoCheckpoint = auto }
}

// WithCheckpointStore sets the checkpoint store. Defaults to the
// in-memory store.
func WithCheckpointStore(s checkpoint.Store) Option {
	return func(e *Executor, _ *builder) { e.ckpts = s }
}

// WithExtension registers a lifecycle extension.
func WithExtension(x ext.Extension) Option {
	return func(_ *Executor, b *builder) { b.extensions = append(b.extensions, x) }
}

// WithEventBus forwards every lifecycle hook to the bus as a typed
// event. Publishing is fire-and-forget.
func WithEventBus(bus event.Bus) Option {
	return func(_ *Executor, b *builder) {
		b.extensions = append(b.extensions, ext.NewBusForwarder(bus))
	}
}

// WithBackoff sets the delay strategy between retry attempts. The
// default is no delay.
func WithBackoff(s backoff.Strategy) Option {
	return func(e *Executor, _ *builder) { e.bo = s }
}

// WithMiddleware appends middleware to the step execution chain, inside
// the built-in Recover, Timeout, Tracing, Metrics, and Logging layers.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(_ *Executor, b *builder) { b.middlewares = append(b.middlewares, mws...) }
}

// WithProgress sets the per-step progress callback. It is invoked
// synchronously on the goroutine that produced the result.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Executor, _ *builder) { e.progress = fn }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor, _ *builder) {
		if logger != nil {
			e.logger = logger
		}
	}
}
