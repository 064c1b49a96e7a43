package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cascadehq/cascade"
	"github.com/cascadehq/cascade/backoff"
	"github.com/cascadehq/cascade/checkpoint"
	"github.com/cascadehq/cascade/ext"
	"github.com/cascadehq/cascade/id"
	"github.com/cascadehq/cascade/middleware"
	"github.com/cascadehq/cascade/step"
	"github.com/cascadehq/cascade/store/memory"
	"github.com/cascadehq/cascade/worker"
)

// Skip reasons recorded on steps that never ran.
const (
	skipReasonDependencies = "Dependencies not met"
	skipReasonStopped      = "Workflow stopped due to prior failure"
)

// ProgressFunc is invoked exactly once per step after its terminal
// result, on the goroutine that produced the result. It must not block.
type ProgressFunc func(stepID string, res step.Result)

// Executor orchestrates workflow execution: wave scheduling, bounded
// parallel execution, retry, checkpointing, and rollback. Create one
// with New and reuse it across runs; the worker pool is fixed for the
// executor's lifetime.
type Executor struct {
	cfg        cascade.Config
	pool       *worker.Pool
	ckpts      checkpoint.Store
	extensions *ext.Registry
	bo         backoff.Strategy
	mw         middleware.Middleware
	progress   ProgressFunc
	logger     *slog.Logger
}

// New creates an Executor. Without options it uses DefaultConfig, an
// in-memory checkpoint store, no retry delay, and a middleware chain of
// Recover, Timeout, Tracing, Metrics, and Logging. The otel middleware
// degrade to no-ops unless global providers are configured.
func New(opts ...Option) *Executor {
	e := &Executor{
		cfg:    cascade.DefaultConfig(),
		bo:     backoff.DefaultStrategy(),
		logger: slog.Default(),
	}

	var b builder
	for _, opt := range opts {
		opt(e, &b)
	}

	if e.ckpts == nil {
		e.ckpts = memory.New()
	}

	e.extensions = ext.NewRegistry(e.logger)
	for _, x := range b.extensions {
		e.extensions.Register(x)
	}

	base := []middleware.Middleware{
		middleware.Recover(e.logger),
		middleware.Timeout(e.logger),
		middleware.Tracing(),
		middleware.Metrics(),
		middleware.Logging(e.logger),
	}
	e.mw = middleware.Chain(append(base, b.middlewares...)...)

	e.pool = worker.New(e.logger,
		worker.WithSize(e.cfg.MaxWorkers),
		worker.WithRateLimit(e.cfg.DispatchRate, e.cfg.MaxWorkers),
	)
	_ = e.pool.Start(context.Background()) // Start only flips the accepting flag.

	return e
}

// Checkpoints returns the executor's checkpoint store.
func (e *Executor) Checkpoints() checkpoint.Store { return e.ckpts }

// Extensions returns the executor's extension registry.
func (e *Executor) Extensions() *ext.Registry { return e.extensions }

// Shutdown stops the worker pool, waiting up to the configured shutdown
// timeout for outstanding steps, and notifies Shutdown extensions.
func (e *Executor) Shutdown(ctx context.Context) error {
	if e.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.ShutdownTimeout)
		defer cancel()
	}
	err := e.pool.Stop(ctx)
	e.extensions.EmitShutdown(ctx)
	return err
}

// execOptions carries per-run options.
type execOptions struct {
	resumeFrom id.CheckpointID
	metadata   map[string]string
}

// ExecOption configures a single Execute call.
type ExecOption func(*execOptions)

// WithResume resumes the run from the given checkpoint: results, shared
// state, and the completed set are hydrated from its stored copies, and
// steps completed as of the checkpoint are never re-run.
func WithResume(checkpointID id.CheckpointID) ExecOption {
	return func(o *execOptions) { o.resumeFrom = checkpointID }
}

// WithMetadata annotates checkpoints taken during the run.
func WithMetadata(meta map[string]string) ExecOption {
	return func(o *execOptions) { o.metadata = meta }
}

// Execute runs the step set to completion and returns the aggregate
// result. The step set is validated up front; validation errors and an
// unknown resume checkpoint are returned as errors. Step failures never
// surface as errors — they are contained in the result.
//
// The shared state is passed by reference to every action in the run,
// including concurrently running ones; actions must use its guarded
// accessors rather than caching raw contents.
func (e *Executor) Execute(ctx context.Context, steps []step.Definition, workflowType string, state *step.State, opts ...ExecOption) (result *ExecutionResult, err error) {
	if err := Validate(steps); err != nil {
		return nil, err
	}
	if state == nil {
		state = step.NewState(nil)
	}

	var o execOptions
	for _, opt := range opts {
		opt(&o)
	}

	runID := id.NewRunID()
	result = &ExecutionResult{
		RunID:        runID,
		WorkflowType: workflowType,
		Status:       StatusRunning,
		Results:      make(map[string]step.Result, len(steps)),
		StartedAt:    time.Now().UTC(),
	}

	// An executor bug must not escape as a panic: convert to a failed
	// result so a single run cannot crash the caller.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("executor panic",
				slog.String("run_id", runID.String()),
				slog.Any("panic", r),
			)
			result.Errors = append(result.Errors, fmt.Sprintf("internal error: %v", r))
			e.finalize(ctx, steps, result)
			err = nil
		}
	}()

	completed := make(map[string]struct{}, len(steps))

	// Hydrate from the resume checkpoint, if any.
	if !o.resumeFrom.IsNil() {
		cp, loadErr := e.ckpts.GetCheckpoint(ctx, o.resumeFrom)
		if loadErr != nil {
			return nil, loadErr
		}
		if hydrated := step.CloneResults(cp.Results); hydrated != nil {
			result.Results = hydrated
		}
		result.CompletedOrder = append([]string(nil), cp.CompletedOrder...)
		result.Checkpoint = cp
		state.Restore(cp.State)
		for _, stepID := range cp.CompletedOrder {
			completed[stepID] = struct{}{}
		}
		e.logger.Info("resuming from checkpoint",
			slog.String("run_id", runID.String()),
			slog.String("checkpoint_id", cp.ID.String()),
			slog.Int("completed", len(completed)),
		)
	}

	e.extensions.EmitWorkflowStarted(ctx, runID, workflowType)
	e.logger.Info("workflow started",
		slog.String("run_id", runID.String()),
		slog.String("workflow_type", workflowType),
		slog.Int("steps", len(steps)),
	)

	var mu sync.Mutex // guards result.Results, result.CompletedOrder, completed
	seq := len(result.CompletedOrder)

	record := func(res step.Result) {
		mu.Lock()
		if res.Status == step.StatusCompleted {
			seq++
			res.Seq = seq
			result.CompletedOrder = append(result.CompletedOrder, res.StepID)
			completed[res.StepID] = struct{}{}
		}
		result.Results[res.StepID] = res
		mu.Unlock()

		if e.progress != nil {
			e.progress(res.StepID, res)
		}
	}

	wave := 0
	stopped := false
	skipReason := skipReasonStopped

	for !stopped {
		ready := readySteps(steps, completed, result.Results)
		if len(ready) == 0 {
			break
		}
		wave++

		parallel, sequential := partition(ready)
		e.logger.Debug("wave scheduled",
			slog.String("run_id", runID.String()),
			slog.Int("wave", wave),
			slog.Int("parallel", len(parallel)),
			slog.Int("sequential", len(sequential)),
		)

		// Parallel subset: race on the bounded pool. A step failure
		// never cancels its siblings, so the group collects no errors
		// from the steps themselves — only pool/context failures.
		var g errgroup.Group
		for _, def := range parallel {
			g.Go(func() error {
				return e.pool.Do(ctx, func() {
					record(e.runStep(ctx, runID, workflowType, def, state, wave))
				})
			})
		}
		if waitErr := g.Wait(); waitErr != nil {
			result.Errors = append(result.Errors, waitErr.Error())
			skipReason = "Workflow stopped: " + waitErr.Error()
			stopped = true
		}

		// Sequential subset: strictly after the parallel group, one at
		// a time, in list order.
		if !stopped {
			for _, def := range sequential {
				if ctxErr := ctx.Err(); ctxErr != nil {
					result.Errors = append(result.Errors, ctxErr.Error())
					skipReason = "Workflow stopped: " + ctxErr.Error()
					stopped = true
					break
				}
				record(e.runStep(ctx, runID, workflowType, def, state, wave))
			}
		}

		waveFailed := false
		for _, def := range ready {
			if res, ok := result.Results[def.ID]; ok && res.Status == step.StatusFailed {
				waveFailed = true
				break
			}
		}

		if waveFailed && e.cfg.StopOnFailure {
			skipReason = skipReasonStopped
			stopped = true
		}

		if !waveFailed && !stopped && e.cfg.AutoCheckpoint {
			if cp, cpErr := e.CreateCheckpoint(ctx, result, state, o.metadata); cpErr != nil {
				e.logger.Error("auto checkpoint failed",
					slog.String("run_id", runID.String()),
					slog.String("error", cpErr.Error()),
				)
			} else {
				result.Checkpoint = cp
			}
		}
	}

	// Everything still unresolved is skipped: either the run stopped,
	// or no remaining step can ever become ready.
	reason := skipReasonDependencies
	if stopped {
		reason = skipReason
	}
	e.skipUnresolved(steps, result, record, reason)

	e.finalize(ctx, steps, result)
	return result, nil
}

// skipUnresolved marks every step without a terminal result as skipped.
func (e *Executor) skipUnresolved(steps []step.Definition, result *ExecutionResult, record func(step.Result), reason string) {
	for i := range steps {
		def := &steps[i]
		if res, ok := result.Results[def.ID]; ok && res.Status.Terminal() {
			continue
		}
		record(step.Result{
			StepID: def.ID,
			Status: step.StatusSkipped,
			Error:  reason,
		})
	}
}

// finalize stamps timestamps, aggregates errors in submission order, and
// emits the terminal workflow event.
func (e *Executor) finalize(ctx context.Context, steps []step.Definition, result *ExecutionResult) {
	now := time.Now().UTC()
	result.CompletedAt = &now
	result.Duration = now.Sub(result.StartedAt)

	failed := false
	for i := range steps {
		if res, ok := result.Results[steps[i].ID]; ok && res.Status == step.StatusFailed {
			failed = true
			result.Errors = append(result.Errors, fmt.Sprintf("step %s: %s", res.StepID, res.Error))
		}
	}

	if failed || len(result.Errors) > 0 {
		result.Status = StatusFailed
		result.Success = false
		e.extensions.EmitWorkflowFailed(ctx, result.RunID, result.WorkflowType, result.Errors)
		e.logger.Warn("workflow failed",
			slog.String("run_id", result.RunID.String()),
			slog.String("workflow_type", result.WorkflowType),
			slog.Duration("duration", result.Duration),
			slog.Int("errors", len(result.Errors)),
		)
		return
	}

	result.Status = StatusCompleted
	result.Success = true
	e.extensions.EmitWorkflowCompleted(ctx, result.RunID, result.WorkflowType, result.Duration)
	e.logger.Info("workflow completed",
		slog.String("run_id", result.RunID.String()),
		slog.String("workflow_type", result.WorkflowType),
		slog.Duration("duration", result.Duration),
	)
}

// runStep executes one step: up to RetryCount+1 attempts through the
// middleware chain, with the configured backoff delay between attempts.
// Only the final outcome is kept — intermediate failures surface as the
// retry count and the last error.
func (e *Executor) runStep(ctx context.Context, runID id.RunID, workflowType string, def *step.Definition, state *step.State, wave int) step.Result {
	res := step.Result{
		StepID:    def.ID,
		Status:    step.StatusRunning,
		StartedAt: time.Now().UTC(),
		Wave:      wave,
	}

	e.extensions.EmitStepStarted(ctx, runID, workflowType, def)

	var (
		output       map[string]any
		lastErr      error
		attempt      int
		attemptStart time.Time
	)

	for attempt = 0; attempt <= def.RetryCount; attempt++ {
		if attempt > 0 {
			res.RetryAttempts = attempt
			delay := e.bo.Delay(attempt)
			if delay > 0 {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
				}
			}
			e.logger.Info("retrying step",
				slog.String("run_id", runID.String()),
				slog.String("step_id", def.ID),
				slog.Int("attempt", attempt),
				slog.Int("retry_count", def.RetryCount),
			)
		}

		terminal := func(ctx context.Context) error {
			out, runErr := def.Action.Run(ctx, def.Params, state)
			if runErr != nil {
				return runErr
			}
			output = out
			return nil
		}

		attemptStart = time.Now()
		lastErr = e.mw(ctx, def, terminal)
		if lastErr == nil {
			break
		}
	}

	now := time.Now().UTC()
	res.CompletedAt = &now
	res.Duration = time.Since(attemptStart)

	if lastErr != nil {
		res.Status = step.StatusFailed
		res.Error = lastErr.Error()
		e.extensions.EmitStepFailed(ctx, runID, workflowType, def, res)
		return res
	}

	res.Status = step.StatusCompleted
	res.Output = output
	e.extensions.EmitStepCompleted(ctx, runID, workflowType, def, res)
	return res
}

// CreateCheckpoint snapshots the run's current results and shared state
// into a new immutable checkpoint, registers it in the store, and emits
// CheckpointCreated.
func (e *Executor) CreateCheckpoint(ctx context.Context, result *ExecutionResult, state *step.State, meta map[string]string) (*checkpoint.Checkpoint, error) {
	cp := checkpoint.New(result.RunID, result.Results, state.Snapshot(), result.CompletedOrder, meta)
	if err := e.ckpts.SaveCheckpoint(ctx, cp); err != nil {
		return nil, fmt.Errorf("save checkpoint %s: %w", cp.ID, err)
	}

	e.extensions.EmitCheckpointCreated(ctx, result.RunID, result.WorkflowType, cp)
	e.logger.Debug("checkpoint created",
		slog.String("run_id", result.RunID.String()),
		slog.String("checkpoint_id", cp.ID.String()),
		slog.Int("completed", len(cp.CompletedOrder)),
	)
	return cp, nil
}
