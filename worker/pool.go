// Package worker provides the bounded execution pool used by the engine
// to run the parallel-eligible subset of a wave. Capacity is fixed for
// the pool's lifetime; shutdown waits for outstanding work to finish.
package worker

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/cascadehq/cascade"
	"github.com/cascadehq/cascade/id"
)

// Task is a unit of work executed on the pool.
type Task func()

// Pool bounds concurrent task execution with a weighted semaphore.
// Do blocks until a slot is free, runs the task, and returns when the
// task has finished, so callers can fan out with errgroup and rely on
// the pool for the concurrency cap.
type Pool struct {
	workerID id.WorkerID
	sem      *semaphore.Weighted
	size     int64
	limiter  *rate.Limiter
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

// Option configures a Pool.
type Option func(*Pool)

// WithSize sets the maximum number of concurrently running tasks.
func WithSize(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.size = int64(n)
		}
	}
}

// WithRateLimit throttles task dispatch to perSecond starts with the
// given burst. Zero perSecond disables the limiter.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(p *Pool) {
		if perSecond > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// New creates a pool. The default size is 10.
func New(logger *slog.Logger, opts ...Option) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pool{
		workerID: id.NewWorkerID(),
		size:     10,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.sem = semaphore.NewWeighted(p.size)
	return p
}

// WorkerID returns the pool's unique identifier.
func (p *Pool) WorkerID() id.WorkerID { return p.workerID }

// Size returns the pool's fixed capacity.
func (p *Pool) Size() int { return int(p.size) }

// Start marks the pool as accepting work.
func (p *Pool) Start(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}
	p.running = true

	p.logger.Info("worker pool started",
		slog.String("worker_id", p.workerID.String()),
		slog.Int("size", int(p.size)),
	)
	return nil
}

// Do runs the task on the pool, blocking until a slot is free and the
// task has finished. Returns cascade.ErrExecutorStopped if the pool is
// not accepting work, or the context error if acquisition is cancelled.
func (p *Pool) Do(ctx context.Context, task Task) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return cascade.ErrExecutorStopped
	}
	p.wg.Add(1)
	p.mu.Unlock()
	defer p.wg.Done()

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)

	task()
	return nil
}

// Stop refuses new work and waits for outstanding tasks to finish.
// If the context expires first, Stop returns its error; tasks already
// running are not cancelled (there is no in-flight cancellation).
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	p.mu.Unlock()

	p.logger.Info("worker pool stopping", slog.String("worker_id", p.workerID.String()))

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool stopped gracefully")
		return nil
	case <-ctx.Done():
		p.logger.Warn("worker pool shutdown timed out with tasks still running")
		return ctx.Err()
	}
}
