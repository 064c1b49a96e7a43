package worker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cascadehq/cascade"
	"github.com/cascadehq/cascade/worker"
)

func newPool(opts ...worker.Option) *worker.Pool {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return worker.New(logger, opts...)
}

func TestDoRunsTask(t *testing.T) {
	p := newPool()
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ran := false
	if err := p.Do(context.Background(), func() { ran = true }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !ran {
		t.Error("task did not run")
	}
}

func TestDoBeforeStart(t *testing.T) {
	p := newPool()

	err := p.Do(context.Background(), func() {})
	if !errors.Is(err, cascade.ErrExecutorStopped) {
		t.Errorf("error = %v, want ErrExecutorStopped", err)
	}
}

func TestConcurrencyCap(t *testing.T) {
	p := newPool(worker.WithSize(2))
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if p.Size() != 2 {
		t.Fatalf("Size = %d, want 2", p.Size())
	}

	var active, peak int64
	var wg sync.WaitGroup
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Do(context.Background(), func() {
				n := atomic.AddInt64(&active, 1)
				for {
					old := atomic.LoadInt64(&peak)
					if n <= old || atomic.CompareAndSwapInt64(&peak, old, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				atomic.AddInt64(&active, -1)
			})
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt64(&peak); got > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", got)
	}
}

func TestStopWaitsForOutstandingTasks(t *testing.T) {
	p := newPool()
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	release := make(chan struct{})
	var done atomic.Bool
	go func() {
		_ = p.Do(context.Background(), func() {
			<-release
			done.Store(true)
		})
	}()

	time.Sleep(10 * time.Millisecond) // let the task start
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !done.Load() {
		t.Error("Stop returned before the in-flight task finished")
	}

	// New work after Stop is refused.
	if err := p.Do(context.Background(), func() {}); !errors.Is(err, cascade.ErrExecutorStopped) {
		t.Errorf("error = %v, want ErrExecutorStopped", err)
	}
}

func TestStopTimeout(t *testing.T) {
	p := newPool()
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = p.Do(context.Background(), func() {
			close(started)
			<-release
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := p.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want DeadlineExceeded", err)
	}
	close(release)
}

func TestWorkerIDPrefix(t *testing.T) {
	p := newPool()
	if p.WorkerID().IsNil() {
		t.Error("pool should carry a worker ID")
	}
}
