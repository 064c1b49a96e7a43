package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cascadehq/cascade/middleware"
	"github.com/cascadehq/cascade/step"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) middleware.Middleware {
		return func(ctx context.Context, def *step.Definition, next middleware.Handler) error {
			order = append(order, name+"-in")
			err := next(ctx)
			order = append(order, name+"-out")
			return err
		}
	}

	chain := middleware.Chain(mw("outer"), mw("inner"))
	err := chain(context.Background(), &step.Definition{ID: "s"}, func(context.Context) error {
		order = append(order, "handler")
		return nil
	})
	if err != nil {
		t.Fatalf("chain: %v", err)
	}

	want := []string{"outer-in", "inner-in", "handler", "inner-out", "outer-out"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestRecoverConvertsPanics(t *testing.T) {
	mw := middleware.Recover(discardLogger())

	err := mw(context.Background(), &step.Definition{ID: "boom"}, func(context.Context) error {
		panic("exploded")
	})
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
}

func TestTimeoutAppliesDeadline(t *testing.T) {
	mw := middleware.Timeout(discardLogger())

	def := &step.Definition{ID: "slow", Timeout: 10 * time.Millisecond}
	err := mw(context.Background(), def, func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want DeadlineExceeded", err)
	}
}

func TestTimeoutZeroMeansNoDeadline(t *testing.T) {
	mw := middleware.Timeout(discardLogger())

	err := mw(context.Background(), &step.Definition{ID: "free"}, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); ok {
			return errors.New("unexpected deadline")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
}

func TestLoggingPassesThrough(t *testing.T) {
	mw := middleware.Logging(discardLogger())

	wantErr := errors.New("downstream failure")
	err := mw(context.Background(), &step.Definition{ID: "s"}, func(context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want %v", err, wantErr)
	}
}
