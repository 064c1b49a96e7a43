package middleware

import (
	"context"
	"log/slog"

	"github.com/cascadehq/cascade/step"
)

// Timeout returns middleware that enforces a per-step attempt deadline.
// If the step has a non-zero Timeout, a context.WithTimeout wraps the
// handler call. Enforcement is cooperative: when the deadline is
// exceeded the context is cancelled and the action should return
// context.DeadlineExceeded, which counts as a failed (retryable) attempt.
func Timeout(logger *slog.Logger) Middleware {
	return func(ctx context.Context, def *step.Definition, next Handler) error {
		if def.Timeout > 0 {
			logger.Debug("step timeout set",
				slog.String("step_id", def.ID),
				slog.Duration("timeout", def.Timeout),
			)
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, def.Timeout)
			defer cancel()
		}
		return next(ctx)
	}
}
