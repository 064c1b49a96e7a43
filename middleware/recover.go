package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/cascadehq/cascade/step"
)

// Recover returns middleware that recovers from panics in the handler
// chain. Panics are converted to errors and logged with a stack trace,
// so a panicking action surfaces as a failed attempt instead of crashing
// the run.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, def *step.Definition, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("step action panicked",
					slog.String("step_id", def.ID),
					slog.String("step_name", def.Name),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				retErr = fmt.Errorf("panic in step %s: %v", def.ID, r)
			}
		}()
		return next(ctx)
	}
}
