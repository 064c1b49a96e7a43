package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/cascadehq/cascade/step"
)

// Logging returns middleware that logs step attempt start and completion.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, def *step.Definition, next Handler) error {
		logger.Debug("step attempt started",
			slog.String("step_id", def.ID),
			slog.String("step_name", def.Name),
		)

		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("step attempt failed",
				slog.String("step_id", def.ID),
				slog.String("step_name", def.Name),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Debug("step attempt completed",
				slog.String("step_id", def.ID),
				slog.String("step_name", def.Name),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}
