package middleware

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns middleware that logs every listener call at debug level
// and every failed call at error level.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, c *Call, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("listener failed",
				slog.String("listener", c.Listener),
				slog.String("checkpoint", c.Checkpoint().String()),
				slog.String("run_id", c.Event.Run().String()),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
			return err
		}

		logger.Debug("listener called",
			slog.String("listener", c.Listener),
			slog.String("checkpoint", c.Checkpoint().String()),
			slog.String("run_id", c.Event.Run().String()),
			slog.Duration("elapsed", elapsed),
		)
		return nil
	}
}
