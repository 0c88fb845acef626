package middleware

import (
	"context"
	"log/slog"
	"time"
)

// Timeout returns middleware that gives each listener call a context with
// the given deadline. Dispatch stays synchronous: a listener that ignores
// its context is not interrupted. A non-positive d disables the deadline.
func Timeout(logger *slog.Logger, d time.Duration) Middleware {
	return func(ctx context.Context, c *Call, next Handler) error {
		if d <= 0 {
			return next(ctx)
		}

		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		err := next(ctx)
		if ctx.Err() == context.DeadlineExceeded {
			logger.Warn("listener exceeded deadline",
				slog.String("listener", c.Listener),
				slog.String("checkpoint", c.Checkpoint().String()),
				slog.Duration("timeout", d),
			)
		}
		return err
	}
}
