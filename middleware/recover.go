package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Recover returns middleware that recovers from a listener panic. The
// panic is logged with its stack trace and returned as an error.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, c *Call, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("listener panicked",
					slog.String("listener", c.Listener),
					slog.String("checkpoint", c.Checkpoint().String()),
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())),
				)
				retErr = fmt.Errorf("panic in listener %s at %s: %v", c.Listener, c.Checkpoint(), r)
			}
		}()
		return next(ctx)
	}
}
