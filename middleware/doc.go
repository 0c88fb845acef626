// Package middleware provides composable wrappers around listener
// invocations.
//
// A [Middleware] wraps the delivery of one event to one listener. The
// registry composes its middleware with [Chain] and runs the chain for
// every listener call. The first middleware in the slice is the outermost
// wrapper.
//
//	// recover → logging → listener
//	reg.Use(middleware.Recover(logger), middleware.Logging(logger))
//
// # Built-in Middleware
//
//   - [Logging] logs the listener, checkpoint and outcome of each call
//   - [Recover] turns a listener panic into an error
//   - [Timeout] bounds the context handed to each listener
//   - [Tracing] wraps each call in an OpenTelemetry span
//   - [Metrics] records per-call duration and outcome counters
//
// # Writing Custom Middleware
//
//	func Audit(w io.Writer) middleware.Middleware {
//	    return func(ctx context.Context, c *middleware.Call, next middleware.Handler) error {
//	        fmt.Fprintf(w, "%s <- %s\n", c.Listener, c.Checkpoint())
//	        return next(ctx)
//	    }
//	}
package middleware
