package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope name for kickstart tracing.
const tracerName = "github.com/xraph/kickstart"

// Tracing returns middleware that wraps each listener call in an
// OpenTelemetry span, using the global TracerProvider.
//
// Span attributes: kickstart.run_id, kickstart.checkpoint,
// kickstart.checkpoint.order, kickstart.phase, kickstart.listener.
func Tracing() Middleware {
	return TracingWithTracer(otel.Tracer(tracerName))
}

// TracingWithTracer returns tracing middleware using the provided tracer.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, c *Call, next Handler) error {
		cp := c.Checkpoint()
		ctx, span := tracer.Start(ctx, "kickstart.listener.invoke",
			trace.WithAttributes(
				attribute.String("kickstart.run_id", c.Event.Run().String()),
				attribute.String("kickstart.checkpoint", cp.String()),
				attribute.Int("kickstart.checkpoint.order", cp.Order()),
				attribute.String("kickstart.phase", cp.Phase().String()),
				attribute.String("kickstart.listener", c.Listener),
			),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		err := next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	}
}
