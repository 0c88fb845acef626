package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name for kickstart metrics.
const meterName = "github.com/xraph/kickstart"

// Metrics returns middleware that records per-call listener metrics using
// the global MeterProvider.
//
// Instruments:
//   - kickstart.listener.duration (Float64Histogram): call time in seconds
//   - kickstart.listener.calls (Int64Counter): total calls
//
// Both carry the attributes checkpoint, listener and status ("ok" or "error").
func Metrics() Middleware {
	return MetricsWithMeter(otel.Meter(meterName))
}

// MetricsWithMeter returns metrics middleware using the provided meter.
func MetricsWithMeter(meter metric.Meter) Middleware {
	// The API hands back noop instruments on error.
	duration, _ := meter.Float64Histogram(
		"kickstart.listener.duration",
		metric.WithDescription("Duration of listener calls in seconds"),
		metric.WithUnit("s"),
	)
	calls, _ := meter.Int64Counter(
		"kickstart.listener.calls",
		metric.WithDescription("Total number of listener calls"),
		metric.WithUnit("{call}"),
	)

	return func(ctx context.Context, c *Call, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start).Seconds()

		status := "ok"
		if err != nil {
			status = "error"
		}

		attrs := metric.WithAttributes(
			attribute.String("checkpoint", c.Checkpoint().String()),
			attribute.String("listener", c.Listener),
			attribute.String("status", status),
		)
		duration.Record(ctx, elapsed, attrs)
		calls.Add(ctx, 1, attrs)

		return err
	}
}
