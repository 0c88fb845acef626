package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xraph/kickstart/ext"
	"github.com/xraph/kickstart/lifecycle"
)

// meterName is the instrumentation scope name for lifecycle metrics.
const meterName = "github.com/xraph/kickstart/observability"

// Compile-time interface checks.
var (
	_ ext.Listener              = (*MetricsListener)(nil)
	_ ext.EventListener         = (*MetricsListener)(nil)
	_ ext.BundlesProcessed      = (*MetricsListener)(nil)
	_ ext.ExtensionsInstalled   = (*MetricsListener)(nil)
	_ ext.HkExtensionsInstalled = (*MetricsListener)(nil)
)

// MetricsListener records bootstrap-wide lifecycle metrics.
//
// Instruments:
//   - kickstart.checkpoint.fired: checkpoints reached, by checkpoint and phase
//   - kickstart.bundles.used: bundles initialized, transitive ones included
//   - kickstart.extensions.installed: extensions installed, by phase
type MetricsListener struct {
	CheckpointFired     metric.Int64Counter
	BundlesUsed         metric.Int64Counter
	ExtensionsInstalled metric.Int64Counter
}

// NewMetricsListener creates a MetricsListener using the global
// MeterProvider.
func NewMetricsListener() *MetricsListener {
	return NewMetricsListenerWithMeter(otel.Meter(meterName))
}

// NewMetricsListenerWithMeter creates a MetricsListener with the provided
// meter.
func NewMetricsListenerWithMeter(meter metric.Meter) *MetricsListener {
	fired, _ := meter.Int64Counter("kickstart.checkpoint.fired",
		metric.WithDescription("Lifecycle checkpoints reached"),
		metric.WithUnit("{checkpoint}"),
	)
	bundles, _ := meter.Int64Counter("kickstart.bundles.used",
		metric.WithDescription("Bundles initialized during bootstrap"),
		metric.WithUnit("{bundle}"),
	)
	extensions, _ := meter.Int64Counter("kickstart.extensions.installed",
		metric.WithDescription("Extensions installed during bootstrap"),
		metric.WithUnit("{extension}"),
	)
	return &MetricsListener{
		CheckpointFired:     fired,
		BundlesUsed:         bundles,
		ExtensionsInstalled: extensions,
	}
}

// Name implements ext.Listener.
func (m *MetricsListener) Name() string { return "observability-metrics" }

// OnEvent implements ext.EventListener.
func (m *MetricsListener) OnEvent(ctx context.Context, ev lifecycle.Event) error {
	cp := ev.Checkpoint()
	m.CheckpointFired.Add(ctx, 1, metric.WithAttributes(
		attribute.String("checkpoint", cp.String()),
		attribute.String("phase", cp.Phase().String()),
	))
	return nil
}

// OnBundlesProcessed implements ext.BundlesProcessed.
func (m *MetricsListener) OnBundlesProcessed(ctx context.Context, ev *lifecycle.BundlesProcessedEvent) error {
	m.BundlesUsed.Add(ctx, int64(len(ev.Bundles)))
	return nil
}

// OnExtensionsInstalled implements ext.ExtensionsInstalled.
func (m *MetricsListener) OnExtensionsInstalled(ctx context.Context, ev *lifecycle.ExtensionsInstalledEvent) error {
	m.ExtensionsInstalled.Add(ctx, int64(len(ev.Extensions)),
		metric.WithAttributes(attribute.String("phase", lifecycle.PhaseRun.String())))
	return nil
}

// OnHkExtensionsInstalled implements ext.HkExtensionsInstalled.
func (m *MetricsListener) OnHkExtensionsInstalled(ctx context.Context, ev *lifecycle.HkExtensionsInstalledEvent) error {
	m.ExtensionsInstalled.Add(ctx, int64(len(ev.Extensions)),
		metric.WithAttributes(attribute.String("phase", lifecycle.PhaseWeb.String())))
	return nil
}
