package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/xraph/kickstart/ext"
	"github.com/xraph/kickstart/id"
	"github.com/xraph/kickstart/lifecycle"
	mw "github.com/xraph/kickstart/middleware"
)

// newRegistry returns a listener registry dispatching through mws.
func newRegistry(mws ...mw.Middleware) *ext.Registry {
	r := ext.NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.Use(mws...)
	return r
}

func injectorCreated(run id.RunID) *lifecycle.InjectorCreatedEvent {
	ev := &lifecycle.InjectorCreatedEvent{}
	ev.RunID = run
	return ev
}

func installedBy(run id.RunID) *lifecycle.ExtensionsInstalledByEvent {
	ev := &lifecycle.ExtensionsInstalledByEvent{}
	ev.RunID = run
	return ev
}

func applicationRun(run id.RunID) *lifecycle.ApplicationRunEvent {
	ev := &lifecycle.ApplicationRunEvent{}
	ev.RunID = run
	return ev
}

// callKey identifies one data point by its attributes.
type callKey struct {
	checkpoint, listener, status string
}

func keyOf(set attribute.Set) callKey {
	get := func(k string) string {
		v, _ := set.Value(attribute.Key(k))
		return v.AsString()
	}
	return callKey{get("checkpoint"), get("listener"), get("status")}
}

// listenerMetrics collects the calls counter and the duration histogram
// counts, keyed by attribute set.
func listenerMetrics(t *testing.T, reader *sdkmetric.ManualReader) (calls, durations map[callKey]int64) {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	calls = make(map[callKey]int64)
	durations = make(map[callKey]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				require.Equal(t, "kickstart.listener.calls", m.Name)
				for _, dp := range data.DataPoints {
					calls[keyOf(dp.Attributes)] += dp.Value
				}
			case metricdata.Histogram[float64]:
				require.Equal(t, "kickstart.listener.duration", m.Name)
				for _, dp := range data.DataPoints {
					durations[keyOf(dp.Attributes)] += int64(dp.Count)
				}
			}
		}
	}
	return calls, durations
}

func TestMetrics_RecordsDispatchedCalls(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	r := newRegistry(mw.MetricsWithMeter(mp.Meter("test")))

	require.NoError(t, ext.On(r, "audit", func(context.Context, *lifecycle.InjectorCreatedEvent) error { return nil }))
	require.NoError(t, ext.On(r, "tally", func(context.Context, *lifecycle.ExtensionsInstalledByEvent) error { return nil }))
	require.NoError(t, ext.On(r, "gate", func(context.Context, *lifecycle.ApplicationRunEvent) error {
		return errors.New("refuse")
	}))

	ctx := context.Background()
	run := id.NewRunID()
	require.NoError(t, r.Emit(ctx, injectorCreated(run)))
	require.NoError(t, r.Emit(ctx, installedBy(run)))
	require.NoError(t, r.Emit(ctx, installedBy(run)))
	require.Error(t, r.Emit(ctx, applicationRun(run)))

	want := map[callKey]int64{
		{"InjectorCreated", "audit", "ok"}:      1,
		{"ExtensionsInstalledBy", "tally", "ok"}: 2,
		{"ApplicationRun", "gate", "error"}:      1,
	}
	calls, durations := listenerMetrics(t, reader)
	assert.Equal(t, want, calls)
	assert.Equal(t, want, durations)
}

func TestMetrics_StopsAtFirstFailure(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	r := newRegistry(mw.MetricsWithMeter(mp.Meter("test")))

	for _, name := range []string{"first", "second", "third"} {
		fail := name == "second"
		require.NoError(t, ext.On(r, name, func(context.Context, *lifecycle.InjectorCreatedEvent) error {
			if fail {
				return errors.New("refuse")
			}
			return nil
		}))
	}

	var hookErr *ext.HookError
	require.ErrorAs(t, r.Emit(context.Background(), injectorCreated(id.NewRunID())), &hookErr)
	assert.Equal(t, "second", hookErr.Listener)

	calls, _ := listenerMetrics(t, reader)
	assert.Equal(t, map[callKey]int64{
		{"InjectorCreated", "first", "ok"}:     1,
		{"InjectorCreated", "second", "error"}: 1,
	}, calls)
}

func TestMetrics_UnhandledCheckpointRecordsNothing(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	r := newRegistry(mw.MetricsWithMeter(mp.Meter("test")))

	require.NoError(t, r.Emit(context.Background(), injectorCreated(id.NewRunID())))
	assert.Equal(t, []lifecycle.Checkpoint{lifecycle.InjectorCreated}, r.Fired())

	calls, durations := listenerMetrics(t, reader)
	assert.Empty(t, calls)
	assert.Empty(t, durations)
}

func TestMetrics_GlobalProvider(t *testing.T) {
	r := newRegistry(mw.Metrics())

	called := false
	require.NoError(t, ext.On(r, "audit", func(context.Context, *lifecycle.InjectorCreatedEvent) error {
		called = true
		return nil
	}))
	require.NoError(t, r.Emit(context.Background(), injectorCreated(id.NewRunID())))
	assert.True(t, called)
}
