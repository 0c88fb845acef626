package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/kickstart"
	"github.com/xraph/kickstart/bundle"
	"github.com/xraph/kickstart/ext"
	"github.com/xraph/kickstart/id"
	"github.com/xraph/kickstart/injector"
	"github.com/xraph/kickstart/installer"
	mw "github.com/xraph/kickstart/middleware"
	"github.com/xraph/kickstart/observability"
	"github.com/xraph/kickstart/web"
)

// instrumentationName is the scope name used with custom OTel providers.
const instrumentationName = "github.com/xraph/kickstart"

// state tracks how far the bootstrap got.
type state int

const (
	stateNew state = iota
	stateInitialized
	stateRunning
	stateWebStarted
)

func (s state) String() string {
	switch s {
	case stateNew:
		return "new"
	case stateInitialized:
		return "initialized"
	case stateRunning:
		return "running"
	case stateWebStarted:
		return "web-started"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// claim is the set of extension types an installer claimed.
type claim struct {
	installer installer.Installer
	types     []reflect.Type
}

// Engine runs one bootstrap. It is not reusable: once a phase fails,
// every later phase returns ErrBootstrapFailed.
type Engine struct {
	config  kickstart.Config
	logger  *slog.Logger
	timeout time.Duration

	listeners *ext.Registry
	pending   []ext.Listener
	mws       []mw.Middleware

	bundles       []bundle.Bundle
	configurators []bundle.Configurator
	modules       []injector.Module
	overrides     []injector.Module
	installers    []installer.Installer
	extensions    []any

	// OpenTelemetry providers (optional; nil means use global).
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider

	// Bootstrap state.
	state     state
	failed    error
	runID     id.RunID
	boot      *kickstart.Bootstrap
	builder   *bundle.Builder
	env       *kickstart.Environment
	inj       injector.Injector
	container *web.Container
	claims    []claim
	started   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig sets the bootstrap configuration. If not set,
// kickstart.DefaultConfig() is used.
func WithConfig(cfg kickstart.Config) Option {
	return func(eng *Engine) { eng.config = cfg }
}

// WithLogger sets the logger. If not set, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(eng *Engine) { eng.logger = l }
}

// WithBundles registers top-level bundles.
func WithBundles(bs ...bundle.Bundle) Option {
	return func(eng *Engine) { eng.bundles = append(eng.bundles, bs...) }
}

// WithConfigurators registers configurators, applied first during
// Initialize.
func WithConfigurators(cs ...bundle.Configurator) Option {
	return func(eng *Engine) { eng.configurators = append(eng.configurators, cs...) }
}

// WithModules registers injector modules.
func WithModules(ms ...injector.Module) Option {
	return func(eng *Engine) { eng.modules = append(eng.modules, ms...) }
}

// WithOverrideModules registers modules whose bindings replace regular ones.
func WithOverrideModules(ms ...injector.Module) Option {
	return func(eng *Engine) { eng.overrides = append(eng.overrides, ms...) }
}

// WithInstallers registers installers.
func WithInstallers(is ...installer.Installer) Option {
	return func(eng *Engine) { eng.installers = append(eng.installers, is...) }
}

// WithExtensions registers extensions, as values or reflect.Type.
func WithExtensions(exts ...any) Option {
	return func(eng *Engine) { eng.extensions = append(eng.extensions, exts...) }
}

// WithListener registers a lifecycle listener.
func WithListener(l ext.Listener) Option {
	return func(eng *Engine) { eng.pending = append(eng.pending, l) }
}

// WithMiddleware adds middleware around every listener call. It runs
// inside the built-in recover, tracing, metrics and logging middleware.
func WithMiddleware(m mw.Middleware) Option {
	return func(eng *Engine) { eng.mws = append(eng.mws, m) }
}

// WithListenerTimeout bounds the context handed to each listener call.
func WithListenerTimeout(d time.Duration) Option {
	return func(eng *Engine) { eng.timeout = d }
}

// WithTracerProvider sets a custom OTel TracerProvider for the tracing
// middleware. If not set, the global otel.GetTracerProvider() is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(eng *Engine) { eng.tracerProvider = tp }
}

// WithMeterProvider sets a custom OTel MeterProvider for the metrics
// middleware and the observability metrics listener. If not set, the
// global otel.GetMeterProvider() is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(eng *Engine) { eng.meterProvider = mp }
}

// New creates an Engine. Listeners passed with WithListener are registered
// after the built-in metrics listener; more can be added through
// Listeners() until the bootstrap starts.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		config: kickstart.DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = slog.Default()
	}
	if err := eng.config.Validate(); err != nil {
		return nil, err
	}

	eng.listeners = ext.NewRegistry(eng.logger)

	// Build tracing middleware (custom provider or global).
	var tracingMw mw.Middleware
	if eng.tracerProvider != nil {
		tracingMw = mw.TracingWithTracer(eng.tracerProvider.Tracer(instrumentationName))
	} else {
		tracingMw = mw.Tracing()
	}

	// Build metrics middleware and listener (custom provider or global).
	var (
		metricsMw  mw.Middleware
		metricsLsn *observability.MetricsListener
	)
	if eng.meterProvider != nil {
		metricsMw = mw.MetricsWithMeter(eng.meterProvider.Meter(instrumentationName))
		metricsLsn = observability.NewMetricsListenerWithMeter(eng.meterProvider.Meter(instrumentationName + "/observability"))
	} else {
		metricsMw = mw.Metrics()
		metricsLsn = observability.NewMetricsListener()
	}

	// Default middleware stack: recover → tracing → metrics → logging → timeout.
	eng.listeners.Use(
		mw.Recover(eng.logger),
		tracingMw,
		metricsMw,
		mw.Logging(eng.logger),
		mw.Timeout(eng.logger, eng.timeout),
	)
	eng.listeners.Use(eng.mws...)

	var errs []error
	for _, l := range append([]ext.Listener{metricsLsn}, eng.pending...) {
		if err := eng.listeners.Register(l); err != nil {
			errs = append(errs, fmt.Errorf("register listener %s: %w", l.Name(), err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return eng, nil
}

// Start runs the init, run and web phases for boot with a fresh
// environment and web container, then starts the managed objects.
func (eng *Engine) Start(ctx context.Context, boot *kickstart.Bootstrap) error {
	start := time.Now()
	if err := eng.Initialize(ctx, boot); err != nil {
		return err
	}
	if err := eng.Run(ctx, nil); err != nil {
		return err
	}
	if err := eng.StartWeb(ctx, nil); err != nil {
		return err
	}
	if err := eng.env.Start(ctx); err != nil {
		return eng.fail(fmt.Errorf("start managed objects: %w", err))
	}
	eng.started = true

	eng.logger.Info("bootstrap complete",
		slog.String("app", eng.boot.Name()),
		slog.String("run_id", eng.runID.String()),
		slog.Int("checkpoints", len(eng.listeners.Fired())),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Stop stops the managed objects in reverse order. It does nothing unless
// Start completed, and only stops them once.
func (eng *Engine) Stop(ctx context.Context) error {
	if !eng.started {
		return nil
	}
	eng.started = false
	return eng.env.Stop(ctx)
}

// Listeners returns the listener registry.
func (eng *Engine) Listeners() *ext.Registry { return eng.listeners }

// Config returns the bootstrap configuration.
func (eng *Engine) Config() kickstart.Config { return eng.config }

// RunID returns the ID of the current run, or id.Nil before Initialize.
func (eng *Engine) RunID() id.RunID { return eng.runID }

// Bootstrap returns the bootstrap passed to Initialize.
func (eng *Engine) Bootstrap() *kickstart.Bootstrap { return eng.boot }

// Environment returns the run-phase environment, or nil before Run.
func (eng *Engine) Environment() *kickstart.Environment { return eng.env }

// Injector returns the injector, or nil before it is created.
func (eng *Engine) Injector() injector.Injector { return eng.inj }

// Container returns the web container, or nil before StartWeb.
func (eng *Engine) Container() *web.Container { return eng.container }

// Err returns the error that aborted the bootstrap, if any.
func (eng *Engine) Err() error { return eng.failed }
