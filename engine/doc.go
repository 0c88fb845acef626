// Package engine runs the bootstrap and is the primary application-level
// API for registering bundles, installers, extensions and lifecycle
// listeners.
//
// The engine package exists to break a fundamental import cycle: lifecycle
// payloads reference bundle, installer, injector and web, and ext
// dispatches those payloads. Engine sits above all of them and below the
// application layer.
//
// # Building an Engine
//
//	eng, err := engine.New(
//	    engine.WithConfig(cfg),
//	    engine.WithBundles(&billing.Bundle{}),
//	    engine.WithInstallers(installer.Defaults()...),
//	    engine.WithListener(observability.NewDebugListener(logger)),
//	)
//
// # Listening
//
// Listeners can also be added through the registry until the bootstrap
// starts:
//
//	ext.On(eng.Listeners(), "audit", func(ctx context.Context, ev *lifecycle.InjectorCreatedEvent) error {
//	    return verify(ev.Injector)
//	})
//
// # Running
//
//	boot := kickstart.NewBootstrap("billing")
//	boot.AddBundle(&billing.Bundle{})
//	if err := eng.Start(ctx, boot); err != nil { ... }
//	defer eng.Stop(ctx)
//
// Start runs [Engine.Initialize], [Engine.Run] and [Engine.StartWeb] in
// order, then starts the managed objects. The phases can also be driven
// one by one. A listener error aborts the bootstrap; every later phase
// returns kickstart.ErrBootstrapFailed.
//
// # Options
//
//   - [WithConfig] sets the bootstrap configuration
//   - [WithBundles], [WithConfigurators], [WithModules],
//     [WithOverrideModules], [WithInstallers], [WithExtensions] register items
//   - [WithListener] registers a lifecycle listener
//   - [WithMiddleware] adds middleware around every listener call
//   - [WithListenerTimeout] bounds each listener call
//   - [WithTracerProvider] sets the OpenTelemetry tracer provider
//   - [WithMeterProvider] sets the OpenTelemetry meter provider
package engine
