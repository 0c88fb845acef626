// Package kickstart bootstraps dependency-injected Go applications through
// a fixed, ordered sequence of lifecycle checkpoints.
//
// The bootstrap registers bundles, modules, installers and extensions,
// builds an injector, installs extensions into the application environment
// and finally into the web container. At sixteen well-defined points along
// the way it raises a lifecycle event that registered listeners can observe.
//
// # Quick Start
//
//	eng, err := engine.New(
//	    engine.WithBundles(&authBundle{}),
//	    engine.WithInstallers(installer.Defaults()...),
//	    engine.WithListener(observability.NewDebugListener(logger)),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := eng.Start(ctx, kickstart.NewBootstrap("my-app")); err != nil {
//	    return err
//	}
//
// # Architecture
//
// The root package holds configuration, sentinel errors and the two objects
// a bootstrap works on: the init-phase [Bootstrap] and the run-phase
// [Environment]. The lifecycle package defines the checkpoint catalog and
// the event payloads, the ext package dispatches them to listeners, and the
// engine package drives the actual bootstrap.
package kickstart
