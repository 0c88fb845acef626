package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"

	"github.com/spf13/cobra"

	"github.com/xraph/kickstart"
	"github.com/xraph/kickstart/bundle"
	"github.com/xraph/kickstart/ext"
	"github.com/xraph/kickstart/id"
	"github.com/xraph/kickstart/injector"
	"github.com/xraph/kickstart/installer"
	"github.com/xraph/kickstart/lifecycle"
	"github.com/xraph/kickstart/web"
)

// Initialize runs the init phase: configurators are applied and commands
// are searched. A nil boot gets a Bootstrap named after the config.
//
// Checkpoints: ConfiguratorsProcessed (if any configurator), Initialization.
func (eng *Engine) Initialize(ctx context.Context, boot *kickstart.Bootstrap) error {
	if err := eng.enter(stateNew, "Initialize"); err != nil {
		return err
	}
	if boot == nil {
		boot = kickstart.NewBootstrap(eng.config.Name)
	}

	eng.listeners.Seal()
	eng.runID = id.NewRunID()
	eng.boot = boot
	eng.builder = bundle.NewBuilder(eng.config)
	eng.builder.Bundles(eng.bundles...)
	eng.builder.Modules(eng.modules...)
	eng.builder.OverrideModules(eng.overrides...)
	eng.builder.Installers(eng.installers...)
	eng.builder.Extensions(eng.extensions...)

	eng.logger.Info("bootstrap started",
		slog.String("app", boot.Name()),
		slog.String("run_id", eng.runID.String()),
	)

	for _, c := range eng.configurators {
		if err := c.Configure(eng.builder); err != nil {
			return eng.fail(fmt.Errorf("apply configurator %T: %w", c, err))
		}
	}
	if len(eng.configurators) > 0 {
		ev := &lifecycle.ConfiguratorsProcessedEvent{InitPhase: eng.initPhase(), Configurators: eng.configurators}
		if err := eng.emit(ctx, ev); err != nil {
			return err
		}
	}

	var cmds []*cobra.Command
	if eng.config.SearchCommands {
		cmds = kickstart.Commands()
		boot.AddCommand(cmds...)
	}
	if err := eng.emit(ctx, &lifecycle.InitializationEvent{InitPhase: eng.initPhase(), Commands: cmds}); err != nil {
		return err
	}

	eng.state = stateInitialized
	return nil
}

// Run runs the run phase: bundles are resolved and processed, the injector
// is created and extensions are installed. A nil env gets a fresh
// Environment.
//
// Checkpoints: BundlesFromDwResolved, BundlesFromLookupResolved and
// BundlesResolved (each if any), BundlesProcessed, InjectorCreation,
// InstallersResolved, ExtensionsResolved, InjectorCreated,
// ExtensionsInstalledBy (per installer that installed), ExtensionsInstalled
// (if any), ApplicationRun.
func (eng *Engine) Run(ctx context.Context, env *kickstart.Environment) error {
	if err := eng.enter(stateInitialized, "Run"); err != nil {
		return err
	}
	if env == nil {
		env = kickstart.NewEnvironment(eng.config, eng.logger)
	}
	eng.env = env
	eng.builder.SetEnvironment(env)

	if err := eng.resolveBundles(ctx); err != nil {
		return err
	}

	modules := append([]injector.Module{eng.coreModule()}, eng.builder.RegisteredModules()...)
	overrides := eng.builder.RegisteredOverrides()
	ev := &lifecycle.InjectorCreationEvent{RunPhase: eng.runPhase(), Modules: modules, Overriding: overrides}
	if err := eng.emit(ctx, ev); err != nil {
		return err
	}

	if err := eng.resolveInstallers(ctx); err != nil {
		return err
	}

	inj, err := injector.New(modules, overrides)
	if err != nil {
		return eng.fail(fmt.Errorf("create injector: %w", err))
	}
	eng.inj = inj
	if err := eng.emit(ctx, &lifecycle.InjectorCreatedEvent{InjectorPhase: eng.injectorPhase()}); err != nil {
		return err
	}

	var all []reflect.Type
	for _, c := range eng.claims {
		var installed []reflect.Type
		for _, t := range c.types {
			if err := c.installer.Install(ctx, env, inj, t); err != nil {
				return eng.fail(fmt.Errorf("install %s with %s: %w", t, c.installer.Name(), err))
			}
			installed = append(installed, t)
		}
		if len(installed) == 0 {
			continue
		}
		all = append(all, installed...)
		ev := &lifecycle.ExtensionsInstalledByEvent{InjectorPhase: eng.injectorPhase(), Installer: c.installer, Extensions: installed}
		if err := eng.emit(ctx, ev); err != nil {
			return err
		}
	}
	if len(all) > 0 {
		if err := eng.emit(ctx, &lifecycle.ExtensionsInstalledEvent{InjectorPhase: eng.injectorPhase(), Extensions: all}); err != nil {
			return err
		}
	}

	if err := eng.emit(ctx, &lifecycle.ApplicationRunEvent{InjectorPhase: eng.injectorPhase()}); err != nil {
		return err
	}
	eng.state = stateRunning
	return nil
}

// StartWeb runs the web phase: every WebInstaller installs its claimed
// extensions into the container, which becomes the environment's HTTP
// handler. A nil c gets a fresh container.
//
// Checkpoints: HkConfiguration, HkExtensionsInstalledBy (per web installer
// that installed), HkExtensionsInstalled (if any).
func (eng *Engine) StartWeb(ctx context.Context, c *web.Container) error {
	if err := eng.enter(stateRunning, "StartWeb"); err != nil {
		return err
	}
	if c == nil {
		c = web.NewContainer()
	}
	eng.container = c
	eng.env.SetHandler(c)
	c.Register(eng.env)
	c.RegisterAs(reflect.TypeFor[injector.Injector](), eng.inj)

	if err := eng.emit(ctx, &lifecycle.HkConfigurationEvent{WebPhase: eng.webPhase()}); err != nil {
		return err
	}

	var all []reflect.Type
	for _, cl := range eng.claims {
		wi, ok := cl.installer.(installer.WebInstaller)
		if !ok {
			continue
		}
		var installed []reflect.Type
		for _, t := range cl.types {
			if err := wi.InstallWeb(ctx, c, eng.inj, t); err != nil {
				return eng.fail(fmt.Errorf("install %s into web with %s: %w", t, wi.Name(), err))
			}
			installed = append(installed, t)
		}
		if len(installed) == 0 {
			continue
		}
		all = append(all, installed...)
		ev := &lifecycle.HkExtensionsInstalledByEvent{WebPhase: eng.webPhase(), Installer: wi, Extensions: installed}
		if err := eng.emit(ctx, ev); err != nil {
			return err
		}
	}
	if len(all) > 0 {
		if err := eng.emit(ctx, &lifecycle.HkExtensionsInstalledEvent{WebPhase: eng.webPhase(), Extensions: all}); err != nil {
			return err
		}
	}

	eng.state = stateWebStarted
	return nil
}

// resolveBundles collects the top-level bundles and initializes them,
// together with every bundle they register.
func (eng *Engine) resolveBundles(ctx context.Context) error {
	b := eng.builder

	if eng.config.UseAppBundles {
		var app []bundle.Bundle
		for _, v := range eng.boot.Bundles() {
			if bb, ok := v.(bundle.Bundle); ok {
				app = append(app, bb)
			}
		}
		if len(app) > 0 {
			b.Bundles(app...)
			ev := &lifecycle.BundlesFromDwResolvedEvent{RunPhase: eng.runPhase(), Bundles: app}
			if err := eng.emit(ctx, ev); err != nil {
				return err
			}
		}
	}

	if eng.config.BundleLookup {
		found, err := bundle.Lookup()
		if err != nil {
			return eng.fail(fmt.Errorf("lookup bundles: %w", err))
		}
		if len(found) > 0 {
			b.Bundles(found...)
			ev := &lifecycle.BundlesFromLookupResolvedEvent{RunPhase: eng.runPhase(), Bundles: found}
			if err := eng.emit(ctx, ev); err != nil {
				return err
			}
		}
	}

	seen := make(map[string]bool)
	var queue, disabled []bundle.Bundle
	split := func(bs []bundle.Bundle) {
		for _, bb := range bs {
			name := bb.Name()
			if seen[name] {
				continue
			}
			seen[name] = true
			if b.BundleDisabled(name) {
				disabled = append(disabled, bb)
			} else {
				queue = append(queue, bb)
			}
		}
	}

	split(b.RegisteredBundles())
	if len(queue)+len(disabled) > 0 {
		ev := &lifecycle.BundlesResolvedEvent{RunPhase: eng.runPhase(), Bundles: slices.Clone(queue), Disabled: slices.Clone(disabled)}
		if err := eng.emit(ctx, ev); err != nil {
			return err
		}
	}

	var used []bundle.Bundle
	for len(queue) > 0 {
		bb := queue[0]
		queue = queue[1:]

		before := len(b.RegisteredBundles())
		if err := bb.Initialize(b); err != nil {
			return eng.fail(fmt.Errorf("initialize bundle %s: %w", bb.Name(), err))
		}
		used = append(used, bb)
		split(b.RegisteredBundles()[before:])
	}

	eng.logger.Debug("bundles processed",
		slog.Int("used", len(used)),
		slog.Int("disabled", len(disabled)),
	)
	return eng.emit(ctx, &lifecycle.BundlesProcessedEvent{RunPhase: eng.runPhase(), Bundles: used, Disabled: disabled})
}

// resolveInstallers orders the enabled installers and lets each extension
// type be claimed by the first one that matches it.
func (eng *Engine) resolveInstallers(ctx context.Context) error {
	b := eng.builder

	seen := make(map[string]bool)
	var enabled, disabled []installer.Installer
	for _, in := range b.RegisteredInstallers() {
		name := in.Name()
		if seen[name] {
			continue
		}
		seen[name] = true
		if b.InstallerDisabled(name) {
			disabled = append(disabled, in)
		} else {
			enabled = append(enabled, in)
		}
	}
	installer.Sort(enabled)

	ev := &lifecycle.InstallersResolvedEvent{RunPhase: eng.runPhase(), Installers: enabled, Disabled: disabled}
	if err := eng.emit(ctx, ev); err != nil {
		return err
	}

	eng.claims = make([]claim, len(enabled))
	for i, in := range enabled {
		eng.claims[i].installer = in
	}

	var exts, off []reflect.Type
	for _, t := range b.RegisteredExtensions() {
		if b.ExtensionDisabled(t) {
			off = append(off, t)
			continue
		}
		i := claimant(enabled, t)
		if i < 0 {
			return eng.fail(fmt.Errorf("%w: %s", kickstart.ErrNoInstaller, t))
		}
		eng.claims[i].types = append(eng.claims[i].types, t)
		exts = append(exts, t)
	}

	return eng.emit(ctx, &lifecycle.ExtensionsResolvedEvent{RunPhase: eng.runPhase(), Extensions: exts, Disabled: off})
}

func claimant(installers []installer.Installer, t reflect.Type) int {
	for i, in := range installers {
		if in.Matches(t) {
			return i
		}
	}
	return -1
}

// coreModule binds the bootstrap objects and every extension registered
// as a value.
func (eng *Engine) coreModule() injector.Module {
	return injector.ModuleFunc(func(bd *injector.Binder) error {
		bd.BindInstance(eng.boot)
		bd.BindInstance(eng.env)
		bd.BindInstance(eng.config)
		for _, t := range eng.builder.RegisteredExtensions() {
			if v, ok := eng.builder.Instance(t); ok {
				bd.Bind(t, func(injector.Injector) (any, error) { return v, nil })
			}
		}
		return nil
	})
}

// enter checks that the bootstrap is in the state the phase starts from.
func (eng *Engine) enter(want state, phase string) error {
	if eng.failed != nil {
		return fmt.Errorf("%w: %w", kickstart.ErrBootstrapFailed, eng.failed)
	}
	if eng.state != want {
		return fmt.Errorf("%w: %s called in state %s", kickstart.ErrInvalidPhase, phase, eng.state)
	}
	return nil
}

// emit dispatches ev and aborts the bootstrap when a listener fails. The
// logging middleware has already reported a listener failure at error
// level, so only the abort is logged here.
func (eng *Engine) emit(ctx context.Context, ev lifecycle.Event) error {
	err := eng.listeners.Emit(ctx, ev)
	if err == nil {
		return nil
	}
	var hookErr *ext.HookError
	if errors.As(err, &hookErr) {
		eng.failed = err
		eng.logger.Info("bootstrap aborted by listener",
			slog.String("run_id", eng.runID.String()),
			slog.String("listener", hookErr.Listener),
			slog.String("checkpoint", hookErr.Checkpoint.String()),
		)
		return err
	}
	return eng.fail(err)
}

// fail records err as the reason the bootstrap stopped.
func (eng *Engine) fail(err error) error {
	eng.failed = err
	eng.logger.Error("bootstrap failed",
		slog.String("run_id", eng.runID.String()),
		slog.String("error", err.Error()),
	)
	return err
}

func (eng *Engine) initPhase() lifecycle.InitPhase {
	return lifecycle.InitPhase{RunID: eng.runID, Bootstrap: eng.boot}
}

func (eng *Engine) runPhase() lifecycle.RunPhase {
	return lifecycle.RunPhase{InitPhase: eng.initPhase(), Config: eng.config, Environment: eng.env}
}

func (eng *Engine) injectorPhase() lifecycle.InjectorPhase {
	return lifecycle.InjectorPhase{RunPhase: eng.runPhase(), Injector: eng.inj}
}

func (eng *Engine) webPhase() lifecycle.WebPhase {
	return lifecycle.WebPhase{InjectorPhase: eng.injectorPhase(), Container: eng.container}
}
