package ext

import (
	"context"

	"github.com/xraph/kickstart/lifecycle"
)

// Listener is the base interface all listeners must implement.
type Listener interface {
	// Name returns a unique human-readable name for the listener.
	Name() string
}

// EventListener receives every checkpoint. When a listener also implements
// a per-checkpoint hook, the hook is called first.
type EventListener interface {
	OnEvent(ctx context.Context, ev lifecycle.Event) error
}

// ──────────────────────────────────────────────────
// Init phase hooks
// ──────────────────────────────────────────────────

// ConfiguratorsProcessed is called after every configurator was applied.
type ConfiguratorsProcessed interface {
	OnConfiguratorsProcessed(ctx context.Context, ev *lifecycle.ConfiguratorsProcessedEvent) error
}

// Initialization is called when the init phase ends.
type Initialization interface {
	OnInitialization(ctx context.Context, ev *lifecycle.InitializationEvent) error
}

// ──────────────────────────────────────────────────
// Run phase hooks
// ──────────────────────────────────────────────────

// BundlesFromDwResolved is called when application bundles were recognized.
type BundlesFromDwResolved interface {
	OnBundlesFromDwResolved(ctx context.Context, ev *lifecycle.BundlesFromDwResolvedEvent) error
}

// BundlesFromLookupResolved is called when lookup bundles were found.
type BundlesFromLookupResolved interface {
	OnBundlesFromLookupResolved(ctx context.Context, ev *lifecycle.BundlesFromLookupResolvedEvent) error
}

// BundlesResolved is called when the top-level bundles are known.
type BundlesResolved interface {
	OnBundlesResolved(ctx context.Context, ev *lifecycle.BundlesResolvedEvent) error
}

// BundlesProcessed is called after every bundle was initialized.
type BundlesProcessed interface {
	OnBundlesProcessed(ctx context.Context, ev *lifecycle.BundlesProcessedEvent) error
}

// InjectorCreation is called just before the injector is built.
type InjectorCreation interface {
	OnInjectorCreation(ctx context.Context, ev *lifecycle.InjectorCreationEvent) error
}

// InstallersResolved is called when the installers are ordered.
type InstallersResolved interface {
	OnInstallersResolved(ctx context.Context, ev *lifecycle.InstallersResolvedEvent) error
}

// ExtensionsResolved is called when every extension type has an installer.
type ExtensionsResolved interface {
	OnExtensionsResolved(ctx context.Context, ev *lifecycle.ExtensionsResolvedEvent) error
}

// InjectorCreated is called right after the injector is built.
type InjectorCreated interface {
	OnInjectorCreated(ctx context.Context, ev *lifecycle.InjectorCreatedEvent) error
}

// ExtensionsInstalledBy is called once per installer that installed extensions.
type ExtensionsInstalledBy interface {
	OnExtensionsInstalledBy(ctx context.Context, ev *lifecycle.ExtensionsInstalledByEvent) error
}

// ExtensionsInstalled is called after all installers finished.
type ExtensionsInstalled interface {
	OnExtensionsInstalled(ctx context.Context, ev *lifecycle.ExtensionsInstalledEvent) error
}

// ApplicationRun is called when the bootstrap is complete.
type ApplicationRun interface {
	OnApplicationRun(ctx context.Context, ev *lifecycle.ApplicationRunEvent) error
}

// ──────────────────────────────────────────────────
// Web phase hooks
// ──────────────────────────────────────────────────

// HkConfiguration is called when the web container starts.
type HkConfiguration interface {
	OnHkConfiguration(ctx context.Context, ev *lifecycle.HkConfigurationEvent) error
}

// HkExtensionsInstalledBy is called once per web installer that installed extensions.
type HkExtensionsInstalledBy interface {
	OnHkExtensionsInstalledBy(ctx context.Context, ev *lifecycle.HkExtensionsInstalledByEvent) error
}

// HkExtensionsInstalled is called after all web installers finished.
type HkExtensionsInstalled interface {
	OnHkExtensionsInstalled(ctx context.Context, ev *lifecycle.HkExtensionsInstalledEvent) error
}
