package lifecycle

import (
	"reflect"

	"github.com/spf13/cobra"

	"github.com/xraph/kickstart"
	"github.com/xraph/kickstart/bundle"
	"github.com/xraph/kickstart/id"
	"github.com/xraph/kickstart/injector"
	"github.com/xraph/kickstart/installer"
	"github.com/xraph/kickstart/web"
)

// Event is the payload raised at a checkpoint. It is implemented only by
// the pointer types of this package, one per checkpoint, and is never
// mutated after it is raised. Types embedding an event still satisfy the
// interface; dispatch rejects them because their type is not the one the
// catalog binds to the checkpoint.
type Event interface {
	// Checkpoint returns the checkpoint the event is bound to. It is
	// safe to call on a nil pointer of the event type.
	Checkpoint() Checkpoint

	// Run returns the ID of the bootstrap run that raised the event.
	Run() id.RunID

	sealed()
}

// Compile-time interface checks.
var (
	_ Event = (*ConfiguratorsProcessedEvent)(nil)
	_ Event = (*InitializationEvent)(nil)
	_ Event = (*BundlesFromDwResolvedEvent)(nil)
	_ Event = (*BundlesFromLookupResolvedEvent)(nil)
	_ Event = (*BundlesResolvedEvent)(nil)
	_ Event = (*BundlesProcessedEvent)(nil)
	_ Event = (*InjectorCreationEvent)(nil)
	_ Event = (*InstallersResolvedEvent)(nil)
	_ Event = (*ExtensionsResolvedEvent)(nil)
	_ Event = (*InjectorCreatedEvent)(nil)
	_ Event = (*ExtensionsInstalledByEvent)(nil)
	_ Event = (*ExtensionsInstalledEvent)(nil)
	_ Event = (*ApplicationRunEvent)(nil)
	_ Event = (*HkConfigurationEvent)(nil)
	_ Event = (*HkExtensionsInstalledByEvent)(nil)
	_ Event = (*HkExtensionsInstalledEvent)(nil)
)

// ──────────────────────────────────────────────────
// Phase headers
// ──────────────────────────────────────────────────

// InitPhase is carried by every event.
type InitPhase struct {
	RunID     id.RunID
	Bootstrap *kickstart.Bootstrap
}

// Run implements Event.
func (p *InitPhase) Run() id.RunID { return p.RunID }

// RunPhase is carried by events raised once configuration and environment
// exist.
type RunPhase struct {
	InitPhase
	Config      kickstart.Config
	Environment *kickstart.Environment
}

// InjectorPhase is carried by events raised once the injector exists.
type InjectorPhase struct {
	RunPhase
	Injector injector.Injector
}

// WebPhase is carried by events raised once the web container exists.
type WebPhase struct {
	InjectorPhase
	Container *web.Container
}

// ──────────────────────────────────────────────────
// Init phase events
// ──────────────────────────────────────────────────

// ConfiguratorsProcessedEvent provides the configurators that were applied.
type ConfiguratorsProcessedEvent struct {
	InitPhase
	Configurators []bundle.Configurator
}

// Checkpoint implements Event.
func (*ConfiguratorsProcessedEvent) Checkpoint() Checkpoint { return ConfiguratorsProcessed }

func (*ConfiguratorsProcessedEvent) sealed() {}

// InitializationEvent provides the commands found by command search. It
// is the moment to add commands or application bundles to the Bootstrap.
type InitializationEvent struct {
	InitPhase
	Commands []*cobra.Command
}

// Checkpoint implements Event.
func (*InitializationEvent) Checkpoint() Checkpoint { return Initialization }

func (*InitializationEvent) sealed() {}

// ──────────────────────────────────────────────────
// Run phase events
// ──────────────────────────────────────────────────

// BundlesFromDwResolvedEvent provides the bundles recognized among the
// application bundles. Some of them may be disabled later.
type BundlesFromDwResolvedEvent struct {
	RunPhase
	Bundles []bundle.Bundle
}

// Checkpoint implements Event.
func (*BundlesFromDwResolvedEvent) Checkpoint() Checkpoint { return BundlesFromDwResolved }

func (*BundlesFromDwResolvedEvent) sealed() {}

// BundlesFromLookupResolvedEvent provides the bundles found by lookup. Some
// of them may be disabled later.
type BundlesFromLookupResolvedEvent struct {
	RunPhase
	Bundles []bundle.Bundle
}

// Checkpoint implements Event.
func (*BundlesFromLookupResolvedEvent) Checkpoint() Checkpoint { return BundlesFromLookupResolved }

func (*BundlesFromLookupResolvedEvent) sealed() {}

// BundlesResolvedEvent provides the enabled top-level bundles and the ones
// that were disabled.
type BundlesResolvedEvent struct {
	RunPhase
	Bundles  []bundle.Bundle
	Disabled []bundle.Bundle
}

// Checkpoint implements Event.
func (*BundlesResolvedEvent) Checkpoint() Checkpoint { return BundlesResolved }

func (*BundlesResolvedEvent) sealed() {}

// BundlesProcessedEvent provides every bundle that was used, including
// bundles registered by other bundles.
type BundlesProcessedEvent struct {
	RunPhase
	Bundles  []bundle.Bundle
	Disabled []bundle.Bundle
}

// Checkpoint implements Event.
func (*BundlesProcessedEvent) Checkpoint() Checkpoint { return BundlesProcessed }

func (*BundlesProcessedEvent) sealed() {}

// InjectorCreationEvent provides the modules the injector is about to be
// built from.
type InjectorCreationEvent struct {
	RunPhase
	Modules    []injector.Module
	Overriding []injector.Module
}

// Checkpoint implements Event.
func (*InjectorCreationEvent) Checkpoint() Checkpoint { return InjectorCreation }

func (*InjectorCreationEvent) sealed() {}

// InstallersResolvedEvent provides the enabled installers in installation
// order.
type InstallersResolvedEvent struct {
	RunPhase
	Installers []installer.Installer
	Disabled   []installer.Installer
}

// Checkpoint implements Event.
func (*InstallersResolvedEvent) Checkpoint() Checkpoint { return InstallersResolved }

func (*InstallersResolvedEvent) sealed() {}

// ExtensionsResolvedEvent provides the enabled extension types. Instances
// are not created yet.
type ExtensionsResolvedEvent struct {
	RunPhase
	Extensions []reflect.Type
	Disabled   []reflect.Type
}

// Checkpoint implements Event.
func (*ExtensionsResolvedEvent) Checkpoint() Checkpoint { return ExtensionsResolved }

func (*ExtensionsResolvedEvent) sealed() {}

// InjectorCreatedEvent marks the point from which the injector is
// accessible. Extensions are not installed yet.
type InjectorCreatedEvent struct {
	InjectorPhase
}

// Checkpoint implements Event.
func (*InjectorCreatedEvent) Checkpoint() Checkpoint { return InjectorCreated }

func (*InjectorCreatedEvent) sealed() {}

// ExtensionsInstalledByEvent provides one installer and the extensions it
// installed. Extensions is never empty. Instances can be obtained from the
// injector.
type ExtensionsInstalledByEvent struct {
	InjectorPhase
	Installer  installer.Installer
	Extensions []reflect.Type
}

// Checkpoint implements Event.
func (*ExtensionsInstalledByEvent) Checkpoint() Checkpoint { return ExtensionsInstalledBy }

func (*ExtensionsInstalledByEvent) sealed() {}

// ExtensionsInstalledEvent provides every installed extension.
type ExtensionsInstalledEvent struct {
	InjectorPhase
	Extensions []reflect.Type
}

// Checkpoint implements Event.
func (*ExtensionsInstalledEvent) Checkpoint() Checkpoint { return ExtensionsInstalled }

func (*ExtensionsInstalledEvent) sealed() {}

// ApplicationRunEvent marks the end of the bootstrap, before the
// application's own run hook. Web extensions are not installed yet.
type ApplicationRunEvent struct {
	InjectorPhase
}

// Checkpoint implements Event.
func (*ApplicationRunEvent) Checkpoint() Checkpoint { return ApplicationRun }

func (*ApplicationRunEvent) sealed() {}

// ──────────────────────────────────────────────────
// Web phase events
// ──────────────────────────────────────────────────

// HkConfigurationEvent marks the start of the web container. The
// container's service locator is accessible from here on.
type HkConfigurationEvent struct {
	WebPhase
}

// Checkpoint implements Event.
func (*HkConfigurationEvent) Checkpoint() Checkpoint { return HkConfiguration }

func (*HkConfigurationEvent) sealed() {}

// HkExtensionsInstalledByEvent provides one web installer and the
// extensions it installed into the container. Extensions is never empty.
type HkExtensionsInstalledByEvent struct {
	WebPhase
	Installer  installer.WebInstaller
	Extensions []reflect.Type
}

// Checkpoint implements Event.
func (*HkExtensionsInstalledByEvent) Checkpoint() Checkpoint { return HkExtensionsInstalledBy }

func (*HkExtensionsInstalledByEvent) sealed() {}

// HkExtensionsInstalledEvent provides every extension installed into the
// web container.
type HkExtensionsInstalledEvent struct {
	WebPhase
	Extensions []reflect.Type
}

// Checkpoint implements Event.
func (*HkExtensionsInstalledEvent) Checkpoint() Checkpoint { return HkExtensionsInstalled }

func (*HkExtensionsInstalledEvent) sealed() {}
