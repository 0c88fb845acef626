// Package bundle defines bundles and configurators, the two ways to
// contribute registrations to a bootstrap.
//
// A [Bundle] packages related modules, installers, extensions and further
// bundles. A [Configurator] is applied once, before anything else, and is
// typically used to adjust a bootstrap from the outside (tests, tooling).
// Both receive the same registration [Builder].
package bundle

import (
	"reflect"

	"github.com/xraph/kickstart"
	"github.com/xraph/kickstart/injector"
	"github.com/xraph/kickstart/installer"
)

// Bundle contributes registrations to the bootstrap.
type Bundle interface {
	// Name returns a unique name. Bundles are deduplicated by name.
	Name() string

	// Initialize registers the bundle's items. It may register further
	// bundles, which are processed after it.
	Initialize(b *Builder) error
}

// Configurator adjusts the bootstrap before bundles are processed.
type Configurator interface {
	Configure(b *Builder) error
}

// ConfiguratorFunc adapts a function to Configurator.
type ConfiguratorFunc func(b *Builder) error

// Configure implements Configurator.
func (f ConfiguratorFunc) Configure(b *Builder) error { return f(b) }

// Builder collects registrations from the engine options, configurators
// and bundles.
type Builder struct {
	config kickstart.Config
	env    *kickstart.Environment

	bundles    []Bundle
	modules    []injector.Module
	overrides  []injector.Module
	installers []installer.Installer
	extensions []reflect.Type
	instances  map[reflect.Type]any

	disabledBundles    map[string]bool
	disabledInstallers map[string]bool
	disabledExtensions map[reflect.Type]bool
}

// NewBuilder creates a Builder seeded with the disables from cfg.
func NewBuilder(cfg kickstart.Config) *Builder {
	b := &Builder{
		config:             cfg,
		instances:          make(map[reflect.Type]any),
		disabledBundles:    make(map[string]bool),
		disabledInstallers: make(map[string]bool),
		disabledExtensions: make(map[reflect.Type]bool),
	}
	b.DisableBundles(cfg.DisabledBundles...)
	b.DisableInstallers(cfg.DisabledInstallers...)
	return b
}

// Config returns the bootstrap configuration.
func (b *Builder) Config() kickstart.Config { return b.config }

// Environment returns the run-phase environment, or nil while the
// bootstrap is still in its init phase.
func (b *Builder) Environment() *kickstart.Environment { return b.env }

// SetEnvironment is called by the engine when the run phase begins.
func (b *Builder) SetEnvironment(env *kickstart.Environment) { b.env = env }

// Bundles registers bundles.
func (b *Builder) Bundles(bundles ...Bundle) { b.bundles = append(b.bundles, bundles...) }

// Modules registers injector modules.
func (b *Builder) Modules(modules ...injector.Module) { b.modules = append(b.modules, modules...) }

// OverrideModules registers modules whose bindings replace bindings of
// the same type from regular modules.
func (b *Builder) OverrideModules(modules ...injector.Module) {
	b.overrides = append(b.overrides, modules...)
}

// Installers registers installers.
func (b *Builder) Installers(installers ...installer.Installer) {
	b.installers = append(b.installers, installers...)
}

// Extensions registers extensions. A reflect.Type registers the type; any
// other value registers its dynamic type and is bound as that type's
// instance. A typed nil pointer registers only its type. Nil values and
// repeated types are ignored.
func (b *Builder) Extensions(exts ...any) {
	for _, e := range exts {
		t, ok := extensionType(e)
		if !ok {
			continue
		}
		if _, isType := e.(reflect.Type); !isType && !isNilPointer(e) {
			b.instances[t] = e
		}
		if !b.hasExtension(t) {
			b.extensions = append(b.extensions, t)
		}
	}
}

// DisableBundles prevents bundles with the given names from being used.
func (b *Builder) DisableBundles(names ...string) {
	for _, n := range names {
		b.disabledBundles[n] = true
	}
}

// DisableInstallers prevents installers with the given names from being used.
func (b *Builder) DisableInstallers(names ...string) {
	for _, n := range names {
		b.disabledInstallers[n] = true
	}
}

// DisableExtensions prevents extensions from being installed. Values are
// handled as in Extensions.
func (b *Builder) DisableExtensions(exts ...any) {
	for _, e := range exts {
		if t, ok := extensionType(e); ok {
			b.disabledExtensions[t] = true
		}
	}
}

// RegisteredBundles returns every bundle registered so far, in order,
// including duplicates and disabled ones.
func (b *Builder) RegisteredBundles() []Bundle { return b.bundles }

// RegisteredModules returns the regular modules.
func (b *Builder) RegisteredModules() []injector.Module { return b.modules }

// RegisteredOverrides returns the override modules.
func (b *Builder) RegisteredOverrides() []injector.Module { return b.overrides }

// RegisteredInstallers returns the installers in registration order.
func (b *Builder) RegisteredInstallers() []installer.Installer { return b.installers }

// RegisteredExtensions returns the extension types in registration order.
func (b *Builder) RegisteredExtensions() []reflect.Type { return b.extensions }

// Instance returns the instance registered for extension type t, if any.
func (b *Builder) Instance(t reflect.Type) (any, bool) {
	v, ok := b.instances[t]
	return v, ok
}

// BundleDisabled reports whether the bundle name is disabled.
func (b *Builder) BundleDisabled(name string) bool { return b.disabledBundles[name] }

// InstallerDisabled reports whether the installer name is disabled.
func (b *Builder) InstallerDisabled(name string) bool { return b.disabledInstallers[name] }

// ExtensionDisabled reports whether extension type t is disabled, either
// directly or by type name in Config.DisabledExtensions.
func (b *Builder) ExtensionDisabled(t reflect.Type) bool {
	if b.disabledExtensions[t] {
		return true
	}
	for _, name := range b.config.DisabledExtensions {
		if t.String() == name {
			return true
		}
	}
	return false
}

func (b *Builder) hasExtension(t reflect.Type) bool {
	for _, e := range b.extensions {
		if e == t {
			return true
		}
	}
	return false
}

// extensionType returns the type an extension value stands for.
func extensionType(e any) (reflect.Type, bool) {
	if e == nil {
		return nil, false
	}
	if t, ok := e.(reflect.Type); ok {
		return t, true
	}
	return reflect.TypeOf(e), true
}

func isNilPointer(e any) bool {
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
