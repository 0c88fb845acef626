package lifecycle

import "reflect"

// Entry describes one checkpoint of the catalog. Condition explains when a
// conditional checkpoint fires; Description tells when the checkpoint
// fires and what is available at that moment.
type Entry struct {
	Checkpoint  Checkpoint
	Name        string
	Payload     reflect.Type
	Phase       Phase
	Conditional bool
	Condition   string
	Repeatable  bool
	Description string
}

// catalog is indexed by Checkpoint-1 and never modified.
var catalog = [...]Entry{
	{
		Checkpoint:  ConfiguratorsProcessed,
		Name:        "ConfiguratorsProcessed",
		Payload:     reflect.TypeFor[*ConfiguratorsProcessedEvent](),
		Phase:       PhaseInit,
		Conditional: true,
		Condition:   "at least one configurator used",
		Description: "All configurators applied. Provides the executed configurators.",
	},
	{
		Checkpoint:  Initialization,
		Name:        "Initialization",
		Payload:     reflect.TypeFor[*InitializationEvent](),
		Phase:       PhaseInit,
		Description: "Init phase finished. Provides the commands found by command search.",
	},
	{
		Checkpoint:  BundlesFromDwResolved,
		Name:        "BundlesFromDwResolved",
		Payload:     reflect.TypeFor[*BundlesFromDwResolvedEvent](),
		Phase:       PhaseRun,
		Conditional: true,
		Condition:   "application bundles enabled and at least one recognized",
		Description: "Application bundles recognized. Some may be disabled later.",
	},
	{
		Checkpoint:  BundlesFromLookupResolved,
		Name:        "BundlesFromLookupResolved",
		Payload:     reflect.TypeFor[*BundlesFromLookupResolvedEvent](),
		Phase:       PhaseRun,
		Conditional: true,
		Condition:   "at least one bundle found by lookup",
		Description: "Lookup bundles recognized. Some may be disabled later.",
	},
	{
		Checkpoint:  BundlesResolved,
		Name:        "BundlesResolved",
		Payload:     reflect.TypeFor[*BundlesResolvedEvent](),
		Phase:       PhaseRun,
		Conditional: true,
		Condition:   "at least one bundle registered",
		Description: "All top-level bundles resolved. Provides the enabled bundles.",
	},
	{
		Checkpoint:  BundlesProcessed,
		Name:        "BundlesProcessed",
		Payload:     reflect.TypeFor[*BundlesProcessedEvent](),
		Phase:       PhaseRun,
		Description: "Bundles processed, including bundles registered by bundles. Fires even with no bundles.",
	},
	{
		Checkpoint:  InjectorCreation,
		Name:        "InjectorCreation",
		Payload:     reflect.TypeFor[*InjectorCreationEvent](),
		Phase:       PhaseRun,
		Description: "Just before the injector is built. Provides main and override modules.",
	},
	{
		Checkpoint:  InstallersResolved,
		Name:        "InstallersResolved",
		Payload:     reflect.TypeFor[*InstallersResolvedEvent](),
		Phase:       PhaseRun,
		Description: "Installers resolved and ordered. Fires even with no installers.",
	},
	{
		Checkpoint:  ExtensionsResolved,
		Name:        "ExtensionsResolved",
		Payload:     reflect.TypeFor[*ExtensionsResolvedEvent](),
		Phase:       PhaseRun,
		Description: "Extension types matched to installers. Instances are not created yet.",
	},
	{
		Checkpoint:  InjectorCreated,
		Name:        "InjectorCreated",
		Payload:     reflect.TypeFor[*InjectorCreatedEvent](),
		Phase:       PhaseRun,
		Description: "Injector built and accessible. Extensions are not installed yet.",
	},
	{
		Checkpoint:  ExtensionsInstalledBy,
		Name:        "ExtensionsInstalledBy",
		Payload:     reflect.TypeFor[*ExtensionsInstalledByEvent](),
		Phase:       PhaseRun,
		Conditional: true,
		Condition:   "installer installed at least one extension",
		Repeatable:  true,
		Description: "One installer installed its extensions. Fires once per such installer.",
	},
	{
		Checkpoint:  ExtensionsInstalled,
		Name:        "ExtensionsInstalled",
		Payload:     reflect.TypeFor[*ExtensionsInstalledEvent](),
		Phase:       PhaseRun,
		Conditional: true,
		Condition:   "at least one extension installed",
		Description: "All installers finished. Provides every installed extension.",
	},
	{
		Checkpoint:  ApplicationRun,
		Name:        "ApplicationRun",
		Payload:     reflect.TypeFor[*ApplicationRunEvent](),
		Phase:       PhaseRun,
		Description: "Bootstrap complete and extensions installed, before the application's own run hook.",
	},
	{
		Checkpoint:  HkConfiguration,
		Name:        "HkConfiguration",
		Payload:     reflect.TypeFor[*HkConfigurationEvent](),
		Phase:       PhaseWeb,
		Description: "Web container starting. The container and its locator are accessible from here on.",
	},
	{
		Checkpoint:  HkExtensionsInstalledBy,
		Name:        "HkExtensionsInstalledBy",
		Payload:     reflect.TypeFor[*HkExtensionsInstalledByEvent](),
		Phase:       PhaseWeb,
		Conditional: true,
		Condition:   "web installer installed at least one extension",
		Repeatable:  true,
		Description: "One web installer installed its extensions. Fires once per such installer.",
	},
	{
		Checkpoint:  HkExtensionsInstalled,
		Name:        "HkExtensionsInstalled",
		Payload:     reflect.TypeFor[*HkExtensionsInstalledEvent](),
		Phase:       PhaseWeb,
		Conditional: true,
		Condition:   "at least one web extension installed",
		Description: "All web installers finished. Provides every extension installed into the container.",
	},
}

// Checkpoints returns every checkpoint in execution order.
func Checkpoints() []Checkpoint {
	out := make([]Checkpoint, len(catalog))
	for i, e := range catalog {
		out[i] = e.Checkpoint
	}
	return out
}

// Catalog returns every entry in execution order.
func Catalog() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog[:])
	return out
}

// Lookup returns the entry for c.
func Lookup(c Checkpoint) (Entry, bool) {
	if !c.Valid() {
		return Entry{}, false
	}
	return catalog[c-1], true
}

// PayloadTypeOf returns the payload type bound to c, or nil when c is not
// a declared checkpoint.
func PayloadTypeOf(c Checkpoint) reflect.Type {
	if !c.Valid() {
		return nil
	}
	return catalog[c-1].Payload
}
