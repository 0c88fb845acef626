// Package lifecycle defines the ordered checkpoints of a bootstrap and the
// event payload raised at each of them.
//
// Checkpoints are declared in execution order. Each one is bound to
// exactly one payload type; the payload reports its own checkpoint, and
// that report always agrees with the catalog:
//
//	lifecycle.PayloadTypeOf(lifecycle.InjectorCreated) // *lifecycle.InjectorCreatedEvent
//	(&lifecycle.InjectorCreatedEvent{}).Checkpoint()   // lifecycle.InjectorCreated
//
// # Init phase
//
//   - [ConfiguratorsProcessed]: configurators applied (only if any)
//   - [Initialization]: init phase finished
//
// # Run phase
//
//   - [BundlesFromDwResolved]: application bundles recognized (only if any)
//   - [BundlesFromLookupResolved]: lookup bundles recognized (only if any)
//   - [BundlesResolved]: top-level bundles resolved (only if any)
//   - [BundlesProcessed]: all bundles processed, transitive ones included
//   - [InjectorCreation]: modules known, injector about to be built
//   - [InstallersResolved]: installers resolved and ordered
//   - [ExtensionsResolved]: extension types matched to installers
//   - [InjectorCreated]: injector built, extensions not yet installed
//   - [ExtensionsInstalledBy]: one installer finished (per installer)
//   - [ExtensionsInstalled]: all installers finished (only if any installed)
//   - [ApplicationRun]: bootstrap done, before the application's own run
//
// # Web phase
//
//   - [HkConfiguration]: web container starting
//   - [HkExtensionsInstalledBy]: one web installer finished (per installer)
//   - [HkExtensionsInstalled]: all web installers finished (only if any installed)
package lifecycle

import (
	"fmt"

	"github.com/xraph/kickstart"
)

// Checkpoint identifies a point in the bootstrap at which an event fires.
// The zero value is not a valid checkpoint.
type Checkpoint int

// Checkpoints in execution order.
const (
	ConfiguratorsProcessed Checkpoint = iota + 1
	Initialization
	BundlesFromDwResolved
	BundlesFromLookupResolved
	BundlesResolved
	BundlesProcessed
	InjectorCreation
	InstallersResolved
	ExtensionsResolved
	InjectorCreated
	ExtensionsInstalledBy
	ExtensionsInstalled
	ApplicationRun
	HkConfiguration
	HkExtensionsInstalledBy
	HkExtensionsInstalled
)

// Phase groups checkpoints by the bootstrap stage that raises them.
type Phase int

// Bootstrap phases.
const (
	PhaseInit Phase = iota + 1
	PhaseRun
	PhaseWeb
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseRun:
		return "run"
	case PhaseWeb:
		return "web"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Valid reports whether c is one of the declared checkpoints.
func (c Checkpoint) Valid() bool {
	return c >= ConfiguratorsProcessed && c <= HkExtensionsInstalled
}

// String returns the checkpoint name.
func (c Checkpoint) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Checkpoint(%d)", int(c))
	}
	return catalog[c-1].Name
}

// Order returns the 1-based position of c in the bootstrap sequence.
func (c Checkpoint) Order() int { return int(c) }

// Before reports whether c fires before other.
func (c Checkpoint) Before(other Checkpoint) bool { return c < other }

// Phase returns the phase that raises c.
func (c Checkpoint) Phase() Phase {
	if !c.Valid() {
		return 0
	}
	return catalog[c-1].Phase
}

// Conditional reports whether c fires only when its condition held during
// the run.
func (c Checkpoint) Conditional() bool {
	return c.Valid() && catalog[c-1].Conditional
}

// Repeatable reports whether c may fire more than once per run.
func (c Checkpoint) Repeatable() bool {
	return c.Valid() && catalog[c-1].Repeatable
}

// ParseCheckpoint returns the checkpoint with the given name.
func ParseCheckpoint(name string) (Checkpoint, error) {
	for _, e := range catalog {
		if e.Name == name {
			return e.Checkpoint, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", kickstart.ErrInvalidCheckpoint, name)
}

// MarshalText implements encoding.TextMarshaler.
func (c Checkpoint) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", kickstart.ErrInvalidCheckpoint, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Checkpoint) UnmarshalText(data []byte) error {
	parsed, err := ParseCheckpoint(string(data))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
