package bundle

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xraph/kickstart"
)

// EnvBundles selects lookup bundles by name (comma separated). When unset,
// every registered lookup bundle is used.
const EnvBundles = "KICKSTART_BUNDLES"

// Factory creates a lookup bundle.
type Factory func() Bundle

type lookupEntry struct {
	name    string
	factory Factory
}

var (
	lookupMu sync.RWMutex
	lookups  []lookupEntry
)

// RegisterLookup makes a bundle discoverable by bootstraps with
// Config.BundleLookup enabled. It is meant to be called from init().
// Registering a name again replaces the factory.
func RegisterLookup(name string, factory Factory) {
	lookupMu.Lock()
	defer lookupMu.Unlock()
	for i, e := range lookups {
		if e.name == name {
			lookups[i].factory = factory
			return
		}
	}
	lookups = append(lookups, lookupEntry{name: name, factory: factory})
}

// UnregisterLookup removes a lookup bundle.
func UnregisterLookup(name string) {
	lookupMu.Lock()
	defer lookupMu.Unlock()
	for i, e := range lookups {
		if e.name == name {
			lookups = append(lookups[:i], lookups[i+1:]...)
			return
		}
	}
}

// Lookup creates the lookup bundles, honoring EnvBundles. Registration
// order is kept when every bundle is used; the env var order otherwise.
func Lookup() ([]Bundle, error) {
	lookupMu.RLock()
	defer lookupMu.RUnlock()

	raw := strings.TrimSpace(os.Getenv(EnvBundles))
	if raw == "" {
		out := make([]Bundle, 0, len(lookups))
		for _, e := range lookups {
			out = append(out, e.factory())
		}
		return out, nil
	}

	var out []Bundle
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		f, ok := findLookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", kickstart.ErrUnknownBundle, name)
		}
		out = append(out, f())
	}
	return out, nil
}

func findLookup(name string) (Factory, bool) {
	for _, e := range lookups {
		if e.name == name {
			return e.factory, true
		}
	}
	return nil, false
}
