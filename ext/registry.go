package ext

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/xraph/kickstart"
	"github.com/xraph/kickstart/id"
	"github.com/xraph/kickstart/lifecycle"
	"github.com/xraph/kickstart/middleware"
)

// HookError reports the listener that failed a checkpoint.
type HookError struct {
	Listener   string
	Checkpoint lifecycle.Checkpoint
	Err        error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("kickstart: listener %s failed at %s: %v", e.Listener, e.Checkpoint, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

// typedCall pairs a checkpoint with a call that accepts any payload of it.
type typedCall struct {
	checkpoint lifecycle.Checkpoint
	call       func(ctx context.Context, ev lifecycle.Event) error
}

// entry pairs a call with the listener name captured at registration time.
type entry struct {
	name string
	call func(ctx context.Context, ev lifecycle.Event) error
}

// Registry holds registered listeners and dispatches lifecycle events to
// them. Listeners are type-cached per checkpoint at registration time so
// emit iterates only over listeners that handle the checkpoint.
type Registry struct {
	logger    *slog.Logger
	listeners []Listener
	entries   map[lifecycle.Checkpoint][]entry
	mws       []middleware.Middleware
	chain     middleware.Middleware
	sealed    bool
	fired     []lifecycle.Checkpoint
}

// NewRegistry creates a listener registry. A nil logger falls back to
// slog.Default().
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger:  logger,
		entries: make(map[lifecycle.Checkpoint][]entry),
		chain:   middleware.Chain(),
	}
}

// Register adds a listener and caches it under every checkpoint it
// handles. Listeners are notified in registration order.
func (r *Registry) Register(l Listener) error {
	if r.sealed {
		return kickstart.ErrRegistrySealed
	}
	name := l.Name()
	r.listeners = append(r.listeners, l)

	if h, ok := l.(ConfiguratorsProcessed); ok {
		r.add(name, adapt(h.OnConfiguratorsProcessed))
	}
	if h, ok := l.(Initialization); ok {
		r.add(name, adapt(h.OnInitialization))
	}
	if h, ok := l.(BundlesFromDwResolved); ok {
		r.add(name, adapt(h.OnBundlesFromDwResolved))
	}
	if h, ok := l.(BundlesFromLookupResolved); ok {
		r.add(name, adapt(h.OnBundlesFromLookupResolved))
	}
	if h, ok := l.(BundlesResolved); ok {
		r.add(name, adapt(h.OnBundlesResolved))
	}
	if h, ok := l.(BundlesProcessed); ok {
		r.add(name, adapt(h.OnBundlesProcessed))
	}
	if h, ok := l.(InjectorCreation); ok {
		r.add(name, adapt(h.OnInjectorCreation))
	}
	if h, ok := l.(InstallersResolved); ok {
		r.add(name, adapt(h.OnInstallersResolved))
	}
	if h, ok := l.(ExtensionsResolved); ok {
		r.add(name, adapt(h.OnExtensionsResolved))
	}
	if h, ok := l.(InjectorCreated); ok {
		r.add(name, adapt(h.OnInjectorCreated))
	}
	if h, ok := l.(ExtensionsInstalledBy); ok {
		r.add(name, adapt(h.OnExtensionsInstalledBy))
	}
	if h, ok := l.(ExtensionsInstalled); ok {
		r.add(name, adapt(h.OnExtensionsInstalled))
	}
	if h, ok := l.(ApplicationRun); ok {
		r.add(name, adapt(h.OnApplicationRun))
	}
	if h, ok := l.(HkConfiguration); ok {
		r.add(name, adapt(h.OnHkConfiguration))
	}
	if h, ok := l.(HkExtensionsInstalledBy); ok {
		r.add(name, adapt(h.OnHkExtensionsInstalledBy))
	}
	if h, ok := l.(HkExtensionsInstalled); ok {
		r.add(name, adapt(h.OnHkExtensionsInstalled))
	}

	if h, ok := l.(EventListener); ok {
		for _, cp := range lifecycle.Checkpoints() {
			r.entries[cp] = append(r.entries[cp], entry{name, h.OnEvent})
		}
	}
	return nil
}

// On subscribes fn to the checkpoint bound to payload type E. An empty
// name is replaced by a generated listener ID.
func On[E lifecycle.Event](r *Registry, name string, fn func(ctx context.Context, ev E) error) error {
	if r.sealed {
		return kickstart.ErrRegistrySealed
	}
	var zero E
	if any(zero) == nil {
		return fmt.Errorf("%w: %s is not a payload type", kickstart.ErrInvalidCheckpoint, reflect.TypeFor[E]())
	}
	r.add(subscriptionName(name), adapt(fn))
	return nil
}

// Subscribe subscribes fn to the given checkpoints, or to every checkpoint
// when none are given. An empty name is replaced by a generated listener ID.
func Subscribe(r *Registry, name string, fn func(ctx context.Context, ev lifecycle.Event) error, checkpoints ...lifecycle.Checkpoint) error {
	if r.sealed {
		return kickstart.ErrRegistrySealed
	}
	if len(checkpoints) == 0 {
		checkpoints = lifecycle.Checkpoints()
	}
	for _, cp := range checkpoints {
		if !cp.Valid() {
			return fmt.Errorf("%w: %d", kickstart.ErrInvalidCheckpoint, int(cp))
		}
	}

	name = subscriptionName(name)
	for _, cp := range checkpoints {
		r.entries[cp] = append(r.entries[cp], entry{name, fn})
	}
	return nil
}

// Use appends middleware wrapped around every listener call. The first
// middleware ever added is the outermost wrapper.
func (r *Registry) Use(mws ...middleware.Middleware) {
	r.mws = append(r.mws, mws...)
	r.chain = middleware.Chain(r.mws...)
}

// Seal forbids further registration. The engine seals the registry when
// the bootstrap begins.
func (r *Registry) Seal() { r.sealed = true }

// Sealed reports whether the registry was sealed.
func (r *Registry) Sealed() bool { return r.sealed }

// Listeners returns the listeners registered through Register.
func (r *Registry) Listeners() []Listener { return r.listeners }

// Subscribers returns the names of the listeners called for cp, in call
// order.
func (r *Registry) Subscribers(cp lifecycle.Checkpoint) []string {
	out := make([]string, 0, len(r.entries[cp]))
	for _, e := range r.entries[cp] {
		out = append(out, e.name)
	}
	return out
}

// Fired returns the checkpoints emitted so far, in emit order.
func (r *Registry) Fired() []lifecycle.Checkpoint {
	out := make([]lifecycle.Checkpoint, len(r.fired))
	copy(out, r.fired)
	return out
}

// Emit delivers ev to every listener of its checkpoint. An event whose
// type is not the catalog payload of its checkpoint is rejected with
// ErrInvalidCheckpoint. The checkpoint is recorded as fired even when no
// listener handles it. Dispatch stops at
// the first listener error, which is returned as a *HookError.
func (r *Registry) Emit(ctx context.Context, ev lifecycle.Event) error {
	if ev == nil {
		return kickstart.ErrNilEvent
	}
	if v := reflect.ValueOf(ev); v.Kind() == reflect.Pointer && v.IsNil() {
		return kickstart.ErrNilEvent
	}
	cp := ev.Checkpoint()
	if reflect.TypeOf(ev) != lifecycle.PayloadTypeOf(cp) {
		return fmt.Errorf("%w: %T is not the payload of %s", kickstart.ErrInvalidCheckpoint, ev, cp)
	}
	if err := r.guard(cp); err != nil {
		return err
	}
	r.fired = append(r.fired, cp)

	entries := r.entries[cp]
	for i, e := range entries {
		c := &middleware.Call{Listener: e.name, Event: ev}
		call := e.call
		err := r.chain(ctx, c, func(ctx context.Context) error {
			return call(ctx, ev)
		})
		if err != nil {
			r.logAborted(cp, e.name, len(entries)-i-1)
			return &HookError{Listener: e.name, Checkpoint: cp, Err: err}
		}
	}
	return nil
}

// guard rejects invalid, repeated and out-of-order checkpoints.
func (r *Registry) guard(cp lifecycle.Checkpoint) error {
	if !cp.Valid() {
		return fmt.Errorf("%w: %d", kickstart.ErrInvalidCheckpoint, int(cp))
	}
	if len(r.fired) == 0 {
		return nil
	}
	last := r.fired[len(r.fired)-1]
	if !cp.Repeatable() {
		for _, f := range r.fired {
			if f == cp {
				return fmt.Errorf("%w: %s", kickstart.ErrCheckpointRepeated, cp)
			}
		}
	}
	if cp.Before(last) {
		return fmt.Errorf("%w: %s after %s", kickstart.ErrCheckpointOutOfOrder, cp, last)
	}
	return nil
}

func (r *Registry) add(name string, tc typedCall) {
	r.entries[tc.checkpoint] = append(r.entries[tc.checkpoint], entry{name, tc.call})
}

// adapt turns a typed hook into a call keyed by the checkpoint of E.
func adapt[E lifecycle.Event](fn func(ctx context.Context, ev E) error) typedCall {
	var zero E
	return typedCall{
		checkpoint: zero.Checkpoint(),
		call: func(ctx context.Context, ev lifecycle.Event) error {
			return fn(ctx, ev.(E))
		},
	}
}

func subscriptionName(name string) string {
	if name == "" {
		return id.NewListenerID().String()
	}
	return name
}

// logAborted records a dispatch cut short by a failing listener. The
// failure itself is logged by the logging middleware.
func (r *Registry) logAborted(cp lifecycle.Checkpoint, listener string, skipped int) {
	r.logger.Debug("dispatch aborted",
		slog.String("checkpoint", cp.String()),
		slog.String("listener", listener),
		slog.Int("skipped", skipped),
	)
}
