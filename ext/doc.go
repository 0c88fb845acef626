// Package ext dispatches lifecycle events to registered listeners.
//
// Listeners opt in to the checkpoints they care about by implementing the
// matching hook interface. Each hook receives the concrete payload type
// bound to its checkpoint, so a listener never has to type-switch.
//
// # Implementing a Listener
//
//	type Audit struct{}
//
//	func (a *Audit) Name() string { return "audit" }
//
//	func (a *Audit) OnInjectorCreated(ctx context.Context, ev *lifecycle.InjectorCreatedEvent) error {
//	    log.Printf("injector ready with %d bindings", len(ev.Injector.Bindings()))
//	    return nil
//	}
//
// A listener implementing [EventListener] receives every checkpoint.
// Functions can be subscribed without a listener type:
//
//	ext.On(reg, "audit", func(ctx context.Context, ev *lifecycle.BundlesResolvedEvent) error { ... })
//	ext.Subscribe(reg, "trace", fn, lifecycle.InjectorCreation, lifecycle.InjectorCreated)
//
// # Dispatch
//
// The [Registry] calls listeners synchronously, in registration order,
// through its middleware chain. The first listener error stops dispatch
// for that checkpoint and is returned as a [*HookError]. Before any
// listener runs, [Registry.Emit] rejects nil payloads, a second emit of a
// non-repeatable checkpoint and any checkpoint emitted after a later one.
package ext
