package middleware

import (
	"context"

	"github.com/xraph/kickstart/lifecycle"
)

// Call describes one listener invocation.
type Call struct {
	// Listener is the name the listener was registered under.
	Listener string

	// Event is the payload being delivered.
	Event lifecycle.Event
}

// Checkpoint returns the checkpoint of the delivered event.
func (c *Call) Checkpoint() lifecycle.Checkpoint { return c.Event.Checkpoint() }

// Handler is the terminal function that invokes the listener.
type Handler func(ctx context.Context) error

// Middleware wraps a listener invocation with cross-cutting logic.
// It receives the current context, the call being made, and the next
// handler. Middleware MUST call next to continue the chain unless it
// deliberately short-circuits.
type Middleware func(ctx context.Context, c *Call, next Handler) error

// Chain composes multiple middleware into a single Middleware. The first
// middleware in the list is the outermost wrapper.
//
//	Chain(recover, logging, tracing) runs as recover → logging → tracing → listener
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, c *Call, next Handler) error {
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) error {
				return mw(ctx, c, prev)
			}
		}
		return h(ctx)
	}
}
