package installer

import (
	"context"
	"fmt"
	"net/http"
	"reflect"

	"github.com/xraph/kickstart"
	"github.com/xraph/kickstart/injector"
	"github.com/xraph/kickstart/web"
)

// Compile-time interface checks.
var (
	_ Installer    = (*Managed)(nil)
	_ Ordered      = (*Managed)(nil)
	_ WebInstaller = (*Handler)(nil)
	_ Ordered      = (*Handler)(nil)
)

var (
	managedType = reflect.TypeFor[kickstart.Managed]()
	handlerType = reflect.TypeFor[http.Handler]()
	routeType   = reflect.TypeFor[Route]()
)

// Managed attaches extensions implementing kickstart.Managed to the
// environment.
type Managed struct{}

// Name implements Installer.
func (*Managed) Name() string { return "managed" }

// Order implements Ordered.
func (*Managed) Order() int { return 100 }

// Matches implements Installer.
func (*Managed) Matches(t reflect.Type) bool { return t.Implements(managedType) }

// Install implements Installer.
func (*Managed) Install(_ context.Context, env *kickstart.Environment, inj injector.Injector, t reflect.Type) error {
	v, err := inj.Instance(t)
	if err != nil {
		return fmt.Errorf("managed: resolve %s: %w", t, err)
	}
	env.Manage(v.(kickstart.Managed))
	return nil
}

// Route is implemented by HTTP handler extensions to declare where they
// are mounted. Pattern is "[METHOD ]/path", see web.ParsePattern.
type Route interface {
	Pattern() string
}

// Handler mounts extensions implementing both http.Handler and Route on
// the web container.
type Handler struct{}

// Name implements Installer.
func (*Handler) Name() string { return "handler" }

// Order implements Ordered.
func (*Handler) Order() int { return 200 }

// Matches implements Installer.
func (*Handler) Matches(t reflect.Type) bool {
	return t.Implements(handlerType) && t.Implements(routeType)
}

// Install resolves the handler so construction errors surface before the
// web container starts.
func (*Handler) Install(_ context.Context, _ *kickstart.Environment, inj injector.Injector, t reflect.Type) error {
	if _, err := inj.Instance(t); err != nil {
		return fmt.Errorf("handler: resolve %s: %w", t, err)
	}
	return nil
}

// InstallWeb implements WebInstaller.
func (*Handler) InstallWeb(_ context.Context, c *web.Container, inj injector.Injector, t reflect.Type) error {
	v, err := inj.Instance(t)
	if err != nil {
		return fmt.Errorf("handler: resolve %s: %w", t, err)
	}
	if err := c.Handle(v.(Route).Pattern(), v.(http.Handler)); err != nil {
		return fmt.Errorf("handler: %w", err)
	}
	return nil
}
