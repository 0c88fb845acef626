package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/xraph/kickstart"
	"github.com/xraph/kickstart/bundle"
	"github.com/xraph/kickstart/injector"
)

// demoBundle registers a managed ticker and an HTTP handler, and pulls in
// a nested bundle for health checks.
type demoBundle struct{}

func (*demoBundle) Name() string { return "demo" }

func (*demoBundle) Initialize(b *bundle.Builder) error {
	b.Extensions(reflect.TypeFor[*ticker](), reflect.TypeFor[*helloHandler]())
	b.Bundles(&healthBundle{})
	return nil
}

type healthBundle struct{}

func (*healthBundle) Name() string { return "health" }

func (*healthBundle) Initialize(b *bundle.Builder) error {
	b.Extensions(reflect.TypeFor[*healthHandler]())
	return nil
}

func greetingConfigurator() bundle.Configurator {
	return bundle.ConfiguratorFunc(func(b *bundle.Builder) error {
		b.Modules(injector.ModuleFunc(func(bd *injector.Binder) error {
			injector.Provide(bd, func(injector.Injector) (string, error) {
				return "hello from " + b.Config().Name, nil
			})
			return nil
		}))
		return nil
	})
}

// ticker is a managed object that only logs its transitions.
type ticker struct {
	Env *kickstart.Environment `inject:""`
}

func (t *ticker) Start(context.Context) error {
	t.Env.Logger().Info("ticker started", slog.String("app", t.Env.Config().Name))
	return nil
}

func (t *ticker) Stop(context.Context) error {
	t.Env.Logger().Info("ticker stopped")
	return nil
}

type helloHandler struct {
	Greeting string `inject:""`
}

func (*helloHandler) Pattern() string { return "GET /hello" }

func (h *helloHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	_, _ = io.WriteString(w, h.Greeting)
}

type healthHandler struct{}

func (*healthHandler) Pattern() string { return "GET /healthz" }

func (*healthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
