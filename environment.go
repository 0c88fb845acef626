package kickstart

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

// Managed is an object whose lifecycle follows the application: started
// after the bootstrap completes and stopped on shutdown.
type Managed interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Environment is the run-phase view of an application. Installers attach
// managed objects to it; the web phase sets its HTTP handler.
type Environment struct {
	config  Config
	logger  *slog.Logger
	handler http.Handler
	managed []Managed
}

// NewEnvironment creates an Environment for the given config. A nil logger
// falls back to slog.Default().
func NewEnvironment(cfg Config, logger *slog.Logger) *Environment {
	if logger == nil {
		logger = slog.Default()
	}
	return &Environment{
		config:  cfg,
		logger:  logger,
		handler: http.NotFoundHandler(),
	}
}

// Config returns the run configuration.
func (e *Environment) Config() Config { return e.config }

// Logger returns the environment logger.
func (e *Environment) Logger() *slog.Logger { return e.logger }

// Handler returns the HTTP handler served by the application. It answers
// 404 until the web phase installs its container.
func (e *Environment) Handler() http.Handler { return e.handler }

// SetHandler replaces the HTTP handler served by the application.
func (e *Environment) SetHandler(h http.Handler) { e.handler = h }

// Manage attaches a managed object.
func (e *Environment) Manage(m Managed) { e.managed = append(e.managed, m) }

// Managed returns the attached managed objects in attach order.
func (e *Environment) Managed() []Managed { return e.managed }

// Start starts managed objects in attach order. On failure the objects
// already started are stopped in reverse order.
func (e *Environment) Start(ctx context.Context) error {
	for i, m := range e.managed {
		if err := m.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				if stopErr := e.managed[j].Stop(ctx); stopErr != nil {
					e.logger.Error("managed stop error", slog.String("error", stopErr.Error()))
				}
			}
			return err
		}
	}
	return nil
}

// Stop stops managed objects in reverse attach order and joins their errors.
func (e *Environment) Stop(ctx context.Context) error {
	var errs []error
	for i := len(e.managed) - 1; i >= 0; i-- {
		if err := e.managed[i].Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
