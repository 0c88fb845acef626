// Package web is the secondary container subsystem: the request-handling
// side of an application that starts after the injector and the
// environment are ready. It owns the HTTP router and a service locator
// for request-scoped collaborators.
package web

import (
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// Container holds the routes and services of the web subsystem.
type Container struct {
	router *gin.Engine

	mu       sync.RWMutex
	routes   []string
	services map[reflect.Type]any
}

// NewContainer creates a Container with an empty gin router.
func NewContainer() *Container {
	r := gin.New()
	r.Use(gin.Recovery())
	return &Container{
		router:   r,
		services: make(map[reflect.Type]any),
	}
}

// Router returns the underlying gin engine.
func (c *Container) Router() *gin.Engine { return c.router }

// Handle mounts h at pattern. A pattern is "[METHOD ]/path"; without a
// method the route answers every method. Path wildcards may use gin
// syntax (":id", "*rest") or the net/http form ("{id}", "{rest...}").
func (c *Container) Handle(pattern string, h http.Handler) (err error) {
	method, path, err := ParsePattern(pattern)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// gin panics on conflicting or malformed routes.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("web: mount %q: %v", pattern, r)
		}
	}()
	if method == "" {
		c.router.Any(path, gin.WrapH(h))
	} else {
		c.router.Handle(method, path, gin.WrapH(h))
	}
	c.routes = append(c.routes, pattern)
	return nil
}

// Routes returns the mounted patterns in sorted order.
func (c *Container) Routes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.routes))
	copy(out, c.routes)
	sort.Strings(out)
	return out
}

// Register makes v available to Service under its dynamic type.
func (c *Container) Register(v any) { c.RegisterAs(reflect.TypeOf(v), v) }

// RegisterAs makes v available to Service under t, typically an interface
// type v implements.
func (c *Container) RegisterAs(t reflect.Type, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[t] = v
}

// Service returns the service registered under t.
func (c *Container) Service(t reflect.Type) (any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.services[t]
	if !ok {
		return nil, fmt.Errorf("web: no service %s", t)
	}
	return v, nil
}

// ServeHTTP implements http.Handler.
func (c *Container) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.router.ServeHTTP(w, r)
}

// ParsePattern splits a route pattern into its method and its gin path.
// The method is empty when the pattern has none.
func ParsePattern(pattern string) (method, path string, err error) {
	pattern = strings.TrimSpace(pattern)
	if m, p, ok := strings.Cut(pattern, " "); ok {
		method, pattern = strings.ToUpper(m), strings.TrimSpace(p)
	}
	if !strings.HasPrefix(pattern, "/") {
		return "", "", fmt.Errorf("web: pattern %q: path must start with /", pattern)
	}

	segs := strings.Split(pattern, "/")
	for i, s := range segs {
		if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
			continue
		}
		name := s[1 : len(s)-1]
		if rest, ok := strings.CutSuffix(name, "..."); ok {
			segs[i] = "*" + rest
		} else {
			segs[i] = ":" + name
		}
	}
	return method, strings.Join(segs, "/"), nil
}
