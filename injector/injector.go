// Package injector is the minimal dependency injector the bootstrap builds
// after all modules are known.
//
// Bindings map a type to a provider. Instances are singletons: a provider
// runs at most once per injector. Types without a binding are constructed
// just in time when they are pointers to structs; their fields tagged
// `inject:""` are resolved from the injector recursively.
package injector

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/xraph/kickstart"
)

// Provider builds an instance for a binding. The injector it receives is
// only valid for the duration of the call; depend on Injector through an
// `inject` field or Get to keep one.
type Provider func(inj Injector) (any, error)

// Module contributes bindings to an injector.
type Module interface {
	Configure(b *Binder) error
}

// ModuleFunc adapts a function to Module.
type ModuleFunc func(b *Binder) error

// Configure implements Module.
func (f ModuleFunc) Configure(b *Binder) error { return f(b) }

// Injector resolves instances by type.
type Injector interface {
	// Instance returns the singleton instance for t.
	Instance(t reflect.Type) (any, error)

	// Bindings returns the explicitly bound types in binding order.
	Bindings() []reflect.Type
}

// Binder collects bindings while modules are configured.
type Binder struct {
	providers map[reflect.Type]Provider
	order     []reflect.Type
}

// Bind registers a provider for t. A later binding for the same type
// replaces the earlier one.
func (b *Binder) Bind(t reflect.Type, p Provider) {
	if _, ok := b.providers[t]; !ok {
		b.order = append(b.order, t)
	}
	b.providers[t] = p
}

// BindInstance binds v under its dynamic type.
func (b *Binder) BindInstance(v any) {
	b.Bind(reflect.TypeOf(v), func(Injector) (any, error) { return v, nil })
}

// Provide binds a typed provider under T. Use an interface type for T to
// bind an implementation to its interface.
func Provide[T any](b *Binder, fn func(inj Injector) (T, error)) {
	b.Bind(reflect.TypeFor[T](), func(inj Injector) (any, error) {
		v, err := fn(inj)
		if err != nil {
			return nil, err
		}
		return v, nil
	})
}

// Get resolves an instance of T.
func Get[T any](inj Injector) (T, error) {
	var zero T
	v, err := inj.Instance(reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("injector: %T is not %s", v, reflect.TypeFor[T]())
	}
	return t, nil
}

// New configures modules, then overrides, and returns the injector.
// Bindings from overrides replace bindings of the same type from modules.
func New(modules []Module, overrides []Module) (Injector, error) {
	b := &Binder{providers: make(map[reflect.Type]Provider)}
	for _, m := range modules {
		if err := m.Configure(b); err != nil {
			return nil, fmt.Errorf("injector: configure module %T: %w", m, err)
		}
	}
	for _, m := range overrides {
		if err := m.Configure(b); err != nil {
			return nil, fmt.Errorf("injector: configure override module %T: %w", m, err)
		}
	}

	return &container{
		providers: b.providers,
		order:     b.order,
		instances: make(map[reflect.Type]any),
		resolving: make(map[reflect.Type]bool),
	}, nil
}

var injectorType = reflect.TypeFor[Injector]()

type container struct {
	mu        sync.Mutex
	providers map[reflect.Type]Provider
	order     []reflect.Type
	instances map[reflect.Type]any
	resolving map[reflect.Type]bool
	path      []reflect.Type
}

func (c *container) Bindings() []reflect.Type {
	out := make([]reflect.Type, len(c.order))
	copy(out, c.order)
	return out
}

func (c *container) Instance(t reflect.Type) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolve(t)
}

// resolve must be called with mu held. Providers get a view that resolves
// without re-locking.
func (c *container) resolve(t reflect.Type) (any, error) {
	if t == injectorType {
		return c, nil
	}
	if v, ok := c.instances[t]; ok {
		return v, nil
	}
	if c.resolving[t] {
		return nil, fmt.Errorf("%w: %s", kickstart.ErrCircularDependency, c.describePath(t))
	}
	c.resolving[t] = true
	c.path = append(c.path, t)
	defer func() {
		delete(c.resolving, t)
		c.path = c.path[:len(c.path)-1]
	}()

	var (
		v   any
		err error
	)
	if p, ok := c.providers[t]; ok {
		v, err = p(resolver{c})
	} else {
		v, err = c.construct(t)
	}
	if err != nil {
		return nil, err
	}
	c.instances[t] = v
	return v, nil
}

func (c *container) construct(t reflect.Type) (any, error) {
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w for %s", kickstart.ErrNoBinding, t)
	}
	ptr := reflect.New(t.Elem())
	elem := ptr.Elem()
	for i := 0; i < elem.NumField(); i++ {
		field := elem.Type().Field(i)
		if _, ok := field.Tag.Lookup("inject"); !ok {
			continue
		}
		if !field.IsExported() {
			return nil, fmt.Errorf("injector: field %s.%s tagged inject is unexported", t.Elem(), field.Name)
		}
		dep, err := c.resolve(field.Type)
		if err != nil {
			return nil, fmt.Errorf("injector: %s.%s: %w", t.Elem(), field.Name, err)
		}
		if dep != nil {
			elem.Field(i).Set(reflect.ValueOf(dep))
		}
	}
	return ptr.Interface(), nil
}

func (c *container) describePath(t reflect.Type) string {
	parts := make([]string, 0, len(c.path)+1)
	for _, p := range c.path {
		parts = append(parts, p.String())
	}
	parts = append(parts, t.String())
	return strings.Join(parts, " -> ")
}

// resolver is the Injector handed to providers during resolution.
type resolver struct{ c *container }

func (r resolver) Instance(t reflect.Type) (any, error) { return r.c.resolve(t) }

func (r resolver) Bindings() []reflect.Type { return r.c.Bindings() }
