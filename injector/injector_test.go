package injector_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/kickstart"
	"github.com/xraph/kickstart/injector"
)

type store interface{ Kind() string }

type memStore struct{}

func (memStore) Kind() string { return "memory" }

type sqlStore struct{}

func (sqlStore) Kind() string { return "sql" }

type service struct {
	Store store             `inject:""`
	Inj   injector.Injector `inject:""`
	plain int
}

type loopA struct {
	B *loopB `inject:""`
}

type loopB struct {
	A *loopA `inject:""`
}

type hidden struct {
	store store `inject:""`
}

func storeModule(s store) injector.Module {
	return injector.ModuleFunc(func(b *injector.Binder) error {
		injector.Provide(b, func(injector.Injector) (store, error) { return s, nil })
		return nil
	})
}

func TestProvideAndGet(t *testing.T) {
	inj, err := injector.New([]injector.Module{storeModule(memStore{})}, nil)
	require.NoError(t, err)

	s, err := injector.Get[store](inj)
	require.NoError(t, err)
	assert.Equal(t, "memory", s.Kind())
	assert.Equal(t, []reflect.Type{reflect.TypeFor[store]()}, inj.Bindings())
}

func TestOverridesReplaceBindings(t *testing.T) {
	inj, err := injector.New(
		[]injector.Module{storeModule(memStore{})},
		[]injector.Module{storeModule(sqlStore{})},
	)
	require.NoError(t, err)

	s, err := injector.Get[store](inj)
	require.NoError(t, err)
	assert.Equal(t, "sql", s.Kind())
	assert.Len(t, inj.Bindings(), 1)
}

func TestSingletons(t *testing.T) {
	calls := 0
	mod := injector.ModuleFunc(func(b *injector.Binder) error {
		injector.Provide(b, func(injector.Injector) (*memStore, error) {
			calls++
			return &memStore{}, nil
		})
		return nil
	})
	inj, err := injector.New([]injector.Module{mod}, nil)
	require.NoError(t, err)

	a, err := injector.Get[*memStore](inj)
	require.NoError(t, err)
	b, err := injector.Get[*memStore](inj)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, calls)
}

func TestJustInTimeConstruction(t *testing.T) {
	inj, err := injector.New([]injector.Module{storeModule(memStore{})}, nil)
	require.NoError(t, err)

	svc, err := injector.Get[*service](inj)
	require.NoError(t, err)
	assert.Equal(t, "memory", svc.Store.Kind())
	assert.Equal(t, inj, svc.Inj)
	assert.Zero(t, svc.plain)

	again, err := injector.Get[*service](inj)
	require.NoError(t, err)
	assert.Same(t, svc, again)
}

func TestBindInstance(t *testing.T) {
	v := &memStore{}
	mod := injector.ModuleFunc(func(b *injector.Binder) error {
		b.BindInstance(v)
		return nil
	})
	inj, err := injector.New([]injector.Module{mod}, nil)
	require.NoError(t, err)

	got, err := inj.Instance(reflect.TypeFor[*memStore]())
	require.NoError(t, err)
	assert.Same(t, v, got)
}

func TestResolutionErrors(t *testing.T) {
	inj, err := injector.New(nil, nil)
	require.NoError(t, err)

	_, err = injector.Get[store](inj)
	assert.ErrorIs(t, err, kickstart.ErrNoBinding)

	_, err = injector.Get[*service](inj)
	assert.ErrorIs(t, err, kickstart.ErrNoBinding, "missing field dependency")

	_, err = injector.Get[*loopA](inj)
	require.ErrorIs(t, err, kickstart.ErrCircularDependency)
	assert.Contains(t, err.Error(), "*injector_test.loopA -> *injector_test.loopB -> *injector_test.loopA")

	_, err = injector.Get[*hidden](inj)
	assert.ErrorContains(t, err, "unexported")
}

func TestModuleError(t *testing.T) {
	boom := errors.New("boom")
	bad := injector.ModuleFunc(func(*injector.Binder) error { return boom })

	_, err := injector.New([]injector.Module{bad}, nil)
	assert.ErrorIs(t, err, boom)

	_, err = injector.New(nil, []injector.Module{bad})
	assert.ErrorIs(t, err, boom)
}

func TestProviderError(t *testing.T) {
	boom := errors.New("boom")
	mod := injector.ModuleFunc(func(b *injector.Binder) error {
		injector.Provide(b, func(injector.Injector) (store, error) { return nil, boom })
		return nil
	})
	inj, err := injector.New([]injector.Module{mod}, nil)
	require.NoError(t, err)

	_, err = injector.Get[store](inj)
	assert.ErrorIs(t, err, boom)
}

func TestProviderResolvesDependencies(t *testing.T) {
	type greeter struct{ kind string }
	mod := injector.ModuleFunc(func(b *injector.Binder) error {
		injector.Provide(b, func(inj injector.Injector) (*greeter, error) {
			s, err := injector.Get[store](inj)
			if err != nil {
				return nil, err
			}
			return &greeter{kind: s.Kind()}, nil
		})
		return nil
	})
	inj, err := injector.New([]injector.Module{storeModule(sqlStore{}), mod}, nil)
	require.NoError(t, err)

	g, err := injector.Get[*greeter](inj)
	require.NoError(t, err)
	assert.Equal(t, "sql", g.kind)
}
