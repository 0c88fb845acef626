// Package installer defines how extensions get installed during the
// bootstrap.
//
// Each extension type is claimed by the first enabled installer (in
// order) whose Matches reports true. The claiming installer installs it
// into the environment once the injector exists. Installers that also
// implement [WebInstaller] install their extensions a second time into the
// web container when it starts.
package installer

import (
	"context"
	"reflect"
	"sort"

	"github.com/xraph/kickstart"
	"github.com/xraph/kickstart/injector"
	"github.com/xraph/kickstart/web"
)

// Installer recognizes and installs one kind of extension.
type Installer interface {
	// Name returns a unique human-readable name for the installer.
	Name() string

	// Matches reports whether the installer handles extension type t.
	Matches(t reflect.Type) bool

	// Install installs extension type t into the environment.
	Install(ctx context.Context, env *kickstart.Environment, inj injector.Injector, t reflect.Type) error
}

// WebInstaller is an Installer that also installs its extensions into the
// web container.
type WebInstaller interface {
	Installer
	InstallWeb(ctx context.Context, c *web.Container, inj injector.Injector, t reflect.Type) error
}

// Ordered lets an installer choose its position. Installers without it
// have order 0; ties keep registration order.
type Ordered interface {
	Order() int
}

// OrderOf returns the installer's order.
func OrderOf(i Installer) int {
	if o, ok := i.(Ordered); ok {
		return o.Order()
	}
	return 0
}

// Sort orders installers by OrderOf, keeping registration order on ties.
func Sort(installers []Installer) {
	sort.SliceStable(installers, func(a, b int) bool {
		return OrderOf(installers[a]) < OrderOf(installers[b])
	})
}

// Defaults returns the built-in installers.
func Defaults() []Installer {
	return []Installer{&Managed{}, &Handler{}}
}
