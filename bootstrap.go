package kickstart

import (
	"sync"

	"github.com/spf13/cobra"
)

// Bootstrap is the init-phase view of an application: its name, its root
// command and the application-level bundles added before the bootstrap
// runs. Listeners receive it on every lifecycle event.
type Bootstrap struct {
	name    string
	root    *cobra.Command
	bundles []any
}

// NewBootstrap creates a Bootstrap with a root command named after the
// application.
func NewBootstrap(name string) *Bootstrap {
	return &Bootstrap{
		name: name,
		root: &cobra.Command{Use: name, SilenceUsage: true},
	}
}

// Name returns the application name.
func (b *Bootstrap) Name() string { return b.name }

// Command returns the application's root command.
func (b *Bootstrap) Command() *cobra.Command { return b.root }

// AddCommand attaches a subcommand to the root command.
func (b *Bootstrap) AddCommand(cmds ...*cobra.Command) { b.root.AddCommand(cmds...) }

// AddBundle adds an application bundle. Values implementing bundle.Bundle
// are recognized by the bootstrap when Config.UseAppBundles is set; other
// values are kept for the application's own use.
func (b *Bootstrap) AddBundle(v any) { b.bundles = append(b.bundles, v) }

// Bundles returns the application bundles in registration order.
func (b *Bootstrap) Bundles() []any { return b.bundles }

var (
	commandsMu sync.RWMutex
	commands   []*cobra.Command
)

// RegisterCommand makes a command discoverable by every bootstrap with
// Config.SearchCommands enabled. It is meant to be called from init().
func RegisterCommand(cmd *cobra.Command) {
	commandsMu.Lock()
	defer commandsMu.Unlock()
	commands = append(commands, cmd)
}

// Commands returns all registered commands in registration order.
func Commands() []*cobra.Command {
	commandsMu.RLock()
	defer commandsMu.RUnlock()
	out := make([]*cobra.Command, len(commands))
	copy(out, commands)
	return out
}
