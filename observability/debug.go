package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/xraph/kickstart/bundle"
	"github.com/xraph/kickstart/ext"
	"github.com/xraph/kickstart/installer"
	"github.com/xraph/kickstart/lifecycle"
)

var (
	_ ext.Listener      = (*DebugListener)(nil)
	_ ext.EventListener = (*DebugListener)(nil)
)

// Step is one checkpoint recorded by a DebugListener. Elapsed is the time
// since the previous checkpoint, zero for the first.
type Step struct {
	Checkpoint lifecycle.Checkpoint
	At         time.Time
	Elapsed    time.Duration
	Summary    string
}

// DebugListener logs every checkpoint and keeps the bootstrap timeline.
type DebugListener struct {
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	timeline []Step
}

// NewDebugListener creates a DebugListener. A nil logger falls back to
// slog.Default().
func NewDebugListener(logger *slog.Logger) *DebugListener {
	if logger == nil {
		logger = slog.Default()
	}
	return &DebugListener{logger: logger, now: time.Now}
}

// Name implements ext.Listener.
func (d *DebugListener) Name() string { return "observability-debug" }

// OnEvent implements ext.EventListener.
func (d *DebugListener) OnEvent(ctx context.Context, ev lifecycle.Event) error {
	cp := ev.Checkpoint()
	step := Step{Checkpoint: cp, At: d.now(), Summary: Summarize(ev)}

	d.mu.Lock()
	if n := len(d.timeline); n > 0 {
		step.Elapsed = step.At.Sub(d.timeline[n-1].At)
	}
	d.timeline = append(d.timeline, step)
	d.mu.Unlock()

	d.logger.LogAttrs(ctx, slog.LevelDebug, "checkpoint reached",
		slog.String("checkpoint", cp.String()),
		slog.Int("order", cp.Order()),
		slog.String("phase", cp.Phase().String()),
		slog.String("run_id", ev.Run().String()),
		slog.Duration("elapsed", step.Elapsed),
		slog.String("summary", step.Summary),
	)
	return nil
}

// Timeline returns the recorded checkpoints in the order they fired.
func (d *DebugListener) Timeline() []Step {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Step, len(d.timeline))
	copy(out, d.timeline)
	return out
}

// WriteReport writes the timeline as an aligned table.
func (d *DebugListener) WriteReport(w io.Writer) error {
	steps := d.Timeline()
	width := 0
	for _, s := range steps {
		width = max(width, len(s.Checkpoint.String()))
	}

	var total time.Duration
	for _, s := range steps {
		total += s.Elapsed
		line := fmt.Sprintf("%2d  %-*s  %10s  %s\n", s.Checkpoint.Order(), width, s.Checkpoint, s.Elapsed, s.Summary)
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d checkpoints in %s\n", len(steps), total)
	return err
}

// Summarize describes what a payload carries in one line.
func Summarize(ev lifecycle.Event) string {
	switch e := ev.(type) {
	case *lifecycle.ConfiguratorsProcessedEvent:
		return fmt.Sprintf("configurators=%d", len(e.Configurators))
	case *lifecycle.InitializationEvent:
		return fmt.Sprintf("commands=%d", len(e.Commands))
	case *lifecycle.BundlesFromDwResolvedEvent:
		return "bundles=" + bundleNames(e.Bundles)
	case *lifecycle.BundlesFromLookupResolvedEvent:
		return "bundles=" + bundleNames(e.Bundles)
	case *lifecycle.BundlesResolvedEvent:
		return fmt.Sprintf("bundles=%s disabled=%s", bundleNames(e.Bundles), bundleNames(e.Disabled))
	case *lifecycle.BundlesProcessedEvent:
		return fmt.Sprintf("bundles=%s disabled=%s", bundleNames(e.Bundles), bundleNames(e.Disabled))
	case *lifecycle.InjectorCreationEvent:
		return fmt.Sprintf("modules=%d overriding=%d", len(e.Modules), len(e.Overriding))
	case *lifecycle.InstallersResolvedEvent:
		return fmt.Sprintf("installers=%s disabled=%s", installerNames(e.Installers), installerNames(e.Disabled))
	case *lifecycle.ExtensionsResolvedEvent:
		return fmt.Sprintf("extensions=%s disabled=%s", typeNames(e.Extensions), typeNames(e.Disabled))
	case *lifecycle.InjectorCreatedEvent:
		if e.Injector == nil {
			return ""
		}
		return fmt.Sprintf("bindings=%d", len(e.Injector.Bindings()))
	case *lifecycle.ExtensionsInstalledByEvent:
		return fmt.Sprintf("installer=%s extensions=%s", e.Installer.Name(), typeNames(e.Extensions))
	case *lifecycle.ExtensionsInstalledEvent:
		return "extensions=" + typeNames(e.Extensions)
	case *lifecycle.HkExtensionsInstalledByEvent:
		return fmt.Sprintf("installer=%s extensions=%s", e.Installer.Name(), typeNames(e.Extensions))
	case *lifecycle.HkExtensionsInstalledEvent:
		return "extensions=" + typeNames(e.Extensions)
	case *lifecycle.HkConfigurationEvent:
		if e.Container == nil {
			return ""
		}
		return fmt.Sprintf("routes=%d", len(e.Container.Routes()))
	default:
		return ""
	}
}

func bundleNames(bs []bundle.Bundle) string {
	names := make([]string, len(bs))
	for i, b := range bs {
		names[i] = b.Name()
	}
	return list(names)
}

func installerNames(is []installer.Installer) string {
	names := make([]string, len(is))
	for i, in := range is {
		names[i] = in.Name()
	}
	return list(names)
}

func typeNames(ts []reflect.Type) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.String()
	}
	return list(names)
}

func list(names []string) string { return "[" + strings.Join(names, ",") + "]" }
