package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/kickstart/bundle"
	"github.com/xraph/kickstart/ext"
	"github.com/xraph/kickstart/installer"
	"github.com/xraph/kickstart/lifecycle"
	"github.com/xraph/kickstart/observability"
)

func TestDebugListener_RecordsTimeline(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d := observability.NewDebugListener(logger)

	r := ext.NewRegistry(logger)
	require.NoError(t, r.Register(d))

	ctx := context.Background()
	require.NoError(t, r.Emit(ctx, &lifecycle.InitializationEvent{}))
	require.NoError(t, r.Emit(ctx, &lifecycle.BundlesResolvedEvent{
		Bundles:  []bundle.Bundle{namedBundle("core")},
		Disabled: []bundle.Bundle{namedBundle("legacy")},
	}))
	require.NoError(t, r.Emit(ctx, &lifecycle.ApplicationRunEvent{}))

	steps := d.Timeline()
	require.Len(t, steps, 3)
	assert.Equal(t, lifecycle.Initialization, steps[0].Checkpoint)
	assert.Zero(t, steps[0].Elapsed)
	assert.Equal(t, lifecycle.BundlesResolved, steps[1].Checkpoint)
	assert.Equal(t, "bundles=[core] disabled=[legacy]", steps[1].Summary)
	assert.Equal(t, lifecycle.ApplicationRun, steps[2].Checkpoint)
	assert.False(t, steps[2].At.Before(steps[1].At))

	assert.Equal(t, 3, strings.Count(logs.String(), "checkpoint reached"))
	assert.Contains(t, logs.String(), "checkpoint=BundlesResolved")
}

func TestDebugListener_TimelineIsCopy(t *testing.T) {
	d := observability.NewDebugListener(nil)
	require.NoError(t, d.OnEvent(context.Background(), &lifecycle.InitializationEvent{}))

	steps := d.Timeline()
	steps[0].Summary = "changed"
	assert.NotEqual(t, "changed", d.Timeline()[0].Summary)
}

func TestDebugListener_WriteReport(t *testing.T) {
	d := observability.NewDebugListener(nil)
	ctx := context.Background()
	require.NoError(t, d.OnEvent(ctx, &lifecycle.InitializationEvent{}))
	require.NoError(t, d.OnEvent(ctx, &lifecycle.InjectorCreationEvent{}))

	var out bytes.Buffer
	require.NoError(t, d.WriteReport(&out))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], " 2  Initialization"), lines[0])
	assert.Contains(t, lines[1], "InjectorCreation")
	assert.Contains(t, lines[1], "modules=0 overriding=0")
	assert.True(t, strings.HasPrefix(lines[2], "2 checkpoints in "), lines[2])
}

func TestSummarize(t *testing.T) {
	strType := reflect.TypeFor[string]()
	tests := []struct {
		name string
		ev   lifecycle.Event
		want string
	}{
		{"initialization", &lifecycle.InitializationEvent{}, "commands=0"},
		{"lookup", &lifecycle.BundlesFromLookupResolvedEvent{Bundles: []bundle.Bundle{namedBundle("x")}}, "bundles=[x]"},
		{"installers", &lifecycle.InstallersResolvedEvent{Installers: []installer.Installer{&installer.Managed{}}}, "installers=[managed] disabled=[]"},
		{"installed-by", &lifecycle.ExtensionsInstalledByEvent{Installer: &installer.Managed{}, Extensions: []reflect.Type{strType}}, "installer=managed extensions=[string]"},
		{"web-installed", &lifecycle.HkExtensionsInstalledEvent{Extensions: []reflect.Type{strType}}, "extensions=[string]"},
		{"no-injector", &lifecycle.InjectorCreatedEvent{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, observability.Summarize(tt.ev))
		})
	}
}
