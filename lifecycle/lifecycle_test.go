package lifecycle_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/kickstart"
	"github.com/xraph/kickstart/lifecycle"
)

func TestCheckpointsOrder(t *testing.T) {
	want := []string{
		"ConfiguratorsProcessed",
		"Initialization",
		"BundlesFromDwResolved",
		"BundlesFromLookupResolved",
		"BundlesResolved",
		"BundlesProcessed",
		"InjectorCreation",
		"InstallersResolved",
		"ExtensionsResolved",
		"InjectorCreated",
		"ExtensionsInstalledBy",
		"ExtensionsInstalled",
		"ApplicationRun",
		"HkConfiguration",
		"HkExtensionsInstalledBy",
		"HkExtensionsInstalled",
	}

	cps := lifecycle.Checkpoints()
	require.Len(t, cps, len(want))

	for i, c := range cps {
		assert.Equal(t, want[i], c.String())
		assert.Equal(t, i+1, c.Order())
		if i > 0 {
			assert.True(t, cps[i-1].Before(c), "%s should fire before %s", cps[i-1], c)
		}
	}
}

func TestCheckpointsAreCopies(t *testing.T) {
	cps := lifecycle.Checkpoints()
	cps[0] = lifecycle.ApplicationRun
	assert.Equal(t, lifecycle.ConfiguratorsProcessed, lifecycle.Checkpoints()[0])

	entries := lifecycle.Catalog()
	entries[0].Name = "changed"
	assert.Equal(t, "ConfiguratorsProcessed", lifecycle.Catalog()[0].Name)
}

func TestPayloadTypes(t *testing.T) {
	seen := make(map[reflect.Type]lifecycle.Checkpoint)

	for _, c := range lifecycle.Checkpoints() {
		pt := lifecycle.PayloadTypeOf(c)
		require.NotNil(t, pt, c.String())

		assert.Equal(t, pt, lifecycle.PayloadTypeOf(c), "payload type must be stable")

		prev, dup := seen[pt]
		assert.False(t, dup, "%s shares payload %s with %s", c, pt, prev)
		seen[pt] = c

		require.Equal(t, reflect.Ptr, pt.Kind())
		ev, ok := reflect.New(pt.Elem()).Interface().(lifecycle.Event)
		require.True(t, ok, "%s does not implement Event", pt)
		assert.Equal(t, c, ev.Checkpoint())
	}
}

func TestCheckpointOnNilPayload(t *testing.T) {
	var ev *lifecycle.InjectorCreatedEvent
	assert.Equal(t, lifecycle.InjectorCreated, ev.Checkpoint())
}

func TestConditionalAndRepeatable(t *testing.T) {
	conditional := map[lifecycle.Checkpoint]bool{
		lifecycle.ConfiguratorsProcessed:    true,
		lifecycle.BundlesFromDwResolved:     true,
		lifecycle.BundlesFromLookupResolved: true,
		lifecycle.BundlesResolved:           true,
		lifecycle.ExtensionsInstalledBy:     true,
		lifecycle.ExtensionsInstalled:       true,
		lifecycle.HkExtensionsInstalledBy:   true,
		lifecycle.HkExtensionsInstalled:     true,
	}
	repeatable := map[lifecycle.Checkpoint]bool{
		lifecycle.ExtensionsInstalledBy:   true,
		lifecycle.HkExtensionsInstalledBy: true,
	}

	for _, c := range lifecycle.Checkpoints() {
		assert.Equal(t, conditional[c], c.Conditional(), c.String())
		assert.Equal(t, repeatable[c], c.Repeatable(), c.String())

		e, ok := lifecycle.Lookup(c)
		require.True(t, ok)
		if e.Conditional {
			assert.NotEmpty(t, e.Condition, c.String())
		}
		assert.NotEmpty(t, e.Description, c.String())
	}
}

func TestPhases(t *testing.T) {
	assert.Equal(t, lifecycle.PhaseInit, lifecycle.Initialization.Phase())
	assert.Equal(t, lifecycle.PhaseRun, lifecycle.InjectorCreated.Phase())
	assert.Equal(t, lifecycle.PhaseRun, lifecycle.ApplicationRun.Phase())
	assert.Equal(t, lifecycle.PhaseWeb, lifecycle.HkConfiguration.Phase())
	assert.Equal(t, "web", lifecycle.PhaseWeb.String())

	var last lifecycle.Phase
	for _, c := range lifecycle.Checkpoints() {
		assert.GreaterOrEqual(t, c.Phase(), last, "phases must not go backwards at %s", c)
		last = c.Phase()
	}
}

func TestParseCheckpoint(t *testing.T) {
	for _, c := range lifecycle.Checkpoints() {
		got, err := lifecycle.ParseCheckpoint(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)

		text, err := c.MarshalText()
		require.NoError(t, err)

		var back lifecycle.Checkpoint
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, c, back)
	}

	_, err := lifecycle.ParseCheckpoint("NoSuchCheckpoint")
	assert.True(t, errors.Is(err, kickstart.ErrInvalidCheckpoint))
}

func TestInvalidCheckpoint(t *testing.T) {
	for _, c := range []lifecycle.Checkpoint{0, -1, lifecycle.HkExtensionsInstalled + 1} {
		assert.False(t, c.Valid())
		assert.Nil(t, lifecycle.PayloadTypeOf(c))
		assert.False(t, c.Conditional())
		assert.False(t, c.Repeatable())
		assert.Equal(t, lifecycle.Phase(0), c.Phase())

		_, ok := lifecycle.Lookup(c)
		assert.False(t, ok)

		_, err := c.MarshalText()
		assert.ErrorIs(t, err, kickstart.ErrInvalidCheckpoint)
	}
	assert.Equal(t, "Checkpoint(0)", lifecycle.Checkpoint(0).String())
}

func TestEventRunID(t *testing.T) {
	ev := &lifecycle.HkConfigurationEvent{}
	ev.RunID = kickstart.ID{}
	assert.True(t, ev.Run().IsNil())
}
