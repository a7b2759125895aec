package testbed

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/eae6320/engine"
	"github.com/spaghettifunk/eae6320/engine/core"
	"github.com/spaghettifunk/eae6320/engine/settings"
)

func newSystems(t *testing.T) *engine.Systems {
	t.Helper()
	events := core.NewEventBus()
	require.NoError(t, events.Initialize())
	return &engine.Systems{
		Logger:   core.NewLogger(afero.NewMemMapFs(), &bytes.Buffer{}),
		Events:   events,
		Input:    core.NewInput(events),
		Clock:    core.NewClock(),
		Settings: settings.Defaults(),
	}
}

func TestGameCountsKeyPresses(t *testing.T) {
	g := NewGame()
	systems := newSystems(t)
	require.NoError(t, g.FnInitialize(systems))

	systems.Input.ProcessKey(core.KEY_A, true)
	systems.Input.ProcessKey(core.KEY_A, false)
	systems.Input.ProcessKey(core.KEY_B, true)

	state := g.State.(*gameState)
	assert.Equal(t, 2, state.keysPressed)

	require.NoError(t, g.FnShutdown())
	systems.Input.ProcessKey(core.KEY_C, true)
	assert.Equal(t, 2, state.keysPressed, "no events after shutdown")
}

func TestGameTracksSpaceHeld(t *testing.T) {
	g := NewGame()
	systems := newSystems(t)
	require.NoError(t, g.FnInitialize(systems))

	require.NoError(t, g.FnUpdate(0.5))
	systems.Input.ProcessKey(core.KEY_SPACE, true)
	require.NoError(t, g.FnUpdate(0.25))
	require.NoError(t, g.FnUpdate(0.25))

	state := g.State.(*gameState)
	assert.InDelta(t, 0.5, state.spaceHeldTime, 1e-9)
	assert.InDelta(t, 1.0, state.sinceReport, 1e-9)

	require.NoError(t, g.FnUpdate(reportInterval))
	assert.Zero(t, state.sinceReport)
}
