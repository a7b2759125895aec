package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/eae6320/engine/core"
	"github.com/spaghettifunk/eae6320/engine/platform"
)

func initializedHarness(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t, newRecorder())
	require.NoError(t, h.engine.Initialize())
	t.Cleanup(func() {
		_ = h.engine.Shutdown()
	})
	return h
}

func TestLoopHandlesOneMessagePerIteration(t *testing.T) {
	h := initializedHarness(t)
	window := h.host.handle
	require.NoError(t, h.host.Post(platform.Message{Kind: platform.MessageKeyPressed, Window: window, Key: core.KEY_A}))
	require.NoError(t, h.host.Post(platform.Message{Kind: platform.MessageKeyReleased, Window: window, Key: core.KEY_A}))

	_, done := h.engine.iterate()
	assert.False(t, done)
	assert.Equal(t, 1, h.host.Pending())
	assert.Empty(t, h.backend.frames)
	assert.True(t, h.engine.input.IsKeyDown(core.KEY_A))

	_, done = h.engine.iterate()
	assert.False(t, done)
	assert.Zero(t, h.host.Pending())
	assert.Empty(t, h.backend.frames)

	_, done = h.engine.iterate()
	assert.False(t, done)
	assert.Len(t, h.backend.frames, 1, "an empty queue runs exactly one frame")
}

func TestTickAdvancesClockOnce(t *testing.T) {
	h := initializedHarness(t)
	var deltas []float64
	h.game.FnUpdate = func(delta float64) error {
		deltas = append(deltas, delta)
		return nil
	}

	h.engine.iterate()
	h.engine.iterate()

	assert.Equal(t, []float64{0.25, 0.25}, deltas)
	require.Len(t, h.backend.frames, 2)
	assert.InDelta(t, 0.25, h.backend.frames[0].ElapsedSeconds, 1e-6)
	assert.InDelta(t, 0.5, h.backend.frames[1].ElapsedSeconds, 1e-6)
}

func TestEscapeAsksBeforeQuitting(t *testing.T) {
	h := initializedHarness(t)
	window := h.host.handle

	h.output.answer = false
	require.NoError(t, h.host.Post(platform.Message{Kind: platform.MessageKeyPressed, Window: window, Key: core.KEY_ESCAPE}))
	h.engine.iterate()
	assert.Equal(t, 1, h.output.prompted)
	assert.Zero(t, h.host.Pending(), "declining keeps the application running")

	require.NoError(t, h.host.Post(platform.Message{Kind: platform.MessageKeyReleased, Window: window, Key: core.KEY_ESCAPE}))
	h.engine.iterate()

	h.output.answer = true
	require.NoError(t, h.host.Post(platform.Message{Kind: platform.MessageKeyPressed, Window: window, Key: core.KEY_ESCAPE}))
	h.engine.iterate()
	assert.Equal(t, 2, h.output.prompted)

	status, done := h.engine.iterate()
	assert.True(t, done)
	assert.Equal(t, ExitStatus{Code: 0, Reason: platform.ExitReasonUserQuit}, status)
}

func TestCloseQuitsBeforeDestroyingWindow(t *testing.T) {
	h := initializedHarness(t)
	window := h.host.handle

	require.NoError(t, h.host.Post(platform.Message{Kind: platform.MessageClose, Window: window}))
	_, done := h.engine.iterate()
	assert.False(t, done)
	assert.Equal(t, window, h.engine.window, "the window outlives the graphics teardown")
	assert.Equal(t, 1, h.host.Registry().Len())

	status, done := h.engine.iterate()
	assert.True(t, done)
	assert.Equal(t, ExitStatus{Code: 0, Reason: platform.ExitReasonWindowClosed}, status)

	require.NoError(t, h.engine.Shutdown())
	calls := h.rec.calls
	assert.Less(t, indexOf(calls, "backend.CleanUp"), indexOf(calls, "host.DestroyWindow"))
	assert.Equal(t, platform.InvalidWindowHandle, h.engine.window)
}

func TestDestroyedWindowQuits(t *testing.T) {
	h := initializedHarness(t)
	h.engine.stage = StageRunning

	require.NoError(t, h.engine.host.DestroyWindow(h.host.handle))
	assert.Equal(t, platform.InvalidWindowHandle, h.engine.window)

	status, done := h.engine.iterate()
	assert.True(t, done)
	assert.Equal(t, ExitStatus{Code: 0, Reason: platform.ExitReasonWindowDestroyed}, status)
}

func indexOf(calls []string, call string) int {
	for i, c := range calls {
		if c == call {
			return i
		}
	}
	return -1
}

func TestResizeFiresEvent(t *testing.T) {
	h := initializedHarness(t)
	var got core.EventContext
	h.engine.events.Register(core.EVENT_CODE_RESIZED, t, func(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
		got = data
		return true
	})

	require.NoError(t, h.host.Post(platform.Message{Kind: platform.MessageResized, Window: h.host.handle, Width: 640, Height: 480}))
	h.engine.iterate()

	assert.Equal(t, uint32(640), got.Width)
	assert.Equal(t, uint32(480), got.Height)
}
