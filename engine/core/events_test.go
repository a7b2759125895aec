package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listener struct {
	name string
}

func TestEventBusFire(t *testing.T) {
	bus := NewEventBus()
	assert.False(t, bus.Register(EVENT_CODE_RESIZED, nil, func(SystemEventCode, interface{}, interface{}, EventContext) bool { return true }),
		"registering before Initialize must fail")
	require.NoError(t, bus.Initialize())

	var calls []string
	first := &listener{name: "first"}
	second := &listener{name: "second"}
	record := func(code SystemEventCode, sender interface{}, l interface{}, data EventContext) bool {
		calls = append(calls, l.(*listener).name)
		assert.Equal(t, uint32(640), data.Width)
		return false
	}

	require.True(t, bus.Register(EVENT_CODE_RESIZED, first, record))
	require.True(t, bus.Register(EVENT_CODE_RESIZED, second, record))
	assert.False(t, bus.Register(EVENT_CODE_RESIZED, first, record), "duplicate listener")

	handled := bus.Fire(EVENT_CODE_RESIZED, nil, EventContext{Width: 640, Height: 480})
	assert.False(t, handled)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestEventBusHandledStopsPropagation(t *testing.T) {
	bus := NewEventBus()
	require.NoError(t, bus.Initialize())

	secondCalled := false
	bus.Register(EVENT_CODE_APPLICATION_QUIT, &listener{}, func(SystemEventCode, interface{}, interface{}, EventContext) bool {
		return true
	})
	bus.Register(EVENT_CODE_APPLICATION_QUIT, &listener{}, func(SystemEventCode, interface{}, interface{}, EventContext) bool {
		secondCalled = true
		return true
	})

	assert.True(t, bus.Fire(EVENT_CODE_APPLICATION_QUIT, nil, EventContext{}))
	assert.False(t, secondCalled)
}

func TestEventBusUnregister(t *testing.T) {
	bus := NewEventBus()
	require.NoError(t, bus.Initialize())

	l := &listener{}
	called := 0
	bus.Register(EVENT_CODE_KEY_PRESSED, l, func(SystemEventCode, interface{}, interface{}, EventContext) bool {
		called++
		return true
	})
	assert.True(t, bus.Unregister(EVENT_CODE_KEY_PRESSED, l))
	assert.False(t, bus.Unregister(EVENT_CODE_KEY_PRESSED, l))
	assert.False(t, bus.Fire(EVENT_CODE_KEY_PRESSED, nil, EventContext{}))
	assert.Zero(t, called)

	require.NoError(t, bus.CleanUp())
	assert.False(t, bus.Fire(EVENT_CODE_KEY_PRESSED, nil, EventContext{}))
}
