package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time { return f.t }

func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestClockFrames(t *testing.T) {
	src := &fakeTime{t: time.Unix(1000, 0)}
	c := NewClockWithSource(src.now)

	c.OnNewFrame()
	assert.Zero(t, c.ElapsedSecondCountTotal(), "an uninitialized clock doesn't advance")

	require.NoError(t, c.Initialize())
	src.advance(250 * time.Millisecond)
	c.OnNewFrame()
	assert.InDelta(t, 0.25, c.ElapsedSecondCountTotal(), 1e-9)
	assert.InDelta(t, 0.25, c.ElapsedSecondCountPreviousFrame(), 1e-9)

	src.advance(500 * time.Millisecond)
	c.OnNewFrame()
	assert.InDelta(t, 0.75, c.ElapsedSecondCountTotal(), 1e-9)
	assert.InDelta(t, 0.5, c.ElapsedSecondCountPreviousFrame(), 1e-9)
}

func TestClockNeverRunsBackwards(t *testing.T) {
	src := &fakeTime{t: time.Unix(1000, 0)}
	c := NewClockWithSource(src.now)
	require.NoError(t, c.Initialize())

	src.advance(time.Second)
	c.OnNewFrame()
	src.advance(-2 * time.Second)
	c.OnNewFrame()

	assert.Zero(t, c.ElapsedSecondCountPreviousFrame())
	assert.InDelta(t, 1.0, c.ElapsedSecondCountTotal(), 1e-9)
}

func TestClockCleanUp(t *testing.T) {
	c := NewClock()
	require.NoError(t, c.Initialize())
	assert.True(t, c.IsStarted())
	require.NoError(t, c.CleanUp())
	assert.False(t, c.IsStarted())
	assert.Zero(t, c.ElapsedSecondCountTotal())
}
