package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameMetrics(t *testing.T) {
	m := NewFrameMetrics()
	for i := 0; i < int(AVG_COUNT); i++ {
		m.Update(0.010)
	}
	fps, frameTime := m.Frame()
	assert.Zero(t, fps, "less than a second has been accumulated")
	assert.InDelta(t, 10.0, frameTime, 1e-9)

	for i := 0; i < 100; i++ {
		m.Update(0.010)
	}
	assert.InDelta(t, 100, m.FPS(), 1)
}
