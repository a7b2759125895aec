package desktop

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/eae6320/engine/core"
)

func TestTranslateKey(t *testing.T) {
	assert.Equal(t, core.KEY_ESCAPE, translateKey(glfw.KeyEscape))
	assert.Equal(t, core.KEY_A, translateKey(glfw.KeyA))
	assert.Equal(t, core.KEY_Z, translateKey(glfw.KeyZ))
	assert.Equal(t, core.KEY_F12, translateKey(glfw.KeyF12))
	assert.Equal(t, core.KEY_UNKNOWN, translateKey(glfw.KeyWorld1))
}
