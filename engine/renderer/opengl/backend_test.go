//go:build !vulkan

package opengl

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/eae6320/engine/core"
	"github.com/spaghettifunk/eae6320/engine/platform"
	"github.com/spaghettifunk/eae6320/engine/renderer"
)

func newTestBackend() *Backend {
	fs := afero.NewMemMapFs()
	return New(fs, core.NewLogger(fs, &bytes.Buffer{}))
}

func TestCleanUpWithoutInitialize(t *testing.T) {
	b := newTestBackend()
	assert.NoError(t, b.CleanUp())
	assert.NoError(t, b.CleanUp())
}

func TestInitializeRejectsSurfaceWithoutContext(t *testing.T) {
	b := newTestBackend()
	assert.Error(t, b.Initialize("not a window", 512, 512))
	assert.NoError(t, b.CleanUp())
}

func TestRenderFrameBeforeInitialize(t *testing.T) {
	b := newTestBackend()
	assert.Error(t, b.RenderFrame(renderer.ConstantBuffer{ElapsedSeconds: 1}))
	assert.Equal(t, platform.ClientAPIOpenGL, b.ClientAPI())
}
