//go:build vulkan

package vulkan

import (
	"bytes"
	"encoding/binary"
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/spf13/afero"

	"github.com/spaghettifunk/eae6320/engine/core"
)

func TestRequiredInstanceExtensions(t *testing.T) {
	window := []string{"VK_KHR_surface", "VK_KHR_xcb_surface"}

	plain := requiredInstanceExtensions(window, false)
	assert.Subset(t, plain, window)
	assert.NotContains(t, plain, vk.ExtDebugReportExtensionName)

	debug := requiredInstanceExtensions(window, true)
	assert.Contains(t, debug, vk.ExtDebugReportExtensionName)
	assert.Len(t, window, 2, "the window's list must not be modified")
}

func TestFloat32Bytes(t *testing.T) {
	assert.Nil(t, float32Bytes(nil))

	data := float32Bytes([]float32{1, -2})
	require.Len(t, data, 8)
	var decoded [2]float32
	require.NoError(t, binary.Read(bytes.NewReader(data), binary.NativeEndian, &decoded))
	assert.Equal(t, [2]float32{1, -2}, decoded)
}

func TestBackendRejectsForeignSurface(t *testing.T) {
	b := New(afero.NewMemMapFs(), core.NewLogger(afero.NewMemMapFs(), &bytes.Buffer{}))
	assert.Error(t, b.Initialize("not a window", 512, 512))
	assert.NoError(t, b.CleanUp())
	assert.NoError(t, b.CleanUp())
}
