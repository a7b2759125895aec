package assets

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSPIRV(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, VertexShaderSPIRVPath, []byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00}, 0o644))

	words, err := ReadSPIRV(fs, VertexShaderSPIRVPath)
	require.NoError(t, err)
	// 0x07230203 is the SPIR-V magic number.
	assert.Equal(t, []uint32{0x07230203, 0x00010000}, words)
}

func TestReadSPIRVRejectsPartialWords(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.spv", []byte{1, 2, 3}, 0o644))

	_, err := ReadSPIRV(fs, "bad.spv")
	assert.Error(t, err)

	_, err = ReadSPIRV(fs, "missing.spv")
	assert.Error(t, err)
}

func TestReadShaderSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, FragmentShaderSourcePath, []byte("#version 410\n"), 0o644))

	src, err := ReadShaderSource(fs, FragmentShaderSourcePath)
	require.NoError(t, err)
	assert.Equal(t, "#version 410\n", src)

	require.NoError(t, afero.WriteFile(fs, "empty.glsl", nil, 0o644))
	_, err = ReadShaderSource(fs, "empty.glsl")
	assert.Error(t, err)
}
