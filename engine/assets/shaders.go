package assets

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
)

const (
	VertexShaderSourcePath   = "data/vertexShader.glsl"
	FragmentShaderSourcePath = "data/fragmentShader.glsl"
	VertexShaderSPIRVPath    = "data/vertexShader.spv"
	FragmentShaderSPIRVPath  = "data/fragmentShader.spv"
)

// ReadShaderSource loads a GLSL file as text.
func ReadShaderSource(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", eris.Wrapf(err, "failed to read the shader source \"%s\"", path)
	}
	if len(data) == 0 {
		return "", eris.Errorf("the shader source \"%s\" is empty", path)
	}
	return string(data), nil
}

// ReadSPIRV loads a compiled SPIR-V module as little-endian words.
func ReadSPIRV(fs afero.Fs, path string) ([]uint32, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read the shader binary \"%s\"", path)
	}
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, eris.Errorf("the shader binary \"%s\" has %d bytes, which is not a whole number of words", path, len(data))
	}
	return bytesToBytecode(data), nil
}

func bytesToBytecode(b []byte) []uint32 {
	byteCode := make([]uint32, len(b)/4)
	for i := 0; i < len(byteCode); i++ {
		byteIndex := i * 4
		byteCode[i] = 0
		byteCode[i] |= uint32(b[byteIndex])
		byteCode[i] |= uint32(b[byteIndex+1]) << 8
		byteCode[i] |= uint32(b[byteIndex+2]) << 16
		byteCode[i] |= uint32(b[byteIndex+3]) << 24
	}

	return byteCode
}
