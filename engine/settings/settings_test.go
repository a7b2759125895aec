package settings

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/eae6320/engine/core"
)

func load(t *testing.T, contents *string) (Settings, string, error) {
	t.Helper()
	fs := afero.NewMemMapFs()
	if contents != nil {
		require.NoError(t, afero.WriteFile(fs, DefaultPath, []byte(*contents), 0o644))
	}
	console := &bytes.Buffer{}
	logger := core.NewLogger(fs, console)
	s, err := Load(fs, DefaultPath, logger)
	return s, console.String(), err
}

func text(s string) *string { return &s }

func TestLoadValidResolution(t *testing.T) {
	s, out, err := load(t, text("resolutionWidth = 800\nresolutionHeight = 600\n"))
	require.NoError(t, err)
	assert.Equal(t, uint32(800), s.ResolutionWidth)
	assert.Equal(t, uint32(600), s.ResolutionHeight)
	assert.Contains(t, out, "resolution width of 800")
}

func TestLoadNegativeResolution(t *testing.T) {
	s, out, err := load(t, text("resolutionWidth = -5\n"))
	require.NoError(t, err)
	assert.Equal(t, uint32(DefaultResolutionWidth), s.ResolutionWidth)
	assert.Equal(t, uint32(DefaultResolutionHeight), s.ResolutionHeight)
	assert.Contains(t, out, "specifies a negative resolution width of -5.000000. Using default 512 instead")
}

func TestLoadMissingFile(t *testing.T) {
	s, out, err := load(t, nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
	assert.Contains(t, out, "doesn't exist. Using default settings instead")
}

func TestLoadIgnoresUnusableValues(t *testing.T) {
	s, out, err := load(t, text("resolutionWidth = 1.5\nresolutionHeight = \"tall\"\n"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
	assert.Contains(t, out, "non-integral resolution width")
}

func TestLoadAcceptsNumericStrings(t *testing.T) {
	s, _, err := load(t, text("resolutionWidth = \"800\"\nresolutionHeight = \"600\"\n"))
	require.NoError(t, err)
	assert.Equal(t, uint32(800), s.ResolutionWidth)
	assert.Equal(t, uint32(600), s.ResolutionHeight)
}

func TestLoadHasNoStandardLibrary(t *testing.T) {
	s, out, err := load(t, text("resolutionWidth = math.floor(800.5)\n"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
	assert.Contains(t, out, "Error in the user settings file")
}

func TestLoadSyntaxErrorFallsBackToDefaults(t *testing.T) {
	s, out, err := load(t, text("resolutionWidth = = 3\n"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
	assert.Contains(t, out, "Syntax error in the user settings file")
	assert.Contains(t, out, "Using default settings instead")
}
