package engine

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/eae6320/engine/platform"
)

func TestLoadConfigMissingFile(t *testing.T) {
	config, err := LoadConfig(afero.NewMemMapFs(), DefaultConfigPath)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	data := `
name = "Demo"
log_level = "warn"
start_pos_x = 5
`
	require.NoError(t, afero.WriteFile(fs, DefaultConfigPath, []byte(data), 0o644))

	config, err := LoadConfig(fs, DefaultConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "Demo", config.Name)
	assert.Equal(t, "warn", config.LogLevel)
	assert.Equal(t, 5, config.StartPosX)
	assert.Equal(t, 100, config.StartPosY, "unset fields keep their default")
	assert.Equal(t, "Demo's EAE6320 Game -- Vulkan", config.Title(platform.ClientAPIVulkan))

	config.WindowName = "Custom"
	assert.Equal(t, "Custom", config.Title(platform.ClientAPIOpenGL))
}

func TestLoadConfigErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.toml", []byte("name = "), 0o644))
	require.NoError(t, afero.WriteFile(fs, "level.toml", []byte(`log_level = "chatty"`), 0o644))

	_, err := LoadConfig(fs, "bad.toml")
	assert.Error(t, err)
	_, err = LoadConfig(fs, "level.toml")
	assert.Error(t, err)
}
