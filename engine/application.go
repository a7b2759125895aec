package engine

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/rotisserie/eris"
	"github.com/spf13/afero"

	"github.com/spaghettifunk/eae6320/engine/core"
	"github.com/spaghettifunk/eae6320/engine/platform"
	"github.com/spaghettifunk/eae6320/engine/settings"
)

const DefaultConfigPath = "engine.toml"

// ApplicationConfig holds what a game can change about the application
// without code. Every field has a default.
type ApplicationConfig struct {
	// The application name, used in the default window title.
	Name string `toml:"name"`
	// The window title. When empty it is derived from Name and the graphics API.
	WindowName string `toml:"window_name"`
	// Where the log file is written.
	LogPath string `toml:"log_path"`
	// One of debug, info, warn or error.
	LogLevel string `toml:"log_level"`
	// Where the per-user settings are read from.
	SettingsPath string `toml:"settings_path"`
	// Window starting position x axis, if applicable.
	StartPosX int `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY int `toml:"start_pos_y"`
}

func DefaultConfig() ApplicationConfig {
	return ApplicationConfig{
		Name:         "eae6320",
		LogPath:      core.DefaultLogPath,
		LogLevel:     "debug",
		SettingsPath: settings.DefaultPath,
		StartPosX:    100,
		StartPosY:    100,
	}
}

// LoadConfig reads a TOML config file on top of the defaults. A missing file
// gives the defaults.
func LoadConfig(fs afero.Fs, path string) (ApplicationConfig, error) {
	config := DefaultConfig()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, eris.Wrapf(err, "failed to read the config file \"%s\"", path)
	}
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), eris.Wrapf(err, "failed to parse the config file \"%s\"", path)
	}
	if _, err := core.ParseLogLevel(config.LogLevel); err != nil {
		return DefaultConfig(), eris.Wrapf(err, "in the config file \"%s\"", path)
	}
	return config, nil
}

// Title returns the window title for the given graphics API.
func (c ApplicationConfig) Title(api platform.ClientAPI) string {
	if c.WindowName != "" {
		return c.WindowName
	}
	return fmt.Sprintf("%s's EAE6320 Game -- %s", c.Name, api)
}
