// Package settings reads the per-user settings file. The file is a Lua chunk
// that assigns globals, for example:
//
//	resolutionWidth = 1024
//	resolutionHeight = 768
package settings

import (
	"bytes"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
	lua "github.com/yuin/gopher-lua"

	"github.com/spaghettifunk/eae6320/engine/core"
	"github.com/spaghettifunk/eae6320/engine/math"
)

const (
	DefaultPath             = "settings.ini"
	DefaultResolutionWidth  = 512
	DefaultResolutionHeight = 512

	keyResolutionWidth  = "resolutionWidth"
	keyResolutionHeight = "resolutionHeight"

	maxResolution = float64(^uint32(0))
)

type Settings struct {
	ResolutionWidth  uint32
	ResolutionHeight uint32
}

func Defaults() Settings {
	return Settings{
		ResolutionWidth:  DefaultResolutionWidth,
		ResolutionHeight: DefaultResolutionHeight,
	}
}

// Load reads the settings at path. A missing file, a file that fails to load
// or run, and values that aren't usable all fall back to the defaults and are
// only logged. The error is reserved for a file that exists but can't be read.
func Load(fs afero.Fs, path string, logger *core.Logger) (Settings, error) {
	s := Defaults()
	if path == "" {
		path = DefaultPath
	}

	src, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("The user settings file \"%s\" doesn't exist. Using default settings instead.", path)
			return s, nil
		}
		logger.Error("Error opening or reading the user settings file \"%s\" even though it exists: %s", path, err)
		return s, eris.Wrapf(err, "failed to read the user settings file \"%s\"", path)
	}

	L := lua.NewState()
	defer L.Close()

	fn, err := L.Load(bytes.NewReader(src), path)
	if err != nil {
		logger.Error("Syntax error in the user settings file \"%s\": %s. Using default settings instead.", path, err)
		return s, nil
	}
	// The file only sees an empty table, so it can't reach the standard
	// library and its globals are the settings.
	env := L.NewTable()
	fn.Env = env
	L.Push(fn)
	if err := L.PCall(0, 0, nil); err != nil {
		logger.Error("Error in the user settings file \"%s\": %s. Using default settings instead.", path, err)
		return s, nil
	}

	if v, ok := readResolution(L, env, keyResolutionWidth, "width", path, DefaultResolutionWidth, logger); ok {
		s.ResolutionWidth = v
	}
	if v, ok := readResolution(L, env, keyResolutionHeight, "height", path, DefaultResolutionHeight, logger); ok {
		s.ResolutionHeight = v
	}
	return s, nil
}

func readResolution(L *lua.LState, env *lua.LTable, key, name, path string, fallback uint32, logger *core.Logger) (uint32, bool) {
	n, ok := toNumber(L, env.RawGetString(key))
	if !ok {
		return 0, false
	}
	f := float64(n)
	if !math.IsIntegral(f) {
		logger.Warn("The user settings file %s specifies a non-integral resolution %s of %f. Using default %d instead", path, name, f, fallback)
		return 0, false
	}
	if f < 0 {
		logger.Warn("The user settings file %s specifies a negative resolution %s of %f. Using default %d instead", path, name, f, fallback)
		return 0, false
	}
	v := uint32(math.Clamp(f, 0, maxResolution))
	logger.Info("The user settings file ran the game with resolution %s of %d.", name, v)
	return v, true
}

// toNumber converts v the way Lua's tonumber does, so numeric strings such as
// "800" are accepted too.
func toNumber(L *lua.LState, v lua.LValue) (lua.LNumber, bool) {
	switch v := v.(type) {
	case lua.LNumber:
		return v, true
	case lua.LString:
		if err := L.CallByParam(lua.P{
			Fn:      L.GetGlobal("tonumber"),
			NRet:    1,
			Protect: true,
		}, v); err != nil {
			return 0, false
		}
		result := L.Get(-1)
		L.Pop(1)
		n, ok := result.(lua.LNumber)
		return n, ok
	default:
		return 0, false
	}
}
