package assetbuild

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	lua "github.com/yuin/gopher-lua"

	"github.com/spaghettifunk/eae6320/engine/platform"
)

const (
	ScriptDirKey    = "ScriptDir"
	BuildScriptName = "AssetBuildSystem.lua"
)

// LuaBuilder hands every asset to the BuildAsset function of a Lua build
// script. The script reaches the file system through the functions
// registered in Initialize.
type LuaBuilder struct {
	ctx      context.Context
	files    *platform.FileSystem
	reporter *Reporter
	stderr   io.Writer
	getenv   func(string) (string, error)

	state *lua.LState
}

func NewLuaBuilder(ctx context.Context, files *platform.FileSystem, reporter *Reporter) *LuaBuilder {
	return &LuaBuilder{
		ctx:      ctx,
		files:    files,
		reporter: reporter,
		stderr:   os.Stderr,
		getenv:   platform.GetEnvironmentVariable,
	}
}

// Initialize creates the Lua state, registers the host functions and runs
// $ScriptDir/AssetBuildSystem.lua once. Errors are left to the caller to
// report.
func (b *LuaBuilder) Initialize() error {
	b.state = lua.NewState()
	b.register()

	scriptDir, err := b.getenv(ScriptDirKey)
	if err != nil {
		return err
	}
	path := filepath.Join(scriptDir, BuildScriptName)
	if _, err := b.files.DoesFileExist(path); err != nil {
		return eris.Wrapf(err, "failed to find the build script \"%s\"", path)
	}

	src, err := b.files.LoadBinaryFile(path)
	if err != nil {
		return err
	}
	fn, err := b.state.Load(bytes.NewReader(src), path)
	if err != nil {
		return eris.Wrapf(err, "failed to load \"%s\"", path)
	}
	b.state.Push(fn)
	if err := b.state.PCall(0, 0, nil); err != nil {
		return eris.Wrapf(err, "failed to run \"%s\"", path)
	}
	return nil
}

func (b *LuaBuilder) BuildAsset(relativePath string) bool {
	if b.state == nil {
		return false
	}
	err := b.state.CallByParam(lua.P{
		Fn:      b.state.GetGlobal("BuildAsset"),
		NRet:    1,
		Protect: true,
	}, lua.LString(relativePath))
	if err != nil {
		// The script raised instead of returning false.
		fmt.Fprintln(b.stderr, err.Error())
		return false
	}
	result := b.state.Get(-1)
	b.state.Pop(1)
	return lua.LVAsBool(result)
}

func (b *LuaBuilder) CleanUp() error {
	if b.state != nil {
		b.state.Close()
		b.state = nil
	}
	return nil
}

func (b *LuaBuilder) register() {
	functions := map[string]lua.LGFunction{
		"CopyFile":                   b.luaCopyFile,
		"CreateDirectoryIfNecessary": b.luaCreateDirectoryIfNecessary,
		"DoesFileExist":              b.luaDoesFileExist,
		"ExecuteCommand":             b.luaExecuteCommand,
		"GetEnvironmentVariable":     b.luaGetEnvironmentVariable,
		"GetLastWriteTime":           b.luaGetLastWriteTime,
		"InvalidateLastWriteTime":    b.luaInvalidateLastWriteTime,
		"OutputErrorMessage":         b.luaOutputErrorMessage,
	}
	for name, fn := range functions {
		b.state.SetGlobal(name, b.state.NewFunction(fn))
	}
}

// checkString accepts strings and numbers, like lua_isstring.
func checkString(L *lua.LState, n int) string {
	v := L.Get(n)
	switch v.Type() {
	case lua.LTString, lua.LTNumber:
		return v.String()
	}
	L.RaiseError("Argument #%d must be a string (instead of a %s)", n, v.Type())
	return ""
}

// failure pushes the false, message pair scripts check for.
func failure(L *lua.LState, first lua.LValue, err error) int {
	L.Push(first)
	L.Push(lua.LString(err.Error()))
	return 2
}

func (b *LuaBuilder) luaCopyFile(L *lua.LState) int {
	source := checkString(L, 1)
	target := checkString(L, 2)

	// The target is overwritten and gets a fresh write time, since whether a
	// target is up to date is decided by comparing times.
	if err := b.files.CopyFile(source, target, false, true); err != nil {
		return failure(L, lua.LFalse, err)
	}
	L.Push(lua.LTrue)
	return 1
}

func (b *LuaBuilder) luaCreateDirectoryIfNecessary(L *lua.LState) int {
	path := checkString(L, 1)
	if err := b.files.CreateDirectoryIfNecessary(path); err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LTrue)
	return 1
}

func (b *LuaBuilder) luaDoesFileExist(L *lua.LState) int {
	path := checkString(L, 1)
	if _, err := b.files.DoesFileExist(path); err != nil {
		return failure(L, lua.LFalse, err)
	}
	L.Push(lua.LTrue)
	return 1
}

func (b *LuaBuilder) luaExecuteCommand(L *lua.LState) int {
	command := checkString(L, 1)
	exitCode, err := platform.ExecuteCommand(b.ctx, command)
	if err != nil {
		return failure(L, lua.LFalse, err)
	}
	L.Push(lua.LTrue)
	L.Push(lua.LNumber(exitCode))
	return 2
}

func (b *LuaBuilder) luaGetEnvironmentVariable(L *lua.LState) int {
	key := checkString(L, 1)
	value, err := b.getenv(key)
	if err != nil {
		return failure(L, lua.LNil, err)
	}
	L.Push(lua.LString(value))
	return 1
}

// luaGetLastWriteTime returns seconds since the Unix epoch.
func (b *LuaBuilder) luaGetLastWriteTime(L *lua.LState) int {
	path := checkString(L, 1)
	t, err := b.files.GetLastWriteTime(path)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LNumber(float64(t.UnixNano()) / 1e9))
	return 1
}

func (b *LuaBuilder) luaInvalidateLastWriteTime(L *lua.LState) int {
	path := checkString(L, 1)
	if err := b.files.InvalidateLastWriteTime(path); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (b *LuaBuilder) luaOutputErrorMessage(L *lua.LState) int {
	message := checkString(L, 1)
	file := ""
	if v := L.Get(2); v != lua.LNil {
		file = checkString(L, 2)
	}
	b.reporter.Error(message, file)
	return 0
}
