package assetbuild

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/eae6320/engine/platform"
)

const copyScript = `
function BuildAsset(relativePath)
	local source = GetEnvironmentVariable("AuthoredAssetDir") .. "/" .. relativePath
	local target = GetEnvironmentVariable("BuiltAssetDir") .. "/" .. relativePath
	local exists, err = DoesFileExist(source)
	if not exists then
		OutputErrorMessage(err, source)
		return false
	end
	CreateDirectoryIfNecessary(target)
	local copied, copyErr = CopyFile(source, target)
	if not copied then
		OutputErrorMessage(copyErr, source)
	end
	return copied
end
`

type luaHarness struct {
	builder *LuaBuilder
	fs      afero.Fs
	errors  *bytes.Buffer
	stderr  *bytes.Buffer
}

func newLuaHarness(t *testing.T, script string) *luaHarness {
	t.Helper()
	h := &luaHarness{
		fs:     afero.NewMemMapFs(),
		errors: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	if script != "" {
		require.NoError(t, afero.WriteFile(h.fs, "/scripts/"+BuildScriptName, []byte(script), 0o644))
	}
	h.builder = NewLuaBuilder(context.Background(), platform.NewFileSystem(h.fs), NewReporter(h.errors))
	h.builder.stderr = h.stderr
	h.builder.getenv = testEnv(map[string]string{
		ScriptDirKey:        "/scripts",
		AuthoredAssetDirKey: "/authored",
		BuiltAssetDirKey:    "/built",
	})
	return h
}

func TestLuaBuilderCopiesAssets(t *testing.T) {
	h := newLuaHarness(t, copyScript)
	writeFile(t, h.fs, "/authored/a.txt", "a", older)

	code := Run(h.builder, []string{"a.txt", "missing.txt"}, NewReporter(h.errors))

	assert.Equal(t, 1, code)
	data, err := afero.ReadFile(h.fs, "/built/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
	assert.Contains(t, h.errors.String(), "/authored/missing.txt: ")
}

func TestLuaBuilderMissingScript(t *testing.T) {
	h := newLuaHarness(t, "")

	err := h.builder.Initialize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), BuildScriptName)
	assert.False(t, h.builder.BuildAsset("a.txt"))
	assert.NoError(t, h.builder.CleanUp())
}

func TestLuaBuilderScriptErrors(t *testing.T) {
	h := newLuaHarness(t, "function BuildAsset(")
	assert.Error(t, h.builder.Initialize())
	assert.Empty(t, h.stderr.String())

	h = newLuaHarness(t, `error("refusing to start")`)
	err := h.builder.Initialize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to start")
}

func TestLuaBuilderScriptErrorIsReportedOnce(t *testing.T) {
	h := newLuaHarness(t, `error("refusing to start")`)

	code := Run(h.builder, []string{"a.txt"}, NewReporter(h.errors))

	assert.Equal(t, 1, code)
	assert.Empty(t, h.stderr.String())
	assert.Equal(t, 1, strings.Count(h.errors.String(), "refusing to start"))
}

func TestLuaBuilderRaisedErrorFailsAsset(t *testing.T) {
	h := newLuaHarness(t, `
function BuildAsset(relativePath)
	return DoesFileExist({})
end
`)
	require.NoError(t, h.builder.Initialize())
	defer h.builder.CleanUp()

	assert.False(t, h.builder.BuildAsset("a.txt"))
	assert.Contains(t, h.stderr.String(), "Argument #1 must be a string (instead of a table)")
}

func TestLuaBuilderWriteTimes(t *testing.T) {
	h := newLuaHarness(t, `
function BuildAsset(relativePath)
	InvalidateLastWriteTime(relativePath)
	return GetLastWriteTime(relativePath) == 315532800
end
`)
	writeFile(t, h.fs, "/a.txt", "a", newer)
	require.NoError(t, h.builder.Initialize())
	defer h.builder.CleanUp()

	assert.True(t, h.builder.BuildAsset("/a.txt"))
	assert.False(t, h.builder.BuildAsset("/missing.txt"), "a missing file raises")
}

func TestLuaBuilderTruthiness(t *testing.T) {
	h := newLuaHarness(t, `
function BuildAsset(relativePath)
	if relativePath == "nil" then
		return nil
	end
	return relativePath
end
`)
	require.NoError(t, h.builder.Initialize())
	defer h.builder.CleanUp()

	assert.True(t, h.builder.BuildAsset("anything"))
	assert.False(t, h.builder.BuildAsset("nil"))
}
