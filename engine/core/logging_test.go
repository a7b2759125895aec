package core

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, fs afero.Fs, path string) []string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestLoggerWritesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	l := NewLogger(fs, &bytes.Buffer{})

	require.NoError(t, l.Initialize("game.log"))
	l.Info("hello %d", 42)
	l.Error("boom")
	require.NoError(t, l.CleanUp())

	lines := readLines(t, fs, "game.log")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `Opened log file "game.log"`)
	assert.Contains(t, lines[1], "hello 42")
	assert.Contains(t, lines[2], "boom")
	assert.Contains(t, lines[3], "Closing log file")
}

func TestLoggerTruncatesOnOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "game.log", []byte("stale line\n"), 0o644))

	l := NewLogger(fs, &bytes.Buffer{})
	require.NoError(t, l.Initialize("game.log"))
	require.NoError(t, l.CleanUp())

	data, err := afero.ReadFile(fs, "game.log")
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale line")
}

func TestLoggerPathMismatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	l := NewLogger(fs, &bytes.Buffer{})

	require.NoError(t, l.Initialize("first.log"))
	require.NoError(t, l.Initialize("second.log"))
	assert.Equal(t, "first.log", l.Path())

	exists, err := afero.Exists(fs, "second.log")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, l.CleanUp())
	lines := readLines(t, fs, "first.log")
	assert.Contains(t, lines[1], "An attempt was made to initialize logging with the path \"second.log\"")
}

func TestLoggerOpensDefaultPathLazily(t *testing.T) {
	fs := afero.NewMemMapFs()
	l := NewLogger(fs, &bytes.Buffer{})

	l.Warn("early line")
	assert.Equal(t, DefaultLogPath, l.Path())
	require.NoError(t, l.CleanUp())

	lines := readLines(t, fs, DefaultLogPath)
	assert.Contains(t, lines[0], "early line")
}

func TestLoggerAfterCleanUp(t *testing.T) {
	fs := afero.NewMemMapFs()
	console := &bytes.Buffer{}
	l := NewLogger(fs, console)

	require.NoError(t, l.Initialize("game.log"))
	require.NoError(t, l.CleanUp())
	require.NoError(t, l.CleanUp())

	l.Info("late line")
	assert.Contains(t, console.String(), "late line")
	assert.ErrorIs(t, l.Initialize("game.log"), ErrLoggerClosed)

	data, err := afero.ReadFile(fs, "game.log")
	require.NoError(t, err)
	assert.NotContains(t, string(data), "late line")
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, WarnLevel, lvl)

	_, err = ParseLogLevel("chatty")
	assert.Error(t, err)
}

func TestLoggerFailedInitializeKeepsDefaultPathClosed(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	console := &bytes.Buffer{}
	l := NewLogger(fs, console)

	require.Error(t, l.Initialize("game.log"))
	l.Error("after the failure")

	assert.Contains(t, console.String(), "after the failure")
	assert.Empty(t, l.Path())
	exists, err := afero.Exists(fs, DefaultLogPath)
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, l.CleanUp())
}
