package platform

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileSystem(now time.Time) *FileSystem {
	f := NewFileSystem(afero.NewMemMapFs())
	f.now = func() time.Time { return now }
	return f
}

func TestCopyFile(t *testing.T) {
	now := time.Date(2024, time.March, 3, 12, 0, 0, 0, time.UTC)
	f := newTestFileSystem(now)
	require.NoError(t, f.WriteBinaryFile("src/a.txt", []byte("alpha")))

	require.NoError(t, f.CreateDirectoryIfNecessary("out/a.txt"))
	require.NoError(t, f.CopyFile("src/a.txt", "out/a.txt", false, true))

	data, err := f.LoadBinaryFile("out/a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("alpha"), data)

	written, err := f.GetLastWriteTime("out/a.txt")
	require.NoError(t, err)
	assert.True(t, written.Equal(now))

	// Overwriting is fine unless asked otherwise.
	require.NoError(t, f.CopyFile("src/a.txt", "out/a.txt", false, false))
	assert.Error(t, f.CopyFile("src/a.txt", "out/a.txt", true, false))
}

func TestCopyFileMissingSource(t *testing.T) {
	f := newTestFileSystem(time.Now())
	assert.Error(t, f.CopyFile("missing.txt", "out.txt", false, true))

	exists, _ := f.DoesFileExist("out.txt")
	assert.False(t, exists)
}

func TestDoesFileExist(t *testing.T) {
	f := newTestFileSystem(time.Now())
	require.NoError(t, f.WriteBinaryFile("a.txt", nil))

	exists, err := f.DoesFileExist("a.txt")
	assert.True(t, exists)
	assert.NoError(t, err)

	exists, err = f.DoesFileExist("b.txt")
	assert.False(t, exists)
	assert.Error(t, err)
}

func TestInvalidateLastWriteTime(t *testing.T) {
	f := newTestFileSystem(time.Now())
	require.NoError(t, f.WriteBinaryFile("a.txt", []byte("x")))

	require.NoError(t, f.InvalidateLastWriteTime("a.txt"))
	written, err := f.GetLastWriteTime("a.txt")
	require.NoError(t, err)
	assert.True(t, written.Equal(InvalidWriteTime))

	assert.Error(t, f.InvalidateLastWriteTime("missing.txt"))
}
