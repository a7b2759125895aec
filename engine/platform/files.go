package platform

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
)

// InvalidWriteTime is older than any file a build produces, so a target
// stamped with it is always considered out of date.
var InvalidWriteTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// FileSystem implements the file operations the engine and its tools need on
// top of an afero.Fs.
type FileSystem struct {
	fs  afero.Fs
	now func() time.Time
}

func NewFileSystem(fs afero.Fs) *FileSystem {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileSystem{fs: fs, now: time.Now}
}

func (f *FileSystem) Fs() afero.Fs {
	return f.fs
}

// CopyFile copies source to target. When failIfExists is set an existing
// target is an error. When updateTargetTime is set the target's write time
// is set to the current time instead of keeping the source's.
func (f *FileSystem) CopyFile(source, target string, failIfExists, updateTargetTime bool) error {
	if failIfExists {
		exists, err := afero.Exists(f.fs, target)
		if err != nil {
			return eris.Wrapf(err, "failed to check whether \"%s\" exists", target)
		}
		if exists {
			return eris.Errorf("the target \"%s\" already exists", target)
		}
	}

	info, err := f.fs.Stat(source)
	if err != nil {
		return eris.Wrapf(err, "failed to find the source \"%s\"", source)
	}
	data, err := afero.ReadFile(f.fs, source)
	if err != nil {
		return eris.Wrapf(err, "failed to read the source \"%s\"", source)
	}
	if err := afero.WriteFile(f.fs, target, data, info.Mode().Perm()); err != nil {
		return eris.Wrapf(err, "failed to write the target \"%s\"", target)
	}

	t := info.ModTime()
	if updateTargetTime {
		t = f.now()
	}
	if err := f.fs.Chtimes(target, t, t); err != nil {
		return eris.Wrapf(err, "failed to set the write time of \"%s\"", target)
	}
	return nil
}

// CreateDirectoryIfNecessary creates the directory that path lives in.
// Existing directories are not an error.
func (f *FileSystem) CreateDirectoryIfNecessary(path string) error {
	dir := filepath.Dir(path)
	if err := f.fs.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "failed to create the directory \"%s\"", dir)
	}
	return nil
}

// DoesFileExist returns an error describing why the file wasn't found when
// it doesn't exist.
func (f *FileSystem) DoesFileExist(path string) (bool, error) {
	_, err := f.fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, eris.Wrapf(err, "the file \"%s\" doesn't exist", path)
	}
	return false, eris.Wrapf(err, "failed to look for \"%s\"", path)
}

func (f *FileSystem) GetLastWriteTime(path string) (time.Time, error) {
	info, err := f.fs.Stat(path)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "failed to get the last write time of \"%s\"", path)
	}
	return info.ModTime(), nil
}

// InvalidateLastWriteTime stamps an existing file with InvalidWriteTime.
func (f *FileSystem) InvalidateLastWriteTime(path string) error {
	if _, err := f.fs.Stat(path); err != nil {
		return eris.Wrapf(err, "failed to find \"%s\"", path)
	}
	if err := f.fs.Chtimes(path, InvalidWriteTime, InvalidWriteTime); err != nil {
		return eris.Wrapf(err, "failed to invalidate the last write time of \"%s\"", path)
	}
	return nil
}

func (f *FileSystem) LoadBinaryFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to load \"%s\"", path)
	}
	return data, nil
}

func (f *FileSystem) WriteBinaryFile(path string, data []byte) error {
	if err := afero.WriteFile(f.fs, path, data, 0o644); err != nil {
		return eris.Wrapf(err, "failed to write \"%s\"", path)
	}
	return nil
}
