package assetbuild

import (
	"path/filepath"

	"github.com/spaghettifunk/eae6320/engine/platform"
)

const (
	AuthoredAssetDirKey = "AuthoredAssetDir"
	BuiltAssetDirKey    = "BuiltAssetDir"
)

// CopyBuilder builds an asset by copying it from the authored directory to
// the built directory when the built copy is missing or older.
type CopyBuilder struct {
	files    *platform.FileSystem
	reporter *Reporter
	getenv   func(string) (string, error)

	authoredDir string
	builtDir    string
}

func NewCopyBuilder(files *platform.FileSystem, reporter *Reporter) *CopyBuilder {
	return &CopyBuilder{
		files:    files,
		reporter: reporter,
		getenv:   platform.GetEnvironmentVariable,
	}
}

// Initialize reads the asset directories from the environment.
func (b *CopyBuilder) Initialize() error {
	authored, err := b.getenv(AuthoredAssetDirKey)
	if err != nil {
		return err
	}
	built, err := b.getenv(BuiltAssetDirKey)
	if err != nil {
		return err
	}
	b.authoredDir = authored
	b.builtDir = built
	return nil
}

func (b *CopyBuilder) AuthoredDir() string {
	return b.authoredDir
}

func (b *CopyBuilder) BuildAsset(relativePath string) bool {
	source := filepath.Join(b.authoredDir, relativePath)
	target := filepath.Join(b.builtDir, relativePath)

	if _, err := b.files.DoesFileExist(source); err != nil {
		b.reporter.Error(err.Error(), source)
		return false
	}

	outdated, err := b.isOutdated(source, target)
	if err != nil {
		b.reporter.Error(err.Error(), target)
		return false
	}
	if !outdated {
		return true
	}

	if err := b.files.CreateDirectoryIfNecessary(target); err != nil {
		b.reporter.Error(err.Error(), target)
		return false
	}
	if err := b.files.CopyFile(source, target, false, true); err != nil {
		b.reporter.Error(err.Error(), source)
		return false
	}
	return true
}

// isOutdated is true when target is missing or was written before source.
func (b *CopyBuilder) isOutdated(source, target string) (bool, error) {
	if exists, _ := b.files.DoesFileExist(target); !exists {
		return true, nil
	}
	sourceTime, err := b.files.GetLastWriteTime(source)
	if err != nil {
		return false, err
	}
	targetTime, err := b.files.GetLastWriteTime(target)
	if err != nil {
		return false, err
	}
	return sourceTime.After(targetTime), nil
}

func (b *CopyBuilder) CleanUp() error {
	return nil
}
