// Package assetbuild turns authored assets into the files the game loads.
package assetbuild

// Builder builds assets given by their path relative to the asset roots.
type Builder interface {
	Initialize() error
	// BuildAsset reports its own errors and returns whether the asset is
	// ready to use.
	BuildAsset(relativePath string) bool
	CleanUp() error
}

// Run builds every asset in order and returns the process exit code: 0 when
// everything built, 1 otherwise. A failed asset doesn't stop the rest. When
// the builder fails to initialize nothing is built.
func Run(b Builder, relativePaths []string, reporter *Reporter) int {
	failed := false

	if err := b.Initialize(); err != nil {
		reporter.Error(err.Error(), "")
		failed = true
	} else {
		for _, path := range relativePaths {
			if !b.BuildAsset(path) {
				failed = true
			}
		}
	}

	if err := b.CleanUp(); err != nil {
		reporter.Error(err.Error(), "")
		failed = true
	}

	if failed {
		return 1
	}
	return 0
}
