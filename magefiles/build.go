//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

var shaders = map[string]string{
	"shaders/vertexShader.vert":   "data/vertexShader.spv",
	"shaders/fragmentShader.frag": "data/fragmentShader.spv",
}

// Compiles the Vulkan shaders to SPIR-V with glslc.
func (Build) Shaders() error {
	for source, target := range shaders {
		if _, err := executeCmd("glslc", withArgs(source, "-o", target), withStream()); err != nil {
			return err
		}
	}
	return nil
}

// Builds the given assets with the asset build script. Asset paths are read
// from the ASSETS environment variable, separated by spaces.
func (Build) Assets() error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	env := map[string]string{
		"ScriptDir":        filepath.Join(wd, "scripts"),
		"AuthoredAssetDir": filepath.Join(wd, "assets"),
		"BuiltAssetDir":    filepath.Join(wd, "data"),
	}
	args := append([]string{"run", "./cmd/assetbuild", "--"}, assetList()...)
	_, err = executeCmd("go", withArgs(args...), withEnv(env), withStream())
	return err
}

// Builds the game binary. Set VULKAN=1 for the Vulkan backend.
func (Build) Game() error {
	mg.Deps(Build.Shaders)
	args := []string{"build", "-o", "bin/eae6320"}
	if os.Getenv("VULKAN") != "" {
		args = append(args, "-tags", "vulkan")
	}
	_, err := executeCmd("go", withArgs(append(args, ".")...), withStream())
	return err
}
