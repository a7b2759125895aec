//go:build vulkan

package main

import (
	"os"

	"github.com/spf13/afero"

	"github.com/spaghettifunk/eae6320/engine/core"
	"github.com/spaghettifunk/eae6320/engine/platform"
	"github.com/spaghettifunk/eae6320/engine/renderer"
	"github.com/spaghettifunk/eae6320/engine/renderer/vulkan"
)

const backendAPI = platform.ClientAPIVulkan

func newBackend(fs afero.Fs, logger *core.Logger) renderer.Backend {
	b := vulkan.New(fs, logger)
	// Validation needs the Vulkan SDK's layers installed.
	b.SetDebug(os.Getenv("EAE6320_VULKAN_DEBUG") != "")
	return b
}
