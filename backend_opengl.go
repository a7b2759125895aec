//go:build !vulkan

package main

import (
	"github.com/spf13/afero"

	"github.com/spaghettifunk/eae6320/engine/core"
	"github.com/spaghettifunk/eae6320/engine/platform"
	"github.com/spaghettifunk/eae6320/engine/renderer"
	"github.com/spaghettifunk/eae6320/engine/renderer/opengl"
)

const backendAPI = platform.ClientAPIOpenGL

func newBackend(fs afero.Fs, logger *core.Logger) renderer.Backend {
	return opengl.New(fs, logger)
}
