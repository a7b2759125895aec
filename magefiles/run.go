//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds the game and runs it from the repository root.
func (Run) Game() error {
	mg.Deps(Build.Game)
	fmt.Println("Run game...")
	_, err := executeCmd("bin/eae6320", withStream())
	return err
}
