package engine

import (
	"github.com/spaghettifunk/eae6320/engine/core"
	"github.com/spaghettifunk/eae6320/engine/settings"
)

// Game is implemented by filling in the function fields. Any of them can be
// nil.
type Game struct {
	State        interface{}
	FnInitialize Initialize
	FnUpdate     Update
	FnShutdown   Shutdown
}

// Systems are the engine-owned services handed to the game on Initialize.
// They live until the game's Shutdown returns.
type Systems struct {
	Logger   *core.Logger
	Events   *core.EventBus
	Input    *core.Input
	Clock    *core.Clock
	Settings settings.Settings
}

type Initialize func(systems *Systems) error

// Update runs once per frame before rendering. Returning an error quits the
// application with exit code 1.
type Update func(deltaTime float64) error
type Shutdown func() error
