package testbed

import (
	"github.com/spaghettifunk/eae6320/engine"
	"github.com/spaghettifunk/eae6320/engine/core"
)

// Seconds between two "still running" log lines.
const reportInterval = 5.0

type gameState struct {
	systems       *engine.Systems
	sinceReport   float64
	keysPressed   int
	spaceHeldTime float64
}

// NewGame returns the sample game: it draws nothing of its own and only logs
// what the player does.
func NewGame() *engine.Game {
	state := &gameState{}
	return &engine.Game{
		State:        state,
		FnInitialize: state.initialize,
		FnUpdate:     state.update,
		FnShutdown:   state.shutdown,
	}
}

func (s *gameState) initialize(systems *engine.Systems) error {
	s.systems = systems
	systems.Events.Register(core.EVENT_CODE_KEY_PRESSED, s, s.onKeyPressed)
	systems.Logger.Info("Game initialized at %dx%d",
		systems.Settings.ResolutionWidth, systems.Settings.ResolutionHeight)
	return nil
}

func (s *gameState) onKeyPressed(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
	s.keysPressed++
	s.systems.Logger.Debug("Key pressed: %d", data.Key)
	// Leave the key to the engine's own listeners.
	return false
}

func (s *gameState) update(deltaTime float64) error {
	if s.systems.Input.IsKeyDown(core.KEY_SPACE) {
		s.spaceHeldTime += deltaTime
	}
	s.sinceReport += deltaTime
	if s.sinceReport >= reportInterval {
		s.sinceReport = 0
		s.systems.Logger.Info("Running for %.1f seconds", s.systems.Clock.ElapsedSecondCountTotal())
	}
	return nil
}

func (s *gameState) shutdown() error {
	s.systems.Events.Unregister(core.EVENT_CODE_KEY_PRESSED, s)
	s.systems.Logger.Info("Game shut down after %d key presses, space held for %.2f seconds",
		s.keysPressed, s.spaceHeldTime)
	return nil
}
