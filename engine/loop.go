package engine

import (
	"github.com/spaghettifunk/eae6320/engine/platform"
)

// loop runs until a quit message arrives and returns its exit status. The
// error is set when the quit was caused by a failure.
func (e *Engine) loop() (ExitStatus, error) {
	e.stage = StageRunning
	e.logger.Info("Entering the message loop")
	for {
		if status, done := e.iterate(); done {
			e.logger.Info("Exiting with code %d (%s)", status.Code, status.Reason)
			if status.Reason == platform.ExitReasonError {
				return status, e.loopErr
			}
			return status, nil
		}
	}
}

// iterate either handles one pending message or, when there is none, runs
// one frame. It reports true once the quit message was taken.
func (e *Engine) iterate() (ExitStatus, bool) {
	if msg, ok := e.host.PeekMessage(); ok {
		if msg.Kind == platform.MessageQuit {
			return ExitStatus{Code: msg.ExitCode, Reason: msg.Reason}, true
		}
		e.host.DispatchMessage(msg)
		return ExitStatus{}, false
	}
	e.tick()
	return ExitStatus{}, false
}

func (e *Engine) tick() {
	e.clock.OnNewFrame()
	delta := e.clock.ElapsedSecondCountPreviousFrame()

	if e.game.FnUpdate != nil {
		if err := e.game.FnUpdate(delta); err != nil {
			e.logger.Error("Game update failed, shutting down: %s", err)
			e.loopErr = err
			e.host.PostQuitMessage(1, platform.ExitReasonError)
			return
		}
	}

	e.graphics.RenderFrame()
	e.metrics.Update(delta)

	// Input state is copied last so this frame's transitions were visible to
	// everything above.
	e.input.Update()
}
