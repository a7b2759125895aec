package engine

import (
	"github.com/spaghettifunk/eae6320/engine/core"
	"github.com/spaghettifunk/eae6320/engine/platform"
)

func (e *Engine) createMainWindow() error {
	handle, err := e.host.CreateWindow(platform.WindowConfig{
		Title:     e.config.Title(e.backend.ClientAPI()),
		X:         e.config.StartPosX,
		Y:         e.config.StartPosY,
		Width:     e.settings.ResolutionWidth,
		Height:    e.settings.ResolutionHeight,
		ClientAPI: e.backend.ClientAPI(),
	}, e)
	if err != nil {
		return err
	}
	e.window = handle
	e.logger.Info("Created the main window %d at %dx%d", handle, e.settings.ResolutionWidth, e.settings.ResolutionHeight)
	return nil
}

// destroyMainWindow does nothing if the window was already destroyed by the
// user.
func (e *Engine) destroyMainWindow() error {
	if e.window == platform.InvalidWindowHandle {
		return nil
	}
	return e.host.DestroyWindow(e.window)
}

// OnMessage is the main window's procedure. It runs on the message loop's
// thread.
func (e *Engine) OnMessage(msg platform.Message) {
	switch msg.Kind {
	case platform.MessageKeyPressed:
		e.input.ProcessKey(msg.Key, true)
	case platform.MessageKeyReleased:
		e.input.ProcessKey(msg.Key, false)
	case platform.MessageResized:
		e.logger.Debug("Window resize: %d, %d", msg.Width, msg.Height)
		e.events.Fire(core.EVENT_CODE_RESIZED, e, core.EventContext{Width: msg.Width, Height: msg.Height})
	case platform.MessageClose:
		// Teardown destroys the window once graphics are released.
		e.logger.Info("The main window was closed")
		e.host.PostQuitMessage(0, platform.ExitReasonWindowClosed)
	case platform.MessageDestroyed:
		e.window = platform.InvalidWindowHandle
		e.logger.Info("The main window was destroyed")
		if e.stage == StageRunning {
			e.host.PostQuitMessage(0, platform.ExitReasonWindowDestroyed)
		}
	}
}

func (e *Engine) onKey(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	if data.Key != core.KEY_ESCAPE {
		return false
	}
	// Other listeners of the quit event get a say too.
	e.events.Fire(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{})
	return true
}

func (e *Engine) onQuitRequested(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	quit, err := e.output.Confirm(quitPromptTitle, quitPromptQuestion)
	if err != nil {
		e.logger.Error("Failed to ask whether to quit: %s", err)
		return true
	}
	if quit {
		e.logger.Info("The user chose to quit")
		e.host.PostQuitMessage(0, platform.ExitReasonUserQuit)
	}
	return true
}
