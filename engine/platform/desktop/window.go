package desktop

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rotisserie/eris"

	"github.com/spaghettifunk/eae6320/engine/core"
	"github.com/spaghettifunk/eae6320/engine/math"
	"github.com/spaghettifunk/eae6320/engine/platform"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// Host is the glfw implementation of platform.WindowHost.
type Host struct {
	*platform.MessagePump

	logger      *core.Logger
	windows     map[platform.WindowHandle]*glfw.Window
	initialized bool
}

func NewHost(logger *core.Logger) *Host {
	return &Host{
		MessagePump: platform.NewMessagePump(platform.DefaultMessageQueueSize),
		logger:      logger,
		windows:     make(map[platform.WindowHandle]*glfw.Window),
	}
}

func (h *Host) Initialize() error {
	if h.initialized {
		return nil
	}
	if err := glfw.Init(); err != nil {
		return eris.Wrap(err, "failed to initialize glfw")
	}
	h.initialized = true
	return nil
}

func (h *Host) CreateWindow(cfg platform.WindowConfig, owner platform.WindowProcedure) (platform.WindowHandle, error) {
	if !h.initialized {
		return platform.InvalidWindowHandle, eris.New("the window host was not initialized")
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	switch cfg.ClientAPI {
	case platform.ClientAPIVulkan:
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Required for Vulkan.
	default:
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
		glfw.WindowHint(glfw.ContextVersionMajor, 4)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}

	window, err := glfw.CreateWindow(int(cfg.Width), int(cfg.Height), cfg.Title, nil, nil)
	if err != nil {
		return platform.InvalidWindowHandle, eris.Wrapf(err, "failed to create the window \"%s\"", cfg.Title)
	}

	handle := h.Registry().Acquire(owner)
	h.windows[handle] = window

	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		var kind platform.MessageKind
		switch action {
		case glfw.Press:
			kind = platform.MessageKeyPressed
		case glfw.Release:
			kind = platform.MessageKeyReleased
		default:
			return
		}
		h.post(platform.Message{Kind: kind, Window: handle, Key: translateKey(key)})
	})
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		h.post(platform.Message{Kind: platform.MessageResized, Window: handle, Width: uint32(width), Height: uint32(height)})
	})
	window.SetCloseCallback(func(w *glfw.Window) {
		// The owner decides whether the window really goes away.
		w.SetShouldClose(false)
		h.post(platform.Message{Kind: platform.MessageClose, Window: handle})
	})

	x, y := clampToMonitor(cfg)
	window.SetPos(x, y)
	window.Show()

	return handle, nil
}

// clampToMonitor keeps the requested position inside the primary monitor so
// the whole client area is visible.
func clampToMonitor(cfg platform.WindowConfig) (int, int) {
	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return cfg.X, cfg.Y
	}
	mode := monitor.GetVideoMode()
	if mode == nil {
		return cfg.X, cfg.Y
	}
	maxX := mode.Width - int(cfg.Width)
	maxY := mode.Height - int(cfg.Height)
	if maxX < 0 {
		maxX = 0
	}
	if maxY < 0 {
		maxY = 0
	}
	return math.Clamp(cfg.X, 0, maxX), math.Clamp(cfg.Y, 0, maxY)
}

func (h *Host) post(msg platform.Message) {
	if err := h.Post(msg); err != nil {
		h.logger.Warn("Dropped a %s message: %s", msg.Kind, err)
	}
}

func (h *Host) DestroyWindow(handle platform.WindowHandle) error {
	window, ok := h.windows[handle]
	if !ok {
		return eris.Errorf("no window with the handle '%d'", handle)
	}
	window.Destroy()
	delete(h.windows, handle)
	h.DispatchMessage(platform.Message{Kind: platform.MessageDestroyed, Window: handle})
	return nil
}

// PeekMessage polls glfw for new events only when nothing is pending.
func (h *Host) PeekMessage() (platform.Message, bool) {
	if h.Pending() == 0 && h.initialized {
		glfw.PollEvents()
	}
	return h.MessagePump.PeekMessage()
}

func (h *Host) Surface(handle platform.WindowHandle) (interface{}, error) {
	window, ok := h.windows[handle]
	if !ok {
		return nil, eris.Errorf("no window with the handle '%d'", handle)
	}
	return window, nil
}

func (h *Host) CleanUp() error {
	if !h.initialized {
		return nil
	}
	var result error
	for handle := range h.windows {
		if err := h.DestroyWindow(handle); err != nil && result == nil {
			result = err
		}
	}
	glfw.Terminate()
	h.initialized = false
	return result
}

var keyMap = map[glfw.Key]core.KeyCode{
	glfw.KeyBackspace:    core.KEY_BACKSPACE,
	glfw.KeyEnter:        core.KEY_ENTER,
	glfw.KeyTab:          core.KEY_TAB,
	glfw.KeyEscape:       core.KEY_ESCAPE,
	glfw.KeySpace:        core.KEY_SPACE,
	glfw.KeyEnd:          core.KEY_END,
	glfw.KeyHome:         core.KEY_HOME,
	glfw.KeyLeft:         core.KEY_LEFT,
	glfw.KeyUp:           core.KEY_UP,
	glfw.KeyRight:        core.KEY_RIGHT,
	glfw.KeyDown:         core.KEY_DOWN,
	glfw.KeyInsert:       core.KEY_INSERT,
	glfw.KeyDelete:       core.KEY_DELETE,
	glfw.KeyKP0:          core.KEY_NUMPAD0,
	glfw.KeyKP1:          core.KEY_NUMPAD1,
	glfw.KeyKP2:          core.KEY_NUMPAD2,
	glfw.KeyKP3:          core.KEY_NUMPAD3,
	glfw.KeyKP4:          core.KEY_NUMPAD4,
	glfw.KeyKP5:          core.KEY_NUMPAD5,
	glfw.KeyKP6:          core.KEY_NUMPAD6,
	glfw.KeyKP7:          core.KEY_NUMPAD7,
	glfw.KeyKP8:          core.KEY_NUMPAD8,
	glfw.KeyKP9:          core.KEY_NUMPAD9,
	glfw.KeyKPMultiply:   core.KEY_MULTIPLY,
	glfw.KeyKPAdd:        core.KEY_ADD,
	glfw.KeyKPSubtract:   core.KEY_SUBTRACT,
	glfw.KeyKPDecimal:    core.KEY_DECIMAL,
	glfw.KeyKPDivide:     core.KEY_DIVIDE,
	glfw.KeyNumLock:      core.KEY_NUMLOCK,
	glfw.KeyScrollLock:   core.KEY_SCROLL,
	glfw.KeyLeftShift:    core.KEY_LSHIFT,
	glfw.KeyRightShift:   core.KEY_RSHIFT,
	glfw.KeyLeftControl:  core.KEY_LCONTROL,
	glfw.KeyRightControl: core.KEY_RCONTROL,
	glfw.KeyLeftAlt:      core.KEY_LMENU,
	glfw.KeyRightAlt:     core.KEY_RMENU,
	glfw.KeySemicolon:    core.KEY_SEMICOLON,
	glfw.KeyEqual:        core.KEY_PLUS,
	glfw.KeyComma:        core.KEY_COMMA,
	glfw.KeyMinus:        core.KEY_MINUS,
	glfw.KeyPeriod:       core.KEY_PERIOD,
	glfw.KeySlash:        core.KEY_SLASH,
	glfw.KeyGraveAccent:  core.KEY_GRAVE,
}

func translateKey(key glfw.Key) core.KeyCode {
	// Letters share their ASCII values on both sides.
	if key >= glfw.KeyA && key <= glfw.KeyZ {
		return core.KEY_A + core.KeyCode(key-glfw.KeyA)
	}
	if key >= glfw.KeyF1 && key <= glfw.KeyF12 {
		return core.KEY_F1 + core.KeyCode(key-glfw.KeyF1)
	}
	if code, ok := keyMap[key]; ok {
		return code
	}
	return core.KEY_UNKNOWN
}
