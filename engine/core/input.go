package core

// Key code definitions
type KeyCode uint16

const (
	KEY_BACKSPACE KeyCode = 0x08
	KEY_ENTER     KeyCode = 0x0D
	KEY_TAB       KeyCode = 0x09
	KEY_ESCAPE    KeyCode = 0x1B
	KEY_SPACE     KeyCode = 0x20
	KEY_END       KeyCode = 0x23
	KEY_HOME      KeyCode = 0x24
	KEY_LEFT      KeyCode = 0x25
	KEY_UP        KeyCode = 0x26
	KEY_RIGHT     KeyCode = 0x27
	KEY_DOWN      KeyCode = 0x28
	KEY_INSERT    KeyCode = 0x2D
	KEY_DELETE    KeyCode = 0x2E
	KEY_A         KeyCode = 0x41
	KEY_B         KeyCode = 0x42
	KEY_C         KeyCode = 0x43
	KEY_D         KeyCode = 0x44
	KEY_E         KeyCode = 0x45
	KEY_F         KeyCode = 0x46
	KEY_G         KeyCode = 0x47
	KEY_H         KeyCode = 0x48
	KEY_I         KeyCode = 0x49
	KEY_J         KeyCode = 0x4A
	KEY_K         KeyCode = 0x4B
	KEY_L         KeyCode = 0x4C
	KEY_M         KeyCode = 0x4D
	KEY_N         KeyCode = 0x4E
	KEY_O         KeyCode = 0x4F
	KEY_P         KeyCode = 0x50
	KEY_Q         KeyCode = 0x51
	KEY_R         KeyCode = 0x52
	KEY_S         KeyCode = 0x53
	KEY_T         KeyCode = 0x54
	KEY_U         KeyCode = 0x55
	KEY_V         KeyCode = 0x56
	KEY_W         KeyCode = 0x57
	KEY_X         KeyCode = 0x58
	KEY_Y         KeyCode = 0x59
	KEY_Z         KeyCode = 0x5A
	KEY_NUMPAD0   KeyCode = 0x60
	KEY_NUMPAD1   KeyCode = 0x61
	KEY_NUMPAD2   KeyCode = 0x62
	KEY_NUMPAD3   KeyCode = 0x63
	KEY_NUMPAD4   KeyCode = 0x64
	KEY_NUMPAD5   KeyCode = 0x65
	KEY_NUMPAD6   KeyCode = 0x66
	KEY_NUMPAD7   KeyCode = 0x67
	KEY_NUMPAD8   KeyCode = 0x68
	KEY_NUMPAD9   KeyCode = 0x69
	KEY_MULTIPLY  KeyCode = 0x6A
	KEY_ADD       KeyCode = 0x6B
	KEY_SUBTRACT  KeyCode = 0x6D
	KEY_DECIMAL   KeyCode = 0x6E
	KEY_DIVIDE    KeyCode = 0x6F
	KEY_F1        KeyCode = 0x70
	KEY_F2        KeyCode = 0x71
	KEY_F3        KeyCode = 0x72
	KEY_F4        KeyCode = 0x73
	KEY_F5        KeyCode = 0x74
	KEY_F6        KeyCode = 0x75
	KEY_F7        KeyCode = 0x76
	KEY_F8        KeyCode = 0x77
	KEY_F9        KeyCode = 0x78
	KEY_F10       KeyCode = 0x79
	KEY_F11       KeyCode = 0x7A
	KEY_F12       KeyCode = 0x7B
	KEY_NUMLOCK   KeyCode = 0x90
	KEY_SCROLL    KeyCode = 0x91
	KEY_LSHIFT    KeyCode = 0xA0
	KEY_RSHIFT    KeyCode = 0xA1
	KEY_LCONTROL  KeyCode = 0xA2
	KEY_RCONTROL  KeyCode = 0xA3
	KEY_LMENU     KeyCode = 0xA4
	KEY_RMENU     KeyCode = 0xA5
	KEY_SEMICOLON KeyCode = 0xBA
	KEY_PLUS      KeyCode = 0xBB
	KEY_COMMA     KeyCode = 0xBC
	KEY_MINUS     KeyCode = 0xBD
	KEY_PERIOD    KeyCode = 0xBE
	KEY_SLASH     KeyCode = 0xBF
	KEY_GRAVE     KeyCode = 0xC0
	KEY_UNKNOWN   KeyCode = 0xFF
)

// Keyboard state structure
type KeyboardState struct {
	Keys [256]bool
}

// Input tracks the current and previous keyboard state and turns key
// transitions into events on the bus.
type Input struct {
	events   *EventBus
	current  KeyboardState
	previous KeyboardState
}

func NewInput(events *EventBus) *Input {
	return &Input{events: events}
}

// Update copies the current state to the previous one. Call it once per frame,
// after everything that reads input this frame.
func (in *Input) Update() {
	in.previous = in.current
}

func (in *Input) IsKeyDown(key KeyCode) bool {
	return in.current.Keys[key]
}

func (in *Input) IsKeyUp(key KeyCode) bool {
	return !in.current.Keys[key]
}

func (in *Input) WasKeyDown(key KeyCode) bool {
	return in.previous.Keys[key]
}

func (in *Input) WasKeyUp(key KeyCode) bool {
	return !in.previous.Keys[key]
}

// ProcessKey records a key transition and fires EVENT_CODE_KEY_PRESSED or
// EVENT_CODE_KEY_RELEASED. Repeats of the same state are ignored.
func (in *Input) ProcessKey(key KeyCode, pressed bool) {
	// Only handle this if the state actually changed.
	if in.current.Keys[key] == pressed {
		return
	}
	in.current.Keys[key] = pressed

	code := EVENT_CODE_KEY_RELEASED
	if pressed {
		code = EVENT_CODE_KEY_PRESSED
	}
	// Fire off an event for immediate processing.
	in.events.Fire(code, in, EventContext{Key: key})
}
