package platform

import "github.com/spaghettifunk/eae6320/engine/core"

// ClientAPI selects which graphics API the window is prepared for.
type ClientAPI uint8

const (
	ClientAPIOpenGL ClientAPI = iota
	ClientAPIVulkan
)

func (c ClientAPI) String() string {
	switch c {
	case ClientAPIVulkan:
		return "Vulkan"
	default:
		return "OpenGL"
	}
}

// WindowHandle identifies a window owned by a WindowHost. The zero value is
// never handed out.
type WindowHandle uint32

const InvalidWindowHandle WindowHandle = 0

type MessageKind uint8

const (
	// A key went down while the window had focus.
	MessageKeyPressed MessageKind = iota
	// A key was released while the window had focus.
	MessageKeyReleased
	// The framebuffer size changed.
	MessageResized
	// The user asked the window to close (e.g. the close button).
	MessageClose
	// The window is gone. This is the last message a window receives.
	MessageDestroyed
	// Ends the message loop. Carries the exit code and reason.
	MessageQuit
)

func (k MessageKind) String() string {
	switch k {
	case MessageKeyPressed:
		return "key pressed"
	case MessageKeyReleased:
		return "key released"
	case MessageResized:
		return "resized"
	case MessageClose:
		return "close"
	case MessageDestroyed:
		return "destroyed"
	case MessageQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// ExitReason tells apart the ways the message loop can end. The numeric exit
// code alone doesn't, since a destroyed window always exits with 0.
type ExitReason uint8

const (
	ExitReasonNone ExitReason = iota
	ExitReasonUserQuit
	ExitReasonWindowDestroyed
	ExitReasonError
	ExitReasonInitializationFailed
	ExitReasonWindowClosed
)

func (r ExitReason) String() string {
	switch r {
	case ExitReasonUserQuit:
		return "user quit"
	case ExitReasonWindowDestroyed:
		return "window destroyed"
	case ExitReasonError:
		return "error"
	case ExitReasonInitializationFailed:
		return "initialization failed"
	case ExitReasonWindowClosed:
		return "window closed"
	default:
		return "none"
	}
}

type Message struct {
	Kind   MessageKind
	Window WindowHandle
	// Set for MessageKeyPressed and MessageKeyReleased.
	Key core.KeyCode
	// Set for MessageResized.
	Width  uint32
	Height uint32
	// Set for MessageQuit.
	ExitCode int
	Reason   ExitReason
}

type WindowConfig struct {
	Title     string
	X         int
	Y         int
	Width     uint32
	Height    uint32
	ClientAPI ClientAPI
}

// WindowProcedure receives the messages dispatched to a window.
type WindowProcedure interface {
	OnMessage(msg Message)
}

// WindowHost is the capability the application needs from the platform: a
// window and a non-blocking message pump. All calls must happen on the
// thread that created the host.
type WindowHost interface {
	Initialize() error
	// CreateWindow creates a window whose messages are dispatched to owner.
	CreateWindow(cfg WindowConfig, owner WindowProcedure) (WindowHandle, error)
	// DestroyWindow destroys the window and synchronously dispatches
	// MessageDestroyed to its owner before returning.
	DestroyWindow(handle WindowHandle) error
	// PeekMessage returns the next pending message, if any, without blocking.
	PeekMessage() (Message, bool)
	// DispatchMessage delivers msg to the procedure that owns msg.Window.
	DispatchMessage(msg Message)
	// PostQuitMessage makes a MessageQuit available once the queue is drained.
	PostQuitMessage(exitCode int, reason ExitReason)
	// Surface returns the native window for the graphics backend.
	Surface(handle WindowHandle) (interface{}, error)
	CleanUp() error
}
