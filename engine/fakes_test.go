package engine

import (
	"bytes"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/eae6320/engine/core"
	"github.com/spaghettifunk/eae6320/engine/platform"
	"github.com/spaghettifunk/eae6320/engine/renderer"
)

const testLogPath = "test.log"

// recorder keeps the order of calls across all fakes.
type recorder struct {
	calls []string
	fail  map[string]bool
}

func newRecorder(failing ...string) *recorder {
	r := &recorder{fail: make(map[string]bool)}
	for _, f := range failing {
		r.fail[f] = true
	}
	return r
}

func (r *recorder) call(name string) error {
	r.calls = append(r.calls, name)
	if r.fail[name] {
		return eris.Errorf("%s failed", name)
	}
	return nil
}

type fakeHost struct {
	*platform.MessagePump
	rec     *recorder
	windows map[platform.WindowHandle]bool
	config  platform.WindowConfig
	handle  platform.WindowHandle
}

func newFakeHost(rec *recorder) *fakeHost {
	return &fakeHost{
		MessagePump: platform.NewMessagePump(0),
		rec:         rec,
		windows:     make(map[platform.WindowHandle]bool),
	}
}

func (h *fakeHost) Initialize() error {
	return h.rec.call("host.Initialize")
}

func (h *fakeHost) CreateWindow(cfg platform.WindowConfig, owner platform.WindowProcedure) (platform.WindowHandle, error) {
	if err := h.rec.call("host.CreateWindow"); err != nil {
		return platform.InvalidWindowHandle, err
	}
	h.config = cfg
	h.handle = h.Registry().Acquire(owner)
	h.windows[h.handle] = true
	return h.handle, nil
}

func (h *fakeHost) DestroyWindow(handle platform.WindowHandle) error {
	if err := h.rec.call("host.DestroyWindow"); err != nil {
		return err
	}
	if !h.windows[handle] {
		return eris.Errorf("no window %d", handle)
	}
	delete(h.windows, handle)
	h.DispatchMessage(platform.Message{Kind: platform.MessageDestroyed, Window: handle})
	return nil
}

func (h *fakeHost) Surface(handle platform.WindowHandle) (interface{}, error) {
	if !h.windows[handle] {
		return nil, eris.Errorf("no window %d", handle)
	}
	return "surface", nil
}

func (h *fakeHost) CleanUp() error {
	return h.rec.call("host.CleanUp")
}

type fakeBackend struct {
	rec    *recorder
	width  uint32
	height uint32
	frames []renderer.ConstantBuffer
}

func (b *fakeBackend) ClientAPI() platform.ClientAPI {
	return platform.ClientAPIOpenGL
}

func (b *fakeBackend) Initialize(surface interface{}, width, height uint32) error {
	b.width, b.height = width, height
	return b.rec.call("backend.Initialize")
}

func (b *fakeBackend) RenderFrame(cb renderer.ConstantBuffer) error {
	b.frames = append(b.frames, cb)
	return nil
}

func (b *fakeBackend) CleanUp() error {
	return b.rec.call("backend.CleanUp")
}

type fakeOutput struct {
	rec      *recorder
	answer   bool
	printed  []string
	prompted int
}

func (o *fakeOutput) Initialize() error {
	return o.rec.call("output.Initialize")
}

func (o *fakeOutput) CleanUp() error {
	return o.rec.call("output.CleanUp")
}

func (o *fakeOutput) Print(message string) error {
	o.printed = append(o.printed, message)
	return nil
}

func (o *fakeOutput) Confirm(title, question string) (bool, error) {
	o.prompted++
	return o.answer, nil
}

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time {
	f.t = f.t.Add(250 * time.Millisecond)
	return f.t
}

type harness struct {
	rec     *recorder
	fs      afero.Fs
	host    *fakeHost
	backend *fakeBackend
	output  *fakeOutput
	game    *Game
	engine  *Engine
}

func newHarness(t *testing.T, rec *recorder, options ...Option) *harness {
	t.Helper()
	h := &harness{
		rec:     rec,
		fs:      afero.NewMemMapFs(),
		host:    newFakeHost(rec),
		backend: &fakeBackend{rec: rec},
		output:  &fakeOutput{rec: rec},
	}
	h.game = &Game{
		FnInitialize: func(*Systems) error { return rec.call("game.Initialize") },
		FnShutdown:   func() error { return rec.call("game.Shutdown") },
	}

	config := DefaultConfig()
	config.LogPath = testLogPath
	clock := &fakeTime{t: time.Unix(0, 0)}

	all := []Option{
		WithConfig(config),
		WithFs(h.fs),
		WithConsole(&bytes.Buffer{}),
		WithClock(core.NewClockWithSource(clock.now)),
		WithWindowHost(h.host),
		WithBackend(h.backend),
		WithUserOutput(h.output),
	}
	e, err := New(h.game, append(all, options...)...)
	require.NoError(t, err)
	h.engine = e
	return h
}
