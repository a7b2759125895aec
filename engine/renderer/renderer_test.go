package renderer

import (
	"bytes"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/eae6320/engine/core"
	"github.com/spaghettifunk/eae6320/engine/platform"
)

type fakeBackend struct {
	initErr   error
	renderErr error
	frames    []ConstantBuffer
	inits     int
	cleanUps  int
}

func (f *fakeBackend) ClientAPI() platform.ClientAPI { return platform.ClientAPIOpenGL }

func (f *fakeBackend) Initialize(surface interface{}, width, height uint32) error {
	f.inits++
	return f.initErr
}

func (f *fakeBackend) RenderFrame(cb ConstantBuffer) error {
	f.frames = append(f.frames, cb)
	return f.renderErr
}

func (f *fakeBackend) CleanUp() error {
	f.cleanUps++
	return nil
}

func newTestGraphics(b Backend, clock *core.Clock) (*Graphics, *bytes.Buffer) {
	console := &bytes.Buffer{}
	return NewGraphics(b, clock, core.NewLogger(afero.NewMemMapFs(), console)), console
}

func TestGraphicsCleanUpTwice(t *testing.T) {
	b := &fakeBackend{}
	g, _ := newTestGraphics(b, core.NewClock())

	require.NoError(t, g.Initialize(nil, 512, 512))
	assert.NoError(t, g.CleanUp())
	assert.NoError(t, g.CleanUp())
	assert.Equal(t, 1, b.cleanUps)
}

func TestGraphicsInitializeFailureReleases(t *testing.T) {
	b := &fakeBackend{initErr: eris.New("no device")}
	g, _ := newTestGraphics(b, core.NewClock())

	assert.Error(t, g.Initialize(nil, 512, 512))
	assert.Equal(t, 1, b.cleanUps)

	// Nothing to render or release after a failed init.
	g.RenderFrame()
	assert.Empty(t, b.frames)
	assert.NoError(t, g.CleanUp())
	assert.Equal(t, 1, b.cleanUps)
}

func TestGraphicsRenderFrameUsesClock(t *testing.T) {
	start := time.Unix(0, 0)
	now := start
	clock := core.NewClockWithSource(func() time.Time { return now })
	require.NoError(t, clock.Initialize())

	b := &fakeBackend{}
	g, _ := newTestGraphics(b, clock)
	require.NoError(t, g.Initialize(nil, 512, 512))

	now = start.Add(1500 * time.Millisecond)
	clock.OnNewFrame()
	g.RenderFrame()

	require.Len(t, b.frames, 1)
	assert.InDelta(t, 1.5, b.frames[0].ElapsedSeconds, 1e-6)
}

func TestGraphicsLogsRenderErrors(t *testing.T) {
	b := &fakeBackend{renderErr: eris.New("device lost")}
	g, console := newTestGraphics(b, core.NewClock())
	require.NoError(t, g.Initialize(nil, 512, 512))

	g.RenderFrame()
	g.RenderFrame()
	assert.Len(t, b.frames, 2)
	assert.Contains(t, console.String(), "device lost")
}

func TestMeshVertexData(t *testing.T) {
	data := MeshVertexData()
	assert.Equal(t, []float32{0, 0, 1, 0, 1, 1, 0, 0, 1, 1, 0, 1}, data)
	assert.Equal(t, MeshVertexStride, 2*4)
}
