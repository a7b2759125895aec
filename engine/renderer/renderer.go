package renderer

import (
	"github.com/rotisserie/eris"

	"github.com/spaghettifunk/eae6320/engine/core"
	"github.com/spaghettifunk/eae6320/engine/math"
	"github.com/spaghettifunk/eae6320/engine/platform"
)

// ConstantBuffer is the per-frame data shared with the shaders. Its layout
// matches the std140 block "constantBuffer" at binding 0, padded to 16 bytes.
type ConstantBuffer struct {
	ElapsedSeconds float32
	_              [3]float32
}

const ConstantBufferSize = 16

// ClearColor is opaque black.
var ClearColor = math.NewVec4(0, 0, 0, 1)

// Backend is a graphics API implementation. Exactly one is linked into a
// binary, picked by build tag.
type Backend interface {
	ClientAPI() platform.ClientAPI
	// Initialize binds to the window surface and creates the fixed shader
	// pair, the mesh and the constant buffer. A failure is permanent.
	Initialize(surface interface{}, width, height uint32) error
	RenderFrame(cb ConstantBuffer) error
	// CleanUp releases everything in reverse order. It is safe after a
	// partial Initialize and safe to call twice.
	CleanUp() error
}

// Graphics is the engine-owned front end of the backend. It is not safe for
// use from more than one goroutine.
type Graphics struct {
	backend     Backend
	clock       *core.Clock
	logger      *core.Logger
	initialized bool
}

func NewGraphics(backend Backend, clock *core.Clock, logger *core.Logger) *Graphics {
	return &Graphics{
		backend: backend,
		clock:   clock,
		logger:  logger,
	}
}

func (g *Graphics) ClientAPI() platform.ClientAPI {
	return g.backend.ClientAPI()
}

func (g *Graphics) Initialize(surface interface{}, width, height uint32) error {
	if g.backend == nil {
		return eris.New("no graphics backend was provided")
	}
	if err := g.backend.Initialize(surface, width, height); err != nil {
		g.logger.Error("Failed to initialize the %s graphics backend: %s", g.backend.ClientAPI(), err)
		// Release whatever was created before the failure.
		if cerr := g.backend.CleanUp(); cerr != nil {
			g.logger.Error("Failed to clean up the %s graphics backend: %s", g.backend.ClientAPI(), cerr)
		}
		return eris.Wrapf(err, "failed to initialize the %s graphics backend", g.backend.ClientAPI())
	}
	g.initialized = true
	g.logger.Info("Initialized %s graphics at %dx%d", g.backend.ClientAPI(), width, height)
	return nil
}

// RenderFrame draws one frame. Backend errors are logged and do not stop the
// frame loop.
func (g *Graphics) RenderFrame() {
	if !g.initialized {
		return
	}
	cb := ConstantBuffer{
		ElapsedSeconds: float32(g.clock.ElapsedSecondCountTotal()),
	}
	if err := g.backend.RenderFrame(cb); err != nil {
		g.logger.Error("Failed to render a frame: %s", err)
	}
}

func (g *Graphics) CleanUp() error {
	if !g.initialized {
		return nil
	}
	g.initialized = false
	if err := g.backend.CleanUp(); err != nil {
		return eris.Wrapf(err, "failed to clean up the %s graphics backend", g.backend.ClientAPI())
	}
	return nil
}
