//go:build !vulkan

package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/rotisserie/eris"
	"github.com/spf13/afero"

	"github.com/spaghettifunk/eae6320/engine/assets"
	"github.com/spaghettifunk/eae6320/engine/core"
	"github.com/spaghettifunk/eae6320/engine/platform"
	"github.com/spaghettifunk/eae6320/engine/renderer"
)

const constantBufferBinding = 0

// Surface is what the backend needs from a window with a GL context.
type Surface interface {
	MakeContextCurrent()
	SwapBuffers()
}

type Backend struct {
	fs     afero.Fs
	logger *core.Logger

	surface        Surface
	program        uint32
	vertexArray    uint32
	vertexBuffer   uint32
	constantBuffer uint32
}

func New(fs afero.Fs, logger *core.Logger) *Backend {
	return &Backend{
		fs:     fs,
		logger: logger,
	}
}

func (b *Backend) ClientAPI() platform.ClientAPI {
	return platform.ClientAPIOpenGL
}

func (b *Backend) Initialize(surface interface{}, width, height uint32) error {
	s, ok := surface.(Surface)
	if !ok {
		return eris.Errorf("the surface %T has no OpenGL context", surface)
	}
	s.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return eris.Wrap(err, "failed to load the OpenGL functions")
	}
	b.surface = s
	b.logger.Info("OpenGL %s on %s", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	gl.Viewport(0, 0, int32(width), int32(height))

	if err := b.createProgram(); err != nil {
		return err
	}
	if err := b.createMesh(); err != nil {
		return err
	}
	if err := b.createConstantBuffer(); err != nil {
		return err
	}
	return nil
}

func (b *Backend) createProgram() error {
	vertexSource, err := assets.ReadShaderSource(b.fs, assets.VertexShaderSourcePath)
	if err != nil {
		return err
	}
	fragmentSource, err := assets.ReadShaderSource(b.fs, assets.FragmentShaderSourcePath)
	if err != nil {
		return err
	}

	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return eris.Wrapf(err, "failed to compile \"%s\"", assets.VertexShaderSourcePath)
	}
	defer gl.DeleteShader(vertexShader)
	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return eris.Wrapf(err, "failed to compile \"%s\"", assets.FragmentShaderSourcePath)
	}
	defer gl.DeleteShader(fragmentShader)

	b.program = gl.CreateProgram()
	if b.program == 0 {
		return eris.Errorf("OpenGL failed to create a program (error 0x%x)", gl.GetError())
	}
	gl.AttachShader(b.program, vertexShader)
	gl.AttachShader(b.program, fragmentShader)
	gl.LinkProgram(b.program)
	gl.DetachShader(b.program, vertexShader)
	gl.DetachShader(b.program, fragmentShader)

	var status int32
	gl.GetProgramiv(b.program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		return eris.Errorf("failed to link the shader program: %s", programInfoLog(b.program))
	}

	// GLSL 4.1 can't declare the block binding itself.
	blockIndex := gl.GetUniformBlockIndex(b.program, gl.Str("constantBuffer\x00"))
	if blockIndex == gl.INVALID_INDEX {
		return eris.New("the shader program has no uniform block named \"constantBuffer\"")
	}
	gl.UniformBlockBinding(b.program, blockIndex, constantBufferBinding)
	return nil
}

func (b *Backend) createMesh() error {
	gl.GenVertexArrays(1, &b.vertexArray)
	if b.vertexArray == 0 {
		return eris.Errorf("OpenGL failed to create a vertex array (error 0x%x)", gl.GetError())
	}
	gl.BindVertexArray(b.vertexArray)

	gl.GenBuffers(1, &b.vertexBuffer)
	if b.vertexBuffer == 0 {
		return eris.Errorf("OpenGL failed to create a vertex buffer (error 0x%x)", gl.GetError())
	}
	data := renderer.MeshVertexData()
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vertexBuffer)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	// Position only: two floats at offset 0.
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, renderer.MeshVertexStride, 0)

	gl.BindVertexArray(0)
	if code := gl.GetError(); code != gl.NO_ERROR {
		return eris.Errorf("OpenGL failed to upload the mesh (error 0x%x)", code)
	}
	return nil
}

func (b *Backend) createConstantBuffer() error {
	gl.GenBuffers(1, &b.constantBuffer)
	if b.constantBuffer == 0 {
		return eris.Errorf("OpenGL failed to create the constant buffer (error 0x%x)", gl.GetError())
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.constantBuffer)
	gl.BufferData(gl.UNIFORM_BUFFER, renderer.ConstantBufferSize, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, constantBufferBinding, b.constantBuffer)
	if code := gl.GetError(); code != gl.NO_ERROR {
		return eris.Errorf("OpenGL failed to allocate the constant buffer (error 0x%x)", code)
	}
	return nil
}

func (b *Backend) RenderFrame(cb renderer.ConstantBuffer) error {
	if b.program == 0 || b.surface == nil {
		return eris.New("the OpenGL backend is not initialized")
	}

	c := renderer.ClearColor.Elements()
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.BindBuffer(gl.UNIFORM_BUFFER, b.constantBuffer)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, renderer.ConstantBufferSize, gl.Ptr(&cb))
	gl.BindBufferBase(gl.UNIFORM_BUFFER, constantBufferBinding, b.constantBuffer)

	gl.UseProgram(b.program)
	gl.BindVertexArray(b.vertexArray)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(renderer.MeshVertexCount))
	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return eris.Errorf("OpenGL failed to draw the frame (error 0x%x)", code)
	}
	b.surface.SwapBuffers()
	return nil
}

func (b *Backend) CleanUp() error {
	if b.constantBuffer != 0 {
		gl.DeleteBuffers(1, &b.constantBuffer)
		b.constantBuffer = 0
	}
	if b.vertexBuffer != 0 {
		gl.DeleteBuffers(1, &b.vertexBuffer)
		b.vertexBuffer = 0
	}
	if b.vertexArray != 0 {
		gl.DeleteVertexArrays(1, &b.vertexArray)
		b.vertexArray = 0
	}
	if b.program != 0 {
		gl.DeleteProgram(b.program)
		b.program = 0
	}
	b.surface = nil
	return nil
}
