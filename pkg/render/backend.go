package render

import (
	"github.com/glintlab/glint/pkg/colorspace"
)

// Backend is the rendering side effects contract the interpreter drives.
// The core never owns GPU objects: render targets, programs, textures,
// models and IBL sets appear here only as the small integer indices
// assigned at load time, which match the declaration order of the
// compiled program's header.
//
// All calls are issued from a single goroutine, in program order, once per
// frame. A Backend implementation owns actual resource lifetime, including
// the recreate-on-resize policy behind EnsureRenderTarget.
type Backend interface {
	// EnsureRenderTarget makes sure the render target at index exists with
	// the given dimensions, recreating it only when dimensions changed.
	// Called for every declared target before main runs.
	EnsureRenderTarget(index uint32, width, height uint32, hasDepth bool, formats []TargetFormat) error

	// BindRenderTarget makes the target at index the draw destination.
	BindRenderTarget(index uint32) error
	// BindScreen makes the window's buffer the draw destination.
	BindScreen() error

	SetViewport(x, y, width, height uint32)
	Clear(color colorspace.LinearRGBA)

	SetBlending(buffer uint32, mode BlendMode)
	SetWriteMask(color, depth bool)
	SetZTest(mode ZTestMode)
	SetCulling(mode CullingMode)

	// BindProgram makes the shader program at index current. Uniform and
	// draw calls that follow apply to this program.
	BindProgram(index uint32) error

	// Uniform setters fail when the current program has no such uniform.
	SetUniformFloat(name string, value float32) error
	SetUniformColor(name string, value colorspace.LinearRGBA) error
	SetUniformMat4(name string, value [16]float32) error
	BindTextureUniform(name string, texture uint32) error
	BindIblUniform(ibl uint32) error
	BindRenderTargetTexture(name string, target, buffer uint32) error

	DrawFullscreenQuad()
	DrawModel(index uint32) error

	// Load-time calls, issued in declaration order while building a scene
	// unit. Each returns the index assigned to the resource.
	LoadProgram(vertPath, fragPath string) (uint32, error)
	LoadModel(path string) (uint32, error)
	LoadTexture(path string, srgb bool) (uint32, error)
	LoadIbl(folderPath string) (uint32, error)
}
