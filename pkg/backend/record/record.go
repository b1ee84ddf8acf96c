// Package record provides a Backend that performs no rendering and instead
// records every call as a line of text. It backs the interpreter and scene
// tests: run a frame, then compare the recorded call stream against the
// expected program order.
package record

import (
	"fmt"

	"github.com/glintlab/glint/pkg/colorspace"
	"github.com/glintlab/glint/pkg/render"
)

// Backend records calls in issue order. The zero value is ready to use.
type Backend struct {
	Calls []string

	programs uint32
	models   uint32
	textures uint32
	ibls     uint32
}

var _ render.Backend = (*Backend)(nil)

func (b *Backend) record(format string, args ...any) {
	b.Calls = append(b.Calls, fmt.Sprintf(format, args...))
}

func (b *Backend) EnsureRenderTarget(index uint32, width, height uint32, hasDepth bool, formats []render.TargetFormat) error {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	b.record("EnsureRenderTarget(%d, %dx%d, depth=%v, %v)", index, width, height, hasDepth, names)
	return nil
}

func (b *Backend) BindRenderTarget(index uint32) error {
	b.record("BindRenderTarget(%d)", index)
	return nil
}

func (b *Backend) BindScreen() error {
	b.record("BindScreen")
	return nil
}

func (b *Backend) SetViewport(x, y, width, height uint32) {
	b.record("SetViewport(%d, %d, %d, %d)", x, y, width, height)
}

func (b *Backend) Clear(color colorspace.LinearRGBA) {
	b.record("Clear(%.3f, %.3f, %.3f, %.3f)", color.R, color.G, color.B, color.A)
}

func (b *Backend) SetBlending(buffer uint32, mode render.BlendMode) {
	b.record("SetBlending(%d, %s)", buffer, mode)
}

func (b *Backend) SetWriteMask(color, depth bool) {
	b.record("SetWriteMask(%v, %v)", color, depth)
}

func (b *Backend) SetZTest(mode render.ZTestMode) {
	b.record("SetZTest(%s)", mode)
}

func (b *Backend) SetCulling(mode render.CullingMode) {
	b.record("SetCulling(%s)", mode)
}

func (b *Backend) BindProgram(index uint32) error {
	b.record("BindProgram(%d)", index)
	return nil
}

func (b *Backend) SetUniformFloat(name string, value float32) error {
	b.record("SetUniformFloat(%s, %.3f)", name, value)
	return nil
}

func (b *Backend) SetUniformColor(name string, value colorspace.LinearRGBA) error {
	b.record("SetUniformColor(%s, %.3f, %.3f, %.3f, %.3f)", name, value.R, value.G, value.B, value.A)
	return nil
}

func (b *Backend) SetUniformMat4(name string, value [16]float32) error {
	b.record("SetUniformMat4(%s)", name)
	return nil
}

func (b *Backend) BindTextureUniform(name string, texture uint32) error {
	b.record("BindTextureUniform(%s, %d)", name, texture)
	return nil
}

func (b *Backend) BindIblUniform(ibl uint32) error {
	b.record("BindIblUniform(%d)", ibl)
	return nil
}

func (b *Backend) BindRenderTargetTexture(name string, target, buffer uint32) error {
	b.record("BindRenderTargetTexture(%s, %d, %d)", name, target, buffer)
	return nil
}

func (b *Backend) DrawFullscreenQuad() {
	b.record("DrawFullscreenQuad")
}

func (b *Backend) DrawModel(index uint32) error {
	b.record("DrawModel(%d)", index)
	return nil
}

func (b *Backend) LoadProgram(vertPath, fragPath string) (uint32, error) {
	b.record("LoadProgram(%s, %s)", vertPath, fragPath)
	index := b.programs
	b.programs++
	return index, nil
}

func (b *Backend) LoadModel(path string) (uint32, error) {
	b.record("LoadModel(%s)", path)
	index := b.models
	b.models++
	return index, nil
}

func (b *Backend) LoadTexture(path string, srgb bool) (uint32, error) {
	b.record("LoadTexture(%s, srgb=%v)", path, srgb)
	index := b.textures
	b.textures++
	return index, nil
}

func (b *Backend) LoadIbl(folderPath string) (uint32, error) {
	b.record("LoadIbl(%s)", folderPath)
	index := b.ibls
	b.ibls++
	return index, nil
}
