// Package preview implements the rendering backend on top of ebiten for
// quick 2D iteration on a script without a GL context: render targets are
// offscreen images, shader programs are Kage shaders read from the
// declared fragment path, and the fullscreen quad is the only draw
// primitive. Models, IBL sets, depth testing and face culling have no
// ebiten equivalent and fail with explicit errors, so a script using them
// needs the real backend.
package preview

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/bmp" // register the BMP decoder

	"github.com/glintlab/glint/pkg/colorspace"
	"github.com/glintlab/glint/pkg/fileutil"
	"github.com/glintlab/glint/pkg/render"
)

// Backend renders the 2D subset of the backend contract with ebiten.
// SetScreen must be called once per frame before the interpreter runs.
type Backend struct {
	log     *slog.Logger
	baseDir string

	screen   *ebiten.Image
	targets  map[uint32]*target
	programs []*program
	textures []*ebiten.Image

	// draw state
	dest      *ebiten.Image // nil means the screen
	program   *program
	uniforms  map[string]any
	images    map[string]*ebiten.Image
	blend     ebiten.Blend
	viewport  image.Rectangle
	maskColor bool
}

type target struct {
	width, height uint32
	hasDepth      bool
	buffers       []*ebiten.Image
}

type program struct {
	shader   *ebiten.Shader
	fragPath string
}

var _ render.Backend = (*Backend)(nil)

// New creates a preview backend resolving declared resource paths
// relative to baseDir.
func New(log *slog.Logger, baseDir string) *Backend {
	return &Backend{
		log:       log,
		baseDir:   baseDir,
		targets:   map[uint32]*target{},
		uniforms:  map[string]any{},
		images:    map[string]*ebiten.Image{},
		blend:     ebiten.BlendSourceOver,
		maskColor: true,
	}
}

// SetScreen points the backend at this frame's window buffer.
func (b *Backend) SetScreen(screen *ebiten.Image) {
	b.screen = screen
}

func (b *Backend) EnsureRenderTarget(index uint32, width, height uint32, hasDepth bool, formats []render.TargetFormat) error {
	t, ok := b.targets[index]
	if ok && t.width == width && t.height == height && len(t.buffers) == len(formats) {
		return nil
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("render target %d has zero size %dx%d", index, width, height)
	}
	t = &target{width: width, height: height, hasDepth: hasDepth}
	for range formats {
		t.buffers = append(t.buffers, ebiten.NewImage(int(width), int(height)))
	}
	b.targets[index] = t
	b.log.Debug("render target (re)created", "index", index, "width", width, "height", height, "buffers", len(formats))
	return nil
}

func (b *Backend) BindRenderTarget(index uint32) error {
	t, ok := b.targets[index]
	if !ok {
		return fmt.Errorf("render target %d is not materialized", index)
	}
	// The preview draws into the first color buffer only.
	b.dest = t.buffers[0]
	return nil
}

func (b *Backend) BindScreen() error {
	if b.screen == nil {
		return fmt.Errorf("no screen bound for this frame")
	}
	b.dest = nil
	return nil
}

func (b *Backend) SetViewport(x, y, width, height uint32) {
	b.viewport = image.Rect(int(x), int(y), int(x+width), int(y+height))
}

func (b *Backend) Clear(color colorspace.LinearRGBA) {
	c := color.Srgb().NRGBA()
	if b.dest == nil {
		if b.screen != nil {
			b.screen.Fill(c)
		}
		return
	}
	b.dest.Fill(c)
}

func (b *Backend) SetBlending(buffer uint32, mode render.BlendMode) {
	if buffer != 0 {
		b.log.Debug("blending on secondary buffers is ignored by the preview backend", "buffer", buffer)
		return
	}
	switch mode {
	case render.BlendNone:
		b.blend = ebiten.BlendCopy
	case render.BlendAdd:
		b.blend = ebiten.BlendLighter
	case render.BlendAlpha:
		b.blend = ebiten.BlendSourceOver
	default:
		b.log.Warn("blend mode not supported by the preview backend, using alpha blending", "mode", mode.String())
		b.blend = ebiten.BlendSourceOver
	}
}

func (b *Backend) SetWriteMask(color, depth bool) {
	b.maskColor = color
}

func (b *Backend) SetZTest(mode render.ZTestMode) {
	if mode != render.ZTestAlways {
		b.log.Debug("depth testing is ignored by the preview backend", "mode", mode.String())
	}
}

func (b *Backend) SetCulling(mode render.CullingMode) {
	if mode != render.CullNone {
		b.log.Debug("face culling is ignored by the preview backend", "mode", mode.String())
	}
}

func (b *Backend) BindProgram(index uint32) error {
	if int(index) >= len(b.programs) {
		return fmt.Errorf("shader program %d is not loaded", index)
	}
	b.program = b.programs[index]
	b.uniforms = map[string]any{}
	b.images = map[string]*ebiten.Image{}
	return nil
}

func (b *Backend) SetUniformFloat(name string, value float32) error {
	if b.program == nil {
		return fmt.Errorf("no shader program bound, cannot set uniform %q", name)
	}
	b.uniforms[name] = value
	return nil
}

func (b *Backend) SetUniformColor(name string, value colorspace.LinearRGBA) error {
	if b.program == nil {
		return fmt.Errorf("no shader program bound, cannot set uniform %q", name)
	}
	b.uniforms[name] = []float32{value.R, value.G, value.B, value.A}
	return nil
}

func (b *Backend) SetUniformMat4(name string, value [16]float32) error {
	if b.program == nil {
		return fmt.Errorf("no shader program bound, cannot set uniform %q", name)
	}
	b.uniforms[name] = value[:]
	return nil
}

func (b *Backend) BindTextureUniform(name string, texture uint32) error {
	if b.program == nil {
		return fmt.Errorf("no shader program bound, cannot bind texture %q", name)
	}
	if int(texture) >= len(b.textures) {
		return fmt.Errorf("texture %d is not loaded", texture)
	}
	b.images[name] = b.textures[texture]
	return nil
}

func (b *Backend) BindIblUniform(ibl uint32) error {
	return fmt.Errorf("IBL sets are not supported by the preview backend")
}

func (b *Backend) BindRenderTargetTexture(name string, targetIndex, buffer uint32) error {
	if b.program == nil {
		return fmt.Errorf("no shader program bound, cannot bind render target %q", name)
	}
	t, ok := b.targets[targetIndex]
	if !ok {
		return fmt.Errorf("render target %d is not materialized", targetIndex)
	}
	if int(buffer) >= len(t.buffers) {
		return fmt.Errorf("render target %d has no buffer %d", targetIndex, buffer)
	}
	b.images[name] = t.buffers[buffer]
	return nil
}

func (b *Backend) DrawFullscreenQuad() {
	if !b.maskColor {
		return
	}
	dst := b.dest
	if dst == nil {
		dst = b.screen
	}
	if dst == nil || b.program == nil {
		return
	}

	rect := b.viewport
	if rect.Empty() {
		rect = dst.Bounds()
	}
	w := float32(rect.Dx())
	h := float32(rect.Dy())
	x := float32(rect.Min.X)
	y := float32(rect.Min.Y)

	vertices := []ebiten.Vertex{
		{DstX: x, DstY: y, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: x + w, DstY: y, SrcX: w, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: x, DstY: y + h, SrcY: h, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: x + w, DstY: y + h, SrcX: w, SrcY: h, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	}
	indices := []uint16{0, 1, 2, 1, 3, 2}

	opts := &ebiten.DrawTrianglesShaderOptions{
		Uniforms: b.uniforms,
		Blend:    b.blend,
	}
	// Kage image slots are positional; bound textures fill them in name
	// order so a frame is deterministic.
	names := make([]string, 0, len(b.images))
	for name := range b.images {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		if i >= len(opts.Images) {
			b.log.Warn("too many textures bound for one draw, extra slots dropped", "texture", name)
			break
		}
		opts.Images[i] = b.images[name]
	}

	dst.DrawTrianglesShader(vertices, indices, b.program.shader, opts)
}

func (b *Backend) DrawModel(index uint32) error {
	return fmt.Errorf("models are not supported by the preview backend")
}

func (b *Backend) LoadProgram(vertPath, fragPath string) (uint32, error) {
	// Vertex shaders have no Kage counterpart; the fragment path is
	// expected to hold a Kage shader when previewing.
	src, err := os.ReadFile(fileutil.Resolve(b.baseDir, fragPath))
	if err != nil {
		return 0, fmt.Errorf("failed to read shader %s: %w", fragPath, err)
	}
	shader, err := ebiten.NewShader(src)
	if err != nil {
		return 0, fmt.Errorf("failed to compile shader %s: %w", fragPath, err)
	}
	index := uint32(len(b.programs))
	b.programs = append(b.programs, &program{shader: shader, fragPath: fragPath})
	b.log.Debug("shader program loaded", "index", index, "frag", fragPath, "vert", vertPath)
	return index, nil
}

func (b *Backend) LoadModel(path string) (uint32, error) {
	return 0, fmt.Errorf("models are not supported by the preview backend")
}

func (b *Backend) LoadTexture(path string, srgb bool) (uint32, error) {
	file, err := os.Open(fileutil.Resolve(b.baseDir, path))
	if err != nil {
		return 0, fmt.Errorf("failed to open texture %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return 0, fmt.Errorf("failed to decode texture %s: %w", path, err)
	}
	index := uint32(len(b.textures))
	b.textures = append(b.textures, ebiten.NewImageFromImage(img))
	b.log.Debug("texture loaded", "index", index, "path", path, "srgb", srgb)
	return index, nil
}

func (b *Backend) LoadIbl(folderPath string) (uint32, error) {
	return 0, fmt.Errorf("IBL sets are not supported by the preview backend")
}
