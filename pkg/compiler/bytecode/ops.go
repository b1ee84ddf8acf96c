package bytecode

import (
	"github.com/glintlab/glint/pkg/render"
)

// Op is one bytecode operation. Operations reference resources through the
// small integer handles assigned by the Header; conditional blocks nest
// structurally instead of flattening to jumps.
type Op interface {
	opNode()
}

// Block is an ordered sequence of operations belonging to one function
// body or one branch of a conditional.
type Block []Op

// BindRenderTarget makes the render target at Index the draw destination.
type BindRenderTarget struct {
	Index uint32
}

// BindScreenTarget makes the window's buffer the draw destination.
type BindScreenTarget struct{}

// BindProgram makes the shader program at Index current.
type BindProgram struct {
	Index uint32
}

// Viewport sets the viewport rectangle. All four values are evaluated per
// frame and rounded.
type Viewport struct {
	X, Y, W, H Expr
}

// Clear clears the bound target with an evaluated color.
type Clear struct {
	Color Expr
}

// SetBlending sets the blend mode of one color buffer.
type SetBlending struct {
	Buffer uint32
	Mode   render.BlendMode
}

// SetWriteMask sets the color/depth write masks. Both values are evaluated
// per frame; positive means enabled.
type SetWriteMask struct {
	Color Expr
	Depth Expr
}

// SetZTest sets the depth test function.
type SetZTest struct {
	Mode render.ZTestMode
}

// SetCulling sets the face culling mode.
type SetCulling struct {
	Mode render.CullingMode
}

// UniformFloat sets a float uniform on the current program.
type UniformFloat struct {
	Name  string
	Value Expr
}

// UniformColor sets a color uniform on the current program.
type UniformColor struct {
	Name  string
	Value Expr
}

// UniformTexture binds the texture at Index to a sampler uniform.
type UniformTexture struct {
	Name  string
	Index uint32
}

// UniformIbl binds the IBL set at Index to the program's IBL uniforms.
type UniformIbl struct {
	Index uint32
}

// UniformRenderTargetTexture binds one color buffer of a render target as
// a texture uniform.
type UniformRenderTargetTexture struct {
	Name   string
	Target uint32
	Buffer uint32
}

// DrawFullscreenQuad draws a fullscreen quad with the current program.
type DrawFullscreenQuad struct{}

// DrawModel draws the model at Index with the current program.
type DrawModel struct {
	Index uint32
}

// CallUser calls a user-defined function, discarding its return value.
type CallUser struct {
	Call *Call
}

// Return evaluates Expr, short-circuits the remaining operations of the
// current block, and bubbles the value up to the calling function.
type Return struct {
	Expr Expr
}

// Conditional evaluates Cond to a float and executes Then when strictly
// positive, otherwise Else. Else is nil when the script wrote no else
// branch.
type Conditional struct {
	Cond Expr
	Then Block
	Else Block
}

func (*BindRenderTarget) opNode()           {}
func (*BindScreenTarget) opNode()           {}
func (*BindProgram) opNode()                {}
func (*Viewport) opNode()                   {}
func (*Clear) opNode()                      {}
func (*SetBlending) opNode()                {}
func (*SetWriteMask) opNode()               {}
func (*SetZTest) opNode()                   {}
func (*SetCulling) opNode()                 {}
func (*UniformFloat) opNode()               {}
func (*UniformColor) opNode()               {}
func (*UniformTexture) opNode()             {}
func (*UniformIbl) opNode()                 {}
func (*UniformRenderTargetTexture) opNode() {}
func (*DrawFullscreenQuad) opNode()         {}
func (*DrawModel) opNode()                  {}
func (*CallUser) opNode()                   {}
func (*Return) opNode()                     {}
func (*Conditional) opNode()                {}
