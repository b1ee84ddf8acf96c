// Package bytecode compiles a glint syntax tree into a resolved,
// deduplicated Program: a header of resource declarations with stable
// integer handles, plus flat typed bytecode for every user function.
// Compilation is fail-fast; the first semantic error rejects the unit.
package bytecode

import (
	"strings"

	"github.com/glintlab/glint/pkg/compiler/ast"
	"github.com/glintlab/glint/pkg/render"
)

// Param is a compiled function parameter.
type Param struct {
	Name string
	Type ast.Type
}

// Function is a compiled user function.
type Function struct {
	Name   string
	Params []Param
	Body   Block
}

// Program is a compiled unit: the Header plus every user function, keyed
// by name. Built once per successful compile and immutable afterward; a
// hot reload replaces the whole unit.
type Program struct {
	Header    *Header
	Functions map[string]*Function
}

// Function looks up a user function by name.
func (p *Program) Function(name string) (*Function, bool) {
	fn, ok := p.Functions[name]
	return fn, ok
}

// Compile resolves declarations and emits bytecode for the whole program.
func Compile(src string, prog *ast.Program) (*Program, error) {
	header, err := collectHeader(src, prog)
	if err != nil {
		return nil, err
	}

	functions := make(map[string]*Function, len(prog.Functions))
	c := &blockCompiler{src: src, header: header}
	for i := range prog.Functions {
		fn := &prog.Functions[i]
		body, err := c.compileBlock(fn.Body)
		if err != nil {
			return nil, err
		}
		compiled := &Function{
			Name: fn.Name.Text(src),
			Body: body,
		}
		for _, p := range fn.Params {
			compiled.Params = append(compiled.Params, Param{Name: p.Name.Text(src), Type: p.Type})
		}
		functions[compiled.Name] = compiled
	}

	return &Program{Header: header, Functions: functions}, nil
}

// blockCompiler emits bytecode for statement blocks against a completed,
// read-only header.
type blockCompiler struct {
	src    string
	header *Header
}

// builtinSpec is one entry of the builtin dispatch table: the exact
// argument count and the emission rule.
type builtinSpec struct {
	args int
	emit func(c *blockCompiler, call *ast.CallExpr) (Op, error)
}

// builtins maps builtin call names to emission rules. Adding a builtin is
// a single new entry. Any call not found here compiles to a generic user
// function call.
var builtins = map[string]builtinSpec{
	"program":                 {1, (*blockCompiler).emitBindProgram},
	"bind_rt":                 {1, (*blockCompiler).emitBindTarget},
	"pipeline_set_blending":   {2, (*blockCompiler).emitSetBlending},
	"pipeline_set_write_mask": {2, (*blockCompiler).emitSetWriteMask},
	"pipeline_set_ztest":      {1, (*blockCompiler).emitSetZTest},
	"pipeline_set_culling":    {1, (*blockCompiler).emitSetCulling},
	"uniform_float":           {2, (*blockCompiler).emitUniformFloat},
	"uniform_color":           {2, (*blockCompiler).emitUniformColor},
	"uniform_texture_srgb":    {2, (*blockCompiler).emitUniformTextureSrgb},
	"uniform_texture_linear":  {2, (*blockCompiler).emitUniformTextureLinear},
	"uniform_ibl":             {1, (*blockCompiler).emitUniformIbl},
	"uniform_rtt":             {2, (*blockCompiler).emitUniformTargetTexture},
	"draw_fullscreenquad":     {0, (*blockCompiler).emitDrawQuad},
	"draw_model":              {1, (*blockCompiler).emitDrawModel},
	"clear":                   {1, (*blockCompiler).emitClear},
	"viewport":                {4, (*blockCompiler).emitViewport},
}

func (c *blockCompiler) compileBlock(block []ast.Stmt) (Block, error) {
	var out Block
	for _, stmt := range block {
		switch s := stmt.(type) {
		case *ast.CallStmt:
			op, err := c.compileCallStmt(s.Call)
			if err != nil {
				return nil, err
			}
			out = append(out, op)

		case *ast.ReturnStmt:
			expr, err := compileExpr(c.src, s.Expr)
			if err != nil {
				return nil, err
			}
			out = append(out, &Return{Expr: expr})

		case *ast.IfStmt:
			cond, err := compileExpr(c.src, s.Cond)
			if err != nil {
				return nil, err
			}
			then, err := c.compileBlock(s.Then)
			if err != nil {
				return nil, err
			}
			op := &Conditional{Cond: cond, Then: then}
			if s.Else != nil {
				els, err := c.compileBlock(s.Else)
				if err != nil {
					return nil, err
				}
				op.Else = els
			}
			out = append(out, op)
		}
	}
	return out, nil
}

// compileCallStmt tests a call statement against the builtin table first;
// anything else becomes a generic user-function call whose arguments are
// compiled as ordinary expressions.
func (c *blockCompiler) compileCallStmt(call *ast.CallExpr) (Op, error) {
	if spec, ok := builtins[call.FuncName(c.src)]; ok {
		if len(call.Args) != spec.args {
			return nil, errorAt(call, "expected %d arguments, but got %d", spec.args, len(call.Args))
		}
		return spec.emit(c, call)
	}

	args, err := compileArgs(c.src, call.Args)
	if err != nil {
		return nil, err
	}
	return &CallUser{Call: &Call{Name: call.FuncName(c.src), Args: args}}, nil
}

func (c *blockCompiler) emitBindProgram(call *ast.CallExpr) (Op, error) {
	decl, err := programDeclFromAST(c.src, call.Args[0])
	if err != nil {
		return nil, err
	}
	// The collector saw this exact declaration already, so the lookup
	// cannot fail on a header built from the same tree.
	idx, ok := c.header.programIndex(decl)
	if !ok {
		return nil, errorAt(call, "program declaration missing from header")
	}
	return &BindProgram{Index: idx}, nil
}

func (c *blockCompiler) emitBindTarget(call *ast.CallExpr) (Op, error) {
	name, err := expectString(c.src, call.Args[0])
	if err != nil {
		return nil, err
	}
	if name == ScreenTargetName {
		return &BindScreenTarget{}, nil
	}
	idx, ok := c.header.targetIndex(name)
	if !ok {
		return nil, errorAt(call.Args[0], "trying to bind unknown render target %q", name)
	}
	return &BindRenderTarget{Index: idx}, nil
}

func (c *blockCompiler) emitSetBlending(call *ast.CallExpr) (Op, error) {
	target, err := expectString(c.src, call.Args[1])
	if err != nil {
		return nil, err
	}

	var bufferIdx uint32
	if target != ScreenTargetName {
		_, bufferIdx, err = c.resolveTargetBuffer(call.Args[1], target)
		if err != nil {
			return nil, err
		}
	}

	modeName, err := expectString(c.src, call.Args[0])
	if err != nil {
		return nil, err
	}
	mode, ok := render.BlendModeFromString(modeName)
	if !ok {
		return nil, errorAt(call.Args[0], "not a valid blend mode: %s", modeName)
	}
	return &SetBlending{Buffer: bufferIdx, Mode: mode}, nil
}

func (c *blockCompiler) emitSetWriteMask(call *ast.CallExpr) (Op, error) {
	color, err := compileExpr(c.src, call.Args[0])
	if err != nil {
		return nil, err
	}
	depth, err := compileExpr(c.src, call.Args[1])
	if err != nil {
		return nil, err
	}
	return &SetWriteMask{Color: color, Depth: depth}, nil
}

func (c *blockCompiler) emitSetZTest(call *ast.CallExpr) (Op, error) {
	name, err := expectString(c.src, call.Args[0])
	if err != nil {
		return nil, err
	}
	mode, ok := render.ZTestModeFromString(name)
	if !ok {
		return nil, errorAt(call.Args[0], "not a valid z-test mode: %s", name)
	}
	return &SetZTest{Mode: mode}, nil
}

func (c *blockCompiler) emitSetCulling(call *ast.CallExpr) (Op, error) {
	name, err := expectString(c.src, call.Args[0])
	if err != nil {
		return nil, err
	}
	mode, ok := render.CullingModeFromString(name)
	if !ok {
		return nil, errorAt(call.Args[0], "not a valid culling mode: %s", name)
	}
	return &SetCulling{Mode: mode}, nil
}

func (c *blockCompiler) emitUniformFloat(call *ast.CallExpr) (Op, error) {
	name, err := expectString(c.src, call.Args[0])
	if err != nil {
		return nil, err
	}
	value, err := compileExpr(c.src, call.Args[1])
	if err != nil {
		return nil, err
	}
	return &UniformFloat{Name: name, Value: value}, nil
}

func (c *blockCompiler) emitUniformColor(call *ast.CallExpr) (Op, error) {
	name, err := expectString(c.src, call.Args[0])
	if err != nil {
		return nil, err
	}
	value, err := compileExpr(c.src, call.Args[1])
	if err != nil {
		return nil, err
	}
	return &UniformColor{Name: name, Value: value}, nil
}

func (c *blockCompiler) emitUniformTextureSrgb(call *ast.CallExpr) (Op, error) {
	return c.emitUniformTexture(call, true)
}

func (c *blockCompiler) emitUniformTextureLinear(call *ast.CallExpr) (Op, error) {
	return c.emitUniformTexture(call, false)
}

func (c *blockCompiler) emitUniformTexture(call *ast.CallExpr, srgb bool) (Op, error) {
	name, err := expectString(c.src, call.Args[0])
	if err != nil {
		return nil, err
	}
	path, err := expectString(c.src, call.Args[1])
	if err != nil {
		return nil, err
	}
	idx, ok := c.header.textureIndex(TextureDecl{Path: path, SRGB: srgb})
	if !ok {
		return nil, errorAt(call, "texture declaration missing from header")
	}
	return &UniformTexture{Name: name, Index: idx}, nil
}

func (c *blockCompiler) emitUniformIbl(call *ast.CallExpr) (Op, error) {
	folder, err := expectString(c.src, call.Args[0])
	if err != nil {
		return nil, err
	}
	idx, ok := c.header.iblIndex(IblDecl{Folder: folder})
	if !ok {
		return nil, errorAt(call, "ibl declaration missing from header")
	}
	return &UniformIbl{Index: idx}, nil
}

func (c *blockCompiler) emitUniformTargetTexture(call *ast.CallExpr) (Op, error) {
	name, err := expectString(c.src, call.Args[0])
	if err != nil {
		return nil, err
	}
	target, err := expectString(c.src, call.Args[1])
	if err != nil {
		return nil, err
	}
	targetIdx, bufferIdx, err := c.resolveTargetBuffer(call.Args[1], target)
	if err != nil {
		return nil, err
	}
	return &UniformRenderTargetTexture{Name: name, Target: targetIdx, Buffer: bufferIdx}, nil
}

func (c *blockCompiler) emitDrawQuad(call *ast.CallExpr) (Op, error) {
	return &DrawFullscreenQuad{}, nil
}

func (c *blockCompiler) emitDrawModel(call *ast.CallExpr) (Op, error) {
	path, err := expectString(c.src, call.Args[0])
	if err != nil {
		return nil, err
	}
	idx, ok := c.header.modelIndex(path)
	if !ok {
		return nil, errorAt(call, "model declaration missing from header")
	}
	return &DrawModel{Index: idx}, nil
}

func (c *blockCompiler) emitClear(call *ast.CallExpr) (Op, error) {
	color, err := compileExpr(c.src, call.Args[0])
	if err != nil {
		return nil, err
	}
	return &Clear{Color: color}, nil
}

func (c *blockCompiler) emitViewport(call *ast.CallExpr) (Op, error) {
	exprs := make([]Expr, 4)
	for i := range exprs {
		e, err := compileExpr(c.src, call.Args[i])
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}
	return &Viewport{X: exprs[0], Y: exprs[1], W: exprs[2], H: exprs[3]}, nil
}

// resolveTargetBuffer resolves a composite "target.buffer" name to a
// render-target handle and a color buffer index.
func (c *blockCompiler) resolveTargetBuffer(node ast.Node, composite string) (uint32, uint32, error) {
	parts := strings.Split(composite, ".")
	if len(parts) != 2 {
		return 0, 0, errorAt(node, "the name %q is not valid: use target.buffer", composite)
	}
	targetIdx, ok := c.header.targetIndex(parts[0])
	if !ok {
		return 0, 0, errorAt(node, "unknown render target %q", composite)
	}
	bufferIdx, ok := c.header.Targets[targetIdx].bufferIndex(parts[1])
	if !ok {
		return 0, 0, errorAt(node, "unknown buffer %q", composite)
	}
	return targetIdx, bufferIdx, nil
}
