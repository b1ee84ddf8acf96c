// Package vm interprets compiled glint bytecode. The interpreter runs the
// program's `main` function once per output frame, evaluating expressions
// by recursive tree-walk and dispatching each operation to the rendering
// backend in program order. Execution is single-threaded and synchronous;
// any runtime error aborts the whole frame.
package vm

import (
	"fmt"
	"math"
	"strings"

	"github.com/glintlab/glint/pkg/colorspace"
	"github.com/glintlab/glint/pkg/compiler/ast"
	"github.com/glintlab/glint/pkg/compiler/bytecode"
	"github.com/glintlab/glint/pkg/render"
)

// TrackSource supplies sync-track values. It is the read-only slice of the
// timeline provider contract the interpreter actually needs.
type TrackSource interface {
	// Value returns the current value of the named track, or false when
	// the source has no such track.
	Value(track string) (float32, bool)
}

// frame is the per-call evaluation context: the compiled unit, the frame's
// globals (shared, immutable) and the call's locals. Locals never inherit
// from the caller; a fresh frame holds exactly the bound parameters.
type frame struct {
	program *bytecode.Program
	backend render.Backend
	tracks  TrackSource
	globals map[string]Value
	locals  map[string]Value
}

// resolve looks up a variable reference: locals first, then globals, then
// — for the `sync` pseudo-variable — the track source.
func (f *frame) resolve(name string, path []string) (Value, error) {
	if name == "sync" {
		track := strings.Join(path, ":")
		v, ok := f.tracks.Value(track)
		if !ok {
			return Void, fmt.Errorf("could not get value for sync track %q", track)
		}
		return FloatValue(v), nil
	}
	if len(path) != 0 {
		return Void, fmt.Errorf("`.` is only supported for sync expressions")
	}
	if v, ok := f.locals[name]; ok {
		return v, nil
	}
	if v, ok := f.globals[name]; ok {
		return v, nil
	}
	return Void, fmt.Errorf("unknown variable %s", name)
}

// Execute runs the program's main function for one frame. Width and height
// are the output dimensions in pixels, timeSec the elapsed time in
// seconds; all three are exposed to the script as globals. Every declared
// render target is materialized before main runs.
func Execute(program *bytecode.Program, backend render.Backend, tracks TrackSource, width, height, timeSec float32) error {
	globals := map[string]Value{
		"width":  FloatValue(width),
		"height": FloatValue(height),
		"time":   FloatValue(timeSec),
	}
	f := &frame{
		program: program,
		backend: backend,
		tracks:  tracks,
		globals: globals,
		locals:  map[string]Value{},
	}

	for i := range program.Header.Targets {
		rt := &program.Header.Targets[i]
		w, err := evalRounded(f, rt.Width)
		if err != nil {
			return err
		}
		h, err := evalRounded(f, rt.Height)
		if err != nil {
			return err
		}
		formats := make([]render.TargetFormat, len(rt.Formats))
		for j := range rt.Formats {
			formats[j] = rt.Formats[j].Format
		}
		if err := backend.EnsureRenderTarget(uint32(i), w, h, rt.HasDepth, formats); err != nil {
			return err
		}
	}

	_, err := callFunction(f, "main", map[string]Value{})
	return err
}

// callFunction executes a named function in a fresh frame whose locals are
// exactly the bound arguments. Globals are shared across the call tree.
func callFunction(f *frame, name string, locals map[string]Value) (Value, error) {
	fn, ok := f.program.Function(name)
	if !ok {
		return Void, fmt.Errorf("function %s is not defined", name)
	}
	callee := &frame{
		program: f.program,
		backend: f.backend,
		tracks:  f.tracks,
		globals: f.globals,
		locals:  locals,
	}
	v, _, err := executeBlock(callee, fn.Body)
	return v, err
}

// evalCall evaluates a user-function call: the LinColor constructor is the
// one builtin value constructor; everything else must match a user
// function by name, argument count and exact argument types.
func evalCall(f *frame, call *bytecode.Call) (Value, error) {
	if call.Name == "LinColor" {
		return evalLinColor(f, call)
	}

	fn, ok := f.program.Function(call.Name)
	if !ok {
		return Void, fmt.Errorf("missing function %s", call.Name)
	}
	if len(fn.Params) != len(call.Args) {
		return Void, fmt.Errorf("expected %d arguments for call to %q function, got %d",
			len(fn.Params), call.Name, len(call.Args))
	}

	locals := make(map[string]Value, len(fn.Params))
	for i, param := range fn.Params {
		v, err := evalExpr(f, call.Args[i])
		if err != nil {
			return Void, err
		}
		if v.Kind != param.Type {
			return Void, fmt.Errorf("expected argument %q for call to %q to have type %s",
				param.Name, call.Name, param.Type)
		}
		locals[param.Name] = v
	}
	return callFunction(f, call.Name, locals)
}

func evalLinColor(f *frame, call *bytecode.Call) (Value, error) {
	if len(call.Args) != 4 {
		return Void, fmt.Errorf("LinColor expects 4 arguments, got %d", len(call.Args))
	}
	var c [4]float32
	for i, arg := range call.Args {
		v, err := evalFloat(f, arg)
		if err != nil {
			return Void, err
		}
		c[i] = v
	}
	return ColorValue(colorspace.NewLinear(c[0], c[1], c[2], c[3])), nil
}

// evalExpr evaluates a compiled expression by recursive tree-walk.
func evalExpr(f *frame, expr bytecode.Expr) (Value, error) {
	switch e := expr.(type) {
	case *bytecode.ConstFloat:
		return FloatValue(e.Value), nil
	case *bytecode.ConstColor:
		return ColorValue(e.Value), nil
	case *bytecode.ConstString:
		return StringValue(e.Value), nil
	case *bytecode.ConstDict:
		return Void, fmt.Errorf("dictionary values are not supported at runtime")
	case *bytecode.VarRef:
		return f.resolve(e.Name, e.Path)
	case *bytecode.Call:
		return evalCall(f, e)
	case *bytecode.Binary:
		return evalBinary(f, e)
	}
	return Void, fmt.Errorf("unsupported expression %T", expr)
}

// evalBinary applies a binary operator. Operators are defined on floats
// only; comparisons yield 1.0 or 0.0 rather than a boolean type.
func evalBinary(f *frame, e *bytecode.Binary) (Value, error) {
	l, err := evalFloat(f, e.Left)
	if err != nil {
		return Void, err
	}
	r, err := evalFloat(f, e.Right)
	if err != nil {
		return Void, err
	}

	switch e.Op {
	case ast.OpAdd:
		return FloatValue(l + r), nil
	case ast.OpSub:
		return FloatValue(l - r), nil
	case ast.OpMul:
		return FloatValue(l * r), nil
	case ast.OpDiv:
		return FloatValue(l / r), nil
	case ast.OpLt:
		return boolFloat(l < r), nil
	case ast.OpLe:
		return boolFloat(l <= r), nil
	case ast.OpGt:
		return boolFloat(l > r), nil
	case ast.OpGe:
		return boolFloat(l >= r), nil
	case ast.OpEq:
		return boolFloat(l == r), nil
	case ast.OpNe:
		return boolFloat(l != r), nil
	}
	return Void, fmt.Errorf("unsupported binary operator %s", e.Op)
}

func boolFloat(b bool) Value {
	if b {
		return FloatValue(1.0)
	}
	return FloatValue(0.0)
}

func evalFloat(f *frame, expr bytecode.Expr) (float32, error) {
	v, err := evalExpr(f, expr)
	if err != nil {
		return 0, err
	}
	return v.AsFloat()
}

func evalColor(f *frame, expr bytecode.Expr) (colorspace.LinearRGBA, error) {
	v, err := evalExpr(f, expr)
	if err != nil {
		return colorspace.LinearRGBA{}, err
	}
	return v.AsColor()
}

// evalRounded evaluates an expression as a float and rounds it to a
// non-negative integer, for viewport and render-target dimensions.
func evalRounded(f *frame, expr bytecode.Expr) (uint32, error) {
	v, err := evalFloat(f, expr)
	if err != nil {
		return 0, err
	}
	rounded := math.Round(float64(v))
	if rounded < 0 {
		rounded = 0
	}
	return uint32(rounded), nil
}

// executeBlock runs a bytecode block in order. A Return op short-circuits
// the block and bubbles its value through enclosing conditional blocks up
// to the calling function; the middle result reports whether a Return was
// hit, so that void returns bubble too.
func executeBlock(f *frame, block bytecode.Block) (Value, bool, error) {
	for _, op := range block {
		switch o := op.(type) {
		case *bytecode.BindRenderTarget:
			if err := f.backend.BindRenderTarget(o.Index); err != nil {
				return Void, false, err
			}
		case *bytecode.BindScreenTarget:
			if err := f.backend.BindScreen(); err != nil {
				return Void, false, err
			}
		case *bytecode.BindProgram:
			if err := f.backend.BindProgram(o.Index); err != nil {
				return Void, false, err
			}

		case *bytecode.Viewport:
			x, err := evalRounded(f, o.X)
			if err != nil {
				return Void, false, err
			}
			y, err := evalRounded(f, o.Y)
			if err != nil {
				return Void, false, err
			}
			w, err := evalRounded(f, o.W)
			if err != nil {
				return Void, false, err
			}
			h, err := evalRounded(f, o.H)
			if err != nil {
				return Void, false, err
			}
			f.backend.SetViewport(x, y, w, h)

		case *bytecode.Clear:
			c, err := evalColor(f, o.Color)
			if err != nil {
				return Void, false, err
			}
			f.backend.Clear(c)

		case *bytecode.SetBlending:
			f.backend.SetBlending(o.Buffer, o.Mode)

		case *bytecode.SetWriteMask:
			color, err := evalFloat(f, o.Color)
			if err != nil {
				return Void, false, err
			}
			depth, err := evalFloat(f, o.Depth)
			if err != nil {
				return Void, false, err
			}
			f.backend.SetWriteMask(color > 0, depth > 0)

		case *bytecode.SetZTest:
			f.backend.SetZTest(o.Mode)

		case *bytecode.SetCulling:
			f.backend.SetCulling(o.Mode)

		case *bytecode.UniformFloat:
			v, err := evalFloat(f, o.Value)
			if err != nil {
				return Void, false, err
			}
			if err := f.backend.SetUniformFloat(o.Name, v); err != nil {
				return Void, false, err
			}

		case *bytecode.UniformColor:
			c, err := evalColor(f, o.Value)
			if err != nil {
				return Void, false, err
			}
			if err := f.backend.SetUniformColor(o.Name, c); err != nil {
				return Void, false, err
			}

		case *bytecode.UniformTexture:
			if err := f.backend.BindTextureUniform(o.Name, o.Index); err != nil {
				return Void, false, err
			}

		case *bytecode.UniformIbl:
			if err := f.backend.BindIblUniform(o.Index); err != nil {
				return Void, false, err
			}

		case *bytecode.UniformRenderTargetTexture:
			if err := f.backend.BindRenderTargetTexture(o.Name, o.Target, o.Buffer); err != nil {
				return Void, false, err
			}

		case *bytecode.DrawFullscreenQuad:
			f.backend.DrawFullscreenQuad()

		case *bytecode.DrawModel:
			if err := f.backend.DrawModel(o.Index); err != nil {
				return Void, false, err
			}

		case *bytecode.CallUser:
			if _, err := evalCall(f, o.Call); err != nil {
				return Void, false, err
			}

		case *bytecode.Return:
			v, err := evalExpr(f, o.Expr)
			return v, true, err

		case *bytecode.Conditional:
			cond, err := evalFloat(f, o.Cond)
			if err != nil {
				return Void, false, err
			}
			if cond > 0 {
				if v, returned, err := executeBlock(f, o.Then); err != nil || returned {
					return v, returned, err
				}
			} else if o.Else != nil {
				if v, returned, err := executeBlock(f, o.Else); err != nil || returned {
					return v, returned, err
				}
			}

		default:
			return Void, false, fmt.Errorf("unsupported operation %T", op)
		}
	}
	return Void, false, nil
}
