package parser

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/glintlab/glint/pkg/compiler/ast"
	"github.com/glintlab/glint/pkg/render"
)

func TestParse_RenderTarget(t *testing.T) {
	src := `rendertarget scene(width, height, color=rgba16f, normal=rgba8, depth)`

	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.RenderTargets) != 1 {
		t.Fatalf("expected 1 render target, got %d", len(prog.RenderTargets))
	}

	decl := prog.RenderTargets[0]
	if got := decl.Name.Text(src); got != "scene" {
		t.Errorf("name = %q, want %q", got, "scene")
	}
	if !decl.HasDepth {
		t.Error("expected HasDepth")
	}
	if len(decl.Buffers) != 2 {
		t.Fatalf("expected 2 buffers, got %d", len(decl.Buffers))
	}
	if got := decl.Buffers[0].Name.Text(src); got != "color" {
		t.Errorf("buffer 0 name = %q, want %q", got, "color")
	}
	if decl.Buffers[0].Format != render.FormatRgba16F {
		t.Errorf("buffer 0 format = %v, want rgba16f", decl.Buffers[0].Format)
	}
	if decl.Buffers[1].Format != render.FormatRgba8 {
		t.Errorf("buffer 1 format = %v, want rgba8", decl.Buffers[1].Format)
	}
}

func TestParse_FunctionSignature(t *testing.T) {
	src := `fn glow(strength: float, tint: color, name: string) -> float { return strength }`

	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Functions))
	}

	fn := prog.Functions[0]
	if got := fn.Name.Text(src); got != "glow" {
		t.Errorf("name = %q, want %q", got, "glow")
	}
	if fn.ReturnType != ast.TypeFloat32 {
		t.Errorf("return type = %v, want float", fn.ReturnType)
	}
	wantTypes := []ast.Type{ast.TypeFloat32, ast.TypeLinColor, ast.TypeStr}
	if len(fn.Params) != len(wantTypes) {
		t.Fatalf("expected %d params, got %d", len(wantTypes), len(fn.Params))
	}
	for i, want := range wantTypes {
		if fn.Params[i].Type != want {
			t.Errorf("param %d type = %v, want %v", i, fn.Params[i].Type, want)
		}
	}
}

func TestParse_VoidReturnTypeByDefault(t *testing.T) {
	src := `fn main() { draw_fullscreenquad() }`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prog.Functions[0].ReturnType != ast.TypeVoid {
		t.Errorf("return type = %v, want void", prog.Functions[0].ReturnType)
	}
}

func TestParse_OperatorPrecedence(t *testing.T) {
	src := `fn main() { f(1 + 2 * 3 < 10) }`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := prog.Functions[0].Body[0].(*ast.CallStmt).Call
	cmp, ok := call.Args[0].(*ast.BinaryExpr)
	if !ok || cmp.Op != ast.OpLt {
		t.Fatalf("top operator = %v, want <", call.Args[0])
	}
	add, ok := cmp.Left.(*ast.BinaryExpr)
	if !ok || add.Op != ast.OpAdd {
		t.Fatalf("left of < = %T, want +", cmp.Left)
	}
	mul, ok := add.Right.(*ast.BinaryExpr)
	if !ok || mul.Op != ast.OpMul {
		t.Fatalf("right of + = %T, want *", add.Right)
	}
}

func TestParse_UnaryMinusFoldsIntoLiteral(t *testing.T) {
	src := `fn main() { f(-1.5, -x) }`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := prog.Functions[0].Body[0].(*ast.CallStmt).Call
	lit, ok := call.Args[0].(*ast.FloatLit)
	if !ok {
		t.Fatalf("arg 0 = %T, want folded float literal", call.Args[0])
	}
	if lit.Value != -1.5 {
		t.Errorf("value = %v, want -1.5", lit.Value)
	}

	sub, ok := call.Args[1].(*ast.BinaryExpr)
	if !ok || sub.Op != ast.OpSub {
		t.Fatalf("arg 1 = %T, want 0 - x", call.Args[1])
	}
}

func TestParse_PropertyChain(t *testing.T) {
	src := `fn main() { f(sync.verse.intensity) }`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := prog.Functions[0].Body[0].(*ast.CallStmt).Call
	propExpr, ok := call.Args[0].(*ast.PropertyExpr)
	if !ok {
		t.Fatalf("arg = %T, want property expression", call.Args[0])
	}
	base, ok := propExpr.Base.(*ast.VarExpr)
	if !ok || base.Name.Text(src) != "sync" {
		t.Fatalf("base = %v, want sync variable", propExpr.Base)
	}
	if len(propExpr.Path) != 2 {
		t.Fatalf("path length = %d, want 2", len(propExpr.Path))
	}
	if propExpr.Path[0].Text(src) != "verse" || propExpr.Path[1].Text(src) != "intensity" {
		t.Errorf("path = %q.%q", propExpr.Path[0].Text(src), propExpr.Path[1].Text(src))
	}
}

func TestParse_ColorLiteralIsLinear(t *testing.T) {
	// sRGB 0x80 is roughly 0.2158 linear.
	src := `fn main() { clear(#808080) }`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := prog.Functions[0].Body[0].(*ast.CallStmt).Call
	lit, ok := call.Args[0].(*ast.ColorLit)
	if !ok {
		t.Fatalf("arg = %T, want color literal", call.Args[0])
	}
	if math.Abs(float64(lit.Value.R)-0.2158) > 0.001 {
		t.Errorf("R = %v, want ~0.2158 (linearized)", lit.Value.R)
	}
	if lit.Value.A != 1.0 {
		t.Errorf("A = %v, want 1.0 for #rrggbb form", lit.Value.A)
	}
}

func TestParse_IfElse(t *testing.T) {
	src := `fn main() {
	if t > 0.5 {
		a()
	} else {
		b()
	}
}`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stmt, ok := prog.Functions[0].Body[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("statement = %T, want if", prog.Functions[0].Body[0])
	}
	if len(stmt.Then) != 1 || len(stmt.Else) != 1 {
		t.Errorf("then/else lengths = %d/%d, want 1/1", len(stmt.Then), len(stmt.Else))
	}
}

func TestParse_Dict(t *testing.T) {
	src := `fn main() { program({vert: "a.vert", frag: "a.frag"}) }`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := prog.Functions[0].Body[0].(*ast.CallStmt).Call
	dict, ok := call.Args[0].(*ast.DictExpr)
	if !ok {
		t.Fatalf("arg = %T, want dict", call.Args[0])
	}
	if len(dict.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(dict.Entries))
	}
	if dict.Entries[0].Key.Text(src) != "vert" {
		t.Errorf("key 0 = %q, want vert", dict.Entries[0].Key.Text(src))
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"top level junk", `banana`, "expected `rendertarget` or `fn`"},
		{"expression statement", `fn main() { 1 + 2 }`, "only function calls may be used as statements"},
		{"unknown type", `fn f(x: banana) {}`, "unknown type"},
		{"unknown format", `rendertarget rt(1, 1, c=banana)`, "unknown pixel format"},
		{"bad color literal", `fn main() { clear(#ff) }`, "color literal must be"},
		{"unterminated block", `fn main() { f(`, "unexpected token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantMsg)
			}
			var pe *Error
			if !errors.As(err, &pe) {
				t.Fatalf("error type = %T, want *parser.Error", err)
			}
			if pe.Slice().End > len(tt.src) {
				t.Errorf("error slice [%d,%d) exceeds source length %d",
					pe.Slice().Begin, pe.Slice().End, len(tt.src))
			}
		})
	}
}
