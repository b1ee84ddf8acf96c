package bytecode

import (
	"github.com/glintlab/glint/pkg/colorspace"
	"github.com/glintlab/glint/pkg/compiler/ast"
)

// Expr is a compiled expression. Unlike AST expressions, compiled
// expressions carry resolved constant values and plain-string names; they
// no longer reference the source text.
type Expr interface {
	exprNode()
}

// VarRef references a variable, optionally through a property path.
// A non-empty path is only meaningful for the `sync` pseudo-variable.
type VarRef struct {
	Name string
	Path []string
}

// ConstFloat is a float constant.
type ConstFloat struct {
	Value float32
}

// ConstColor is a linear color constant.
type ConstColor struct {
	Value colorspace.LinearRGBA
}

// ConstString is a string constant.
type ConstString struct {
	Value string
}

// ConstDict is a compile-time dictionary constant. It exists only as the
// argument form of the program(...) declaration; evaluating one at runtime
// is an error.
type ConstDict struct {
	Entries map[string]Expr
}

// Call calls a user function.
type Call struct {
	Name string
	Args []Expr
}

// Binary applies a binary operator to two sub-expressions.
type Binary struct {
	Op    ast.BinaryOp
	Left  Expr
	Right Expr
}

func (*VarRef) exprNode()      {}
func (*ConstFloat) exprNode()  {}
func (*ConstColor) exprNode()  {}
func (*ConstString) exprNode() {}
func (*ConstDict) exprNode()   {}
func (*Call) exprNode()        {}
func (*Binary) exprNode()      {}

// compileExpr lowers an AST expression to a compiled expression. Literals
// become constants, property chains fold into a VarRef when their base is
// a variable reference, dictionaries become compile-time constants.
func compileExpr(src string, expr ast.Expr) (Expr, error) {
	switch e := expr.(type) {
	case *ast.FloatLit:
		return &ConstFloat{Value: e.Value}, nil

	case *ast.ColorLit:
		return &ConstColor{Value: e.Value}, nil

	case *ast.StringLit:
		return &ConstString{Value: e.Text(src)}, nil

	case *ast.VarExpr:
		return &VarRef{Name: e.Name.Text(src)}, nil

	case *ast.PropertyExpr:
		base, err := compileExpr(src, e.Base)
		if err != nil {
			return nil, err
		}
		ref, ok := base.(*VarRef)
		if !ok {
			return nil, errorAt(e, "the `.` operator can only be used with variable names")
		}
		path := append([]string{}, ref.Path...)
		for _, p := range e.Path {
			path = append(path, p.Text(src))
		}
		return &VarRef{Name: ref.Name, Path: path}, nil

	case *ast.DictExpr:
		entries := make(map[string]Expr, len(e.Entries))
		for i := range e.Entries {
			value, err := compileExpr(src, e.Entries[i].Value)
			if err != nil {
				return nil, err
			}
			entries[e.Entries[i].Key.Text(src)] = value
		}
		return &ConstDict{Entries: entries}, nil

	case *ast.CallExpr:
		args, err := compileArgs(src, e.Args)
		if err != nil {
			return nil, err
		}
		return &Call{Name: e.FuncName(src), Args: args}, nil

	case *ast.BinaryExpr:
		left, err := compileExpr(src, e.Left)
		if err != nil {
			return nil, err
		}
		right, err := compileExpr(src, e.Right)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: e.Op, Left: left, Right: right}, nil
	}
	return nil, errorAt(expr, "unsupported expression")
}

func compileArgs(src string, args []ast.Expr) ([]Expr, error) {
	out := make([]Expr, len(args))
	for i, arg := range args {
		compiled, err := compileExpr(src, arg)
		if err != nil {
			return nil, err
		}
		out[i] = compiled
	}
	return out, nil
}

// expectString extracts a string literal argument, the form required by
// every builtin that names a resource.
func expectString(src string, expr ast.Expr) (string, error) {
	lit, ok := expr.(*ast.StringLit)
	if !ok {
		return "", errorAt(expr, "expected string literal")
	}
	return lit.Text(src), nil
}
