// Package ast defines the syntax tree for glint scripts: render-target
// declarations plus named functions over a small expression grammar.
// Every node carries a source.Slice so errors can point back into the
// original text.
package ast

import (
	"github.com/glintlab/glint/pkg/colorspace"
	"github.com/glintlab/glint/pkg/compiler/source"
	"github.com/glintlab/glint/pkg/render"
)

// Node is implemented by every AST node.
type Node interface {
	Slice() source.Slice
}

// Type is the declared type of a function parameter or return value.
type Type int

const (
	TypeVoid Type = iota
	TypeFloat32
	TypeLinColor
	TypeStr
)

func (t Type) String() string {
	switch t {
	case TypeVoid:
		return "void"
	case TypeFloat32:
		return "float"
	case TypeLinColor:
		return "color"
	case TypeStr:
		return "string"
	}
	return "unknown"
}

// BinaryOp identifies a binary operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv

	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	}
	return "?"
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// VarExpr is a plain variable reference. The name is recovered from the
// source text through the slice.
type VarExpr struct {
	Name source.Slice
}

func (e *VarExpr) Slice() source.Slice { return e.Name }
func (e *VarExpr) exprNode()           {}

// FloatLit is a numeric literal.
type FloatLit struct {
	S     source.Slice
	Value float32
}

func (e *FloatLit) Slice() source.Slice { return e.S }
func (e *FloatLit) exprNode()           {}

// ColorLit is a color literal, already converted to linear space.
type ColorLit struct {
	S     source.Slice
	Value colorspace.LinearRGBA
}

func (e *ColorLit) Slice() source.Slice { return e.S }
func (e *ColorLit) exprNode()           {}

// StringLit is a string literal. The slice covers the text between the
// quotes.
type StringLit struct {
	S source.Slice
}

func (e *StringLit) Slice() source.Slice { return e.S }
func (e *StringLit) exprNode()           {}

// Text returns the literal's value.
func (e *StringLit) Text(src string) string {
	return e.S.Text(src)
}

// PropertyExpr is a dotted access chain, e.g. sync.verse.intensity.
// Semantically valid only when Base resolves to a variable reference.
type PropertyExpr struct {
	S    source.Slice
	Base Expr
	Path []source.Slice
}

func (e *PropertyExpr) Slice() source.Slice { return e.S }
func (e *PropertyExpr) exprNode()           {}

// DictEntry is one key/value pair of a dictionary expression.
type DictEntry struct {
	Key   source.Slice
	Value Expr
}

// Slice covers the key through the end of the value.
func (e *DictEntry) Slice() source.Slice {
	return e.Key.Join(e.Value.Slice())
}

// DictExpr is a dictionary literal. Dictionaries are a compile-time-only
// construct consumed by the program(...) declaration form; they are never
// evaluated as runtime values.
type DictExpr struct {
	S       source.Slice
	Entries []DictEntry
}

func (e *DictExpr) Slice() source.Slice { return e.S }
func (e *DictExpr) exprNode()           {}

// CallExpr is a function call, builtin or user-defined.
type CallExpr struct {
	S    source.Slice
	Func source.Slice
	Args []Expr
}

func (e *CallExpr) Slice() source.Slice { return e.S }
func (e *CallExpr) exprNode()           {}

// FuncName returns the called function's name.
func (e *CallExpr) FuncName(src string) string {
	return e.Func.Text(src)
}

// BinaryExpr applies a binary operator to two sub-expressions.
type BinaryExpr struct {
	S     source.Slice
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) Slice() source.Slice { return e.S }
func (e *BinaryExpr) exprNode()           {}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// CallStmt is a function call in statement position.
type CallStmt struct {
	Call *CallExpr
}

func (s *CallStmt) Slice() source.Slice { return s.Call.Slice() }
func (s *CallStmt) stmtNode()           {}

// ReturnStmt returns a value from the enclosing function.
type ReturnStmt struct {
	S    source.Slice
	Expr Expr
}

func (s *ReturnStmt) Slice() source.Slice { return s.S }
func (s *ReturnStmt) stmtNode()           {}

// IfStmt executes Then when the condition evaluates to a positive float,
// otherwise Else. Else is nil when no else branch was written.
type IfStmt struct {
	S    source.Slice
	Cond Expr
	Then []Stmt
	Else []Stmt
}

func (s *IfStmt) Slice() source.Slice { return s.S }
func (s *IfStmt) stmtNode()           {}

// BufferDecl is one (name, format) pair of a render-target declaration.
type BufferDecl struct {
	Name   source.Slice
	Format render.TargetFormat
}

// RenderTargetDecl declares an offscreen render target. Width and height
// are expressions evaluated per frame, not compile-time constants.
type RenderTargetDecl struct {
	S        source.Slice
	Name     source.Slice
	Width    Expr
	Height   Expr
	Buffers  []BufferDecl
	HasDepth bool
}

func (d *RenderTargetDecl) Slice() source.Slice { return d.S }

// Param is a typed function parameter. Parameter types are never void.
type Param struct {
	Name source.Slice
	Type Type
}

// Function is a named user function.
type Function struct {
	Name       source.Slice
	Params     []Param
	Body       []Stmt
	ReturnType Type
}

// Program is the root of the syntax tree.
type Program struct {
	RenderTargets []RenderTargetDecl
	Functions     []Function
}
