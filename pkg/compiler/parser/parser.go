// Package parser provides syntax analysis for glint scripts. It produces
// the AST consumed by the declaration collector and the bytecode compiler.
package parser

import (
	"fmt"
	"strconv"

	"github.com/glintlab/glint/pkg/colorspace"
	"github.com/glintlab/glint/pkg/compiler/ast"
	"github.com/glintlab/glint/pkg/compiler/lexer"
	"github.com/glintlab/glint/pkg/compiler/source"
	"github.com/glintlab/glint/pkg/render"
)

// Error is a parse error addressing a span of the source text.
type Error struct {
	S       source.Slice
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Slice returns the offending source span.
func (e *Error) Slice() source.Slice { return e.S }

// Parser parses a token stream into an ast.Program.
type Parser struct {
	src string
	lx  *lexer.Lexer

	curToken  lexer.Token
	peekToken lexer.Token
}

// New creates a parser over the given source text.
func New(src string) *Parser {
	p := &Parser{src: src, lx: lexer.New(src)}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a whole program: any number of render-target declarations
// and function definitions, in any order.
func Parse(src string) (*ast.Program, error) {
	return New(src).ParseProgram()
}

// ParseProgram parses until EOF, stopping at the first error.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.curToken.Type != lexer.EOF {
		switch p.curToken.Type {
		case lexer.RENDERTARGET:
			decl, err := p.parseRenderTarget()
			if err != nil {
				return nil, err
			}
			prog.RenderTargets = append(prog.RenderTargets, *decl)
		case lexer.FN:
			fn, err := p.parseFunction()
			if err != nil {
				return nil, err
			}
			prog.Functions = append(prog.Functions, *fn)
		default:
			return nil, p.errorf(p.curToken.S, "expected `rendertarget` or `fn`, got %q", p.curText())
		}
	}
	return prog, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lx.NextToken()
}

func (p *Parser) curText() string {
	return p.curToken.Text(p.src)
}

func (p *Parser) errorf(s source.Slice, format string, args ...any) error {
	return &Error{S: s, Message: fmt.Sprintf(format, args...)}
}

// expect consumes the current token if it has the wanted type, otherwise
// reports an error at the current position.
func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if p.curToken.Type != t {
		return lexer.Token{}, p.errorf(p.curToken.S, "expected %q, got %q", string(t), p.curText())
	}
	tok := p.curToken
	p.nextToken()
	return tok, nil
}

// parseRenderTarget parses
//
//	rendertarget name(width_expr, height_expr, buf=format, ..., depth)
func (p *Parser) parseRenderTarget() (*ast.RenderTargetDecl, error) {
	begin := p.curToken.S
	p.nextToken() // rendertarget

	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	width, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COMMA); err != nil {
		return nil, err
	}
	height, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	decl := &ast.RenderTargetDecl{
		Name:   name.S,
		Width:  width,
		Height: height,
	}
	for p.curToken.Type == lexer.COMMA {
		p.nextToken()
		field, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if field.Text(p.src) == "depth" {
			decl.HasDepth = true
			continue
		}
		if _, err := p.expect(lexer.ASSIGN); err != nil {
			return nil, err
		}
		formatTok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		format, ok := render.TargetFormatFromString(formatTok.Text(p.src))
		if !ok {
			return nil, p.errorf(formatTok.S, "unknown pixel format %q", formatTok.Text(p.src))
		}
		decl.Buffers = append(decl.Buffers, ast.BufferDecl{Name: field.S, Format: format})
	}
	end, err := p.expect(lexer.RPAREN)
	if err != nil {
		return nil, err
	}
	decl.S = begin.Join(end.S)
	return decl, nil
}

// parseFunction parses
//
//	fn name(param: type, ...) -> type { ... }
func (p *Parser) parseFunction() (*ast.Function, error) {
	p.nextToken() // fn

	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	fn := &ast.Function{Name: name.S, ReturnType: ast.TypeVoid}
	for p.curToken.Type != lexer.RPAREN {
		if len(fn.Params) > 0 {
			if _, err := p.expect(lexer.COMMA); err != nil {
				return nil, err
			}
		}
		paramName, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		paramType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, ast.Param{Name: paramName.S, Type: paramType})
	}
	p.nextToken() // )

	if p.curToken.Type == lexer.ARROW {
		p.nextToken()
		retType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fn.ReturnType = retType
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

func (p *Parser) parseType() (ast.Type, error) {
	tok, err := p.expect(lexer.IDENT)
	if err != nil {
		return ast.TypeVoid, err
	}
	switch tok.Text(p.src) {
	case "float":
		return ast.TypeFloat32, nil
	case "color":
		return ast.TypeLinColor, nil
	case "string":
		return ast.TypeStr, nil
	}
	return ast.TypeVoid, p.errorf(tok.S, "unknown type %q", tok.Text(p.src))
}

func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for p.curToken.Type != lexer.RBRACE {
		if p.curToken.Type == lexer.EOF {
			return nil, p.errorf(p.curToken.S, "unexpected end of file, expected `}`")
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	p.nextToken() // }
	return stmts, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.curToken.Type {
	case lexer.RETURN:
		begin := p.curToken.S
		p.nextToken()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{S: begin.Join(expr.Slice()), Expr: expr}, nil

	case lexer.IF:
		return p.parseIf()

	default:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call, ok := expr.(*ast.CallExpr)
		if !ok {
			return nil, p.errorf(expr.Slice(), "only function calls may be used as statements")
		}
		return &ast.CallStmt{Call: call}, nil
	}
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	begin := p.curToken.S
	p.nextToken() // if

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{S: begin, Cond: cond, Then: then}
	if p.curToken.Type == lexer.ELSE {
		p.nextToken()
		els, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Else = els
	}
	return stmt, nil
}

// Expression grammar, lowest precedence first:
//
//	comparison: < <= > >= == !=
//	additive:   + -
//	product:    * /
//	unary:      -
//	postfix:    .property
//	primary:    literal, dict, call, variable, (expr)

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseComparison()
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch p.curToken.Type {
		case lexer.LT:
			op = ast.OpLt
		case lexer.LTE:
			op = ast.OpLe
		case lexer.GT:
			op = ast.OpGt
		case lexer.GTE:
			op = ast.OpGe
		case lexer.EQ:
			op = ast.OpEq
		case lexer.NEQ:
			op = ast.OpNe
		default:
			return left, nil
		}
		p.nextToken()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{S: left.Slice().Join(right.Slice()), Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.curToken.Type == lexer.PLUS || p.curToken.Type == lexer.MINUS {
		op := ast.OpAdd
		if p.curToken.Type == lexer.MINUS {
			op = ast.OpSub
		}
		p.nextToken()
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{S: left.Slice().Join(right.Slice()), Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseProduct() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.curToken.Type == lexer.ASTERISK || p.curToken.Type == lexer.SLASH {
		op := ast.OpMul
		if p.curToken.Type == lexer.SLASH {
			op = ast.OpDiv
		}
		p.nextToken()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{S: left.Slice().Join(right.Slice()), Op: op, Left: left, Right: right}
	}
	return left, nil
}

// parseUnary handles a leading minus. Negation of a float literal folds
// into the literal; anything else becomes 0 - expr.
func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.curToken.Type != lexer.MINUS {
		return p.parsePostfix()
	}
	minus := p.curToken.S
	p.nextToken()
	expr, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if lit, ok := expr.(*ast.FloatLit); ok {
		return &ast.FloatLit{S: minus.Join(lit.S), Value: -lit.Value}, nil
	}
	zero := &ast.FloatLit{S: minus, Value: 0}
	return &ast.BinaryExpr{S: minus.Join(expr.Slice()), Op: ast.OpSub, Left: zero, Right: expr}, nil
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.curToken.Type != lexer.DOT {
		return expr, nil
	}
	prop := &ast.PropertyExpr{S: expr.Slice(), Base: expr}
	for p.curToken.Type == lexer.DOT {
		p.nextToken()
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		prop.Path = append(prop.Path, name.S)
		prop.S = prop.S.Join(name.S)
	}
	return prop, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch p.curToken.Type {
	case lexer.NUMBER:
		tok := p.curToken
		p.nextToken()
		v, err := strconv.ParseFloat(tok.Text(p.src), 32)
		if err != nil {
			return nil, p.errorf(tok.S, "invalid number %q", tok.Text(p.src))
		}
		return &ast.FloatLit{S: tok.S, Value: float32(v)}, nil

	case lexer.STRING:
		tok := p.curToken
		p.nextToken()
		return &ast.StringLit{S: tok.S}, nil

	case lexer.COLOR:
		return p.parseColorLit()

	case lexer.LBRACE:
		return p.parseDict()

	case lexer.LPAREN:
		p.nextToken()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	case lexer.IDENT:
		tok := p.curToken
		p.nextToken()
		if p.curToken.Type == lexer.LPAREN {
			return p.parseCallArgs(tok)
		}
		return &ast.VarExpr{Name: tok.S}, nil
	}
	return nil, p.errorf(p.curToken.S, "unexpected token %q", p.curText())
}

// parseColorLit parses #rrggbb or #rrggbbaa. The literal is written in
// sRGB and stored linear.
func (p *Parser) parseColorLit() (ast.Expr, error) {
	tok := p.curToken
	p.nextToken()
	hex := tok.Text(p.src)[1:] // strip '#'
	switch len(hex) {
	case 6:
		hex += "ff"
	case 8:
	default:
		return nil, p.errorf(tok.S, "color literal must be #rrggbb or #rrggbbaa")
	}
	rgba, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, p.errorf(tok.S, "invalid color literal %q", tok.Text(p.src))
	}
	linear := colorspace.SrgbFromRGBA(uint32(rgba)).Linear()
	return &ast.ColorLit{S: tok.S, Value: linear}, nil
}

func (p *Parser) parseDict() (ast.Expr, error) {
	begin := p.curToken.S
	p.nextToken() // {

	dict := &ast.DictExpr{}
	for p.curToken.Type != lexer.RBRACE {
		if len(dict.Entries) > 0 {
			if _, err := p.expect(lexer.COMMA); err != nil {
				return nil, err
			}
		}
		key, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		dict.Entries = append(dict.Entries, ast.DictEntry{Key: key.S, Value: value})
	}
	end := p.curToken.S
	p.nextToken() // }
	dict.S = begin.Join(end)
	return dict, nil
}

func (p *Parser) parseCallArgs(name lexer.Token) (ast.Expr, error) {
	p.nextToken() // (

	call := &ast.CallExpr{Func: name.S}
	for p.curToken.Type != lexer.RPAREN {
		if len(call.Args) > 0 {
			if _, err := p.expect(lexer.COMMA); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	end := p.curToken.S
	p.nextToken() // )
	call.S = name.S.Join(end)
	return call, nil
}
