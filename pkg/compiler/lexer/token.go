package lexer

import (
	"github.com/glintlab/glint/pkg/compiler/source"
)

// TokenType identifies the lexical class of a token.
type TokenType string

// Token is a lexical token. S covers the token's bytes in the source text;
// for STRING tokens it covers only the text between the quotes.
type Token struct {
	Type TokenType
	S    source.Slice
}

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT  TokenType = "IDENT"  // main, sync, rt1
	NUMBER TokenType = "NUMBER" // 1, 0.5
	STRING TokenType = "STRING" // "shader.frag"
	COLOR  TokenType = "COLOR"  // #rrggbbaa

	// Operators and delimiters
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	ASSIGN   TokenType = "="
	LT       TokenType = "<"
	GT       TokenType = ">"
	LTE      TokenType = "<="
	GTE      TokenType = ">="
	EQ       TokenType = "=="
	NEQ      TokenType = "!="
	COMMA    TokenType = ","
	COLON    TokenType = ":"
	DOT      TokenType = "."
	ARROW    TokenType = "->"
	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"

	// Keywords
	RENDERTARGET TokenType = "RENDERTARGET"
	FN           TokenType = "FN"
	IF           TokenType = "IF"
	ELSE         TokenType = "ELSE"
	RETURN       TokenType = "RETURN"
)

var keywords = map[string]TokenType{
	"rendertarget": RENDERTARGET,
	"fn":           FN,
	"if":           IF,
	"else":         ELSE,
	"return":       RETURN,
}

// LookupIdent returns the keyword token type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Text returns the token's text in src.
func (t Token) Text(src string) string {
	return t.S.Text(src)
}
