// Package lexer tokenizes glint script source text. Tokens carry byte
// ranges rather than copied literals so downstream stages can recover
// snippets from the original source lazily.
package lexer

import (
	"github.com/glintlab/glint/pkg/compiler/source"
)

// Lexer tokenizes glint source code.
type Lexer struct {
	input        string
	position     int  // current position in input
	readPosition int  // current reading position (after current char)
	ch           byte // current char
}

// New creates a new Lexer over input.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// NextToken returns the next token. Comments and whitespace are skipped.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	begin := l.position

	switch l.ch {
	case 0:
		return Token{Type: EOF, S: source.NewSlice(begin, begin)}
	case '+':
		return l.single(PLUS)
	case '*':
		return l.single(ASTERISK)
	case '/':
		return l.single(SLASH)
	case ',':
		return l.single(COMMA)
	case ':':
		return l.single(COLON)
	case '.':
		return l.single(DOT)
	case '(':
		return l.single(LPAREN)
	case ')':
		return l.single(RPAREN)
	case '{':
		return l.single(LBRACE)
	case '}':
		return l.single(RBRACE)
	case '-':
		if l.peekChar() == '>' {
			return l.double(ARROW)
		}
		return l.single(MINUS)
	case '=':
		if l.peekChar() == '=' {
			return l.double(EQ)
		}
		return l.single(ASSIGN)
	case '!':
		if l.peekChar() == '=' {
			return l.double(NEQ)
		}
		return l.single(ILLEGAL)
	case '<':
		if l.peekChar() == '=' {
			return l.double(LTE)
		}
		return l.single(LT)
	case '>':
		if l.peekChar() == '=' {
			return l.double(GTE)
		}
		return l.single(GT)
	case '"':
		return l.readString()
	case '#':
		return l.readColor()
	}

	if isLetter(l.ch) {
		return l.readIdentifier()
	}
	if isDigit(l.ch) {
		return l.readNumber()
	}
	return l.single(ILLEGAL)
}

// single consumes the current char and returns a token covering
// [begin, position).
func (l *Lexer) single(t TokenType) Token {
	begin := l.position
	l.readChar()
	return Token{Type: t, S: source.NewSlice(begin, l.position)}
}

// double consumes a two-character operator and returns a token covering
// both bytes.
func (l *Lexer) double(t TokenType) Token {
	begin := l.position
	l.readChar()
	l.readChar()
	return Token{Type: t, S: source.NewSlice(begin, l.position)}
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
	} else {
		l.ch = l.input[l.readPosition]
		l.position = l.readPosition
	}
	l.readPosition = l.position + 1
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			for l.ch != 0 && !(l.ch == '*' && l.peekChar() == '/') {
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar()
				l.readChar()
			}
			continue
		}
		return
	}
}

func (l *Lexer) readIdentifier() Token {
	begin := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	s := source.NewSlice(begin, l.position)
	return Token{Type: LookupIdent(s.Text(l.input)), S: s}
}

func (l *Lexer) readNumber() Token {
	begin := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return Token{Type: NUMBER, S: source.NewSlice(begin, l.position)}
}

// readString consumes a double-quoted string. The token slice covers only
// the text between the quotes. Escape sequences are not supported; the
// script language has no need for them.
func (l *Lexer) readString() Token {
	l.readChar() // opening quote
	begin := l.position
	for l.ch != '"' && l.ch != 0 {
		l.readChar()
	}
	if l.ch == 0 {
		return Token{Type: ILLEGAL, S: source.NewSlice(begin, l.position)}
	}
	end := l.position
	l.readChar() // closing quote
	return Token{Type: STRING, S: source.NewSlice(begin, end)}
}

// readColor consumes a #rrggbbaa or #rrggbb literal including the hash.
func (l *Lexer) readColor() Token {
	begin := l.position
	l.readChar() // '#'
	for isHexDigit(l.ch) {
		l.readChar()
	}
	return Token{Type: COLOR, S: source.NewSlice(begin, l.position)}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
