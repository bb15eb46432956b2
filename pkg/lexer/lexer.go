// Package lexer implements the Monkey language tokenizer.
package lexer

import (
	"github.com/thomasrohde/monkey/pkg/ast"
)

// TokenType identifies the type of a lexer token.
type TokenType int

const (
	// Special
	TokIllegal TokenType = iota
	TokEOF

	// Keywords
	TokLet
	TokReturn
	TokIf
	TokElse
	TokTrue
	TokFalse

	// Literals
	TokInt

	// Identifiers
	TokIdent

	// Operators
	TokAssign // =
	TokPlus   // +
	TokMinus  // -
	TokStar   // *
	TokSlash  // /
	TokBang   // !
	TokLt     // <
	TokGt     // >
	TokEq     // ==
	TokNotEq  // !=

	// Delimiters
	TokComma     // ,
	TokSemicolon // ;
	TokLParen    // (
	TokRParen    // )
	TokLBrace    // {
	TokRBrace    // }
)

var tokenNames = [...]string{
	TokIllegal:   "ILLEGAL",
	TokEOF:       "EOF",
	TokLet:       "let",
	TokReturn:    "return",
	TokIf:        "if",
	TokElse:      "else",
	TokTrue:      "true",
	TokFalse:     "false",
	TokInt:       "INTEGER",
	TokIdent:     "IDENTIFIER",
	TokAssign:    "=",
	TokPlus:      "+",
	TokMinus:     "-",
	TokStar:      "*",
	TokSlash:     "/",
	TokBang:      "!",
	TokLt:        "<",
	TokGt:        ">",
	TokEq:        "==",
	TokNotEq:     "!=",
	TokComma:     ",",
	TokSemicolon: ";",
	TokLParen:    "(",
	TokRParen:    ")",
	TokLBrace:    "{",
	TokRBrace:    "}",
}

// String returns the name used for t in parser error messages.
func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "UNKNOWN"
}

// Token represents a single lexer token.
type Token struct {
	Type    TokenType
	Literal string
	Span    ast.Span
}

var keywords = map[string]TokenType{
	"let":    TokLet,
	"return": TokReturn,
	"if":     TokIf,
	"else":   TokElse,
	"true":   TokTrue,
	"false":  TokFalse,
}

// LookupIdent returns the keyword token type for ident, or TokIdent.
func LookupIdent(ident string) TokenType {
	if tokType, ok := keywords[ident]; ok {
		return tokType
	}
	return TokIdent
}

// Lexer produces tokens from source text one at a time.
type Lexer struct {
	source   string
	filename string
	pos      int
	line     int
	col      int
}

// New creates a lexer over source. filename is only used in token spans.
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		pos:      0,
		line:     1,
		col:      1,
	}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.source)
}

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) span(startLine, startCol int) ast.Span {
	return ast.Span{
		File:      l.filename,
		StartLine: startLine,
		StartCol:  startCol,
		EndLine:   l.line,
		EndCol:    l.col,
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func (l *Lexer) scanNumber() Token {
	startLine, startCol := l.line, l.col
	startPos := l.pos
	for !l.atEnd() && isDigit(l.peek()) {
		l.advance()
	}
	return Token{Type: TokInt, Literal: l.source[startPos:l.pos], Span: l.span(startLine, startCol)}
}

func (l *Lexer) scanIdentOrKeyword() Token {
	startLine, startCol := l.line, l.col
	startPos := l.pos
	for !l.atEnd() && (isLetter(l.peek()) || isDigit(l.peek())) {
		l.advance()
	}
	text := l.source[startPos:l.pos]
	return Token{Type: LookupIdent(text), Literal: text, Span: l.span(startLine, startCol)}
}

// single consumes one byte and returns it as a token of type typ.
func (l *Lexer) single(typ TokenType) Token {
	startLine, startCol := l.line, l.col
	startPos := l.pos
	l.advance()
	return Token{Type: typ, Literal: l.source[startPos:l.pos], Span: l.span(startLine, startCol)}
}

// pair consumes a two-byte operator if the byte after the current one is next,
// otherwise a one-byte token.
func (l *Lexer) pair(next byte, two, one TokenType) Token {
	startLine, startCol := l.line, l.col
	startPos := l.pos
	l.advance()
	typ := one
	if !l.atEnd() && l.peek() == next {
		l.advance()
		typ = two
	}
	return Token{Type: typ, Literal: l.source[startPos:l.pos], Span: l.span(startLine, startCol)}
}

// NextToken returns the next token. Once the input is exhausted it returns
// TokEOF on every call.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.atEnd() {
		return Token{Type: TokEOF, Literal: "", Span: l.span(l.line, l.col)}
	}

	ch := l.peek()
	switch ch {
	case '=':
		return l.pair('=', TokEq, TokAssign)
	case '!':
		return l.pair('=', TokNotEq, TokBang)
	case '+':
		return l.single(TokPlus)
	case '-':
		return l.single(TokMinus)
	case '*':
		return l.single(TokStar)
	case '/':
		return l.single(TokSlash)
	case '<':
		return l.single(TokLt)
	case '>':
		return l.single(TokGt)
	case ',':
		return l.single(TokComma)
	case ';':
		return l.single(TokSemicolon)
	case '(':
		return l.single(TokLParen)
	case ')':
		return l.single(TokRParen)
	case '{':
		return l.single(TokLBrace)
	case '}':
		return l.single(TokRBrace)
	}

	if isDigit(ch) {
		return l.scanNumber()
	}
	if isLetter(ch) {
		return l.scanIdentOrKeyword()
	}

	return l.single(TokIllegal)
}

// Tokenize breaks source code into a slice of tokens ending with TokEOF.
func Tokenize(source, filename string) []Token {
	l := New(source, filename)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokEOF {
			return tokens
		}
	}
}
