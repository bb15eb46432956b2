// Package parser implements the Monkey language parser.
package parser

import (
	"fmt"
	"strconv"

	"github.com/thomasrohde/monkey/pkg/ast"
	"github.com/thomasrohde/monkey/pkg/diagnostics"
	"github.com/thomasrohde/monkey/pkg/lexer"
)

// Binding power of operators, lowest first.
const (
	_ int = iota
	LOWEST
	EQUALS      // == !=
	LESSGREATER // < >
	SUM         // + -
	PRODUCT     // * /
	PREFIX      // -x !x
	CALL        // (grouping)
)

var precedences = map[lexer.TokenType]int{
	lexer.TokEq:    EQUALS,
	lexer.TokNotEq: EQUALS,
	lexer.TokLt:    LESSGREATER,
	lexer.TokGt:    LESSGREATER,
	lexer.TokPlus:  SUM,
	lexer.TokMinus: SUM,
	lexer.TokStar:  PRODUCT,
	lexer.TokSlash: PRODUCT,
}

var infixOps = map[lexer.TokenType]ast.InfixOp{
	lexer.TokEq:    ast.OpEq,
	lexer.TokNotEq: ast.OpNeq,
	lexer.TokLt:    ast.OpLt,
	lexer.TokGt:    ast.OpGt,
	lexer.TokPlus:  ast.OpAdd,
	lexer.TokMinus: ast.OpSub,
	lexer.TokStar:  ast.OpMul,
	lexer.TokSlash: ast.OpDiv,
}

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(left ast.Expr) ast.Expr
)

// Parser builds a Program from a lexer's token stream. It never stops at the
// first error: failed statements are dropped and parsing resumes.
type Parser struct {
	l     *lexer.Lexer
	cur   lexer.Token
	peek  lexer.Token
	diags []diagnostics.Diagnostic

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn
}

// New creates a parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixFns = map[lexer.TokenType]prefixParseFn{
		lexer.TokIdent:  p.parseIdentifier,
		lexer.TokInt:    p.parseIntLiteral,
		lexer.TokTrue:   p.parseBoolLiteral,
		lexer.TokFalse:  p.parseBoolLiteral,
		lexer.TokBang:   p.parsePrefixExpr,
		lexer.TokMinus:  p.parsePrefixExpr,
		lexer.TokLParen: p.parseGroupedExpr,
		lexer.TokIf:     p.parseIfExpr,
	}
	p.infixFns = make(map[lexer.TokenType]infixParseFn, len(infixOps))
	for tok := range infixOps {
		p.infixFns[tok] = p.parseInfixExpr
	}

	// Fill cur and peek.
	p.nextToken()
	p.nextToken()
	return p
}

// Parse tokenizes and parses source. The program is nil when any diagnostic
// was reported.
func Parse(source, filename string) (*ast.Program, []diagnostics.Diagnostic) {
	p := New(lexer.New(source, filename))
	prog := p.ParseProgram()
	if len(p.diags) > 0 {
		return nil, p.diags
	}
	return prog, nil
}

// Errors returns the parse error messages in the order they were found.
func (p *Parser) Errors() []string {
	return diagnostics.Messages(p.diags)
}

// Diagnostics returns the parse errors with their source spans.
func (p *Parser) Diagnostics() []diagnostics.Diagnostic {
	return p.diags
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(typ lexer.TokenType) bool {
	return p.cur.Type == typ
}

func (p *Parser) peekIs(typ lexer.TokenType) bool {
	return p.peek.Type == typ
}

// expectPeek advances only if the next token has type typ.
func (p *Parser) expectPeek(typ lexer.TokenType) bool {
	if p.peekIs(typ) {
		p.nextToken()
		return true
	}
	p.peekError(typ)
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peek.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.cur.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) addError(code, msg string, span ast.Span, hint string) {
	p.diags = append(p.diags, diagnostics.MakeDiag(code, msg, &span, hint))
}

func (p *Parser) peekError(typ lexer.TokenType) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead", typ, p.peek.Type)
	p.addError(diagnostics.EParse, msg, p.peek.Span, "")
}

func (p *Parser) noPrefixParseFnError(tok lexer.Token) {
	msg := fmt.Sprintf("no prefix parse function for %s", tok.Type)
	if tok.Type == lexer.TokIllegal {
		p.addError(diagnostics.ELex, msg, tok.Span, fmt.Sprintf("illegal character %q", tok.Literal))
		return
	}
	p.addError(diagnostics.EParse, msg, tok.Span, "")
}

func spanFromTo(start, end ast.Span) ast.Span {
	return ast.Span{
		File:      start.File,
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

// --- Program ---

// ParseProgram parses statements until EOF. Check Errors before using the result.
func (p *Parser) ParseProgram() *ast.Program {
	start := p.cur.Span
	prog := &ast.Program{}

	for !p.curIs(lexer.TokEOF) {
		if stmt := p.parseStmt(); stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.nextToken()
	}

	prog.Span = spanFromTo(start, p.cur.Span)
	return prog
}

// --- Statements ---

// Statement parsers leave cur on the statement's last token.
func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur.Type {
	case lexer.TokLet:
		if s := p.parseLetStmt(); s != nil {
			return s
		}
	case lexer.TokReturn:
		if s := p.parseReturnStmt(); s != nil {
			return s
		}
	default:
		if s := p.parseExprStmt(); s != nil {
			return s
		}
	}
	return nil
}

func (p *Parser) parseLetStmt() *ast.LetStmt {
	start := p.cur // 'let'
	if !p.expectPeek(lexer.TokIdent) {
		return nil
	}
	name := &ast.Identifier{Span: p.cur.Span, Name: p.cur.Literal}
	if !p.expectPeek(lexer.TokAssign) {
		return nil
	}
	p.nextToken()

	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	if p.peekIs(lexer.TokSemicolon) {
		p.nextToken()
	}
	return &ast.LetStmt{
		Span:  spanFromTo(start.Span, p.cur.Span),
		Name:  name,
		Value: value,
	}
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.cur // 'return'
	p.nextToken()

	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	if p.peekIs(lexer.TokSemicolon) {
		p.nextToken()
	}
	return &ast.ReturnStmt{
		Span:  spanFromTo(start.Span, p.cur.Span),
		Value: value,
	}
}

func (p *Parser) parseExprStmt() *ast.ExprStmt {
	start := p.cur
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if p.peekIs(lexer.TokSemicolon) {
		p.nextToken()
	}
	return &ast.ExprStmt{
		Span: spanFromTo(start.Span, p.cur.Span),
		Expr: expr,
	}
}

// --- Block ---

func (p *Parser) parseBlockStmt() *ast.BlockStmt {
	start := p.cur // '{'
	block := &ast.BlockStmt{}
	p.nextToken()

	for !p.curIs(lexer.TokRBrace) && !p.curIs(lexer.TokEOF) {
		if stmt := p.parseStmt(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	if p.curIs(lexer.TokEOF) {
		msg := fmt.Sprintf("expected next token to be %s, got %s instead", lexer.TokRBrace, lexer.TokEOF)
		p.addError(diagnostics.EParse, msg, p.cur.Span, "unterminated block")
		return nil
	}

	block.Span = spanFromTo(start.Span, p.cur.Span)
	return block
}

// --- Expressions ---

// parseExpression is the precedence-climbing core: it keeps folding infix
// operators into left while the next operator binds tighter than precedence.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix := p.prefixFns[p.cur.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.cur)
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}

	for !p.peekIs(lexer.TokSemicolon) && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peek.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expr {
	return &ast.Identifier{Span: p.cur.Span, Name: p.cur.Literal}
}

func (p *Parser) parseIntLiteral() ast.Expr {
	val, err := strconv.ParseInt(p.cur.Literal, 10, 64)
	if err != nil {
		p.addError(diagnostics.EParse, fmt.Sprintf("could not parse %q as integer", p.cur.Literal), p.cur.Span, "")
		return nil
	}
	return &ast.IntLiteral{Span: p.cur.Span, Value: val}
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	return &ast.BoolLiteral{Span: p.cur.Span, Value: p.curIs(lexer.TokTrue)}
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	start := p.cur
	op := ast.OpNeg
	if start.Type == lexer.TokBang {
		op = ast.OpNot
	}
	p.nextToken()

	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.PrefixExpr{
		Span:    spanFromTo(start.Span, operand.NodeSpan()),
		Op:      op,
		Operand: operand,
	}
}

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	op := infixOps[p.cur.Type]
	precedence := p.curPrecedence()
	p.nextToken()

	// Recursing at the operator's own precedence makes equal-precedence
	// chains associate to the left.
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.InfixExpr{
		Span:  spanFromTo(left.NodeSpan(), right.NodeSpan()),
		Op:    op,
		Left:  left,
		Right: right,
	}
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	p.nextToken() // consume '('
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(lexer.TokRParen) {
		return nil
	}
	return expr
}

func (p *Parser) parseIfExpr() ast.Expr {
	start := p.cur // 'if'
	if !p.expectPeek(lexer.TokLParen) {
		return nil
	}
	p.nextToken()

	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expectPeek(lexer.TokRParen) {
		return nil
	}
	if !p.expectPeek(lexer.TokLBrace) {
		return nil
	}
	consequence := p.parseBlockStmt()
	if consequence == nil {
		return nil
	}

	expr := &ast.IfExpr{
		Condition:   cond,
		Consequence: consequence,
	}

	if p.peekIs(lexer.TokElse) {
		p.nextToken()
		if !p.expectPeek(lexer.TokLBrace) {
			return nil
		}
		alternative := p.parseBlockStmt()
		if alternative == nil {
			return nil
		}
		expr.Alternative = alternative
	}

	expr.Span = spanFromTo(start.Span, p.cur.Span)
	return expr
}
