package parser_test

import (
	"strings"
	"testing"

	"github.com/thomasrohde/monkey/pkg/ast"
	"github.com/thomasrohde/monkey/pkg/diagnostics"
	"github.com/thomasrohde/monkey/pkg/formatter"
	"github.com/thomasrohde/monkey/pkg/lexer"
	"github.com/thomasrohde/monkey/pkg/parser"
)

// helper: parse source and assert no diagnostics
func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	prog, diags := parser.Parse(source, "test.mk")
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diagnostics.Messages(diags))
	}
	if prog == nil {
		t.Fatal("expected non-nil program")
	}
	return prog
}

// helper: parse source and return the error messages, failing if there are none
func mustFail(t *testing.T, source string) []string {
	t.Helper()
	p := parser.New(lexer.New(source, "test.mk"))
	p.ParseProgram()
	errs := p.Errors()
	if len(errs) == 0 {
		t.Fatalf("expected parse errors for %q, got none", source)
	}
	return errs
}

// helper: extract the single statement from a program, assert it is an ExprStmt, return its Expr
func singleExpr(t *testing.T, source string) ast.Expr {
	t.Helper()
	prog := mustParse(t, source)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	es, ok := prog.Statements[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", prog.Statements[0])
	}
	return es.Expr
}

func expectInt(t *testing.T, e ast.Expr, want int64) {
	t.Helper()
	lit, ok := e.(*ast.IntLiteral)
	if !ok {
		t.Fatalf("expected IntLiteral, got %T", e)
	}
	if lit.Value != want {
		t.Errorf("got %d, want %d", lit.Value, want)
	}
}

func expectIdent(t *testing.T, e ast.Expr, want string) {
	t.Helper()
	id, ok := e.(*ast.Identifier)
	if !ok {
		t.Fatalf("expected Identifier, got %T", e)
	}
	if id.Name != want {
		t.Errorf("got %q, want %q", id.Name, want)
	}
}

// ---- 1. Statements ----

func TestLetStatements(t *testing.T) {
	tests := []struct {
		source string
		name   string
		value  string
	}{
		{"let x = 5;", "x", "5"},
		{"let y = true;", "y", "true"},
		{"let foobar = y", "foobar", "y"},
		{"let a = 1 + 2 * 3;", "a", "(1 + (2 * 3))"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			prog := mustParse(t, tt.source)
			if len(prog.Statements) != 1 {
				t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
			}
			let, ok := prog.Statements[0].(*ast.LetStmt)
			if !ok {
				t.Fatalf("expected LetStmt, got %T", prog.Statements[0])
			}
			if let.Name.Name != tt.name {
				t.Errorf("got name %q, want %q", let.Name.Name, tt.name)
			}
			if got := formatter.Parenthesize(let.Value); got != tt.value {
				t.Errorf("got value %q, want %q", got, tt.value)
			}
		})
	}
}

func TestReturnStatements(t *testing.T) {
	tests := []struct {
		source string
		value  string
	}{
		{"return 5;", "5"},
		{"return true;", "true"},
		{"return foobar", "foobar"},
		{"return 2 * 5;", "(2 * 5)"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			prog := mustParse(t, tt.source)
			ret, ok := prog.Statements[0].(*ast.ReturnStmt)
			if !ok {
				t.Fatalf("expected ReturnStmt, got %T", prog.Statements[0])
			}
			if got := formatter.Parenthesize(ret.Value); got != tt.value {
				t.Errorf("got %q, want %q", got, tt.value)
			}
		})
	}
}

func TestMultipleStatementsWithoutSemicolons(t *testing.T) {
	prog := mustParse(t, "let a = 1\nlet b = 2\na + b")
	if len(prog.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(prog.Statements))
	}
	if _, ok := prog.Statements[2].(*ast.ExprStmt); !ok {
		t.Errorf("expected ExprStmt last, got %T", prog.Statements[2])
	}
}

func TestEmptyProgram(t *testing.T) {
	for _, src := range []string{"", "   \n\t", "\r\n"} {
		prog := mustParse(t, src)
		if len(prog.Statements) != 0 {
			t.Errorf("%q: expected no statements, got %d", src, len(prog.Statements))
		}
	}
}

// ---- 2. Literal Expressions ----

func TestIdentifierExpression(t *testing.T) {
	expectIdent(t, singleExpr(t, "foobar;"), "foobar")
}

func TestIntLiteral(t *testing.T) {
	tests := []struct {
		source string
		want   int64
	}{
		{"0", 0},
		{"5;", 5},
		{"1000000", 1000000},
		{"9223372036854775807", 9223372036854775807},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			expectInt(t, singleExpr(t, tt.source), tt.want)
		})
	}
}

func TestBoolLiteral(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"true;", true},
		{"false;", false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			lit, ok := singleExpr(t, tt.source).(*ast.BoolLiteral)
			if !ok {
				t.Fatal("expected BoolLiteral")
			}
			if lit.Value != tt.want {
				t.Errorf("got %v, want %v", lit.Value, tt.want)
			}
		})
	}
}

// ---- 3. Operators ----

func TestPrefixExpressions(t *testing.T) {
	tests := []struct {
		source  string
		op      ast.PrefixOp
		operand string
	}{
		{"!5;", ast.OpNot, "5"},
		{"-15;", ast.OpNeg, "15"},
		{"!true;", ast.OpNot, "true"},
		{"-x", ast.OpNeg, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			pe, ok := singleExpr(t, tt.source).(*ast.PrefixExpr)
			if !ok {
				t.Fatal("expected PrefixExpr")
			}
			if pe.Op != tt.op {
				t.Errorf("got op %q, want %q", pe.Op, tt.op)
			}
			if got := formatter.Parenthesize(pe.Operand); got != tt.operand {
				t.Errorf("got operand %q, want %q", got, tt.operand)
			}
		})
	}
}

func TestInfixExpressions(t *testing.T) {
	tests := []struct {
		source string
		op     ast.InfixOp
	}{
		{"5 + 5;", ast.OpAdd},
		{"5 - 5;", ast.OpSub},
		{"5 * 5;", ast.OpMul},
		{"5 / 5;", ast.OpDiv},
		{"5 > 5;", ast.OpGt},
		{"5 < 5;", ast.OpLt},
		{"5 == 5;", ast.OpEq},
		{"5 != 5;", ast.OpNeq},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			ie, ok := singleExpr(t, tt.source).(*ast.InfixExpr)
			if !ok {
				t.Fatal("expected InfixExpr")
			}
			if ie.Op != tt.op {
				t.Errorf("got op %q, want %q", ie.Op, tt.op)
			}
			expectInt(t, ie.Left, 5)
			expectInt(t, ie.Right, 5)
		})
	}
}

func TestBooleanInfix(t *testing.T) {
	ie, ok := singleExpr(t, "true != false").(*ast.InfixExpr)
	if !ok {
		t.Fatal("expected InfixExpr")
	}
	if l, ok := ie.Left.(*ast.BoolLiteral); !ok || !l.Value {
		t.Errorf("expected left true, got %#v", ie.Left)
	}
	if r, ok := ie.Right.(*ast.BoolLiteral); !ok || r.Value {
		t.Errorf("expected right false, got %#v", ie.Right)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"-a * b", "((-a) * b)"},
		{"!-a", "(!(-a))"},
		{"!!a", "(!(!a))"},
		{"a + b + c", "((a + b) + c)"},
		{"a + b - c", "((a + b) - c)"},
		{"a * b * c", "((a * b) * c)"},
		{"a * b / c", "((a * b) / c)"},
		{"a + b / c", "(a + (b / c))"},
		{"a + b * c + d / e - f", "(((a + (b * c)) + (d / e)) - f)"},
		{"3 + 4; -5 * 5", "(3 + 4)\n((-5) * 5)"},
		{"5 > 4 == 3 < 4", "((5 > 4) == (3 < 4))"},
		{"5 < 4 != 3 > 4", "((5 < 4) != (3 > 4))"},
		{"3 + 4 * 5 == 3 * 1 + 4 * 5", "((3 + (4 * 5)) == ((3 * 1) + (4 * 5)))"},
		{"3 > 5 == false", "((3 > 5) == false)"},
		{"3 < 5 == true", "((3 < 5) == true)"},
		{"1 + (2 + 3) + 4", "((1 + (2 + 3)) + 4)"},
		{"(5 + 5) * 2", "((5 + 5) * 2)"},
		{"2 / (5 + 5)", "(2 / (5 + 5))"},
		{"-(5 + 5)", "(-(5 + 5))"},
		{"!(true == true)", "(!(true == true))"},
		{"2 * 2 * 2 * 2 * 2", "((((2 * 2) * 2) * 2) * 2)"},
		{"5 + 2 * 10", "(5 + (2 * 10))"},
		{"(5 + 10 * 2 + 15 / 3) * 2 + -10", "((((5 + (10 * 2)) + (15 / 3)) * 2) + (-10))"},
		{"a == b != c", "((a == b) != c)"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			prog := mustParse(t, tt.source)
			if got := formatter.Parenthesize(prog); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// ---- 4. If Expressions ----

func TestIfExpression(t *testing.T) {
	ie, ok := singleExpr(t, "if (x < y) { x }").(*ast.IfExpr)
	if !ok {
		t.Fatal("expected IfExpr")
	}
	if got := formatter.Parenthesize(ie.Condition); got != "(x < y)" {
		t.Errorf("got condition %q", got)
	}
	if len(ie.Consequence.Statements) != 1 {
		t.Fatalf("expected 1 consequence statement, got %d", len(ie.Consequence.Statements))
	}
	es, ok := ie.Consequence.Statements[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", ie.Consequence.Statements[0])
	}
	expectIdent(t, es.Expr, "x")
	if ie.Alternative != nil {
		t.Errorf("expected nil alternative, got %#v", ie.Alternative)
	}
}

func TestIfElseExpression(t *testing.T) {
	ie, ok := singleExpr(t, "if (x < y) { x } else { y; z }").(*ast.IfExpr)
	if !ok {
		t.Fatal("expected IfExpr")
	}
	if ie.Alternative == nil {
		t.Fatal("expected alternative")
	}
	if len(ie.Alternative.Statements) != 2 {
		t.Fatalf("expected 2 alternative statements, got %d", len(ie.Alternative.Statements))
	}
}

func TestEmptyElseIsNotAbsent(t *testing.T) {
	ie, ok := singleExpr(t, "if (x) { 1 } else {}").(*ast.IfExpr)
	if !ok {
		t.Fatal("expected IfExpr")
	}
	if ie.Alternative == nil {
		t.Fatal("expected empty alternative block, got nil")
	}
	if len(ie.Alternative.Statements) != 0 {
		t.Errorf("expected 0 statements, got %d", len(ie.Alternative.Statements))
	}
}

func TestNestedIfWithReturns(t *testing.T) {
	src := "if (10 > 1) { if (10 > 1) { return true + false; } return 1; }"
	prog := mustParse(t, src)
	want := "if (10 > 1) { if (10 > 1) { return (true + false); } return 1; }"
	if got := formatter.Parenthesize(prog); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIfAsOperand(t *testing.T) {
	prog := mustParse(t, "if (true) { 1 } else { 2 } + 3")
	want := "(if true { 1 } else { 2 } + 3)"
	if got := formatter.Parenthesize(prog); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// ---- 5. Spans ----

func TestStatementSpans(t *testing.T) {
	prog := mustParse(t, "let x = 5;\n  x + 1")
	let := prog.Statements[0].NodeSpan()
	if let.StartLine != 1 || let.StartCol != 1 || let.EndLine != 1 || let.EndCol != 11 {
		t.Errorf("let span: got %+v", let)
	}
	expr := prog.Statements[1].NodeSpan()
	if expr.StartLine != 2 || expr.StartCol != 3 || expr.EndCol != 8 {
		t.Errorf("expr span: got %+v", expr)
	}
	if expr.File != "test.mk" {
		t.Errorf("got file %q", expr.File)
	}
}

// ---- 6. Errors ----

func TestParseErrorMessages(t *testing.T) {
	tests := []struct {
		source string
		first  string
	}{
		{"let = 5;", "expected next token to be IDENTIFIER, got = instead"},
		{"let x 5;", "expected next token to be =, got INTEGER instead"},
		{"let 838383;", "expected next token to be IDENTIFIER, got INTEGER instead"},
		{")", "no prefix parse function for )"},
		{"5 + ;", "no prefix parse function for ;"},
		{"if x { 1 }", "expected next token to be (, got IDENTIFIER instead"},
		{"if (x { 1 }", "expected next token to be ), got { instead"},
		{"if (x) 1", "expected next token to be {, got INTEGER instead"},
		{"if (x) { 1 } else 2", "expected next token to be {, got INTEGER instead"},
		{"if (x) { 1", "expected next token to be }, got EOF instead"},
		{"(1 + 2", "expected next token to be ), got EOF instead"},
		{"99999999999999999999", `could not parse "99999999999999999999" as integer`},
		{"@", "no prefix parse function for ILLEGAL"},
		{"return;", "no prefix parse function for ;"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			errs := mustFail(t, tt.source)
			if errs[0] != tt.first {
				t.Errorf("got first error %q, want %q (all: %v)", errs[0], tt.first, errs)
			}
		})
	}
}

func TestParseErrorsAccumulate(t *testing.T) {
	errs := mustFail(t, "let = 1; let y 2; let z = 3;")
	if len(errs) < 2 {
		t.Fatalf("expected at least 2 errors, got %d: %v", len(errs), errs)
	}
	if errs[0] != "expected next token to be IDENTIFIER, got = instead" {
		t.Errorf("got first error %q", errs[0])
	}
	found := false
	for _, e := range errs {
		if e == "expected next token to be =, got INTEGER instead" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected error for second statement, got %v", errs)
	}
}

func TestParseErrorsKeepValidStatements(t *testing.T) {
	p := parser.New(lexer.New("let = 1; let ok = 2; ok", "test.mk"))
	prog := p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected errors")
	}
	var names []string
	for _, s := range prog.Statements {
		if let, isLet := s.(*ast.LetStmt); isLet {
			names = append(names, let.Name.Name)
		}
	}
	if strings.Join(names, ",") != "ok" {
		t.Errorf("expected the valid let to survive, got %v", names)
	}
}

func TestParseReturnsNilProgramOnError(t *testing.T) {
	prog, diags := parser.Parse("let = 1;", "test.mk")
	if prog != nil {
		t.Error("expected nil program")
	}
	if len(diags) == 0 {
		t.Fatal("expected diagnostics")
	}
	if diags[0].Code != diagnostics.EParse {
		t.Errorf("got code %q, want %q", diags[0].Code, diagnostics.EParse)
	}
	if diags[0].Span == nil || diags[0].Span.StartCol != 5 {
		t.Errorf("expected span at the offending token, got %+v", diags[0].Span)
	}
}

func TestIllegalTokenDiagnostic(t *testing.T) {
	_, diags := parser.Parse("5 @ 3", "test.mk")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diagnostics.Messages(diags))
	}
	if diags[0].Code != diagnostics.ELex {
		t.Errorf("got code %q, want %q", diags[0].Code, diagnostics.ELex)
	}
	if !strings.Contains(diags[0].Hint, "@") {
		t.Errorf("expected hint to name the character, got %q", diags[0].Hint)
	}
}

func TestErrorsEmptyOnValidInput(t *testing.T) {
	p := parser.New(lexer.New("let a = 5; if (a > 1) { a } else { 0 }", "test.mk"))
	p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
	if diags := p.Diagnostics(); len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %v", diags)
	}
}
