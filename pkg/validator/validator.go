// Package validator implements static checks over Monkey AST programs.
package validator

import (
	"fmt"

	"github.com/thomasrohde/monkey/pkg/ast"
	"github.com/thomasrohde/monkey/pkg/diagnostics"
)

type validator struct {
	// Blocks share their enclosing environment at runtime, so a single
	// set covers every binding seen so far in source order.
	bound map[string]bool
	diags []diagnostics.Diagnostic
}

// Validate checks a program in isolation.
func Validate(program *ast.Program) []diagnostics.Diagnostic {
	return ValidateWith(program, nil)
}

// ValidateWith checks a program against names that are already bound, such
// as the bindings of a running session. It reports identifiers read before
// any let binds them and statements that follow a return in the same block.
func ValidateWith(program *ast.Program, known []string) []diagnostics.Diagnostic {
	v := &validator{bound: make(map[string]bool, len(known))}
	for _, name := range known {
		v.bound[name] = true
	}
	v.validateStmts(program.Statements)
	return v.diags
}

func (v *validator) addDiag(code, msg string, span ast.Span, hint string) {
	v.diags = append(v.diags, diagnostics.MakeDiag(code, msg, &span, hint))
}

func (v *validator) validateStmts(stmts []ast.Stmt) {
	for i, stmt := range stmts {
		v.validateStmt(stmt)
		if _, ok := stmt.(*ast.ReturnStmt); ok && i+1 < len(stmts) {
			v.addDiag(diagnostics.EUnreachable, "unreachable statement after return",
				stmts[i+1].NodeSpan(), "remove the statement or move it before the return")
			return
		}
	}
}

func (v *validator) validateStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		// The value is checked before the name is bound: `let a = a` is unbound.
		v.validateExpr(s.Value)
		v.bound[s.Name.Name] = true
	case *ast.ReturnStmt:
		v.validateExpr(s.Value)
	case *ast.ExprStmt:
		v.validateExpr(s.Expr)
	case *ast.BlockStmt:
		v.validateStmts(s.Statements)
	}
}

func (v *validator) validateExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Identifier:
		if !v.bound[e.Name] {
			v.addDiag(diagnostics.EUnbound, fmt.Sprintf("identifier not found: %s", e.Name),
				e.Span, fmt.Sprintf("bind it first with 'let %s = ...;'", e.Name))
		}
	case *ast.PrefixExpr:
		v.validateExpr(e.Operand)
	case *ast.InfixExpr:
		v.validateExpr(e.Left)
		v.validateExpr(e.Right)
	case *ast.IfExpr:
		v.validateExpr(e.Condition)
		v.validateStmts(e.Consequence.Statements)
		if e.Alternative != nil {
			v.validateStmts(e.Alternative.Statements)
		}
	}
}
