// Package formatter implements the Monkey source code formatter.
package formatter

import (
	"strconv"
	"strings"

	"github.com/thomasrohde/monkey/pkg/ast"
)

const indent = "  "

// Precedence table for infix operators (higher = tighter binding)
var precedence = map[ast.InfixOp]int{
	ast.OpEq: 1, ast.OpNeq: 1,
	ast.OpLt: 2, ast.OpGt: 2,
	ast.OpAdd: 3, ast.OpSub: 3,
	ast.OpMul: 4, ast.OpDiv: 4,
}

func needsParens(child ast.Expr, parentOp ast.InfixOp, isRight bool) bool {
	switch c := child.(type) {
	case *ast.IfExpr:
		return true
	case *ast.InfixExpr:
		childPrec := precedence[c.Op]
		parentPrec := precedence[parentOp]
		if childPrec < parentPrec {
			return true
		}
		// Operators are left-associative: same precedence on the right keeps its parens.
		return childPrec == parentPrec && isRight
	}
	return false
}

// Format pretty-prints a Monkey AST back to source code.
func Format(program *ast.Program) string {
	return strings.Join(formatStmts(program.Statements, 0), "\n") + "\n"
}

func formatStmts(stmts []ast.Stmt, depth int) []string {
	lines := make([]string, len(stmts))
	for i, s := range stmts {
		lines[i] = formatStmt(s, depth)
	}
	// An if statement followed by a statement starting with '-' would
	// otherwise re-parse as a subtraction.
	for i := 0; i+1 < len(stmts); i++ {
		if isIfStmt(stmts[i]) && strings.HasPrefix(strings.TrimLeft(lines[i+1], " "), "-") {
			lines[i] += ";"
		}
	}
	return lines
}

func isIfStmt(s ast.Stmt) bool {
	es, ok := s.(*ast.ExprStmt)
	if !ok {
		return false
	}
	_, isIf := es.Expr.(*ast.IfExpr)
	return isIf
}

func formatStmt(s ast.Stmt, depth int) string {
	prefix := strings.Repeat(indent, depth)
	switch stmt := s.(type) {
	case *ast.LetStmt:
		return prefix + "let " + stmt.Name.Name + " = " + formatExpr(stmt.Value, depth) + ";"
	case *ast.ReturnStmt:
		return prefix + "return " + formatExpr(stmt.Value, depth) + ";"
	case *ast.ExprStmt:
		if isIfStmt(stmt) {
			return prefix + formatExpr(stmt.Expr, depth)
		}
		return prefix + formatExpr(stmt.Expr, depth) + ";"
	case *ast.BlockStmt:
		return prefix + formatBlock(stmt, depth)
	}
	return ""
}

func formatBlock(b *ast.BlockStmt, depth int) string {
	if len(b.Statements) == 0 {
		return "{}"
	}
	lines := formatStmts(b.Statements, depth+1)
	return "{\n" + strings.Join(lines, "\n") + "\n" + strings.Repeat(indent, depth) + "}"
}

func formatExpr(e ast.Expr, depth int) string {
	switch expr := e.(type) {
	case *ast.IntLiteral:
		return strconv.FormatInt(expr.Value, 10)
	case *ast.BoolLiteral:
		return strconv.FormatBool(expr.Value)
	case *ast.Identifier:
		return expr.Name
	case *ast.PrefixExpr:
		operandStr := formatExpr(expr.Operand, depth)
		switch operand := expr.Operand.(type) {
		case *ast.InfixExpr, *ast.IfExpr:
			return string(expr.Op) + "(" + operandStr + ")"
		case *ast.PrefixExpr:
			if operand.Op == ast.OpNeg && expr.Op == ast.OpNeg {
				return "-(" + operandStr + ")"
			}
		}
		return string(expr.Op) + operandStr
	case *ast.InfixExpr:
		leftStr := formatExpr(expr.Left, depth)
		rightStr := formatExpr(expr.Right, depth)
		if needsParens(expr.Left, expr.Op, false) {
			leftStr = "(" + leftStr + ")"
		}
		if needsParens(expr.Right, expr.Op, true) {
			rightStr = "(" + rightStr + ")"
		}
		return leftStr + " " + string(expr.Op) + " " + rightStr
	case *ast.IfExpr:
		out := "if (" + formatExpr(expr.Condition, depth) + ") " + formatBlock(expr.Consequence, depth)
		if expr.Alternative != nil {
			out += " else " + formatBlock(expr.Alternative, depth)
		}
		return out
	}
	return ""
}

// Parenthesize renders node on one line with every prefix and infix
// expression wrapped in parentheses, making the parsed structure explicit.
func Parenthesize(node ast.Node) string {
	var b strings.Builder
	writeParen(&b, node)
	return b.String()
}

func writeParen(b *strings.Builder, node ast.Node) {
	switch n := node.(type) {
	case *ast.Program:
		for i, s := range n.Statements {
			if i > 0 {
				b.WriteString("\n")
			}
			writeParen(b, s)
		}
	case *ast.LetStmt:
		b.WriteString("let " + n.Name.Name + " = ")
		writeParen(b, n.Value)
		b.WriteString(";")
	case *ast.ReturnStmt:
		b.WriteString("return ")
		writeParen(b, n.Value)
		b.WriteString(";")
	case *ast.ExprStmt:
		writeParen(b, n.Expr)
	case *ast.BlockStmt:
		b.WriteString("{ ")
		for i, s := range n.Statements {
			if i > 0 {
				b.WriteString(" ")
			}
			writeParen(b, s)
		}
		b.WriteString(" }")
	case *ast.IntLiteral:
		b.WriteString(strconv.FormatInt(n.Value, 10))
	case *ast.BoolLiteral:
		b.WriteString(strconv.FormatBool(n.Value))
	case *ast.Identifier:
		b.WriteString(n.Name)
	case *ast.PrefixExpr:
		b.WriteString("(" + string(n.Op))
		writeParen(b, n.Operand)
		b.WriteString(")")
	case *ast.InfixExpr:
		b.WriteString("(")
		writeParen(b, n.Left)
		b.WriteString(" " + string(n.Op) + " ")
		writeParen(b, n.Right)
		b.WriteString(")")
	case *ast.IfExpr:
		b.WriteString("if ")
		writeParen(b, n.Condition)
		b.WriteString(" ")
		writeParen(b, n.Consequence)
		if n.Alternative != nil {
			b.WriteString(" else ")
			writeParen(b, n.Alternative)
		}
	}
}
