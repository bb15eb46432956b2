// Package ast defines the Monkey language AST node types.
package ast

// Span represents a source location range.
type Span struct {
	File      string `json:"file"`
	StartLine int    `json:"startLine"`
	StartCol  int    `json:"startCol"`
	EndLine   int    `json:"endLine"`
	EndCol    int    `json:"endCol"`
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() string
	NodeSpan() Span
}

// PrefixOp represents a prefix (unary) operator.
type PrefixOp string

const (
	OpNot PrefixOp = "!"
	OpNeg PrefixOp = "-"
)

// InfixOp represents an infix (binary) operator.
type InfixOp string

const (
	OpAdd InfixOp = "+"
	OpSub InfixOp = "-"
	OpMul InfixOp = "*"
	OpDiv InfixOp = "/"
	OpLt  InfixOp = "<"
	OpGt  InfixOp = ">"
	OpEq  InfixOp = "=="
	OpNeq InfixOp = "!="
)

// --- Expr is the interface for all expression nodes ---

type Expr interface {
	Node
	exprNode() // sealed marker
}

// --- Stmt is the interface for all statement nodes ---

type Stmt interface {
	Node
	stmtNode() // sealed marker
}

// --- Program ---

// Program is the root of a parsed source text.
type Program struct {
	Span       Span
	Statements []Stmt
}

func (n *Program) Kind() string   { return "Program" }
func (n *Program) NodeSpan() Span { return n.Span }

// --- Statements ---

type LetStmt struct {
	Span  Span
	Name  *Identifier
	Value Expr
}

func (n *LetStmt) Kind() string   { return "LetStmt" }
func (n *LetStmt) NodeSpan() Span { return n.Span }
func (n *LetStmt) stmtNode()      {}

type ReturnStmt struct {
	Span  Span
	Value Expr
}

func (n *ReturnStmt) Kind() string   { return "ReturnStmt" }
func (n *ReturnStmt) NodeSpan() Span { return n.Span }
func (n *ReturnStmt) stmtNode()      {}

// ExprStmt is an expression evaluated for its value.
type ExprStmt struct {
	Span Span
	Expr Expr
}

func (n *ExprStmt) Kind() string   { return "ExprStmt" }
func (n *ExprStmt) NodeSpan() Span { return n.Span }
func (n *ExprStmt) stmtNode()      {}

// BlockStmt is a brace-delimited statement sequence.
type BlockStmt struct {
	Span       Span
	Statements []Stmt
}

func (n *BlockStmt) Kind() string   { return "BlockStmt" }
func (n *BlockStmt) NodeSpan() Span { return n.Span }
func (n *BlockStmt) stmtNode()      {}

// --- Literal Expressions ---

type IntLiteral struct {
	Span  Span
	Value int64
}

func (n *IntLiteral) Kind() string   { return "IntLiteral" }
func (n *IntLiteral) NodeSpan() Span { return n.Span }
func (n *IntLiteral) exprNode()      {}

type BoolLiteral struct {
	Span  Span
	Value bool
}

func (n *BoolLiteral) Kind() string   { return "BoolLiteral" }
func (n *BoolLiteral) NodeSpan() Span { return n.Span }
func (n *BoolLiteral) exprNode()      {}

// --- Identifiers ---

type Identifier struct {
	Span Span
	Name string
}

func (n *Identifier) Kind() string   { return "Identifier" }
func (n *Identifier) NodeSpan() Span { return n.Span }
func (n *Identifier) exprNode()      {}

// --- Operators ---

type PrefixExpr struct {
	Span    Span
	Op      PrefixOp
	Operand Expr
}

func (n *PrefixExpr) Kind() string   { return "PrefixExpr" }
func (n *PrefixExpr) NodeSpan() Span { return n.Span }
func (n *PrefixExpr) exprNode()      {}

type InfixExpr struct {
	Span  Span
	Op    InfixOp
	Left  Expr
	Right Expr
}

func (n *InfixExpr) Kind() string   { return "InfixExpr" }
func (n *InfixExpr) NodeSpan() Span { return n.Span }
func (n *InfixExpr) exprNode()      {}

// --- Control Flow ---

// IfExpr is a conditional. Alternative is nil when there is no else branch,
// which is distinct from an empty else block.
type IfExpr struct {
	Span        Span
	Condition   Expr
	Consequence *BlockStmt
	Alternative *BlockStmt
}

func (n *IfExpr) Kind() string   { return "IfExpr" }
func (n *IfExpr) NodeSpan() Span { return n.Span }
func (n *IfExpr) exprNode()      {}
