package evaluator

import (
	"time"

	"github.com/thomasrohde/monkey/pkg/ast"
)

// TraceEventType identifies the type of a trace event.
type TraceEventType string

const (
	TraceRunStart  TraceEventType = "run_start"
	TraceRunEnd    TraceEventType = "run_end"
	TraceStmtStart TraceEventType = "stmt_start"
	TraceStmtEnd   TraceEventType = "stmt_end"
	TraceReturn    TraceEventType = "return"
	TraceError     TraceEventType = "error"
)

// TraceEvent represents a single trace event emitted during evaluation.
type TraceEvent struct {
	Timestamp string            `json:"ts"`
	RunID     string            `json:"runId"`
	Event     TraceEventType    `json:"event"`
	Span      *ast.Span         `json:"span,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
}

// Options configures evaluation.
type Options struct {
	Trace func(event TraceEvent)
	RunID string
}

type evaluator struct {
	opts Options
}

// emit reports event to the trace hook. When v is non-nil its type and
// rendering are attached as data.
func (ev *evaluator) emit(event TraceEventType, span *ast.Span, v Value) {
	if ev.opts.Trace == nil {
		return
	}
	var data map[string]string
	if v != nil {
		data = map[string]string{
			"type":  string(v.Type()),
			"value": v.Inspect(),
		}
	}
	ev.opts.Trace(TraceEvent{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		RunID:     ev.opts.RunID,
		Event:     event,
		Span:      span,
		Data:      data,
	})
}

func (ev *evaluator) newError(node ast.Node, format string, args ...any) *Error {
	err := NewError(format, args...)
	span := node.NodeSpan()
	ev.emit(TraceError, &span, err)
	return err
}

// Eval evaluates node in env. Bindings made by let statements are visible
// in env afterwards. Failures are returned as *Error values.
func Eval(node ast.Node, env *Env) Value {
	return EvalWithOptions(node, env, Options{})
}

// EvalWithOptions is Eval with a trace hook. Programs are bracketed by
// run_start and run_end events.
func EvalWithOptions(node ast.Node, env *Env, opts Options) Value {
	ev := &evaluator{opts: opts}
	prog, ok := node.(*ast.Program)
	if !ok {
		return ev.eval(node, env)
	}

	span := prog.Span
	ev.emit(TraceRunStart, &span, nil)
	result := ev.evalProgram(prog, env)
	ev.emit(TraceRunEnd, &span, result)
	return result
}

// stops reports whether v ends the enclosing statement sequence.
func stops(v Value) bool {
	switch v.(type) {
	case *Error, *ReturnValue:
		return true
	}
	return false
}

func (ev *evaluator) eval(node ast.Node, env *Env) Value {
	switch n := node.(type) {
	case *ast.Program:
		return ev.evalProgram(n, env)

	case *ast.BlockStmt:
		return ev.evalStatements(n.Statements, env)

	case *ast.LetStmt:
		val := ev.eval(n.Value, env)
		if stops(val) {
			return val
		}
		return env.Set(n.Name.Name, val)

	case *ast.ReturnStmt:
		val := ev.eval(n.Value, env)
		if stops(val) {
			return val
		}
		span := n.Span
		ev.emit(TraceReturn, &span, val)
		return &ReturnValue{Value: val}

	case *ast.ExprStmt:
		return ev.eval(n.Expr, env)

	case *ast.IntLiteral:
		return NewInteger(n.Value)

	case *ast.BoolLiteral:
		return NativeBool(n.Value)

	case *ast.Identifier:
		if val, ok := env.Get(n.Name); ok {
			return val
		}
		return ev.newError(n, "identifier not found: %s", n.Name)

	case *ast.PrefixExpr:
		operand := ev.eval(n.Operand, env)
		if stops(operand) {
			return operand
		}
		return ev.evalPrefix(n, operand)

	case *ast.InfixExpr:
		left := ev.eval(n.Left, env)
		if stops(left) {
			return left
		}
		right := ev.eval(n.Right, env)
		if stops(right) {
			return right
		}
		return ev.evalInfix(n, left, right)

	case *ast.IfExpr:
		return ev.evalIf(n, env)
	}

	return NullValue
}

func (ev *evaluator) evalProgram(prog *ast.Program, env *Env) Value {
	result := ev.evalStatements(prog.Statements, env)
	if rv, ok := result.(*ReturnValue); ok {
		return rv.Value
	}
	return result
}

// evalStatements runs stmts in order and stops at the first error or return.
// The ReturnValue wrapper is kept so enclosing blocks stop too.
func (ev *evaluator) evalStatements(stmts []ast.Stmt, env *Env) Value {
	var result Value = NullValue
	for _, stmt := range stmts {
		span := stmt.NodeSpan()
		ev.emit(TraceStmtStart, &span, nil)
		result = ev.eval(stmt, env)
		ev.emit(TraceStmtEnd, &span, result)
		if stops(result) {
			return result
		}
	}
	return result
}

func (ev *evaluator) evalPrefix(n *ast.PrefixExpr, operand Value) Value {
	switch n.Op {
	case ast.OpNot:
		return NativeBool(!Truthy(operand))
	case ast.OpNeg:
		i, ok := operand.(*Integer)
		if !ok {
			return ev.newError(n, "unknown operator: -%s", operand.Type())
		}
		return NewInteger(-i.Value)
	}
	return ev.newError(n, "unknown operator: %s%s", n.Op, operand.Type())
}

func (ev *evaluator) evalInfix(n *ast.InfixExpr, left, right Value) Value {
	l, lok := left.(*Integer)
	r, rok := right.(*Integer)
	if lok && rok {
		return ev.evalIntegerInfix(n, l.Value, r.Value)
	}

	if left.Type() != right.Type() {
		return ev.newError(n, "type mismatch: %s %s %s", left.Type(), n.Op, right.Type())
	}

	if lb, ok := left.(*Boolean); ok {
		rb := right.(*Boolean)
		switch n.Op {
		case ast.OpEq:
			return NativeBool(lb.Value == rb.Value)
		case ast.OpNeq:
			return NativeBool(lb.Value != rb.Value)
		}
	}

	return ev.newError(n, "unknown operator: %s %s %s", left.Type(), n.Op, right.Type())
}

// evalIntegerInfix applies op with int64 wraparound. Division by zero is an
// error value rather than a runtime panic.
func (ev *evaluator) evalIntegerInfix(n *ast.InfixExpr, l, r int64) Value {
	switch n.Op {
	case ast.OpAdd:
		return NewInteger(l + r)
	case ast.OpSub:
		return NewInteger(l - r)
	case ast.OpMul:
		return NewInteger(l * r)
	case ast.OpDiv:
		if r == 0 {
			return ev.newError(n, "division by zero: %d / %d", l, r)
		}
		return NewInteger(l / r)
	case ast.OpLt:
		return NativeBool(l < r)
	case ast.OpGt:
		return NativeBool(l > r)
	case ast.OpEq:
		return NativeBool(l == r)
	case ast.OpNeq:
		return NativeBool(l != r)
	}
	return ev.newError(n, "unknown operator: %s %s %s", IntegerType, n.Op, IntegerType)
}

func (ev *evaluator) evalIf(n *ast.IfExpr, env *Env) Value {
	cond := ev.eval(n.Condition, env)
	if stops(cond) {
		return cond
	}
	if Truthy(cond) {
		return ev.eval(n.Consequence, env)
	}
	if n.Alternative != nil {
		return ev.eval(n.Alternative, env)
	}
	return NullValue
}
