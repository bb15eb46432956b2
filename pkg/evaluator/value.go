// Package evaluator implements the Monkey tree-walking evaluator.
package evaluator

import (
	"fmt"
	"strconv"
)

// ValueType is the type tag of a runtime value, as it appears in error messages.
type ValueType string

const (
	IntegerType     ValueType = "INTEGER"
	BooleanType     ValueType = "BOOLEAN"
	NullType        ValueType = "NULL"
	ReturnValueType ValueType = "RETURN_VALUE"
	ErrorType       ValueType = "ERROR"
)

// Value is the interface for all Monkey runtime values.
// Use the sealed marker method to restrict implementations to this package.
type Value interface {
	Type() ValueType
	Inspect() string
	monkeyValue() // sealed marker
}

// Integer is a signed 64-bit integer value.
type Integer struct {
	Value int64
}

func (*Integer) monkeyValue()      {}
func (*Integer) Type() ValueType   { return IntegerType }
func (i *Integer) Inspect() string { return strconv.FormatInt(i.Value, 10) }

// Boolean is a boolean value. Only the True and False singletons are produced
// by evaluation.
type Boolean struct {
	Value bool
}

func (*Boolean) monkeyValue()      {}
func (*Boolean) Type() ValueType   { return BooleanType }
func (b *Boolean) Inspect() string { return strconv.FormatBool(b.Value) }

// Null is the absence of a value.
type Null struct{}

func (*Null) monkeyValue()    {}
func (*Null) Type() ValueType { return NullType }
func (*Null) Inspect() string { return "null" }

// ReturnValue carries a returned value out of nested blocks. It never
// escapes a program evaluation.
type ReturnValue struct {
	Value Value
}

func (*ReturnValue) monkeyValue()      {}
func (*ReturnValue) Type() ValueType   { return ReturnValueType }
func (r *ReturnValue) Inspect() string { return r.Value.Inspect() }

// Error is a language-level failure. It flows through evaluation like any
// other value and stops the enclosing statement sequences.
type Error struct {
	Message string
}

func (*Error) monkeyValue()      {}
func (*Error) Type() ValueType   { return ErrorType }
func (e *Error) Inspect() string { return e.Message }

// Canonical singletons.
var (
	True      = &Boolean{Value: true}
	False     = &Boolean{Value: false}
	NullValue = &Null{}
)

// NewInteger creates an integer value.
func NewInteger(n int64) *Integer {
	return &Integer{Value: n}
}

// NativeBool returns the canonical boolean for b.
func NativeBool(b bool) *Boolean {
	if b {
		return True
	}
	return False
}

// NewError creates an error value with a formatted message.
func NewError(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// IsError reports whether v is an error value.
func IsError(v Value) bool {
	return v != nil && v.Type() == ErrorType
}

// Truthy returns the boolean interpretation of a value.
// false, null and 0 are falsy; everything else is truthy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case *Null:
		return false
	case *Boolean:
		return val.Value
	case *Integer:
		return val.Value != 0
	default:
		return true
	}
}
