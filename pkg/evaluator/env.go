package evaluator

import "sort"

// Env is a scoped environment for variable bindings.
// It supports outer-chained lookup for lexical scoping.
type Env struct {
	store map[string]Value
	outer *Env
}

// NewEnv creates a top-level environment with no enclosing scope.
func NewEnv() *Env {
	return &Env{store: make(map[string]Value)}
}

// NewEnclosedEnv creates a scope whose lookups fall back to outer.
func NewEnclosedEnv(outer *Env) *Env {
	env := NewEnv()
	env.outer = outer
	return env
}

// Get looks up a variable by name, traversing enclosing scopes.
func (e *Env) Get(name string) (Value, bool) {
	if val, ok := e.store[name]; ok {
		return val, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// Set binds or rebinds a variable in this scope and returns the value.
func (e *Env) Set(name string, val Value) Value {
	e.store[name] = val
	return val
}

// Has checks whether a variable is defined in this scope or any enclosing one.
func (e *Env) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Names returns every visible binding name, sorted.
func (e *Env) Names() []string {
	seen := make(map[string]bool)
	for env := e; env != nil; env = env.outer {
		for name := range env.store {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
