package evaluator

import "github.com/funvibe/funxy-contracts/internal/thunk"

// Environment maps variable names to the shared thunk cell they were
// bound to, with lookup falling through to an enclosing scope. This is
// the teacher's own Environment shape (internal/evaluator/environment.go)
// with one change: it stores *thunk.Cell instead of Object directly,
// since this evaluator's laziness is explicit (spec §4.1) rather than
// the teacher's eager-by-default one, and it drops the sync.RWMutex —
// this evaluator is single-threaded by design (SPEC_FULL.md §5), and
// the teacher only pays for the lock because its VM backend shares
// environments across goroutines.
type Environment struct {
	store map[string]*thunk.Cell
	outer *Environment
}

// NewEnvironment returns an empty top-level environment.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]*thunk.Cell)}
}

// NewEnclosedEnvironment returns an environment nested inside outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: make(map[string]*thunk.Cell), outer: outer}
}

// Get looks up name, searching outward through enclosing scopes.
func (e *Environment) Get(name string) (*thunk.Cell, bool) {
	cell, ok := e.store[name]
	if !ok && e.outer != nil {
		return e.outer.Get(name)
	}
	return cell, ok
}

// Bind binds name to cell in this environment (shadowing any binding
// of the same name in an enclosing scope).
func (e *Environment) Bind(name string, cell *thunk.Cell) {
	e.store[name] = cell
}
