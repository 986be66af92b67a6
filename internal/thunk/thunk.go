// Package thunk implements the shared mutable evaluation cell behind
// call-by-need reduction: a cell that starts out holding a suspended
// computation and is overwritten, at most once, with its result
// (spec §4.1, §9 "Thunk").
//
// The cell is deliberately untyped (its payload is an interface{}) so
// that it has no import-time dependency on the evaluator's value
// representation; package evaluator stores its own Value behind the
// interface{} and asserts it back out. This mirrors the way the
// teacher's Environment is decoupled from any single Object
// implementation — here carried one step further so the thunk graph
// and the term/value algebras can be read independently of each
// other.
package thunk

import "fmt"

// State is the three-state lifecycle of a cell (spec §4.8).
type State int

const (
	Unevaluated State = iota
	Forcing
	Evaluated
)

func (s State) String() string {
	switch s {
	case Unevaluated:
		return "unevaluated"
	case Forcing:
		return "forcing"
	case Evaluated:
		return "evaluated"
	default:
		return "invalid"
	}
}

// Compute produces the value a cell will hold once forced.
type Compute func() (interface{}, error)

// Cell is a shared, mutable, one-shot evaluation cell. The zero value
// is not usable; construct with New, NewEvaluated or NewRecursive.
type Cell struct {
	state   State
	value   interface{}
	compute Compute
}

// New boxes an unevaluated computation in a fresh cell.
func New(compute Compute) *Cell {
	return &Cell{state: Unevaluated, compute: compute}
}

// NewEvaluated boxes an already-known value, skipping the Unevaluated
// state entirely (used for thunk-boundaries around values that are
// already in weak-head normal form, so forcing never recomputes).
func NewEvaluated(v interface{}) *Cell {
	return &Cell{state: Evaluated, value: v}
}

// NewRecursive returns an empty cell with no computation attached yet.
// The caller binds the cell into an environment first, then calls Bind
// with an expression that may look itself up through that same
// environment entry — the self-reference is realized by the shared
// cell identity, not by a cycle in the expression tree (spec §9).
func NewRecursive() *Cell {
	return &Cell{state: Unevaluated}
}

// Bind attaches the deferred computation to a cell created with
// NewRecursive. It is a programming error to call Bind on a cell that
// already has a computation or value.
func (c *Cell) Bind(compute Compute) {
	if c.compute != nil || c.state != Unevaluated {
		panic("thunk: Bind called on a cell that is not fresh")
	}
	c.compute = compute
}

// State reports the cell's current lifecycle state.
func (c *Cell) State() State { return c.state }

// Force reduces the cell's computation to a value and caches the result
// (I1: "every thunk is evaluated at most once"). Once a computation has
// succeeded, later calls return the cached value without recomputing;
// a computation that returns an error is not cached, and the next call
// runs it again.
//
// A cell entered while already Forcing can only happen through a
// genuine cycle (spec's example: `let x = x in x`). spec §4.1 permits
// the evaluator to diverge rather than detect this, but an undetected
// cycle here would recurse the Go call stack without bound and crash
// the process instead of terminating the evaluation in a reported
// error. We detect the reentry and fail safely instead — a deliberate,
// documented deviation that trades "non-terminating computation" for
// "reported error", never corrupting the cell either way.
func (c *Cell) Force() (interface{}, error) {
	switch c.state {
	case Evaluated:
		return c.value, nil
	case Forcing:
		return nil, fmt.Errorf("thunk: cyclic forcing detected")
	case Unevaluated:
		if c.compute == nil {
			return nil, fmt.Errorf("thunk: forced a cell with no computation attached")
		}
		c.state = Forcing
		v, err := c.compute()
		if err != nil {
			// Leave the cell retryable: the failed attempt produced no
			// value, so a later force (e.g. after a caller decides to
			// retry) is not observing a corrupted cell.
			c.state = Unevaluated
			return nil, err
		}
		c.value = v
		c.compute = nil
		c.state = Evaluated
		return v, nil
	default:
		return nil, fmt.Errorf("thunk: invalid state")
	}
}
