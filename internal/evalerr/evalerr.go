// Package evalerr defines the three-way error taxonomy of spec §7:
// blame, stuck terms and unbound variables. All three are ordinary Go
// errors returned explicitly by the evaluator; none are recovered
// inside the core (spec §7's propagation policy).
package evalerr

import (
	"fmt"

	"github.com/funvibe/funxy-contracts/internal/label"
)

// BlameError is raised when a contract is violated. The accused party
// is whichever of Label.Positive/Label.Negative the label's current
// polarity selects; Label.Context names the party blamed instead, for
// indy-style sub-contract failures at a function or record boundary.
type BlameError struct {
	Label label.Label
	// Message is an optional human-readable explanation (e.g. which
	// shape predicate failed, which field was missing).
	Message string
}

func (e *BlameError) Error() string {
	accused := e.Label.Accused()
	if e.Label.Context != "" {
		accused = e.Label.Context
	}
	if e.Message != "" {
		return fmt.Sprintf("blame: %s (%s)", accused, e.Message)
	}
	return fmt.Sprintf("blame: %s", accused)
}

// NewBlame builds a BlameError from a label and a formatted message.
// The label is stored unchanged; Error applies the indy rule that a
// context party (if set) is blamed instead of either label endpoint.
func NewBlame(l label.Label, format string, args ...interface{}) *BlameError {
	return &BlameError{Label: l, Message: fmt.Sprintf(format, args...)}
}

// StuckError is raised when a primitive operation is applied to
// arguments of the wrong shape without having gone through a contract
// check first: a program bug, not a blame, and must be distinguishable
// from one (spec §7).
type StuckError struct {
	Op      string
	Message string
}

func (e *StuckError) Error() string {
	return fmt.Sprintf("stuck term: %s: %s", e.Op, e.Message)
}

// NewStuck builds a StuckError for primitive op op.
func NewStuck(op, format string, args ...interface{}) *StuckError {
	return &StuckError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// UnboundVarError is raised when a free variable survives all
// substitutions and is forced; unrecoverable (spec §7).
type UnboundVarError struct {
	Name string
}

func (e *UnboundVarError) Error() string {
	return fmt.Sprintf("unbound variable: %s", e.Name)
}
