package evaluator

import (
	"fmt"
	"strings"

	"github.com/funvibe/funxy-contracts/internal/label"
	"github.com/funvibe/funxy-contracts/internal/seal"
	"github.com/funvibe/funxy-contracts/internal/term"
	"github.com/funvibe/funxy-contracts/internal/thunk"
)

// ValueType names the weak-head-normal-form shape of a Value, mirroring
// the teacher's ObjectType (internal/evaluator/object.go).
type ValueType string

const (
	LAMBDA_VAL   ValueType = "LAMBDA"
	NATIVE_VAL   ValueType = "NATIVE_FUNC"
	INT_VAL      ValueType = "INT"
	BOOL_VAL     ValueType = "BOOL"
	STR_VAL      ValueType = "STRING"
	LABEL_VAL    ValueType = "LABEL"
	ENUM_VAL     ValueType = "ENUM_TAG"
	RECORD_VAL   ValueType = "RECORD"
	SEAL_VAL     ValueType = "SEAL"
	SEAL_ID_VAL  ValueType = "SEAL_ID"
	LIST_VAL     ValueType = "LIST"
)

// Value is the result of reducing an Expr to weak-head normal form.
// The only cases are the ones spec §4.2 lists as values: lambdas,
// numeric/boolean/string/label constants, enumeration tags, record
// values, and seal wrappers — plus lists and native functions, added
// to carry the §4.7 list primitives and the contract elaborator's
// generated wrappers (see the note after SPEC_FULL.md §2's component
// table on why the elaborator lives beside the evaluator instead of
// behind it).
type Value interface {
	Type() ValueType
	Inspect() string
}

// Callable is implemented by every Value that App can apply to an
// argument: user-level lambdas and the native functions the contract
// elaborator builds.
type Callable interface {
	Value
	call(ev *Evaluator, arg *thunk.Cell) (Value, error)
}

// Lambda is a user-level single-parameter closure.
type Lambda struct {
	Param string
	Body  term.Expr
	Env   *Environment
}

func (l *Lambda) Type() ValueType { return LAMBDA_VAL }
func (l *Lambda) Inspect() string { return fmt.Sprintf("<function %s>", l.Param) }
func (l *Lambda) call(ev *Evaluator, arg *thunk.Cell) (Value, error) {
	callEnv := NewEnclosedEnvironment(l.Env)
	callEnv.Bind(l.Param, arg)
	return ev.Eval(l.Body, callEnv)
}

// NativeFunc is a Go-implemented unary function value, used by the
// contract elaborator's generated function-contract wrappers
// (spec §4.5). Grounded in the teacher's
// Builtin object (internal/evaluator/object_primitives.go): a native
// function is itself a first-class callable value, not a
// re-interpreted AST fragment.
type NativeFunc struct {
	Name string
	Fn   func(ev *Evaluator, arg *thunk.Cell) (Value, error)
}

func (n *NativeFunc) Type() ValueType { return NATIVE_VAL }
func (n *NativeFunc) Inspect() string { return fmt.Sprintf("<native %s>", n.Name) }
func (n *NativeFunc) call(ev *Evaluator, arg *thunk.Cell) (Value, error) {
	return n.Fn(ev, arg)
}

// IntV is an integer constant.
type IntV struct{ Value int64 }

func (i *IntV) Type() ValueType { return INT_VAL }
func (i *IntV) Inspect() string { return fmt.Sprintf("%d", i.Value) }

// BoolV is a boolean constant.
type BoolV struct{ Value bool }

func (b *BoolV) Type() ValueType { return BOOL_VAL }
func (b *BoolV) Inspect() string { return fmt.Sprintf("%t", b.Value) }

var (
	True  = &BoolV{Value: true}
	False = &BoolV{Value: false}
)

func boolOf(v bool) *BoolV {
	if v {
		return True
	}
	return False
}

// StrV is a string constant.
type StrV struct{ Value string }

func (s *StrV) Type() ValueType { return STR_VAL }
func (s *StrV) Inspect() string { return fmt.Sprintf("%q", s.Value) }

// LabelV is a label value, first-class in the same universe as
// integers and lambdas (spec §9 "Labels as first-class values").
type LabelV struct{ Value label.Label }

func (l *LabelV) Type() ValueType { return LABEL_VAL }
func (l *LabelV) Inspect() string {
	return fmt.Sprintf("<label +%s -%s ctx=%q>", l.Value.Positive, l.Value.Negative, l.Value.Context)
}

// EnumTagV is an enumeration tag value.
type EnumTagV struct{ Tag string }

func (e *EnumTagV) Type() ValueType { return ENUM_VAL }
func (e *EnumTagV) Inspect() string { return "`" + e.Tag }

// ListV is an ordered, lazy list of thunk cells.
type ListV struct{ Elements []*thunk.Cell }

func (l *ListV) Type() ValueType { return LIST_VAL }
func (l *ListV) Inspect() string {
	parts := make([]string, len(l.Elements))
	for i, c := range l.Elements {
		v, err := Force(c)
		if err != nil {
			parts[i] = "<error>"
			continue
		}
		parts[i] = v.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// RecordField is one resolved entry of a record value.
type RecordField struct {
	Name string
	Cell *thunk.Cell
}

// RecordV is a record value: an ordered list of named thunks plus a
// default function invoked on missing-key access (spec §3 "Record
// value", I3, I4). evalDefault is a Go closure rather than a term.Expr
// to be re-evaluated, since its only two shapes in this core —
// "report a stuck field-missing error" or "blame a label" — never need
// to run arbitrary user code; see record.go and contract.go.
type RecordV struct {
	Fields      []RecordField
	evalDefault func(field string) (Value, error)
}

func (r *RecordV) Type() ValueType { return RECORD_VAL }
func (r *RecordV) Inspect() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		v, err := Force(f.Cell)
		rendered := "<error>"
		if err == nil {
			rendered = v.Inspect()
		}
		parts[i] = fmt.Sprintf("%s = %s", f.Name, rendered)
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

// Lookup returns the cell bound to name, if any.
func (r *RecordV) Lookup(name string) (*thunk.Cell, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Cell, true
		}
	}
	return nil, false
}

// Has reports whether name is a static entry of the record.
func (r *RecordV) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Without returns a new record value with name removed, if present.
func (r *RecordV) Without(name string) *RecordV {
	fields := make([]RecordField, 0, len(r.Fields))
	for _, f := range r.Fields {
		if f.Name != name {
			fields = append(fields, f)
		}
	}
	return &RecordV{Fields: fields, evalDefault: r.evalDefault}
}

// With returns a new record value with name bound to cell, shadowing
// any existing entry of the same name (spec §4.4, `$[f = v]`).
func (r *RecordV) With(name string, cell *thunk.Cell) *RecordV {
	fields := make([]RecordField, 0, len(r.Fields)+1)
	replaced := false
	for _, f := range r.Fields {
		if f.Name == name {
			fields = append(fields, RecordField{Name: name, Cell: cell})
			replaced = true
			continue
		}
		fields = append(fields, f)
	}
	if !replaced {
		fields = append(fields, RecordField{Name: name, Cell: cell})
	}
	return &RecordV{Fields: fields, evalDefault: r.evalDefault}
}

// Access looks up name, falling back to the default function on a
// miss (spec §4.4).
func (r *RecordV) Access(name string) (Value, error) {
	if cell, ok := r.Lookup(name); ok {
		return Force(cell)
	}
	if r.evalDefault != nil {
		return r.evalDefault(name)
	}
	return nil, fmt.Errorf("record has no default function")
}

// SealV is an opaque sealed value, bound to a seal identity (spec §3
// "Sealed value", §4.6).
type SealV struct {
	Payload Value
	ID      seal.ID
}

func (s *SealV) Type() ValueType { return SEAL_VAL }
func (s *SealV) Inspect() string { return fmt.Sprintf("<sealed %s>", s.ID) }

// SealIdentityV is a bare seal identity, the handle `NewSeal` produces
// and `SealExpr`/`UnsealExpr` consume. It carries no payload of its
// own — it is the key, not the lock.
type SealIdentityV struct{ ID seal.ID }

func (s *SealIdentityV) Type() ValueType { return SEAL_ID_VAL }
func (s *SealIdentityV) Inspect() string { return fmt.Sprintf("<seal-id %s>", s.ID) }

// Force forces a cell and asserts the result back to a Value, the one
// place evaluator reaches across the untyped thunk boundary.
func Force(c *thunk.Cell) (Value, error) {
	v, err := c.Force()
	if err != nil {
		return nil, err
	}
	val, ok := v.(Value)
	if !ok {
		return nil, fmt.Errorf("thunk cell did not hold an evaluator.Value")
	}
	return val, nil
}

// BoxValue wraps an already-reduced Value in an evaluated thunk cell.
func BoxValue(v Value) *thunk.Cell {
	return thunk.NewEvaluated(v)
}
