// Package evaluator implements the weak-head reduction engine of the
// contract language: the term-to-value dispatch (this file), the
// thunk-backed environment (environment.go), the value algebra
// (value.go), the primitive operation table (primitives_unary.go,
// primitives_binary.go), the record engine (record.go) and the
// contract elaborator (contract.go). It is the direct analogue of the
// teacher's own internal/evaluator package, restructured around an
// explicit thunk graph instead of the teacher's eager internal
// representation.
package evaluator

import (
	"github.com/funvibe/funxy-contracts/internal/evalerr"
	"github.com/funvibe/funxy-contracts/internal/label"
	"github.com/funvibe/funxy-contracts/internal/seal"
	"github.com/funvibe/funxy-contracts/internal/term"
	"github.com/funvibe/funxy-contracts/internal/thunk"
)

// Evaluator carries the state threaded through reduction: the
// monotonically increasing step counter used only for the CLI
// collaborator's observability report (SPEC_FULL.md, "Added:
// reduction-step counter"), and the cache of elaborated contracts
// (contract.go). Neither changes the value an expression reduces to.
type Evaluator struct {
	Steps uint64

	contractCache map[string]Contract
}

// New returns a fresh evaluator with an empty contract cache.
func New() *Evaluator {
	return &Evaluator{contractCache: make(map[string]Contract)}
}

// Eval reduces expr to weak-head normal form in env (spec §4.2).
func (ev *Evaluator) Eval(expr term.Expr, env *Environment) (Value, error) {
	ev.Steps++
	switch e := expr.(type) {
	case *term.IntLit:
		return &IntV{Value: e.Value}, nil
	case *term.BoolLit:
		return boolOf(e.Value), nil
	case *term.StrLit:
		return &StrV{Value: e.Value}, nil
	case *term.Func:
		return &Lambda{Param: e.Param, Body: e.Body, Env: env}, nil
	case *term.Var:
		cell, ok := env.Get(e.Name)
		if !ok {
			return nil, &evalerr.UnboundVarError{Name: e.Name}
		}
		return Force(cell)
	case *term.ThunkRef:
		return Force(e.Cell)
	case *term.App:
		return ev.evalApp(e, env)
	case *term.Let:
		return ev.evalLet(e, env)
	case *term.If:
		return ev.evalIf(e, env)
	case *term.PrimUnary:
		return ev.evalPrimUnary(e, env)
	case *term.PrimBinary:
		return ev.evalPrimBinary(e, env)
	case *term.ListLit:
		return ev.evalListLit(e, env)
	case *term.RecordLit:
		return ev.evalRecordLit(e, env)
	case *term.StaticAccess:
		return ev.evalStaticAccess(e, env)
	case *term.DynAccess:
		return ev.evalDynAccess(e, env)
	case *term.RecordRemove:
		return ev.evalRecordRemove(e, env)
	case *term.RecordExtend:
		return ev.evalRecordExtend(e, env)
	case *term.EnumTag:
		return &EnumTagV{Tag: e.Tag}, nil
	case *term.Switch:
		return ev.evalSwitch(e, env)
	case *term.LabelLit:
		return &LabelV{Value: label.New(e.Positive, e.Negative)}, nil
	case *term.NewSeal:
		return &SealIdentityV{ID: seal.New()}, nil
	case *term.SealExpr:
		return ev.evalSeal(e, env)
	case *term.UnsealExpr:
		return ev.evalUnseal(e, env)
	case *term.Promise:
		// No runtime check: reduce straight through (spec §3, "promise
		// ... no runtime check").
		return ev.Eval(e.Term, env)
	case *term.Assume:
		return ev.evalAssume(e, env)
	default:
		return nil, evalerr.NewStuck("eval", "unhandled expression node %T", e)
	}
}

func (ev *Evaluator) evalApp(e *term.App, env *Environment) (Value, error) {
	fnVal, err := ev.Eval(e.Fn, env)
	if err != nil {
		return nil, err
	}
	callable, ok := fnVal.(Callable)
	if !ok {
		return nil, evalerr.NewStuck("application", "not a function: %s", fnVal.Type())
	}
	argExpr, argEnv := e.Arg, env
	argCell := thunk.New(func() (interface{}, error) {
		return ev.Eval(argExpr, argEnv)
	})
	return ev.Apply(callable, argCell)
}

// Apply applies a callable value to an argument thunk; it is the one
// entry point the contract elaborator's generated wrappers use to call
// back into a protected function (spec §4.5's `t (...)` applications).
func (ev *Evaluator) Apply(fn Callable, arg *thunk.Cell) (Value, error) {
	return fn.call(ev, arg)
}

func (ev *Evaluator) evalLet(e *term.Let, env *Environment) (Value, error) {
	letEnv := NewEnclosedEnvironment(env)
	if e.Rec {
		// Recursive binding: the cell is registered in letEnv before its
		// defining expression is attached, so the expression can look
		// itself up through the same environment entry instead of
		// requiring a cycle in the expression tree (spec §9).
		cell := thunk.NewRecursive()
		letEnv.Bind(e.Name, cell)
		valueExpr := e.Value
		cell.Bind(func() (interface{}, error) {
			return ev.Eval(valueExpr, letEnv)
		})
	} else {
		valueExpr, bindEnv := e.Value, env
		cell := thunk.New(func() (interface{}, error) {
			return ev.Eval(valueExpr, bindEnv)
		})
		letEnv.Bind(e.Name, cell)
	}
	return ev.Eval(e.Body, letEnv)
}

func (ev *Evaluator) evalIf(e *term.If, env *Environment) (Value, error) {
	condVal, err := ev.Eval(e.Cond, env)
	if err != nil {
		return nil, err
	}
	b, ok := condVal.(*BoolV)
	if !ok {
		return nil, evalerr.NewStuck("if", "condition is not a Bool: %s", condVal.Type())
	}
	if b.Value {
		return ev.Eval(e.Then, env)
	}
	return ev.Eval(e.Else, env)
}

func (ev *Evaluator) evalListLit(e *term.ListLit, env *Environment) (Value, error) {
	elems := make([]*thunk.Cell, len(e.Elements))
	for i, elExpr := range e.Elements {
		elExpr, env := elExpr, env
		elems[i] = thunk.New(func() (interface{}, error) {
			return ev.Eval(elExpr, env)
		})
	}
	return &ListV{Elements: elems}, nil
}
