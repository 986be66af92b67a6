package evaluator

import (
	"github.com/funvibe/funxy-contracts/internal/evalerr"
	"github.com/funvibe/funxy-contracts/internal/term"
	"github.com/funvibe/funxy-contracts/internal/thunk"
)

// evalPrimBinary forces both operands then dispatches by opcode
// (spec §4.2, "strict in arguments").
func (ev *Evaluator) evalPrimBinary(e *term.PrimBinary, env *Environment) (Value, error) {
	left, err := ev.Eval(e.Left, env)
	if err != nil {
		return nil, err
	}

	// seq/deepSeq force only the left operand eagerly and otherwise
	// behave as a pass-through to the right operand; every other
	// binary op forces both.
	switch e.Op {
	case term.OpSeq:
		return ev.Eval(e.Right, env)
	case term.OpDeepSeq:
		if err := deepForce(left); err != nil {
			return nil, err
		}
		return ev.Eval(e.Right, env)
	}

	right, err := ev.Eval(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case term.OpAdd, term.OpSub, term.OpMul, term.OpDiv, term.OpMod:
		return evalArith(e.Op, left, right)
	case term.OpStrConcat:
		l, ok1 := left.(*StrV)
		r, ok2 := right.(*StrV)
		if !ok1 || !ok2 {
			return nil, evalerr.NewStuck("++", "operands must be String, got %s and %s", left.Type(), right.Type())
		}
		return &StrV{Value: l.Value + r.Value}, nil
	case term.OpListCat:
		l, ok1 := left.(*ListV)
		r, ok2 := right.(*ListV)
		if !ok1 || !ok2 {
			return nil, evalerr.NewStuck("@", "operands must be List, got %s and %s", left.Type(), right.Type())
		}
		elems := make([]*thunk.Cell, 0, len(l.Elements)+len(r.Elements))
		elems = append(elems, l.Elements...)
		elems = append(elems, r.Elements...)
		return &ListV{Elements: elems}, nil
	case term.OpEq:
		eq, err := ev.valuesEqual(left, right)
		if err != nil {
			return nil, err
		}
		return boolOf(eq), nil
	case term.OpLt, term.OpLe, term.OpGt, term.OpGe:
		return evalCompare(e.Op, left, right)
	case term.OpGoField:
		lbl, ok := left.(*LabelV)
		field, ok2 := right.(*StrV)
		if !ok || !ok2 {
			return nil, evalerr.NewStuck("goField", "expected (Label, String)")
		}
		return &LabelV{Value: lbl.Value.GoField(field.Value)}, nil
	case term.OpHasField:
		rec, ok := left.(*RecordV)
		field, ok2 := right.(*StrV)
		if !ok || !ok2 {
			return nil, evalerr.NewStuck("hasField", "expected (Record, String)")
		}
		return boolOf(rec.Has(field.Value)), nil
	case term.OpMap:
		fn, ok := left.(Callable)
		list, ok2 := right.(*ListV)
		if !ok || !ok2 {
			return nil, evalerr.NewStuck("map", "expected (Function, List)")
		}
		return ev.mapList(fn, list), nil
	case term.OpElemAt:
		list, ok := left.(*ListV)
		idx, ok2 := right.(*IntV)
		if !ok || !ok2 {
			return nil, evalerr.NewStuck("elemAt", "expected (List, Int)")
		}
		if idx.Value < 0 || idx.Value >= int64(len(list.Elements)) {
			return nil, evalerr.NewStuck("elemAt", "index out of range: %d", idx.Value)
		}
		return Force(list.Elements[idx.Value])
	case term.OpMapRec:
		fn, ok := left.(Callable)
		rec, ok2 := right.(*RecordV)
		if !ok || !ok2 {
			return nil, evalerr.NewStuck("mapRec", "expected (Function, Record)")
		}
		return ev.mapRecord(fn, rec), nil
	case term.OpMerge:
		l, ok := left.(*RecordV)
		r, ok2 := right.(*RecordV)
		if !ok || !ok2 {
			return nil, evalerr.NewStuck("merge", "expected (Record, Record)")
		}
		return ev.mergeRecords(l, r)
	default:
		return nil, evalerr.NewStuck("eval", "unhandled binary primitive: %s", e.Op)
	}
}

func evalArith(op term.BinaryOp, left, right Value) (Value, error) {
	l, ok1 := left.(*IntV)
	r, ok2 := right.(*IntV)
	if !ok1 || !ok2 {
		return nil, evalerr.NewStuck(string(op), "operands must be Int, got %s and %s", left.Type(), right.Type())
	}
	switch op {
	case term.OpAdd:
		return &IntV{Value: l.Value + r.Value}, nil
	case term.OpSub:
		return &IntV{Value: l.Value - r.Value}, nil
	case term.OpMul:
		return &IntV{Value: l.Value * r.Value}, nil
	case term.OpDiv:
		if r.Value == 0 {
			return nil, evalerr.NewStuck("/", "division by zero")
		}
		return &IntV{Value: l.Value / r.Value}, nil
	case term.OpMod:
		if r.Value == 0 {
			return nil, evalerr.NewStuck("%", "division by zero")
		}
		return &IntV{Value: l.Value % r.Value}, nil
	default:
		return nil, evalerr.NewStuck(string(op), "not an arithmetic op")
	}
}

func evalCompare(op term.BinaryOp, left, right Value) (Value, error) {
	l, ok1 := left.(*IntV)
	r, ok2 := right.(*IntV)
	if !ok1 || !ok2 {
		return nil, evalerr.NewStuck(string(op), "operands must be Int, got %s and %s", left.Type(), right.Type())
	}
	switch op {
	case term.OpLt:
		return boolOf(l.Value < r.Value), nil
	case term.OpLe:
		return boolOf(l.Value <= r.Value), nil
	case term.OpGt:
		return boolOf(l.Value > r.Value), nil
	case term.OpGe:
		return boolOf(l.Value >= r.Value), nil
	default:
		return nil, evalerr.NewStuck(string(op), "not a comparison op")
	}
}

// valuesEqual implements structural equality over the value algebra,
// forcing nested thunks as needed. Sealed values and functions are
// never equal to anything (opacity, spec §4.6).
func (ev *Evaluator) valuesEqual(left, right Value) (bool, error) {
	if left.Type() != right.Type() {
		return false, nil
	}
	switch l := left.(type) {
	case *IntV:
		return l.Value == right.(*IntV).Value, nil
	case *BoolV:
		return l.Value == right.(*BoolV).Value, nil
	case *StrV:
		return l.Value == right.(*StrV).Value, nil
	case *EnumTagV:
		return l.Tag == right.(*EnumTagV).Tag, nil
	case *ListV:
		r := right.(*ListV)
		if len(l.Elements) != len(r.Elements) {
			return false, nil
		}
		for i := range l.Elements {
			lv, err := Force(l.Elements[i])
			if err != nil {
				return false, err
			}
			rv, err := Force(r.Elements[i])
			if err != nil {
				return false, err
			}
			eq, err := ev.valuesEqual(lv, rv)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case *RecordV:
		r := right.(*RecordV)
		if len(l.Fields) != len(r.Fields) {
			return false, nil
		}
		for _, f := range l.Fields {
			rc, ok := r.Lookup(f.Name)
			if !ok {
				return false, nil
			}
			lv, err := Force(f.Cell)
			if err != nil {
				return false, err
			}
			rv, err := Force(rc)
			if err != nil {
				return false, err
			}
			eq, err := ev.valuesEqual(lv, rv)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	default:
		return false, nil
	}
}

func (ev *Evaluator) mapList(fn Callable, list *ListV) *ListV {
	elems := make([]*thunk.Cell, len(list.Elements))
	for i, c := range list.Elements {
		c := c
		elems[i] = thunk.New(func() (interface{}, error) {
			return ev.Apply(fn, c)
		})
	}
	return &ListV{Elements: elems}
}

// mapRecord applies fn, curried as field-name then value, to every
// field of rec and returns a record of the results, following
// Nickel's `recordMap`-style signature.
func (ev *Evaluator) mapRecord(fn Callable, rec *RecordV) *RecordV {
	fields := make([]RecordField, len(rec.Fields))
	for i, f := range rec.Fields {
		name, cell := f.Name, f.Cell
		fields[i] = RecordField{
			Name: name,
			Cell: thunk.New(func() (interface{}, error) {
				partial, err := ev.Apply(fn, BoxValue(&StrV{Value: name}))
				if err != nil {
					return nil, err
				}
				partialFn, ok := partial.(Callable)
				if !ok {
					return nil, evalerr.NewStuck("mapRec", "function did not return a function on first argument")
				}
				return ev.Apply(partialFn, cell)
			}),
		}
	}
	return &RecordV{Fields: fields, evalDefault: rec.evalDefault}
}

// mergeRecords implements a structural merge: fields present in only
// one side pass through unchanged; fields present in both recursively
// merge if both sides are records, and otherwise conflict. This is a
// deliberately smaller relative of the teacher's Nickel ancestor's
// `merge.rs`, which additionally reconciles metadata (defaults,
// optionality, contracts stacked at merge time) that this core's much
// smaller record model has no room for; see DESIGN.md.
func (ev *Evaluator) mergeRecords(l, r *RecordV) (Value, error) {
	result := l
	for _, rf := range r.Fields {
		if lc, ok := result.Lookup(rf.Name); ok {
			lv, err := Force(lc)
			if err != nil {
				return nil, err
			}
			rv, err := Force(rf.Cell)
			if err != nil {
				return nil, err
			}
			lRec, lOk := lv.(*RecordV)
			rRec, rOk := rv.(*RecordV)
			if lOk && rOk {
				merged, err := ev.mergeRecords(lRec, rRec)
				if err != nil {
					return nil, err
				}
				result = result.With(rf.Name, BoxValue(merged))
				continue
			}
			return nil, evalerr.NewStuck("merge", "conflicting field %q", rf.Name)
		}
		result = result.With(rf.Name, rf.Cell)
	}
	return result, nil
}

// deepForce recursively forces through records, lists and the value
// itself (spec §4.7, `deepSeq`).
func deepForce(v Value) error {
	switch val := v.(type) {
	case *RecordV:
		for _, f := range val.Fields {
			fv, err := Force(f.Cell)
			if err != nil {
				return err
			}
			if err := deepForce(fv); err != nil {
				return err
			}
		}
	case *ListV:
		for _, c := range val.Elements {
			ev, err := Force(c)
			if err != nil {
				return err
			}
			if err := deepForce(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
