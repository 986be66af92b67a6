package evaluator

import (
	"sort"

	"github.com/funvibe/funxy-contracts/internal/evalerr"
	"github.com/funvibe/funxy-contracts/internal/term"
	"github.com/funvibe/funxy-contracts/internal/thunk"
)

func (ev *Evaluator) evalPrimUnary(e *term.PrimUnary, env *Environment) (Value, error) {
	operand, err := ev.Eval(e.Operand, env)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case term.OpIsZero:
		i, ok := operand.(*IntV)
		return boolOf(ok && i.Value == 0), nil
	case term.OpIsNum:
		_, ok := operand.(*IntV)
		return boolOf(ok), nil
	case term.OpIsBool:
		_, ok := operand.(*BoolV)
		return boolOf(ok), nil
	case term.OpIsStr:
		_, ok := operand.(*StrV)
		return boolOf(ok), nil
	case term.OpIsFun:
		_, ok := operand.(Callable)
		return boolOf(ok), nil
	case term.OpIsList:
		_, ok := operand.(*ListV)
		return boolOf(ok), nil
	case term.OpIsRecord:
		_, ok := operand.(*RecordV)
		return boolOf(ok), nil
	case term.OpIsEnumIn:
		tag, ok := operand.(*EnumTagV)
		if !ok {
			return False, nil
		}
		for _, t := range e.Rows {
			if t == tag.Tag {
				return True, nil
			}
		}
		return False, nil
	case term.OpBlame:
		lbl, ok := operand.(*LabelV)
		if !ok {
			return nil, evalerr.NewStuck("blame", "operand is not a Label: %s", operand.Type())
		}
		return nil, &evalerr.BlameError{Label: lbl.Value}
	case term.OpChngPol:
		lbl, ok := operand.(*LabelV)
		if !ok {
			return nil, evalerr.NewStuck("chngPol", "operand is not a Label: %s", operand.Type())
		}
		return &LabelV{Value: lbl.Value.ChngPol()}, nil
	case term.OpPolarity:
		lbl, ok := operand.(*LabelV)
		if !ok {
			return nil, evalerr.NewStuck("polarity", "operand is not a Label: %s", operand.Type())
		}
		return boolOf(lbl.Value.Pol()), nil
	case term.OpGoDom:
		lbl, ok := operand.(*LabelV)
		if !ok {
			return nil, evalerr.NewStuck("goDom", "operand is not a Label: %s", operand.Type())
		}
		return &LabelV{Value: lbl.Value.GoDom()}, nil
	case term.OpGoCodom:
		lbl, ok := operand.(*LabelV)
		if !ok {
			return nil, evalerr.NewStuck("goCodom", "operand is not a Label: %s", operand.Type())
		}
		return &LabelV{Value: lbl.Value.GoCodom()}, nil
	case term.OpTag:
		lbl, ok := operand.(*LabelV)
		if !ok {
			return nil, evalerr.NewStuck("tag", "operand is not a Label: %s", operand.Type())
		}
		return &LabelV{Value: lbl.Value.WithTag(e.Tag)}, nil
	case term.OpNot:
		b, ok := operand.(*BoolV)
		if !ok {
			return nil, evalerr.NewStuck("!", "operand is not a Bool: %s", operand.Type())
		}
		return boolOf(!b.Value), nil
	case term.OpHead:
		l, ok := operand.(*ListV)
		if !ok {
			return nil, evalerr.NewStuck("head", "operand is not a List: %s", operand.Type())
		}
		if len(l.Elements) == 0 {
			return nil, evalerr.NewStuck("head", "empty list")
		}
		return Force(l.Elements[0])
	case term.OpTail:
		l, ok := operand.(*ListV)
		if !ok {
			return nil, evalerr.NewStuck("tail", "operand is not a List: %s", operand.Type())
		}
		if len(l.Elements) == 0 {
			return nil, evalerr.NewStuck("tail", "empty list")
		}
		return &ListV{Elements: l.Elements[1:]}, nil
	case term.OpLength:
		l, ok := operand.(*ListV)
		if !ok {
			return nil, evalerr.NewStuck("length", "operand is not a List: %s", operand.Type())
		}
		return &IntV{Value: int64(len(l.Elements))}, nil
	case term.OpEmbed:
		tag, ok := operand.(*EnumTagV)
		if !ok {
			return nil, evalerr.NewStuck("embed", "operand is not an enum tag: %s", operand.Type())
		}
		return tag, nil
	case term.OpFieldsOf:
		r, ok := operand.(*RecordV)
		if !ok {
			return nil, evalerr.NewStuck("fieldsOf", "operand is not a Record: %s", operand.Type())
		}
		names := make([]string, len(r.Fields))
		for i, f := range r.Fields {
			names[i] = f.Name
		}
		sort.Strings(names)
		elems := make([]*thunk.Cell, len(names))
		for i, n := range names {
			elems[i] = BoxValue(&StrV{Value: n})
		}
		return &ListV{Elements: elems}, nil
	default:
		return nil, evalerr.NewStuck("eval", "unhandled unary primitive: %s", e.Op)
	}
}
