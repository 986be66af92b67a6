package evaluator

import (
	"github.com/funvibe/funxy-contracts/internal/evalerr"
	"github.com/funvibe/funxy-contracts/internal/term"
	"github.com/funvibe/funxy-contracts/internal/thunk"
)

// stuckDefault is the default function every plain (uncontracted)
// record is built with: accessing a field that was never there is a
// program bug, not a blame (spec §7, "Stuck term").
func stuckDefault(field string) (Value, error) {
	return nil, evalerr.NewStuck("record access", "no such field: %s", field)
}

func (ev *Evaluator) evalRecordLit(e *term.RecordLit, env *Environment) (Value, error) {
	fields := make([]RecordField, 0, len(e.Fields))
	seen := make(map[string]bool, len(e.Fields))
	for _, f := range e.Fields {
		name := f.Name
		if f.NameExpr != nil {
			keyVal, err := ev.Eval(f.NameExpr, env)
			if err != nil {
				return nil, err
			}
			keyStr, ok := keyVal.(*StrV)
			if !ok {
				return nil, evalerr.NewStuck("record literal", "dynamic field name is not a String: %s", keyVal.Type())
			}
			name = keyStr.Value
		}
		if seen[name] {
			// I4: field names within one record literal are unique.
			return nil, evalerr.NewStuck("record literal", "duplicate field name: %s", name)
		}
		seen[name] = true

		valExpr, valEnv := f.Value, env
		cell := thunk.New(func() (interface{}, error) {
			return ev.Eval(valExpr, valEnv)
		})
		fields = append(fields, RecordField{Name: name, Cell: cell})
	}
	return &RecordV{Fields: fields, evalDefault: stuckDefault}, nil
}

func (ev *Evaluator) evalStaticAccess(e *term.StaticAccess, env *Environment) (Value, error) {
	recVal, err := ev.Eval(e.Record, env)
	if err != nil {
		return nil, err
	}
	rec, ok := recVal.(*RecordV)
	if !ok {
		return nil, evalerr.NewStuck("field access", "not a record: %s", recVal.Type())
	}
	return rec.Access(e.Field)
}

func (ev *Evaluator) evalDynAccess(e *term.DynAccess, env *Environment) (Value, error) {
	recVal, err := ev.Eval(e.Record, env)
	if err != nil {
		return nil, err
	}
	rec, ok := recVal.(*RecordV)
	if !ok {
		return nil, evalerr.NewStuck("field access", "not a record: %s", recVal.Type())
	}
	keyVal, err := ev.Eval(e.Key, env)
	if err != nil {
		return nil, err
	}
	keyStr, ok := keyVal.(*StrV)
	if !ok {
		return nil, evalerr.NewStuck("dynamic field access", "key is not a String: %s", keyVal.Type())
	}
	return rec.Access(keyStr.Value)
}

func (ev *Evaluator) evalRecordRemove(e *term.RecordRemove, env *Environment) (Value, error) {
	recVal, err := ev.Eval(e.Record, env)
	if err != nil {
		return nil, err
	}
	rec, ok := recVal.(*RecordV)
	if !ok {
		return nil, evalerr.NewStuck("field removal", "not a record: %s", recVal.Type())
	}
	keyVal, err := ev.Eval(e.Key, env)
	if err != nil {
		return nil, err
	}
	keyStr, ok := keyVal.(*StrV)
	if !ok {
		return nil, evalerr.NewStuck("field removal", "key is not a String: %s", keyVal.Type())
	}
	return rec.Without(keyStr.Value), nil
}

func (ev *Evaluator) evalRecordExtend(e *term.RecordExtend, env *Environment) (Value, error) {
	recVal, err := ev.Eval(e.Record, env)
	if err != nil {
		return nil, err
	}
	rec, ok := recVal.(*RecordV)
	if !ok {
		return nil, evalerr.NewStuck("field extension", "not a record: %s", recVal.Type())
	}
	keyVal, err := ev.Eval(e.Key, env)
	if err != nil {
		return nil, err
	}
	keyStr, ok := keyVal.(*StrV)
	if !ok {
		return nil, evalerr.NewStuck("field extension", "key is not a String: %s", keyVal.Type())
	}
	valExpr, valEnv := e.Value, env
	cell := thunk.New(func() (interface{}, error) {
		return ev.Eval(valExpr, valEnv)
	})
	return rec.With(keyStr.Value, cell), nil
}

func (ev *Evaluator) evalSwitch(e *term.Switch, env *Environment) (Value, error) {
	scrutVal, err := ev.Eval(e.Scrutinee, env)
	if err != nil {
		return nil, err
	}
	tag, ok := scrutVal.(*EnumTagV)
	if !ok {
		return nil, evalerr.NewStuck("switch", "not an enum tag: %s", scrutVal.Type())
	}
	if branch, ok := e.Cases[tag.Tag]; ok {
		return ev.Eval(branch, env)
	}
	if e.Default != nil {
		return ev.Eval(e.Default, env)
	}
	return nil, evalerr.NewStuck("switch", "unmatched enum tag: %s", tag.Tag)
}
