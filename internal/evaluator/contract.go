package evaluator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/funxy-contracts/internal/evalerr"
	"github.com/funvibe/funxy-contracts/internal/label"
	"github.com/funvibe/funxy-contracts/internal/seal"
	"github.com/funvibe/funxy-contracts/internal/term"
	"github.com/funvibe/funxy-contracts/internal/thunk"
)

// Contract is an elaborated runtime check: given the label governing a
// boundary crossing and the cell about to cross it, it returns a new
// cell wrapping the original one. The wrapper cell is lazy — building
// it never forces arg; only forcing the *returned* cell runs the
// check, so `assume`/`promise` never change whether or when a value
// is demanded, only what happens when it is (spec §4.5, §4.1).
type Contract func(l label.Label, arg *thunk.Cell) *thunk.Cell

// tyEnv binds a TForall's bound type variable to the sealing contract
// generated for one particular application of that forall (spec §4.6).
// It is threaded through elaboration rather than substituted into the
// type tree, since the seal identity a TVar resolves to is only known
// once the enclosing forall's contract actually runs.
type tyEnv map[string]Contract

// Elaborate lowers a surface type into a runtime Contract (spec §4.5).
// env is the environment TFlat predicates close over; it has no effect
// on any other case. Contracts built from a closed, variable-free,
// predicate-free type are cached on the evaluator so that repeated
// `assume`s at the same type (e.g. inside a recursive function) do not
// re-walk the type tree on every call.
func (ev *Evaluator) Elaborate(t term.Type, env *Environment) (Contract, error) {
	if cacheable(t) {
		key := renderType(t)
		if c, ok := ev.contractCache[key]; ok {
			return c, nil
		}
		c, err := ev.elaborate(t, nil, env)
		if err != nil {
			return nil, err
		}
		ev.contractCache[key] = c
		return c, nil
	}
	return ev.elaborate(t, nil, env)
}

func (ev *Evaluator) elaborate(t term.Type, vars tyEnv, env *Environment) (Contract, error) {
	switch ty := t.(type) {
	case term.TDyn:
		return elaborateDyn(), nil
	case term.TNum:
		return elaborateBase(func(v Value) bool { _, ok := v.(*IntV); return ok }, "Num"), nil
	case term.TBool:
		return elaborateBase(func(v Value) bool { _, ok := v.(*BoolV); return ok }, "Bool"), nil
	case term.TStr:
		return elaborateBase(func(v Value) bool { _, ok := v.(*StrV); return ok }, "Str"), nil
	case term.TList:
		return ev.elaborateList(ty, vars, env)
	case term.TArrow:
		return ev.elaborateArrow(ty, vars, env)
	case term.TForall:
		return ev.elaborateForall(ty, vars, env)
	case term.TRecordClosed:
		return ev.elaborateRecordClosed(ty, vars, env)
	case term.TRecordOpen:
		return ev.elaborateRecordOpen(ty, vars, env)
	case term.TEnumRow:
		return elaborateEnumRow(ty), nil
	case term.TRowVar:
		// Open question (spec §9): an open enum row's tail variable has
		// no known tag set at this point. A row variable runs the
		// membership test a closed row performs, but against the empty
		// set, so every enum tag it checks is blamed. See DESIGN.md.
		return elaborateEnumRow(term.TEnumRow{}), nil
	case term.TVar:
		c, ok := vars[ty.Name]
		if !ok {
			return nil, fmt.Errorf("contract: free type variable %q", ty.Name)
		}
		return c, nil
	case term.TFlat:
		return ev.elaborateFlat(ty, env), nil
	default:
		return nil, fmt.Errorf("contract: unhandled type node %T", t)
	}
}

// elaborateDyn never forces arg: Dyn's contract always succeeds, and
// succeeding without even inspecting the value is what keeps `assume`
// on a Dyn-typed position from forcing anything (spec §4.5).
func elaborateDyn() Contract {
	return func(_ label.Label, arg *thunk.Cell) *thunk.Cell {
		return arg
	}
}

func elaborateBase(ok func(Value) bool, name string) Contract {
	return func(l label.Label, arg *thunk.Cell) *thunk.Cell {
		return thunk.New(func() (interface{}, error) {
			v, err := Force(arg)
			if err != nil {
				return nil, err
			}
			if !ok(v) {
				return nil, evalerr.NewBlame(l, "expected %s, got %s", name, v.Type())
			}
			return v, nil
		})
	}
}

func elaborateEnumRow(t term.TEnumRow) Contract {
	return func(l label.Label, arg *thunk.Cell) *thunk.Cell {
		return thunk.New(func() (interface{}, error) {
			v, err := Force(arg)
			if err != nil {
				return nil, err
			}
			tag, ok := v.(*EnumTagV)
			if !ok {
				return nil, evalerr.NewBlame(l, "expected enum tag, got %s", v.Type())
			}
			for _, want := range t.Tags {
				if want == tag.Tag {
					return tag, nil
				}
			}
			return nil, evalerr.NewBlame(l, "tag `%s is not a member of this enum", tag.Tag)
		})
	}
}

func (ev *Evaluator) elaborateList(t term.TList, vars tyEnv, env *Environment) (Contract, error) {
	elemContract, err := ev.elaborate(t.Elem, vars, env)
	if err != nil {
		return nil, err
	}
	return func(l label.Label, arg *thunk.Cell) *thunk.Cell {
		return thunk.New(func() (interface{}, error) {
			v, err := Force(arg)
			if err != nil {
				return nil, err
			}
			lst, ok := v.(*ListV)
			if !ok {
				return nil, evalerr.NewBlame(l, "expected List, got %s", v.Type())
			}
			elemLabel := l.WithTag("list element")
			elems := make([]*thunk.Cell, len(lst.Elements))
			for i, c := range lst.Elements {
				elems[i] = elemContract(elemLabel, c)
			}
			return &ListV{Elements: elems}, nil
		})
	}, nil
}

// elaborateArrow builds the higher-order function contract of
// spec §4.3/§4.5: wrapping a function in a new native function that
// checks the domain contract on the way in (crossing contravariantly,
// hence goDom) and the codomain contract on the way out (goCodom),
// blaming the indy context party rather than either original endpoint
// when one of those sub-contracts is what actually fails.
func (ev *Evaluator) elaborateArrow(t term.TArrow, vars tyEnv, env *Environment) (Contract, error) {
	domContract, err := ev.elaborate(t.Dom, vars, env)
	if err != nil {
		return nil, err
	}
	codContract, err := ev.elaborate(t.Cod, vars, env)
	if err != nil {
		return nil, err
	}
	return func(l label.Label, arg *thunk.Cell) *thunk.Cell {
		return thunk.New(func() (interface{}, error) {
			v, err := Force(arg)
			if err != nil {
				return nil, err
			}
			fn, ok := v.(Callable)
			if !ok {
				return nil, evalerr.NewBlame(l, "expected Function, got %s", v.Type())
			}
			wrapped := &NativeFunc{
				Name: "assumed",
				Fn: func(innerEv *Evaluator, a *thunk.Cell) (Value, error) {
					checkedArg := domContract(l.GoDom(), a)
					resultCell := thunk.New(func() (interface{}, error) {
						return innerEv.Apply(fn, checkedArg)
					})
					return Force(codContract(l.GoCodom(), resultCell))
				},
			}
			return wrapped, nil
		})
	}, nil
}

// elaborateForall implements parametricity via dynamic sealing
// (spec §4.6, §9 "Seal identities"): a fresh seal identity is minted
// per *application* of the forall contract, never per elaboration, so
// that two separate checks of a polymorphic value get distinct,
// mutually opaque identities. All calls through the function one check
// returns share that check's identity.
func (ev *Evaluator) elaborateForall(t term.TForall, vars tyEnv, env *Environment) (Contract, error) {
	return func(l label.Label, arg *thunk.Cell) *thunk.Cell {
		return thunk.New(func() (interface{}, error) {
			id := seal.New()
			nested := make(tyEnv, len(vars)+1)
			for k, v := range vars {
				nested[k] = v
			}
			nested[t.Binder] = sealingContract(id)
			bodyContract, err := ev.elaborate(t.Body, nested, env)
			if err != nil {
				return nil, err
			}
			return Force(bodyContract(l, arg))
		})
	}, nil
}

// sealingContract is the contract a type variable occurrence resolves
// to: at positive polarity a value of abstract type is hidden from the
// consumer by sealing it under id; at negative polarity a value
// flowing the other way must already be sealed under id, or the
// parametricity guarantee has been broken and the context party is
// blamed (spec §4.6).
func sealingContract(id seal.ID) Contract {
	return func(l label.Label, arg *thunk.Cell) *thunk.Cell {
		return thunk.New(func() (interface{}, error) {
			v, err := Force(arg)
			if err != nil {
				return nil, err
			}
			if l.Pol() {
				return &SealV{Payload: v, ID: id}, nil
			}
			sealed, ok := v.(*SealV)
			if !ok || !sealed.ID.Equal(id) {
				return nil, evalerr.NewBlame(l, "parametricity violation: value does not carry the expected seal")
			}
			return sealed.Payload, nil
		})
	}
}

// elaborateRecordClosed builds the closed record contract of spec
// §4.4: the value must have exactly the listed fields, each checked
// against its own contract; any other access — including on the
// resulting contracted record's own field set — blames (I3).
func (ev *Evaluator) elaborateRecordClosed(t term.TRecordClosed, vars tyEnv, env *Environment) (Contract, error) {
	fieldContracts := make(map[string]Contract, len(t.Fields))
	for _, ft := range t.Fields {
		c, err := ev.elaborate(ft.Type, vars, env)
		if err != nil {
			return nil, err
		}
		fieldContracts[ft.Name] = c
	}
	allowed := make(map[string]bool, len(t.Fields))
	for _, ft := range t.Fields {
		allowed[ft.Name] = true
	}
	return func(l label.Label, arg *thunk.Cell) *thunk.Cell {
		return thunk.New(func() (interface{}, error) {
			v, err := Force(arg)
			if err != nil {
				return nil, err
			}
			rec, ok := v.(*RecordV)
			if !ok {
				return nil, evalerr.NewBlame(l, "expected Record, got %s", v.Type())
			}
			for _, f := range rec.Fields {
				if !allowed[f.Name] {
					return nil, evalerr.NewBlame(l.GoField(f.Name), "unexpected field %q for a closed record contract", f.Name)
				}
			}
			fields := make([]RecordField, 0, len(t.Fields))
			for _, ft := range t.Fields {
				cell, ok := rec.Lookup(ft.Name)
				if !ok {
					return nil, evalerr.NewBlame(l.GoField(ft.Name), "missing field %q", ft.Name)
				}
				fields = append(fields, RecordField{
					Name: ft.Name,
					Cell: fieldContracts[ft.Name](l.GoField(ft.Name), cell),
				})
			}
			return &RecordV{Fields: fields, evalDefault: func(field string) (Value, error) {
				return nil, evalerr.NewBlame(l.GoField(field), "access to field %q not permitted by a closed record contract", field)
			}}, nil
		})
	}, nil
}

// elaborateRecordOpen builds the open record contract of spec §4.4:
// listed fields use their own contract, any other present field is
// checked against Default instead, and a field genuinely absent falls
// through to the record's own default behavior unchanged.
func (ev *Evaluator) elaborateRecordOpen(t term.TRecordOpen, vars tyEnv, env *Environment) (Contract, error) {
	fieldContracts := make(map[string]Contract, len(t.Fields))
	for _, ft := range t.Fields {
		c, err := ev.elaborate(ft.Type, vars, env)
		if err != nil {
			return nil, err
		}
		fieldContracts[ft.Name] = c
	}
	defaultContract, err := ev.elaborate(t.Default, vars, env)
	if err != nil {
		return nil, err
	}
	return func(l label.Label, arg *thunk.Cell) *thunk.Cell {
		return thunk.New(func() (interface{}, error) {
			v, err := Force(arg)
			if err != nil {
				return nil, err
			}
			rec, ok := v.(*RecordV)
			if !ok {
				return nil, evalerr.NewBlame(l, "expected Record, got %s", v.Type())
			}
			fields := make([]RecordField, 0, len(rec.Fields))
			for _, f := range rec.Fields {
				if fc, ok := fieldContracts[f.Name]; ok {
					fields = append(fields, RecordField{Name: f.Name, Cell: fc(l.GoField(f.Name), f.Cell)})
				} else {
					fields = append(fields, RecordField{Name: f.Name, Cell: defaultContract(l.GoField(f.Name), f.Cell)})
				}
			}
			return &RecordV{Fields: fields, evalDefault: rec.evalDefault}, nil
		})
	}, nil
}

// elaborateFlat lowers a predicate contract `#e`: each time a returned
// cell is forced, e is evaluated in the environment the assume/promise
// site closed over and applied to the argument. env is why flat contracts are
// excluded from the memoization cache (cacheable): the same type node
// elaborated from two different environments must not share a
// contract built from the wrong closure.
func (ev *Evaluator) elaborateFlat(t term.TFlat, env *Environment) Contract {
	return func(l label.Label, arg *thunk.Cell) *thunk.Cell {
		return thunk.New(func() (interface{}, error) {
			predVal, err := ev.Eval(t.Pred, env)
			if err != nil {
				return nil, err
			}
			pred, ok := predVal.(Callable)
			if !ok {
				return nil, evalerr.NewStuck("flat contract", "predicate is not a Function: %s", predVal.Type())
			}
			v, err := Force(arg)
			if err != nil {
				return nil, err
			}
			resultVal, err := ev.Apply(pred, BoxValue(v))
			if err != nil {
				return nil, err
			}
			b, ok := resultVal.(*BoolV)
			if !ok {
				return nil, evalerr.NewStuck("flat contract", "predicate did not return a Bool: %s", resultVal.Type())
			}
			if !b.Value {
				return nil, evalerr.NewBlame(l, "predicate contract failed")
			}
			return v, nil
		})
	}
}

// cacheable reports whether t's elaboration can be safely reused
// across calls: it must name no free type variable (whose contract
// depends on which forall application supplied it) and no flat
// predicate (whose contract depends on which environment it closed
// over).
func cacheable(t term.Type) bool {
	switch ty := t.(type) {
	case term.TDyn, term.TNum, term.TBool, term.TStr, term.TEnumRow, term.TRowVar:
		return true
	case term.TList:
		return cacheable(ty.Elem)
	case term.TArrow:
		return cacheable(ty.Dom) && cacheable(ty.Cod)
	case term.TForall:
		return cacheable(ty.Body)
	case term.TRecordClosed:
		for _, f := range ty.Fields {
			if !cacheable(f.Type) {
				return false
			}
		}
		return true
	case term.TRecordOpen:
		if !cacheable(ty.Default) {
			return false
		}
		for _, f := range ty.Fields {
			if !cacheable(f.Type) {
				return false
			}
		}
		return true
	case term.TVar, term.TFlat:
		return false
	default:
		return false
	}
}

// renderType renders t into a canonical string used as the contract
// cache key. It is only ever called on cacheable types, so no case
// needs to account for TVar/TFlat's external dependencies.
func renderType(t term.Type) string {
	switch ty := t.(type) {
	case term.TDyn:
		return "Dyn"
	case term.TNum:
		return "Num"
	case term.TBool:
		return "Bool"
	case term.TStr:
		return "Str"
	case term.TList:
		return "List(" + renderType(ty.Elem) + ")"
	case term.TArrow:
		return "(" + renderType(ty.Dom) + "->" + renderType(ty.Cod) + ")"
	case term.TForall:
		return "forall " + ty.Binder + "." + renderType(ty.Body)
	case term.TRecordClosed:
		return "{" + renderFields(ty.Fields) + "}"
	case term.TRecordOpen:
		return "{" + renderFields(ty.Fields) + "; " + renderType(ty.Default) + "}"
	case term.TEnumRow:
		tags := append([]string(nil), ty.Tags...)
		sort.Strings(tags)
		return "[|" + strings.Join(tags, ",") + "|]"
	case term.TRowVar:
		return "row:" + ty.Name
	default:
		return fmt.Sprintf("%T", t)
	}
}

func renderFields(fields []term.FieldType) string {
	names := make([]string, len(fields))
	byName := make(map[string]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
		byName[f.Name] = renderType(f.Type)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + ":" + byName[n]
	}
	return strings.Join(parts, ",")
}

func (ev *Evaluator) evalSeal(e *term.SealExpr, env *Environment) (Value, error) {
	identVal, err := ev.Eval(e.Ident, env)
	if err != nil {
		return nil, err
	}
	id, ok := identVal.(*SealIdentityV)
	if !ok {
		return nil, evalerr.NewStuck("seal", "identity operand is not a seal identity: %s", identVal.Type())
	}
	payload, err := ev.Eval(e.Payload, env)
	if err != nil {
		return nil, err
	}
	return &SealV{Payload: payload, ID: id.ID}, nil
}

func (ev *Evaluator) evalUnseal(e *term.UnsealExpr, env *Environment) (Value, error) {
	identVal, err := ev.Eval(e.Ident, env)
	if err != nil {
		return nil, err
	}
	id, ok := identVal.(*SealIdentityV)
	if !ok {
		return nil, evalerr.NewStuck("unseal", "identity operand is not a seal identity: %s", identVal.Type())
	}
	payload, err := ev.Eval(e.Payload, env)
	if err != nil {
		return nil, err
	}
	if sealed, ok := payload.(*SealV); ok && sealed.ID.Equal(id.ID) {
		return sealed.Payload, nil
	}
	return ev.Eval(e.Fallback, env)
}

// evalAssume evaluates a type-annotated term under the runtime check
// the contract elaborator lowers e.Type to (spec §4.5, contrasted with
// Promise's unchecked pass-through in evaluator.go).
func (ev *Evaluator) evalAssume(e *term.Assume, env *Environment) (Value, error) {
	labelVal, err := ev.Eval(e.Label, env)
	if err != nil {
		return nil, err
	}
	lbl, ok := labelVal.(*LabelV)
	if !ok {
		return nil, evalerr.NewStuck("assume", "label operand is not a Label: %s", labelVal.Type())
	}
	contract, err := ev.Elaborate(e.Type, env)
	if err != nil {
		return nil, err
	}
	termExpr, termEnv := e.Term, env
	argCell := thunk.New(func() (interface{}, error) {
		return ev.Eval(termExpr, termEnv)
	})
	return Force(contract(lbl.Value, argCell))
}
