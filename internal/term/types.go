package term

// Type is any node of the type algebra (spec §3 "Type"). Every type is
// lowered by the contract elaborator (package evaluator, contract.go)
// into a runtime check; there is no separate static inference pass
// (spec's Non-goal).
type Type interface {
	typeNode()
}

// TDyn is the dynamic type: its contract always succeeds (spec §4.5).
type TDyn struct{}

// TNum, TBool, TStr are the base shape-checked types.
type TNum struct{}
type TBool struct{}
type TStr struct{}

// TList is a list of a single element type, contract-checked
// elementwise.
type TList struct{ Elem Type }

// TArrow is a function type; its contract is the higher-order wrapper
// of spec §4.5/§4.3.
type TArrow struct {
	Dom, Cod Type
}

// TForall is a universally quantified type; Binder is the bound type
// variable's name, enforced dynamically via the seal table (spec §4.6).
type TForall struct {
	Binder string
	Body   Type
}

// FieldType pairs a record field name with the type its value must
// satisfy.
type FieldType struct {
	Name string
	Type Type
}

// TRecordClosed is a closed record contract: the value must have
// exactly these fields (spec §4.4).
type TRecordClosed struct {
	Fields []FieldType
}

// TRecordOpen is an open record contract: named fields use their own
// contract, every other field uses Default (spec §4.4).
type TRecordOpen struct {
	Default Type
	Fields  []FieldType
}

// TEnumRow is a closed enumeration row: the value must be one of Tags.
type TEnumRow struct {
	Tags []string
}

// TRowVar is a row type variable, used in open enum rows left for
// future refinement per spec §9's open question; mirrors the closed
// case's membership test until that is resolved (see DESIGN.md).
type TRowVar struct{ Name string }

// TVar is an occurrence of a type variable bound by an enclosing
// TForall. The distilled spec's Type variant has no such case, but the
// original source this spec was distilled from represents bound type
// variable occurrences as a dedicated node (`TypeF::Var` in
// original_source/src/types.rs); TVar supplements the distillation
// with that same constructor, letting the contract elaborator resolve
// an occurrence against the sealing contract its enclosing forall
// installed (spec §9, "supplement dropped features").
type TVar struct{ Name string }

// TFlat is a predicate contract: an arbitrary expression of type
// `Dyn -> Bool` used directly as the check (`#e` in the surface
// syntax).
type TFlat struct{ Pred Expr }

func (TDyn) typeNode()           {}
func (TNum) typeNode()           {}
func (TBool) typeNode()          {}
func (TStr) typeNode()           {}
func (TList) typeNode()          {}
func (TArrow) typeNode()         {}
func (TForall) typeNode()        {}
func (TRecordClosed) typeNode()  {}
func (TRecordOpen) typeNode()    {}
func (TEnumRow) typeNode()       {}
func (TRowVar) typeNode()        {}
func (TVar) typeNode()           {}
func (TFlat) typeNode()          {}
