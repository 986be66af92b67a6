// Package term implements the expression and type algebras of the
// contract language's core: closed sum types dispatched by total case
// analysis (spec §9 "Deep term variants"), with no open-class
// inheritance and no dependency on any particular surface syntax. An
// external front-end (out of scope here, spec §1) is responsible for
// producing trees in this shape; the evaluator package is the only
// thing that interprets them.
package term

import "github.com/funvibe/funxy-contracts/internal/thunk"

// Expr is any node of the expression algebra (spec §3 "Expression").
// Implementations are one struct per case, matching the teacher's
// ast.Expression convention minus the token/Visitor machinery that
// belongs to the out-of-scope parser.
type Expr interface {
	exprNode()
}

// UnaryOp enumerates the unary primitive operations of spec §4.7.
type UnaryOp string

const (
	OpIsZero    UnaryOp = "isZero"
	OpIsNum     UnaryOp = "isNum"
	OpIsBool    UnaryOp = "isBool"
	OpIsStr     UnaryOp = "isStr"
	OpIsFun     UnaryOp = "isFun"
	OpIsList    UnaryOp = "isList"
	OpIsRecord  UnaryOp = "isRecord"
	OpBlame     UnaryOp = "blame"
	OpChngPol   UnaryOp = "chngPol"
	OpPolarity  UnaryOp = "polarity"
	OpGoDom     UnaryOp = "goDom"
	OpGoCodom   UnaryOp = "goCodom"
	OpNot       UnaryOp = "!"
	OpHead      UnaryOp = "head"
	OpTail      UnaryOp = "tail"
	OpLength    UnaryOp = "length"
	OpFieldsOf  UnaryOp = "fieldsOf"
	OpIsEnumIn  UnaryOp = "isEnumIn" // carries Rows via PrimUnary.Rows
	OpTag       UnaryOp = "tag"      // carries the tag string via PrimUnary.Tag
	// OpEmbed widens an enum tag into a larger row. This core has no
	// runtime row-set representation to widen against (enum rows are
	// checked, not carried, by values — spec §3's EnumTagV is just a
	// bare tag), so embed has no effect beyond requiring its operand
	// already be a tag and returning it unchanged; see DESIGN.md.
	OpEmbed UnaryOp = "embed"
)

// BinaryOp enumerates the binary primitive operations of spec §4.7.
type BinaryOp string

const (
	OpAdd       BinaryOp = "+"
	OpSub       BinaryOp = "-"
	OpMul       BinaryOp = "*"
	OpDiv       BinaryOp = "/"
	OpMod       BinaryOp = "%"
	OpStrConcat BinaryOp = "++"
	OpListCat   BinaryOp = "@"
	OpEq        BinaryOp = "=="
	OpLt        BinaryOp = "<"
	OpLe        BinaryOp = "<="
	OpGt        BinaryOp = ">"
	OpGe        BinaryOp = ">="
	OpDynAccess BinaryOp = ".$"
	OpDynRemove BinaryOp = "-$"
	OpDynExtend BinaryOp = "$[=]"
	OpGoField   BinaryOp = "goField"
	OpHasField  BinaryOp = "hasField"
	OpMap       BinaryOp = "map"
	OpElemAt    BinaryOp = "elemAt"
	OpMerge     BinaryOp = "merge"
	// OpSeq and OpDeepSeq are genuinely two-operand (force the first,
	// return the second) despite spec §4.7 listing them under Unary;
	// see DESIGN.md for the arity reconciliation.
	OpSeq     BinaryOp = "seq"
	OpDeepSeq BinaryOp = "deepSeq"
	// OpMapRec is likewise genuinely two-operand (a field-transforming
	// function and the record to map it over) despite spec §4.7 listing
	// `mapRec` under Unary; see DESIGN.md.
	OpMapRec BinaryOp = "mapRec"
)

// IntLit is an integer literal.
type IntLit struct{ Value int64 }

// BoolLit is a boolean literal.
type BoolLit struct{ Value bool }

// StrLit is a string literal.
type StrLit struct{ Value string }

// Func is a single-parameter lambda; currying builds multi-argument
// functions out of nested Funcs, as in the teacher's own evaluator.
type Func struct {
	Param string
	Body  Expr
}

// App is function application.
type App struct {
	Fn  Expr
	Arg Expr
}

// Let is a (possibly recursive) by-need binding.
type Let struct {
	Name      string
	Rec       bool
	Value     Expr
	Body      Expr
}

// If is a conditional; branches are not entered unless selected
// (spec §4.2).
type If struct {
	Cond, Then, Else Expr
}

// PrimUnary applies a unary primitive operation to one operand.
// Rows carries the row for OpIsEnumIn; Tag carries the literal for
// OpTag. Both are unused by every other op.
type PrimUnary struct {
	Op      UnaryOp
	Operand Expr
	Rows    []string
	Tag     string
}

// PrimBinary applies a binary primitive operation to two operands,
// forcing both before dispatch (spec §4.2, strict in arguments).
type PrimBinary struct {
	Op          BinaryOp
	Left, Right Expr
}

// Field is one entry of a record literal: either static (Name set,
// NameExpr nil) or dynamic (NameExpr set, evaluated to a string key).
type Field struct {
	Name     string
	NameExpr Expr
	Value    Expr
}

// RecordLit is a record literal: an ordered sequence of static or
// dynamic fields (I4: names unique within one literal, enforced at
// construction by the evaluator).
type RecordLit struct {
	Fields []Field
}

// StaticAccess looks up a field by a compile-time-known name.
type StaticAccess struct {
	Record Expr
	Field  string
}

// DynAccess looks up a field by a dynamically computed string key.
type DynAccess struct {
	Record Expr
	Key    Expr
}

// RecordRemove returns a new record without the named field.
type RecordRemove struct {
	Record Expr
	Key    Expr
}

// RecordExtend returns a new record with a field added, shadowing any
// existing field of the same name.
type RecordExtend struct {
	Record Expr
	Key    Expr
	Value  Expr
}

// ListLit is a list literal. The distilled spec's Expression variant
// omits an explicit list-literal case, but the original Nickel source
// this spec was distilled from represents lists as a first-class term
// constructor (`Term::List`) consumed by `head`/`tail`/`length`/`map`/
// `elemAt`/`@`; ListLit supplements the distillation with that same
// constructor (spec §9, "supplement dropped features").
type ListLit struct {
	Elements []Expr
}

// EnumTag is an enumeration tag constant, e.g. `` `Some ``.
type EnumTag struct{ Tag string }

// Switch is enum case-analysis: Cases maps tag name to branch body,
// Default (optional) handles any tag not listed.
type Switch struct {
	Scrutinee Expr
	Cases     map[string]Expr
	Default   Expr
}

// LabelLit is a label literal: a freshly minted four-tuple with
// polarity true and an empty context, the shape a promise/assume site
// hands to its elaborated contract.
type LabelLit struct {
	Positive string
	Negative string
}

// NewSeal evaluates to a freshly generated seal identity value, the
// handle a program passes to SealExpr/UnsealExpr to wrap and unwrap a
// value under that identity (spec §4.6). The contract elaborator's
// own TForall handling mints its identities directly through package
// seal rather than through this node; NewSeal is the surface-level
// entry point for user terms that seal values by hand.
type NewSeal struct{}

// SealExpr wraps Payload in an opaque seal bound to Ident, which must
// evaluate to a seal identity value (spec §4.6).
type SealExpr struct {
	Payload Expr
	Ident   Expr
}

// UnsealExpr extracts Payload's inner value if it is sealed under
// Ident's identity; otherwise Fallback is evaluated instead (normally
// `blame l`), per spec §4.6.
type UnsealExpr struct {
	Payload  Expr
	Ident    Expr
	Fallback Expr
}

// Promise attaches a type annotation with no runtime check.
type Promise struct {
	Type  Type
	Label Expr
	Term  Expr
}

// Assume attaches a type annotation that is lowered, via the contract
// elaborator, into a runtime-checked wrapper around Term.
type Assume struct {
	Type  Type
	Label Expr
	Term  Expr
}

// ThunkRef is a direct reference to an already-boxed shared cell;
// evaluating it forces that cell. The evaluator resolves Var nodes
// through its environment and never builds ThunkRef nodes itself, and
// the fixture decoder has no kind for them.
type ThunkRef struct{ Cell *thunk.Cell }

// Var is a variable occurrence.
type Var struct{ Name string }

func (*IntLit) exprNode()       {}
func (*BoolLit) exprNode()      {}
func (*StrLit) exprNode()       {}
func (*Func) exprNode()         {}
func (*App) exprNode()          {}
func (*Let) exprNode()          {}
func (*If) exprNode()           {}
func (*PrimUnary) exprNode()    {}
func (*PrimBinary) exprNode()   {}
func (*RecordLit) exprNode()    {}
func (*StaticAccess) exprNode() {}
func (*DynAccess) exprNode()    {}
func (*RecordRemove) exprNode() {}
func (*RecordExtend) exprNode() {}
func (*ListLit) exprNode()      {}
func (*EnumTag) exprNode()      {}
func (*Switch) exprNode()       {}
func (*LabelLit) exprNode()     {}
func (*NewSeal) exprNode()      {}
func (*SealExpr) exprNode()     {}
func (*UnsealExpr) exprNode()   {}
func (*Promise) exprNode()      {}
func (*Assume) exprNode()       {}
func (*ThunkRef) exprNode()     {}
func (*Var) exprNode()          {}
