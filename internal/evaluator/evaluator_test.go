package evaluator

import (
	"testing"

	"github.com/funvibe/funxy-contracts/internal/evalerr"
	"github.com/funvibe/funxy-contracts/internal/term"
	"github.com/funvibe/funxy-contracts/internal/thunk"
)

func mustInt(t *testing.T, v Value) int64 {
	t.Helper()
	i, ok := v.(*IntV)
	if !ok {
		t.Fatalf("value is %T, want *IntV", v)
	}
	return i.Value
}

func mustBool(t *testing.T, v Value) bool {
	t.Helper()
	b, ok := v.(*BoolV)
	if !ok {
		t.Fatalf("value is %T, want *BoolV", v)
	}
	return b.Value
}

func TestEvalArithmeticAndComparison(t *testing.T) {
	ev := New()
	env := NewEnvironment()

	tests := []struct {
		name string
		expr term.Expr
		want int64
	}{
		{"add", &term.PrimBinary{Op: term.OpAdd, Left: &term.IntLit{Value: 2}, Right: &term.IntLit{Value: 3}}, 5},
		{"sub", &term.PrimBinary{Op: term.OpSub, Left: &term.IntLit{Value: 5}, Right: &term.IntLit{Value: 3}}, 2},
		{"mul", &term.PrimBinary{Op: term.OpMul, Left: &term.IntLit{Value: 4}, Right: &term.IntLit{Value: 3}}, 12},
		{"div", &term.PrimBinary{Op: term.OpDiv, Left: &term.IntLit{Value: 9}, Right: &term.IntLit{Value: 3}}, 3},
		{"mod", &term.PrimBinary{Op: term.OpMod, Left: &term.IntLit{Value: 9}, Right: &term.IntLit{Value: 4}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ev.Eval(tt.expr, env)
			if err != nil {
				t.Fatalf("Eval() error = %v", err)
			}
			if got := mustInt(t, v); got != tt.want {
				t.Errorf("Eval() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDivisionByZeroIsStuck(t *testing.T) {
	ev := New()
	_, err := ev.Eval(&term.PrimBinary{Op: term.OpDiv, Left: &term.IntLit{Value: 1}, Right: &term.IntLit{Value: 0}}, NewEnvironment())
	if _, ok := err.(*evalerr.StuckError); !ok {
		t.Fatalf("error = %v (%T), want *evalerr.StuckError", err, err)
	}
}

func TestLazyLetNeverForcesUnusedBinding(t *testing.T) {
	ev := New()
	expr := &term.Let{
		Name:  "unused",
		Value: &term.PrimBinary{Op: term.OpDiv, Left: &term.IntLit{Value: 1}, Right: &term.IntLit{Value: 0}},
		Body:  &term.IntLit{Value: 42},
	}
	v, err := ev.Eval(expr, NewEnvironment())
	if err != nil {
		t.Fatalf("Eval() error = %v, want nil (unused binding should never be forced)", err)
	}
	if got := mustInt(t, v); got != 42 {
		t.Errorf("Eval() = %d, want 42", got)
	}
}

func TestThunkRefSharingMemoizesCompute(t *testing.T) {
	calls := 0
	cell := thunk.New(func() (interface{}, error) {
		calls++
		return &IntV{Value: 7}, nil
	})
	env := NewEnvironment()
	env.Bind("x", cell)

	ev := New()
	expr := &term.PrimBinary{Op: term.OpAdd, Left: &term.Var{Name: "x"}, Right: &term.Var{Name: "x"}}
	v, err := ev.Eval(expr, env)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got := mustInt(t, v); got != 14 {
		t.Errorf("Eval() = %d, want 14", got)
	}
	if calls != 1 {
		t.Errorf("compute ran %d times, want 1 (sharing broken)", calls)
	}
}

func TestIfDoesNotEvaluateUntakenBranch(t *testing.T) {
	ev := New()
	expr := &term.If{
		Cond: &term.BoolLit{Value: true},
		Then: &term.IntLit{Value: 1},
		Else: &term.PrimBinary{Op: term.OpDiv, Left: &term.IntLit{Value: 1}, Right: &term.IntLit{Value: 0}},
	}
	v, err := ev.Eval(expr, NewEnvironment())
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got := mustInt(t, v); got != 1 {
		t.Errorf("Eval() = %d, want 1", got)
	}
}

func TestUnboundVariableErrorsDistinctly(t *testing.T) {
	ev := New()
	_, err := ev.Eval(&term.Var{Name: "nope"}, NewEnvironment())
	if _, ok := err.(*evalerr.UnboundVarError); !ok {
		t.Fatalf("error = %v (%T), want *evalerr.UnboundVarError", err, err)
	}
}

func TestRecordLiteralAccessAndStuckOnMissingField(t *testing.T) {
	ev := New()
	rec := &term.RecordLit{Fields: []term.Field{
		{Name: "x", Value: &term.IntLit{Value: 1}},
		{Name: "y", Value: &term.IntLit{Value: 2}},
	}}
	v, err := ev.Eval(&term.StaticAccess{Record: rec, Field: "y"}, NewEnvironment())
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got := mustInt(t, v); got != 2 {
		t.Errorf("Eval() = %d, want 2", got)
	}

	_, err = ev.Eval(&term.StaticAccess{Record: rec, Field: "z"}, NewEnvironment())
	if _, ok := err.(*evalerr.StuckError); !ok {
		t.Fatalf("error = %v (%T), want *evalerr.StuckError", err, err)
	}
}

func TestRecordLiteralRejectsDuplicateFieldNames(t *testing.T) {
	ev := New()
	rec := &term.RecordLit{Fields: []term.Field{
		{Name: "x", Value: &term.IntLit{Value: 1}},
		{Name: "x", Value: &term.IntLit{Value: 2}},
	}}
	_, err := ev.Eval(rec, NewEnvironment())
	if _, ok := err.(*evalerr.StuckError); !ok {
		t.Fatalf("error = %v (%T), want *evalerr.StuckError", err, err)
	}
}

func TestRecordExtendAndRemove(t *testing.T) {
	ev := New()
	rec := &term.RecordLit{Fields: []term.Field{{Name: "x", Value: &term.IntLit{Value: 1}}}}
	extended := &term.RecordExtend{Record: rec, Key: &term.StrLit{Value: "y"}, Value: &term.IntLit{Value: 2}}

	v, err := ev.Eval(&term.StaticAccess{Record: extended, Field: "y"}, NewEnvironment())
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got := mustInt(t, v); got != 2 {
		t.Errorf("extended field = %d, want 2", got)
	}

	removed := &term.RecordRemove{Record: extended, Key: &term.StrLit{Value: "x"}}
	_, err = ev.Eval(&term.StaticAccess{Record: removed, Field: "x"}, NewEnvironment())
	if _, ok := err.(*evalerr.StuckError); !ok {
		t.Fatalf("error after removal = %v (%T), want *evalerr.StuckError", err, err)
	}
}

func TestSwitchDispatchesOnTagWithDefaultFallback(t *testing.T) {
	ev := New()
	sw := &term.Switch{
		Scrutinee: &term.EnumTag{Tag: "Some"},
		Cases: map[string]term.Expr{
			"Some": &term.IntLit{Value: 1},
			"None": &term.IntLit{Value: 0},
		},
		Default: &term.IntLit{Value: -1},
	}
	v, err := ev.Eval(sw, NewEnvironment())
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got := mustInt(t, v); got != 1 {
		t.Errorf("Eval() = %d, want 1", got)
	}

	sw.Scrutinee = &term.EnumTag{Tag: "Other"}
	v, err = ev.Eval(sw, NewEnvironment())
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got := mustInt(t, v); got != -1 {
		t.Errorf("default fallback = %d, want -1", got)
	}
}

func TestSwitchUnmatchedTagWithoutDefaultIsStuck(t *testing.T) {
	ev := New()
	sw := &term.Switch{
		Scrutinee: &term.EnumTag{Tag: "Other"},
		Cases:     map[string]term.Expr{"Some": &term.IntLit{Value: 1}},
	}
	_, err := ev.Eval(sw, NewEnvironment())
	if _, ok := err.(*evalerr.StuckError); !ok {
		t.Fatalf("error = %v (%T), want *evalerr.StuckError", err, err)
	}
}

func TestMergeRecordsStructural(t *testing.T) {
	ev := New()
	left := &term.RecordLit{Fields: []term.Field{{Name: "x", Value: &term.IntLit{Value: 1}}}}
	right := &term.RecordLit{Fields: []term.Field{{Name: "y", Value: &term.IntLit{Value: 2}}}}
	merged := &term.PrimBinary{Op: term.OpMerge, Left: left, Right: right}

	v, err := ev.Eval(merged, NewEnvironment())
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	rec, ok := v.(*RecordV)
	if !ok {
		t.Fatalf("value is %T, want *RecordV", v)
	}
	if !rec.Has("x") || !rec.Has("y") {
		t.Errorf("merged record missing a field: %s", rec.Inspect())
	}
}

func TestMergeRecordsConflictIsStuck(t *testing.T) {
	ev := New()
	left := &term.RecordLit{Fields: []term.Field{{Name: "x", Value: &term.IntLit{Value: 1}}}}
	right := &term.RecordLit{Fields: []term.Field{{Name: "x", Value: &term.IntLit{Value: 2}}}}
	merged := &term.PrimBinary{Op: term.OpMerge, Left: left, Right: right}

	_, err := ev.Eval(merged, NewEnvironment())
	if _, ok := err.(*evalerr.StuckError); !ok {
		t.Fatalf("error = %v (%T), want *evalerr.StuckError", err, err)
	}
}

func TestListPrimitives(t *testing.T) {
	ev := New()
	list := &term.ListLit{Elements: []term.Expr{
		&term.IntLit{Value: 1}, &term.IntLit{Value: 2}, &term.IntLit{Value: 3},
	}}

	v, err := ev.Eval(&term.PrimUnary{Op: term.OpLength, Operand: list}, NewEnvironment())
	if err != nil {
		t.Fatalf("length: Eval() error = %v", err)
	}
	if got := mustInt(t, v); got != 3 {
		t.Errorf("length = %d, want 3", got)
	}

	v, err = ev.Eval(&term.PrimUnary{Op: term.OpHead, Operand: list}, NewEnvironment())
	if err != nil {
		t.Fatalf("head: Eval() error = %v", err)
	}
	if got := mustInt(t, v); got != 1 {
		t.Errorf("head = %d, want 1", got)
	}

	mapped := &term.PrimBinary{
		Op:   term.OpMap,
		Left: &term.Func{Param: "x", Body: &term.PrimBinary{Op: term.OpAdd, Left: &term.Var{Name: "x"}, Right: &term.IntLit{Value: 10}}},
		Right: list,
	}
	v, err = ev.Eval(&term.PrimBinary{Op: term.OpElemAt, Left: mapped, Right: &term.IntLit{Value: 1}}, NewEnvironment())
	if err != nil {
		t.Fatalf("map/elemAt: Eval() error = %v", err)
	}
	if got := mustInt(t, v); got != 12 {
		t.Errorf("mapped[1] = %d, want 12", got)
	}

	cat := &term.PrimBinary{Op: term.OpListCat, Left: list, Right: &term.ListLit{Elements: []term.Expr{&term.IntLit{Value: 4}}}}
	v, err = ev.Eval(&term.PrimUnary{Op: term.OpLength, Operand: cat}, NewEnvironment())
	if err != nil {
		t.Fatalf("@/length: Eval() error = %v", err)
	}
	if got := mustInt(t, v); got != 4 {
		t.Errorf("concatenated length = %d, want 4", got)
	}
}

func TestMapRecIsCurriedByFieldNameThenValue(t *testing.T) {
	ev := New()
	rec := &term.RecordLit{Fields: []term.Field{
		{Name: "a", Value: &term.IntLit{Value: 1}},
		{Name: "b", Value: &term.IntLit{Value: 2}},
	}}
	fn := &term.Func{Param: "k", Body: &term.Func{
		Param: "v",
		Body:  &term.PrimBinary{Op: term.OpAdd, Left: &term.Var{Name: "v"}, Right: &term.IntLit{Value: 100}},
	}}
	mapped := &term.PrimBinary{Op: term.OpMapRec, Left: fn, Right: rec}
	v, err := ev.Eval(&term.StaticAccess{Record: mapped, Field: "a"}, NewEnvironment())
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got := mustInt(t, v); got != 101 {
		t.Errorf("mapRec field a = %d, want 101", got)
	}
}

func TestSealRoundTripAndOpacity(t *testing.T) {
	ev := New()
	env := NewEnvironment()
	env.Bind("id", thunk.New(func() (interface{}, error) { return ev.Eval(&term.NewSeal{}, NewEnvironment()) }))

	sealExpr := &term.SealExpr{Payload: &term.IntLit{Value: 5}, Ident: &term.Var{Name: "id"}}
	unsealOK := &term.UnsealExpr{Payload: sealExpr, Ident: &term.Var{Name: "id"}, Fallback: &term.IntLit{Value: -1}}

	v, err := ev.Eval(unsealOK, env)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got := mustInt(t, v); got != 5 {
		t.Errorf("round trip = %d, want 5", got)
	}

	// A different seal identity cannot unseal a payload sealed under a
	// different one: opacity.
	otherIdent, err := ev.Eval(&term.NewSeal{}, NewEnvironment())
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	env2 := NewEnclosedEnvironment(env)
	env2.Bind("other", thunk.NewEvaluated(otherIdent))
	unsealWrong := &term.UnsealExpr{Payload: sealExpr, Ident: &term.Var{Name: "other"}, Fallback: &term.IntLit{Value: -1}}
	v, err = ev.Eval(unsealWrong, env2)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got := mustInt(t, v); got != -1 {
		t.Errorf("mismatched unseal = %d, want fallback -1", got)
	}
}

func TestPromiseNeverChecks(t *testing.T) {
	ev := New()
	expr := &term.Promise{
		Type:  term.TNum{},
		Label: &term.LabelLit{Positive: "p", Negative: "n"},
		Term:  &term.BoolLit{Value: true},
	}
	v, err := ev.Eval(expr, NewEnvironment())
	if err != nil {
		t.Fatalf("Eval() error = %v, want nil (promise attaches no runtime check)", err)
	}
	if got := mustBool(t, v); !got {
		t.Errorf("Eval() = %v, want true", got)
	}
}

func TestAssumeBlamesOnTypeMismatch(t *testing.T) {
	ev := New()
	expr := &term.Assume{
		Type:  term.TNum{},
		Label: &term.LabelLit{Positive: "p", Negative: "n"},
		Term:  &term.BoolLit{Value: true},
	}
	_, err := ev.Eval(expr, NewEnvironment())
	if _, ok := err.(*evalerr.BlameError); !ok {
		t.Fatalf("error = %v (%T), want *evalerr.BlameError", err, err)
	}
}
