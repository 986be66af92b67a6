package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/funvibe/funxy-contracts/internal/term"
)

func writeFixture(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "case.fixture.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadDecodesLiteralsAndBinaryOp(t *testing.T) {
	path := writeFixture(t, `
kind: binary
op: "+"
left:
  kind: int
  value: 1
right:
  kind: int
  value: 2
`)
	expr, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	bin, ok := expr.(*term.PrimBinary)
	if !ok {
		t.Fatalf("expr is %T, want *term.PrimBinary", expr)
	}
	if bin.Op != term.OpAdd {
		t.Errorf("Op = %q, want %q", bin.Op, term.OpAdd)
	}
	left, ok := bin.Left.(*term.IntLit)
	if !ok || left.Value != 1 {
		t.Errorf("Left = %v, want IntLit{1}", bin.Left)
	}
}

func TestLoadDecodesLetAndFunc(t *testing.T) {
	path := writeFixture(t, `
kind: let
name: f
rec: false
value:
  kind: func
  param: x
  body:
    kind: var
    name: x
body:
  kind: app
  fn:
    kind: var
    name: f
  arg:
    kind: int
    value: 7
`)
	expr, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	let, ok := expr.(*term.Let)
	if !ok {
		t.Fatalf("expr is %T, want *term.Let", expr)
	}
	if let.Name != "f" || let.Rec {
		t.Errorf("Let = {%q, rec=%v}, want {f, rec=false}", let.Name, let.Rec)
	}
	if _, ok := let.Value.(*term.Func); !ok {
		t.Errorf("Value is %T, want *term.Func", let.Value)
	}
	app, ok := let.Body.(*term.App)
	if !ok {
		t.Fatalf("Body is %T, want *term.App", let.Body)
	}
	if arg, ok := app.Arg.(*term.IntLit); !ok || arg.Value != 7 {
		t.Errorf("App.Arg = %v, want IntLit{7}", app.Arg)
	}
}

func TestLoadDecodesRecordAndAssumeType(t *testing.T) {
	path := writeFixture(t, `
kind: assume
type:
  kind: recordClosed
  fields:
    - name: x
      type: {kind: num}
label:
  kind: label
  positive: p
  negative: n
term:
  kind: record
  fields:
    - name: x
      value: {kind: int, value: 1}
`)
	expr, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assume, ok := expr.(*term.Assume)
	if !ok {
		t.Fatalf("expr is %T, want *term.Assume", expr)
	}
	closed, ok := assume.Type.(term.TRecordClosed)
	if !ok {
		t.Fatalf("Type is %T, want term.TRecordClosed", assume.Type)
	}
	if len(closed.Fields) != 1 || closed.Fields[0].Name != "x" {
		t.Errorf("Fields = %v, want one field named x", closed.Fields)
	}
	if _, ok := closed.Fields[0].Type.(term.TNum); !ok {
		t.Errorf("Fields[0].Type is %T, want term.TNum", closed.Fields[0].Type)
	}
	rec, ok := assume.Term.(*term.RecordLit)
	if !ok || len(rec.Fields) != 1 {
		t.Fatalf("Term is %v, want a one-field record literal", assume.Term)
	}
}

func TestLoadDecodesListAndSwitch(t *testing.T) {
	path := writeFixture(t, `
kind: switch
scrutinee: {kind: enumTag, tag: Some}
cases:
  Some:
    kind: list
    elements:
      - {kind: int, value: 1}
      - {kind: int, value: 2}
  None:
    kind: list
    elements: []
default:
  kind: list
  elements: []
`)
	expr, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	sw, ok := expr.(*term.Switch)
	if !ok {
		t.Fatalf("expr is %T, want *term.Switch", expr)
	}
	branch, ok := sw.Cases["Some"].(*term.ListLit)
	if !ok || len(branch.Elements) != 2 {
		t.Fatalf("Cases[Some] = %v, want a two-element list", sw.Cases["Some"])
	}
}

func TestLoadRejectsUnknownKind(t *testing.T) {
	path := writeFixture(t, "kind: not-a-real-node\n")
	if _, err := Load(path); err == nil {
		t.Fatal("Load() error = nil, want an error for an unknown kind")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.fixture.yaml")); err == nil {
		t.Fatal("Load() error = nil, want an error for a missing file")
	}
}
