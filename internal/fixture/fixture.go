// Package fixture decodes a YAML-encoded term tree into the
// internal/term algebra. It stands in for the out-of-scope surface
// parser (spec.md §1): since the core's only documented contract with
// a front-end is "hand it a term whose type annotations are already
// elaborated" (spec.md §6), a YAML tree naming each node's kind by a
// "kind" field is the thinnest front-end that satisfies that contract
// without building a lexer/parser, grounded in the teacher's own
// `yamlDecode` (internal/evaluator/builtins_yaml.go) for how it walks
// an `interface{}` tree produced by `yaml.v3`.
package fixture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/funxy-contracts/internal/term"
)

// Load reads path and decodes it into a top-level expression.
func Load(path string) (term.Expr, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("fixture: YAML parse error: %w", err)
	}
	node, ok := asMap(raw)
	if !ok {
		return nil, fmt.Errorf("fixture: top-level document must be a mapping")
	}
	return decodeExpr(node)
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[fmt.Sprintf("%v", k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func field(n map[string]interface{}, name string) (interface{}, bool) {
	v, ok := n[name]
	return v, ok
}

func strField(n map[string]interface{}, name string) (string, error) {
	v, ok := field(n, name)
	if !ok {
		return "", fmt.Errorf("fixture: missing field %q", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("fixture: field %q is not a string", name)
	}
	return s, nil
}

func optStrField(n map[string]interface{}, name string) string {
	v, ok := field(n, name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func boolField(n map[string]interface{}, name string) bool {
	v, ok := field(n, name)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func intField(n map[string]interface{}, name string) (int64, error) {
	v, ok := field(n, name)
	if !ok {
		return 0, fmt.Errorf("fixture: missing field %q", name)
	}
	switch i := v.(type) {
	case int:
		return int64(i), nil
	case int64:
		return i, nil
	default:
		return 0, fmt.Errorf("fixture: field %q is not an integer", name)
	}
}

func exprField(n map[string]interface{}, name string) (term.Expr, error) {
	v, ok := field(n, name)
	if !ok {
		return nil, fmt.Errorf("fixture: missing field %q", name)
	}
	child, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("fixture: field %q is not a mapping", name)
	}
	return decodeExpr(child)
}

func optExprField(n map[string]interface{}, name string) (term.Expr, error) {
	v, ok := field(n, name)
	if !ok || v == nil {
		return nil, nil
	}
	child, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("fixture: field %q is not a mapping", name)
	}
	return decodeExpr(child)
}

func exprListField(n map[string]interface{}, name string) ([]term.Expr, error) {
	v, ok := field(n, name)
	if !ok {
		return nil, nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("fixture: field %q is not a list", name)
	}
	exprs := make([]term.Expr, len(items))
	for i, it := range items {
		m, ok := asMap(it)
		if !ok {
			return nil, fmt.Errorf("fixture: field %q[%d] is not a mapping", name, i)
		}
		e, err := decodeExpr(m)
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}
	return exprs, nil
}

func typeField(n map[string]interface{}, name string) (term.Type, error) {
	v, ok := field(n, name)
	if !ok {
		return nil, fmt.Errorf("fixture: missing field %q", name)
	}
	child, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("fixture: field %q is not a mapping", name)
	}
	return decodeType(child)
}

// decodeExpr dispatches on the node's "kind" field to build one
// term.Expr case. Every case name matches the spec.md §3 Expression
// variant it implements, plus the two supplemented nodes
// (`list`, `newSeal`) noted in internal/term/expr.go.
func decodeExpr(n map[string]interface{}) (term.Expr, error) {
	kind, err := strField(n, "kind")
	if err != nil {
		return nil, err
	}
	switch kind {
	case "int":
		v, err := intField(n, "value")
		if err != nil {
			return nil, err
		}
		return &term.IntLit{Value: v}, nil
	case "bool":
		v, _ := field(n, "value")
		b, _ := v.(bool)
		return &term.BoolLit{Value: b}, nil
	case "str":
		s, err := strField(n, "value")
		if err != nil {
			return nil, err
		}
		return &term.StrLit{Value: s}, nil
	case "var":
		name, err := strField(n, "name")
		if err != nil {
			return nil, err
		}
		return &term.Var{Name: name}, nil
	case "func":
		param, err := strField(n, "param")
		if err != nil {
			return nil, err
		}
		body, err := exprField(n, "body")
		if err != nil {
			return nil, err
		}
		return &term.Func{Param: param, Body: body}, nil
	case "app":
		fn, err := exprField(n, "fn")
		if err != nil {
			return nil, err
		}
		arg, err := exprField(n, "arg")
		if err != nil {
			return nil, err
		}
		return &term.App{Fn: fn, Arg: arg}, nil
	case "let":
		name, err := strField(n, "name")
		if err != nil {
			return nil, err
		}
		value, err := exprField(n, "value")
		if err != nil {
			return nil, err
		}
		body, err := exprField(n, "body")
		if err != nil {
			return nil, err
		}
		return &term.Let{Name: name, Rec: boolField(n, "rec"), Value: value, Body: body}, nil
	case "if":
		cond, err := exprField(n, "cond")
		if err != nil {
			return nil, err
		}
		then, err := exprField(n, "then")
		if err != nil {
			return nil, err
		}
		els, err := exprField(n, "else")
		if err != nil {
			return nil, err
		}
		return &term.If{Cond: cond, Then: then, Else: els}, nil
	case "unary":
		op, err := strField(n, "op")
		if err != nil {
			return nil, err
		}
		operand, err := exprField(n, "operand")
		if err != nil {
			return nil, err
		}
		rows, _ := field(n, "rows")
		var rowNames []string
		if items, ok := rows.([]interface{}); ok {
			for _, it := range items {
				if s, ok := it.(string); ok {
					rowNames = append(rowNames, s)
				}
			}
		}
		return &term.PrimUnary{
			Op:      term.UnaryOp(op),
			Operand: operand,
			Rows:    rowNames,
			Tag:     optStrField(n, "tag"),
		}, nil
	case "binary":
		op, err := strField(n, "op")
		if err != nil {
			return nil, err
		}
		left, err := exprField(n, "left")
		if err != nil {
			return nil, err
		}
		right, err := exprField(n, "right")
		if err != nil {
			return nil, err
		}
		return &term.PrimBinary{Op: term.BinaryOp(op), Left: left, Right: right}, nil
	case "record":
		return decodeRecordLit(n)
	case "staticAccess":
		rec, err := exprField(n, "record")
		if err != nil {
			return nil, err
		}
		f, err := strField(n, "field")
		if err != nil {
			return nil, err
		}
		return &term.StaticAccess{Record: rec, Field: f}, nil
	case "dynAccess":
		rec, err := exprField(n, "record")
		if err != nil {
			return nil, err
		}
		key, err := exprField(n, "key")
		if err != nil {
			return nil, err
		}
		return &term.DynAccess{Record: rec, Key: key}, nil
	case "recordRemove":
		rec, err := exprField(n, "record")
		if err != nil {
			return nil, err
		}
		key, err := exprField(n, "key")
		if err != nil {
			return nil, err
		}
		return &term.RecordRemove{Record: rec, Key: key}, nil
	case "recordExtend":
		rec, err := exprField(n, "record")
		if err != nil {
			return nil, err
		}
		key, err := exprField(n, "key")
		if err != nil {
			return nil, err
		}
		val, err := exprField(n, "value")
		if err != nil {
			return nil, err
		}
		return &term.RecordExtend{Record: rec, Key: key, Value: val}, nil
	case "list":
		elems, err := exprListField(n, "elements")
		if err != nil {
			return nil, err
		}
		return &term.ListLit{Elements: elems}, nil
	case "enumTag":
		tag, err := strField(n, "tag")
		if err != nil {
			return nil, err
		}
		return &term.EnumTag{Tag: tag}, nil
	case "switch":
		scrutinee, err := exprField(n, "scrutinee")
		if err != nil {
			return nil, err
		}
		casesRaw, ok := field(n, "cases")
		if !ok {
			return nil, fmt.Errorf("fixture: switch missing field %q", "cases")
		}
		casesMap, ok := asMap(casesRaw)
		if !ok {
			return nil, fmt.Errorf("fixture: switch field %q is not a mapping", "cases")
		}
		cases := make(map[string]term.Expr, len(casesMap))
		for tag, v := range casesMap {
			m, ok := asMap(v)
			if !ok {
				return nil, fmt.Errorf("fixture: switch case %q is not a mapping", tag)
			}
			branch, err := decodeExpr(m)
			if err != nil {
				return nil, err
			}
			cases[tag] = branch
		}
		def, err := optExprField(n, "default")
		if err != nil {
			return nil, err
		}
		return &term.Switch{Scrutinee: scrutinee, Cases: cases, Default: def}, nil
	case "label":
		pos, err := strField(n, "positive")
		if err != nil {
			return nil, err
		}
		neg, err := strField(n, "negative")
		if err != nil {
			return nil, err
		}
		return &term.LabelLit{Positive: pos, Negative: neg}, nil
	case "newSeal":
		return &term.NewSeal{}, nil
	case "seal":
		payload, err := exprField(n, "payload")
		if err != nil {
			return nil, err
		}
		ident, err := exprField(n, "ident")
		if err != nil {
			return nil, err
		}
		return &term.SealExpr{Payload: payload, Ident: ident}, nil
	case "unseal":
		payload, err := exprField(n, "payload")
		if err != nil {
			return nil, err
		}
		ident, err := exprField(n, "ident")
		if err != nil {
			return nil, err
		}
		fallback, err := exprField(n, "fallback")
		if err != nil {
			return nil, err
		}
		return &term.UnsealExpr{Payload: payload, Ident: ident, Fallback: fallback}, nil
	case "promise":
		ty, err := typeField(n, "type")
		if err != nil {
			return nil, err
		}
		label, err := exprField(n, "label")
		if err != nil {
			return nil, err
		}
		t, err := exprField(n, "term")
		if err != nil {
			return nil, err
		}
		return &term.Promise{Type: ty, Label: label, Term: t}, nil
	case "assume":
		ty, err := typeField(n, "type")
		if err != nil {
			return nil, err
		}
		label, err := exprField(n, "label")
		if err != nil {
			return nil, err
		}
		t, err := exprField(n, "term")
		if err != nil {
			return nil, err
		}
		return &term.Assume{Type: ty, Label: label, Term: t}, nil
	default:
		return nil, fmt.Errorf("fixture: unknown expression kind %q", kind)
	}
}

func decodeRecordLit(n map[string]interface{}) (term.Expr, error) {
	fieldsRaw, ok := field(n, "fields")
	if !ok {
		return &term.RecordLit{}, nil
	}
	items, ok := fieldsRaw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("fixture: record field %q is not a list", "fields")
	}
	fields := make([]term.Field, len(items))
	for i, it := range items {
		m, ok := asMap(it)
		if !ok {
			return nil, fmt.Errorf("fixture: record field entry %d is not a mapping", i)
		}
		valueExpr, err := exprField(m, "value")
		if err != nil {
			return nil, err
		}
		if nameExprRaw, ok := field(m, "nameExpr"); ok {
			nameMap, ok := asMap(nameExprRaw)
			if !ok {
				return nil, fmt.Errorf("fixture: record field entry %d's nameExpr is not a mapping", i)
			}
			nameExpr, err := decodeExpr(nameMap)
			if err != nil {
				return nil, err
			}
			fields[i] = term.Field{NameExpr: nameExpr, Value: valueExpr}
			continue
		}
		name, err := strField(m, "name")
		if err != nil {
			return nil, err
		}
		fields[i] = term.Field{Name: name, Value: valueExpr}
	}
	return &term.RecordLit{Fields: fields}, nil
}

// decodeType dispatches on the node's "kind" field to build one
// term.Type case, matching spec.md §3's Type variant.
func decodeType(n map[string]interface{}) (term.Type, error) {
	kind, err := strField(n, "kind")
	if err != nil {
		return nil, err
	}
	switch kind {
	case "dyn":
		return term.TDyn{}, nil
	case "num":
		return term.TNum{}, nil
	case "bool":
		return term.TBool{}, nil
	case "str":
		return term.TStr{}, nil
	case "list":
		elem, err := typeField(n, "elem")
		if err != nil {
			return nil, err
		}
		return term.TList{Elem: elem}, nil
	case "arrow":
		dom, err := typeField(n, "dom")
		if err != nil {
			return nil, err
		}
		cod, err := typeField(n, "cod")
		if err != nil {
			return nil, err
		}
		return term.TArrow{Dom: dom, Cod: cod}, nil
	case "forall":
		binder, err := strField(n, "binder")
		if err != nil {
			return nil, err
		}
		body, err := typeField(n, "body")
		if err != nil {
			return nil, err
		}
		return term.TForall{Binder: binder, Body: body}, nil
	case "var":
		name, err := strField(n, "name")
		if err != nil {
			return nil, err
		}
		return term.TVar{Name: name}, nil
	case "recordClosed":
		fields, err := decodeFieldTypes(n, "fields")
		if err != nil {
			return nil, err
		}
		return term.TRecordClosed{Fields: fields}, nil
	case "recordOpen":
		def, err := typeField(n, "default")
		if err != nil {
			return nil, err
		}
		fields, err := decodeFieldTypes(n, "fields")
		if err != nil {
			return nil, err
		}
		return term.TRecordOpen{Default: def, Fields: fields}, nil
	case "enumRow":
		tagsRaw, ok := field(n, "tags")
		if !ok {
			return term.TEnumRow{}, nil
		}
		items, ok := tagsRaw.([]interface{})
		if !ok {
			return nil, fmt.Errorf("fixture: enumRow field %q is not a list", "tags")
		}
		tags := make([]string, len(items))
		for i, it := range items {
			s, ok := it.(string)
			if !ok {
				return nil, fmt.Errorf("fixture: enumRow tags[%d] is not a string", i)
			}
			tags[i] = s
		}
		return term.TEnumRow{Tags: tags}, nil
	case "rowVar":
		name, err := strField(n, "name")
		if err != nil {
			return nil, err
		}
		return term.TRowVar{Name: name}, nil
	case "flat":
		pred, err := exprField(n, "pred")
		if err != nil {
			return nil, err
		}
		return term.TFlat{Pred: pred}, nil
	default:
		return nil, fmt.Errorf("fixture: unknown type kind %q", kind)
	}
}

func decodeFieldTypes(n map[string]interface{}, name string) ([]term.FieldType, error) {
	v, ok := field(n, name)
	if !ok {
		return nil, nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("fixture: field %q is not a list", name)
	}
	out := make([]term.FieldType, len(items))
	for i, it := range items {
		m, ok := asMap(it)
		if !ok {
			return nil, fmt.Errorf("fixture: field %q[%d] is not a mapping", name, i)
		}
		fname, err := strField(m, "name")
		if err != nil {
			return nil, err
		}
		ty, err := typeField(m, "type")
		if err != nil {
			return nil, err
		}
		out[i] = term.FieldType{Name: fname, Type: ty}
	}
	return out, nil
}
