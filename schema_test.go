package goschema_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	goschema "github.com/reoring/goschema"
)

func phoneSchema(t *testing.T) *goschema.Schema {
	return mustSchema(t,
		field("code", goschema.FieldSpec{Type: goschema.String, Required: goschema.Optional}),
		field("number", goschema.FieldSpec{Type: goschema.String}),
	)
}

func TestNew_Defaults(t *testing.T) {
	s := mustSchema(t,
		field("b", goschema.FieldSpec{Type: goschema.String}),
		field("a", goschema.FieldSpec{Type: goschema.Number, Label: "Alpha", Required: goschema.Optional}),
	)
	if got := s.FieldNames(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("declaration order lost: %v", got)
	}
	b, ok := s.GetField("b")
	if !ok || b.Label != "b" || !b.Required.IsSet() || !b.IsRequired(nil) {
		t.Fatalf("defaults not applied: %+v", b)
	}
	a, _ := s.GetField("a")
	if a.Label != "Alpha" || a.IsRequired(nil) {
		t.Fatalf("explicit values overwritten: %+v", a)
	}
	if _, ok := s.GetField("zzz"); ok {
		t.Fatalf("unexpected field")
	}
	if s.Len() != 2 || !s.Has("a") || s.Has("c") {
		t.Fatalf("Len/Has mismatch")
	}
	fields := s.GetFields()
	if len(fields) != 2 || fields[0].Name != "b" || fields[1].Spec.Label != "Alpha" {
		t.Fatalf("GetFields: %+v", fields)
	}
}

func TestNew_InvalidSpecs(t *testing.T) {
	cases := map[string][]goschema.Field{
		"empty name":        {field("", goschema.FieldSpec{Type: goschema.String})},
		"duplicate":         {field("a", goschema.FieldSpec{Type: goschema.String}), field("a", goschema.FieldSpec{Type: goschema.Number})},
		"missing type":      {field("a", goschema.FieldSpec{})},
		"unknown kind":      {field("a", goschema.FieldSpec{Type: goschema.Kind(99)})},
		"nil schema":        {field("a", goschema.FieldSpec{Type: (*goschema.Schema)(nil)})},
		"nested array":      {field("a", goschema.FieldSpec{Type: goschema.ArrayOf(goschema.ArrayOf(goschema.String))})},
		"nil element":       {field("a", goschema.FieldSpec{Type: goschema.ArrayOf(nil)})},
		"nil class":         {field("a", goschema.FieldSpec{Type: goschema.InstanceOfType(nil)})},
		"bad decimal":       {field("a", goschema.FieldSpec{Type: goschema.Number, Decimal: goschema.Decimal(7)})},
		"inverted length":   {field("a", goschema.FieldSpec{Type: goschema.String, Length: goschema.LengthBetween(3, 1)})},
		"negative length":   {field("a", goschema.FieldSpec{Type: goschema.String, Length: goschema.ExactLength(-1)})},
		"inverted bounds":   {field("a", goschema.FieldSpec{Type: goschema.Number, Min: goschema.Bound(5), Max: goschema.Bound(1)})},
		"non-scalar bound":  {field("a", goschema.FieldSpec{Type: goschema.Number, Min: goschema.Bound([]int{1})})},
		"negative words":    {field("a", goschema.FieldSpec{Type: goschema.String, MinWords: goschema.Words(-1)})},
		"nil regexp":        {field("a", goschema.FieldSpec{Type: goschema.String, RegEx: goschema.Pattern(nil)})},
		"second field fail": {field("a", goschema.FieldSpec{Type: goschema.String}), field("b", goschema.FieldSpec{})},
	}
	for name, fields := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := goschema.New(fields...)
			if !errors.Is(err, goschema.ErrInvalidSpec) {
				t.Fatalf("expected ErrInvalidSpec, got %v", err)
			}
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	goschema.MustNew(field("a", goschema.FieldSpec{}))
}

func TestClone_Independent(t *testing.T) {
	base := mustSchema(t,
		field("status", goschema.FieldSpec{Type: goschema.String, Allowed: goschema.Allowed("a", "b")}),
		field("phone", goschema.FieldSpec{Type: phoneSchema(t)}),
	)
	c := base.Clone()
	if err := c.Update("phone[number]", func(f *goschema.FieldSpec) { f.Length = goschema.ExactLength(3) }); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := c.Update("status", func(f *goschema.FieldSpec) { f.Label = "State" }); err != nil {
		t.Fatalf("Update: %v", err)
	}

	orig, err := base.ResolveField("phone[number]")
	if err != nil {
		t.Fatalf("ResolveField: %v", err)
	}
	if orig.Length.IsSet() {
		t.Fatalf("nested schema shared between clone and original")
	}
	st, _ := base.GetField("status")
	if st.Label != "status" {
		t.Fatalf("clone edit leaked: %q", st.Label)
	}

	obj := map[string]any{"status": "a", "phone": map[string]any{"number": "1234"}}
	if err := base.Validate(obj); err != nil {
		t.Fatalf("original: %v", err)
	}
	expectCode(t, c.Validate(map[string]any{"status": "a", "phone": map[string]any{"number": "1234"}}), goschema.CodeFieldLength, "phone[number]")
}

func TestExtend(t *testing.T) {
	parent := mustSchema(t,
		field("a", goschema.FieldSpec{Type: goschema.Number}),
		field("b", goschema.FieldSpec{Type: goschema.String}),
	)
	child := mustSchema(t, field("a", goschema.FieldSpec{Type: goschema.String}))
	if err := child.Extend(parent); err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if got := child.FieldNames(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("names: %v", got)
	}
	a, _ := child.GetField("a")
	if a.Type != goschema.String {
		t.Fatalf("extend overwrote an existing field: %v", a.Type)
	}
	if err := child.Extend(nil); !errors.Is(err, goschema.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}

	if err := child.Update("b", func(f *goschema.FieldSpec) { f.Required = goschema.Optional }); err != nil {
		t.Fatalf("Update: %v", err)
	}
	pb, _ := parent.GetField("b")
	if !pb.IsRequired(nil) {
		t.Fatalf("extend must copy parent fields")
	}
}

func TestPick(t *testing.T) {
	s := mustSchema(t,
		field("a", goschema.FieldSpec{Type: goschema.String}),
		field("b", goschema.FieldSpec{Type: goschema.String}),
		field("c", goschema.FieldSpec{Type: goschema.String}),
	)
	p := s.Pick("c", "a", "zzz")
	if got := p.FieldNames(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("pick: %v", got)
	}
	if s.Len() != 3 {
		t.Fatalf("source modified")
	}
	expectCode(t, p.Validate(map[string]any{"a": "x", "b": "y", "c": "z"}), goschema.CodeFieldUnknown, "b")
}

func TestResolveField_Paths(t *testing.T) {
	item := mustSchema(t, field("name", goschema.FieldSpec{Type: goschema.String, Label: "Item name"}))
	s := mustSchema(t,
		field("name", goschema.FieldSpec{Type: goschema.String}),
		field("phone", goschema.FieldSpec{Type: phoneSchema(t)}),
		field("items", goschema.FieldSpec{Type: goschema.ArrayOf(item)}),
		field("tags", goschema.FieldSpec{Type: goschema.ArrayOf(goschema.String)}),
	)

	f, err := s.ResolveField("phone[number]")
	if err != nil || f.Label != "number" {
		t.Fatalf("phone[number]: %+v %v", f, err)
	}
	f, err = s.ResolveField("items[0][name]")
	if err != nil || f.Label != "Item name" {
		t.Fatalf("items[0][name]: %+v %v", f, err)
	}
	if f, err = s.ResolveField("items[name]"); err != nil || f.Label != "Item name" {
		t.Fatalf("items[name]: %+v %v", f, err)
	}
	if _, err = s.ResolveField("items[0]"); err != nil {
		t.Fatalf("items[0]: %v", err)
	}

	bad := map[string]error{
		"":               goschema.ErrInvalidPath,
		"[a]":            goschema.ErrInvalidPath,
		"phone[":         goschema.ErrInvalidPath,
		"phone[]":        goschema.ErrInvalidPath,
		"phone]":         goschema.ErrInvalidPath,
		"phone[a[b]]":    goschema.ErrInvalidPath,
		"phone[number]x": goschema.ErrInvalidPath,
		"name[x]":        goschema.ErrInvalidPath,
		"phone[0]":       goschema.ErrInvalidPath,
		"tags[0]":        goschema.ErrInvalidPath,
		"nope":           goschema.ErrFieldNotFound,
		"phone[nope]":    goschema.ErrFieldNotFound,
		"nope[number]":   goschema.ErrFieldNotFound,
		"items[0][zzz]":  goschema.ErrFieldNotFound,
	}
	for path, want := range bad {
		if _, err := s.ResolveField(path); !errors.Is(err, want) {
			t.Fatalf("%q: expected %v, got %v", path, want, err)
		}
	}
}

func TestUpdate(t *testing.T) {
	s := mustSchema(t, field("a", goschema.FieldSpec{Type: goschema.String, Label: "A"}))

	err := s.Update("a", func(f *goschema.FieldSpec) { f.Length = goschema.LengthBetween(5, 1) })
	if !errors.Is(err, goschema.ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec, got %v", err)
	}
	if f, _ := s.GetField("a"); f.Length.IsSet() {
		t.Fatalf("rejected update must not be applied")
	}
	if err := s.Update("a", nil); !errors.Is(err, goschema.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if err := s.Update("b", func(*goschema.FieldSpec) {}); !errors.Is(err, goschema.ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}

	if err := s.Update("a", func(f *goschema.FieldSpec) { f.Label = ""; f.Required = goschema.Requirement{} }); err != nil {
		t.Fatalf("Update: %v", err)
	}
	f, _ := s.GetField("a")
	if f.Label != "a" || !f.Required.IsSet() {
		t.Fatalf("defaults not re-applied: %+v", f)
	}
}

func TestClean_Idempotent(t *testing.T) {
	child := mustSchema(t, field("num", goschema.FieldSpec{Type: goschema.Number}))
	s := mustSchema(t,
		field("name", goschema.FieldSpec{Type: goschema.String}),
		field("tags", goschema.FieldSpec{Type: goschema.ArrayOf(goschema.String)}),
		field("meta", goschema.FieldSpec{Type: goschema.Object}),
		field("child", goschema.FieldSpec{Type: child}),
	)
	input := func() map[string]any {
		return map[string]any{
			"name":  "  Ann ",
			"tags":  []any{" a ", "", "b"},
			"meta":  map[string]any{"k": "  v  ", "e": " "},
			"child": map[string]any{"num": json.Number("1"), "x": " y "},
			"extra": 1,
		}
	}
	want := map[string]any{
		"name":  "Ann",
		"tags":  []any{"a", nil, "b"},
		"meta":  map[string]any{"k": "v", "e": nil},
		"child": map[string]any{"num": json.Number("1")},
	}

	once, err := s.Clean(input())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if diff := cmp.Diff(want, once); diff != "" {
		t.Fatalf("clean mismatch (-want +got):\n%s", diff)
	}
	twice, _ := s.Clean(input())
	twice, _ = s.Clean(twice)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("clean is not idempotent (-once +twice):\n%s", diff)
	}

	kept, _ := s.Clean(input(), goschema.ValidateOpt{KeepUnknown: true})
	if kept["extra"] != 1 {
		t.Fatalf("KeepUnknown should keep undeclared keys: %v", kept)
	}
	if _, err := s.Clean("x"); !goschema.HasCode(err, goschema.CodeObjectInvalid) {
		t.Fatalf("expected object-invalid, got %v", err)
	}
}

func TestFromMap(t *testing.T) {
	var buf bytes.Buffer
	goschema.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer goschema.SetLogger(nil)

	item := mustSchema(t, field("sku", goschema.FieldSpec{Type: goschema.String}))
	s, err := goschema.FromMap(map[string]map[string]any{
		"name":  {"type": "string", "length": []any{1, nil}, "label": "Name", "foo": 1},
		"tags":  {"type": []any{goschema.String}, "required": false, "allowed": []any{"a", "b"}},
		"age":   {"type": goschema.Number, "min": 0, "max": 120, "decimal": false},
		"items": {"type": []any{item}, "required": false},
		"bio":   {"type": goschema.String, "required": false, "maxWords": 3, "regEx": `^[a-z ]+$`},
	})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if got := s.FieldNames(); !reflect.DeepEqual(got, []string{"age", "bio", "items", "name", "tags"}) {
		t.Fatalf("names: %v", got)
	}
	tags, _ := s.GetField("tags")
	if tags.Type.String() != "[string]" || goschema.Elem(tags.Type) != goschema.String {
		t.Fatalf("tags type: %v", tags.Type)
	}
	out := buf.String()
	if !strings.Contains(out, "unknown field specification key") || !strings.Contains(out, "field=name") || !strings.Contains(out, "key=foo") {
		t.Fatalf("warning not logged: %q", out)
	}

	ok := map[string]any{"name": "Ann", "age": 30, "tags": []any{"a"}, "bio": "hello there"}
	if err := s.Validate(ok); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	expectCode(t, s.Validate(map[string]any{"name": "Ann", "age": 30.5}), goschema.CodeFieldFormat, "age")
	expectCode(t, s.Validate(map[string]any{"name": "Ann", "age": 30, "bio": "one two three four"}), goschema.CodeFieldMaxWords, "bio")
	expectCode(t, s.Validate(map[string]any{"name": "Ann", "age": 30, "tags": []any{"c"}}), goschema.CodeFieldAllowed, "tags")
	expectCode(t, s.Validate(map[string]any{"name": "Ann", "age": 30, "items": []any{map[string]any{}}}), goschema.CodeFieldRequired, "items[0][sku]")
}

func TestFromMap_Invalid(t *testing.T) {
	cases := map[string]map[string]map[string]any{
		"missing type":    {"x": {}},
		"unknown name":    {"x": {"type": "uuid"}},
		"bad length":      {"x": {"type": "string", "length": "x"}},
		"bad range":       {"x": {"type": "string", "length": []any{1, 2, 3}}},
		"nested array":    {"x": {"type": []any{[]any{"string"}}}},
		"empty array":     {"x": {"type": []any{}}},
		"bad required":    {"x": {"type": "string", "required": "yes"}},
		"bad regexp":      {"x": {"type": "string", "regEx": "("}},
		"bad check":       {"x": {"type": "string", "check": 1}},
		"inverted bounds": {"x": {"type": "number", "min": 3, "max": 1}},
	}
	for name, spec := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := goschema.FromMap(spec); !errors.Is(err, goschema.ErrInvalidSpec) {
				t.Fatalf("expected ErrInvalidSpec, got %v", err)
			}
		})
	}
}

func TestFromMap_CheckForms(t *testing.T) {
	s, err := goschema.FromMap(map[string]map[string]any{
		"a": {"type": "string", "check": func(v any, label string, ctx map[string]any) bool { return v == "ok" }},
	})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if err := s.Validate(map[string]any{"a": "ok"}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	expectCode(t, s.Validate(map[string]any{"a": "no"}), goschema.CodeFieldInvalid, "a")
}
