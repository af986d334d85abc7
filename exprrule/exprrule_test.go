package exprrule_test

import (
	"encoding/json"
	"testing"

	goschema "github.com/reoring/goschema"
	"github.com/reoring/goschema/exprrule"
)

func articleSchema(t *testing.T) *goschema.Schema {
	t.Helper()
	return goschema.MustNew(
		goschema.Field{Name: "status", Spec: goschema.FieldSpec{Type: goschema.String, Allowed: goschema.Allowed("draft", "published")}},
		goschema.Field{Name: "publishedAt", Spec: goschema.FieldSpec{
			Type:     goschema.String,
			Required: exprrule.MustRequiredIf(`status == "published"`),
		}},
	)
}

func TestRequiredIf(t *testing.T) {
	s := articleSchema(t)
	if err := s.Validate(map[string]any{"status": "draft"}); err != nil {
		t.Fatalf("draft without date: %v", err)
	}
	err := s.Validate(map[string]any{"status": "published"})
	if !goschema.HasCode(err, goschema.CodeFieldRequired) {
		t.Fatalf("want field-required, got %v", err)
	}
	ve, _ := goschema.AsValidationError(err)
	if ve.Path != "publishedAt" {
		t.Fatalf("path: %q", ve.Path)
	}
	if err := s.Validate(map[string]any{"status": "published", "publishedAt": "2024-01-01"}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestCheck(t *testing.T) {
	s := goschema.MustNew(
		goschema.Field{Name: "threshold", Spec: goschema.FieldSpec{Type: goschema.Number}},
		goschema.Field{Name: "amount", Spec: goschema.FieldSpec{Type: goschema.Number, Check: exprrule.MustCheck(`value >= threshold`)}},
	)
	if err := s.Validate(map[string]any{"threshold": 1, "amount": 5}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	err := s.Validate(map[string]any{"threshold": json.Number("10"), "amount": json.Number("5")})
	if !goschema.HasCode(err, goschema.CodeFieldInvalid) {
		t.Fatalf("want field-invalid, got %v", err)
	}
}

func TestCheckSeesLabelAndContext(t *testing.T) {
	check := exprrule.MustCheck(`label == "Name" && context.kind == "person"`)
	ok, err := check("x", "Name", map[string]any{"kind": "person"})
	if err != nil || !ok {
		t.Fatalf("got %v, %v", ok, err)
	}
	ok, err = check("x", "Other", map[string]any{"kind": "person"})
	if err != nil || ok {
		t.Fatalf("got %v, %v", ok, err)
	}
}

func TestCompileErrors(t *testing.T) {
	if _, err := exprrule.Compile(`status ==`); err == nil {
		t.Fatalf("expected syntax error")
	}
	if _, err := exprrule.Check(`1 + 2`); err == nil {
		t.Fatalf("expected non-bool expression to be rejected")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	exprrule.MustRequiredIf(`(`)
}

func TestEvalErrorPropagatesFromCheck(t *testing.T) {
	s := goschema.MustNew(
		goschema.Field{Name: "n", Spec: goschema.FieldSpec{Type: goschema.String, Check: exprrule.MustCheck(`int(value) > 1`)}},
	)
	err := s.Validate(map[string]any{"n": "abc"})
	if err == nil {
		t.Fatalf("expected evaluation error")
	}
	if _, ok := goschema.AsValidationError(err); ok {
		t.Fatalf("evaluation errors must not be converted: %v", err)
	}
}
