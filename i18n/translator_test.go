package i18n

import "testing"

func TestTranslator_DefaultMessages(t *testing.T) {
	if msg := T("field-required", map[string]string{"label": "Name"}); msg != "Name is required" {
		t.Fatalf("unexpected message: %q", msg)
	}
	if msg := T("field-max", map[string]string{"label": "Age", "max": "120"}); msg != "Age must be lesser than or equal to 120" {
		t.Fatalf("unexpected message: %q", msg)
	}
	// unknown codes fall back to the code itself
	if msg := T("nope", nil); msg != "nope" {
		t.Fatalf("expected code fallback, got %q", msg)
	}
}

func TestRender_MissingPlaceholder(t *testing.T) {
	if got := Render("{label} and {other}", map[string]string{"label": "x"}); got != "x and ?" {
		t.Fatalf("got %q", got)
	}
	if got := Render("unterminated {label", nil); got != "unterminated {label" {
		t.Fatalf("got %q", got)
	}
}

type upperTranslator struct{}

func (upperTranslator) Message(code string, data map[string]string) string { return "X:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upperTranslator{})
	defer SetTranslator(nil)
	if msg := T("field-type", nil); msg != "X:field-type" {
		t.Fatalf("expected custom translator, got %q", msg)
	}
	SetTranslator(nil)
	if msg := T("object-invalid", nil); msg != "object is not valid" {
		t.Fatalf("expected built-in translator after reset, got %q", msg)
	}
}
