package goschema

import (
	"fmt"
	"regexp"
	"time"
)

// FieldSpec is the declarative constraint set attached to one schema field.
type FieldSpec struct {
	Label    string
	Type     Type
	Required Requirement
	Nullable bool
	Decimal  Decimal
	Allowed  Value[[]any]
	Denied   Value[[]any]
	Length   Value[Length]
	Min      Value[any]
	Max      Value[any]
	MinWords Value[int]
	MaxWords Value[int]
	RegEx    Value[*regexp.Regexp]
	Check    CheckFunc
}

// Field pairs a name with its specification. Schemas keep fields in
// declaration order.
type Field struct {
	Name string
	Spec FieldSpec
}

// IsRequired resolves the requirement against ctx.
func (f FieldSpec) IsRequired(ctx map[string]any) bool { return f.Required.Resolve(ctx) }

// checkType validates a declared type. Array wrappers accept only class-like
// element types, never another wrapper.
func checkType(t Type) error {
	switch tt := t.(type) {
	case nil:
		return fmt.Errorf("type is missing")
	case Kind:
		if !tt.valid() {
			return fmt.Errorf("unknown type %s", tt)
		}
	case *Schema:
		if tt == nil {
			return fmt.Errorf("nil schema type")
		}
	case arrayType:
		switch et := tt.elem.(type) {
		case Kind:
			if !et.valid() {
				return fmt.Errorf("unknown array element type %s", et)
			}
		case *Schema:
			if et == nil {
				return fmt.Errorf("nil array element schema")
			}
		case instanceType:
			if et.rt == nil {
				return fmt.Errorf("nil array element class")
			}
		default:
			return fmt.Errorf("array element type %v is not a class or a schema", tt.elem)
		}
	case instanceType:
		if tt.rt == nil {
			return fmt.Errorf("nil class type")
		}
	default:
		return fmt.Errorf("unsupported type %T", t)
	}
	return nil
}

// checkSpec verifies the shape of every constraint. Computed values are only
// checked for presence; their results are resolved at validation time.
func checkSpec(name string, f FieldSpec) error {
	wrap := func(err error) error {
		return fmt.Errorf("%w: field %q: %v", ErrInvalidSpec, name, err)
	}
	if err := checkType(f.Type); err != nil {
		return wrap(err)
	}
	if f.Decimal < DecimalAny || f.Decimal > IntegerOnly {
		return wrap(fmt.Errorf("invalid decimal mode %d", f.Decimal))
	}
	if f.Length.IsSet() && !f.Length.IsComputed() {
		if err := f.Length.lit.check(); err != nil {
			return wrap(err)
		}
	}
	for _, b := range []struct {
		key string
		v   Value[any]
	}{{"min", f.Min}, {"max", f.Max}} {
		if b.v.IsSet() && !b.v.IsComputed() && !isBoundValue(b.v.lit) {
			return wrap(fmt.Errorf("%s must be a number, a string or a time.Time, got %T", b.key, b.v.lit))
		}
	}
	if f.Min.IsSet() && f.Max.IsSet() && !f.Min.IsComputed() && !f.Max.IsComputed() {
		if c, ok := compareValues(f.Min.lit, f.Max.lit); ok && c > 0 {
			return wrap(fmt.Errorf("min %v greater than max %v", f.Min.lit, f.Max.lit))
		}
	}
	for _, w := range []struct {
		key string
		v   Value[int]
	}{{"minWords", f.MinWords}, {"maxWords", f.MaxWords}} {
		if w.v.IsSet() && !w.v.IsComputed() && w.v.lit < 0 {
			return wrap(fmt.Errorf("%s must not be negative", w.key))
		}
	}
	if f.RegEx.IsSet() && !f.RegEx.IsComputed() && f.RegEx.lit == nil {
		return wrap(fmt.Errorf("regEx is nil"))
	}
	return nil
}

func isBoundValue(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(time.Time); ok {
		return true
	}
	if _, ok := v.(string); ok {
		return true
	}
	_, ok := toFloat(v)
	return ok
}

// withDefaults fills label and requirement defaults.
func withDefaults(name string, f FieldSpec) FieldSpec {
	if f.Label == "" {
		f.Label = name
	}
	if !f.Required.IsSet() {
		f.Required = Required
	}
	return f
}

// clone deep-copies literal slices and nested schemas so the copy is independent.
func (f FieldSpec) clone() FieldSpec {
	out := f
	out.Type = cloneType(f.Type)
	if f.Allowed.IsSet() && !f.Allowed.IsComputed() {
		out.Allowed = Lit(append([]any(nil), f.Allowed.lit...))
	}
	if f.Denied.IsSet() && !f.Denied.IsComputed() {
		out.Denied = Lit(append([]any(nil), f.Denied.lit...))
	}
	return out
}

func cloneType(t Type) Type {
	switch tt := t.(type) {
	case *Schema:
		return tt.Clone()
	case arrayType:
		return arrayType{elem: cloneType(tt.elem)}
	default:
		return t
	}
}
