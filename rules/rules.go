// Package rules composes conditional requirements and checks from plain
// comparisons on the object under validation.
//
//	published := rules.If("status", rules.Eq, "published")
//	goschema.Field{Name: "publishedAt", Spec: goschema.FieldSpec{Type: goschema.String, Required: published.Required()}}
package rules

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	goschema "github.com/reoring/goschema"
)

// Op defines simple comparison operators for If(...).
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
	// In holds when the value equals one element of want, which must be a slice.
	In
	// Exists holds when the path resolves to a non-nil value; want is ignored.
	Exists
)

// Conditional is a predicate over the containing object.
type Conditional struct {
	path []string
	op   Op
	want any
	all  []Conditional // composite AND
	any  []Conditional // composite OR
	neg  bool
}

// If builds a conditional that evaluates a path against a value using an
// operator. Paths use field names separated by brackets, dots or slashes:
// "customer[tier]", "customer.tier" and "/items/0/sku" are all accepted.
func If(path string, op Op, want any) Conditional {
	return Conditional{path: splitPath(path), op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// Not negates c.
func Not(c Conditional) Conditional {
	c.neg = !c.neg
	return c
}

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Holds evaluates the conditional against ctx.
func (c Conditional) Holds(ctx map[string]any) bool {
	return c.eval(ctx) != c.neg
}

func (c Conditional) eval(ctx map[string]any) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.Holds(ctx) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.Holds(ctx) {
				return true
			}
		}
		return false
	}
	cur, ok := valueAt(ctx, c.path)
	if c.op == Exists {
		return ok && cur != nil
	}
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

// Required returns a requirement that holds while the condition does.
func (c Conditional) Required() goschema.Requirement {
	return goschema.RequiredWhen(c.Holds)
}

// Then returns a check that runs checks in order when the condition holds
// and passes otherwise. The first failure or error wins.
func (c Conditional) Then(checks ...goschema.CheckFunc) goschema.CheckFunc {
	run := And(checks...)
	return func(value any, label string, ctx map[string]any) (bool, error) {
		if !c.Holds(ctx) {
			return true, nil
		}
		return run(value, label, ctx)
	}
}

// And passes when every check passes, stopping at the first failure.
func And(checks ...goschema.CheckFunc) goschema.CheckFunc {
	return func(value any, label string, ctx map[string]any) (bool, error) {
		for _, chk := range checks {
			if chk == nil {
				continue
			}
			if ok, err := chk(value, label, ctx); err != nil || !ok {
				return ok, err
			}
		}
		return true, nil
	}
}

// Or passes when any check passes. When all fail, the first error is
// returned, if any.
func Or(checks ...goschema.CheckFunc) goschema.CheckFunc {
	return func(value any, label string, ctx map[string]any) (bool, error) {
		var first error
		ran := false
		for _, chk := range checks {
			if chk == nil {
				continue
			}
			ran = true
			ok, err := chk(value, label, ctx)
			if err == nil && ok {
				return true, nil
			}
			if first == nil {
				first = err
			}
		}
		if !ran {
			return true, nil
		}
		return false, first
	}
}

// AtLeastOne fails when the checked value is a collection with no elements.
// Non-collections pass; the type check reports them.
func AtLeastOne() goschema.CheckFunc {
	return func(value any, _ string, _ map[string]any) (bool, error) {
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			return rv.Len() > 0, nil
		}
		return true, nil
	}
}

// UniqueBy fails when two elements of the checked collection share the value
// at keyPath. An empty keyPath compares the elements themselves. Elements
// missing the key are ignored.
// Keys are compared by their printed form, so keep the key a single type.
func UniqueBy(keyPath string) goschema.CheckFunc {
	kp := splitPath(keyPath)
	return func(value any, _ string, _ map[string]any) (bool, error) {
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return true, nil
		}
		seen := map[string]struct{}{}
		for i := 0; i < rv.Len(); i++ {
			kv, ok := valueAt(rv.Index(i).Interface(), kp)
			if !ok {
				continue
			}
			key := keyString(kv)
			if _, dup := seen[key]; dup {
				return false, nil
			}
			seen[key] = struct{}{}
		}
		return true, nil
	}
}

// ------- helpers -------

func splitPath(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool {
		return r == '/' || r == '.' || r == '[' || r == ']'
	})
}

// valueAt walks maps by key and slices by index.
func valueAt(v any, path []string) (any, bool) {
	cur := reflect.ValueOf(v)
	for _, seg := range path {
		for cur.IsValid() && (cur.Kind() == reflect.Interface || cur.Kind() == reflect.Pointer) {
			if cur.IsNil() {
				return nil, false
			}
			cur = cur.Elem()
		}
		if !cur.IsValid() {
			return nil, false
		}
		switch cur.Kind() {
		case reflect.Map:
			if cur.Type().Key().Kind() != reflect.String {
				return nil, false
			}
			mv := cur.MapIndex(reflect.ValueOf(seg).Convert(cur.Type().Key()))
			if !mv.IsValid() {
				return nil, false
			}
			cur = mv
		case reflect.Slice, reflect.Array:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= cur.Len() {
				return nil, false
			}
			cur = cur.Index(idx)
		default:
			return nil, false
		}
	}
	if !cur.IsValid() {
		return nil, false
	}
	return cur.Interface(), true
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return equal(cur, want)
	case Ne:
		return !equal(cur, want)
	case In:
		rv := reflect.ValueOf(want)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return false
		}
		for i := 0; i < rv.Len(); i++ {
			if equal(cur, rv.Index(i).Interface()) {
				return true
			}
		}
		return false
	case Lt, Le, Gt, Ge:
		return compareOrdered(cur, op, want)
	default:
		return false
	}
}

func equal(a, b any) bool {
	if x, ok := toFloat64(a); ok {
		if y, ok := toFloat64(b); ok {
			return x == y
		}
	}
	return reflect.DeepEqual(a, b)
}

// compareOrdered supports numbers and strings; mixed kinds never match.
func compareOrdered(cur any, op Op, want any) bool {
	var c int
	if a, ok := toFloat64(cur); ok {
		b, ok := toFloat64(want)
		if !ok {
			return false
		}
		switch {
		case a < b:
			c = -1
		case a > b:
			c = 1
		}
	} else {
		a, ok1 := cur.(string)
		b, ok2 := want.(string)
		if !ok1 || !ok2 {
			return false
		}
		c = strings.Compare(a, b)
	}
	switch op {
	case Lt:
		return c < 0
	case Le:
		return c <= 0
	case Gt:
		return c > 0
	case Ge:
		return c >= 0
	}
	return false
}

func toFloat64(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func keyString(v any) string {
	if f, ok := toFloat64(v); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}
