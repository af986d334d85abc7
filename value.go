package goschema

import (
	"fmt"
	"regexp"
)

// Value is a constraint given either as a literal or as a producer evaluated
// at validation time. The zero Value is unset.
type Value[T any] struct {
	lit T
	fn  func() T
	set bool
}

// Lit wraps a literal constraint value.
func Lit[T any](v T) Value[T] { return Value[T]{lit: v, set: true} }

// Computed wraps a producer function; it is called once per check.
func Computed[T any](fn func() T) Value[T] { return Value[T]{fn: fn, set: fn != nil} }

// IsSet reports whether the constraint was declared.
func (v Value[T]) IsSet() bool { return v.set }

// IsComputed reports whether the constraint is resolved by a producer.
func (v Value[T]) IsComputed() bool { return v.fn != nil }

// Resolve returns the literal or the producer's result.
func (v Value[T]) Resolve() T {
	if v.fn != nil {
		return v.fn()
	}
	return v.lit
}

// Allowed lists the only values a field may take.
func Allowed(values ...any) Value[[]any] { return Lit(values) }

// AllowedFunc computes the allowed set at validation time.
func AllowedFunc(fn func() []any) Value[[]any] { return Computed(fn) }

// Denied lists values a field must not take.
func Denied(values ...any) Value[[]any] { return Lit(values) }

// DeniedFunc computes the denied set at validation time.
func DeniedFunc(fn func() []any) Value[[]any] { return Computed(fn) }

// Bound is a scalar min/max bound: a number, a string or a time.Time.
func Bound(v any) Value[any] { return Lit(v) }

// BoundFunc computes a min/max bound at validation time.
func BoundFunc(fn func() any) Value[any] { return Computed(fn) }

// Words is a minWords/maxWords count.
func Words(n int) Value[int] { return Lit(n) }

// WordsFunc computes a word count bound at validation time.
func WordsFunc(fn func() int) Value[int] { return Computed(fn) }

// Pattern wraps a compiled regular expression.
func Pattern(re *regexp.Regexp) Value[*regexp.Regexp] { return Lit(re) }

// PatternString compiles expr and panics when it is invalid, like regexp.MustCompile.
func PatternString(expr string) Value[*regexp.Regexp] { return Lit(regexp.MustCompile(expr)) }

// PatternFunc computes the pattern at validation time.
func PatternFunc(fn func() *regexp.Regexp) Value[*regexp.Regexp] { return Computed(fn) }

// Length is either an exact length or a [min, max] range where each side is optional.
type Length struct {
	Min, Max       int
	HasMin, HasMax bool
	Exact          int
	IsExact        bool
}

// ExactLength requires len == n.
func ExactLength(n int) Value[Length] { return Lit(Length{Exact: n, IsExact: true}) }

// LengthBetween requires min <= len <= max.
func LengthBetween(min, max int) Value[Length] {
	return Lit(Length{Min: min, Max: max, HasMin: true, HasMax: true})
}

// MinLength requires len >= n.
func MinLength(n int) Value[Length] { return Lit(Length{Min: n, HasMin: true}) }

// MaxLength requires len <= n.
func MaxLength(n int) Value[Length] { return Lit(Length{Max: n, HasMax: true}) }

// LengthOf wraps an arbitrary Length literal.
func LengthOf(l Length) Value[Length] { return Lit(l) }

// LengthFunc computes the length constraint at validation time.
func LengthFunc(fn func() Length) Value[Length] { return Computed(fn) }

func (l Length) String() string {
	if l.IsExact {
		return fmt.Sprint(l.Exact)
	}
	lo, hi := "", ""
	if l.HasMin {
		lo = fmt.Sprint(l.Min)
	}
	if l.HasMax {
		hi = fmt.Sprint(l.Max)
	}
	return "[" + lo + ", " + hi + "]"
}

func (l Length) check() error {
	switch {
	case l.IsExact && l.Exact < 0:
		return fmt.Errorf("negative length %d", l.Exact)
	case l.HasMin && l.Min < 0:
		return fmt.Errorf("negative min length %d", l.Min)
	case l.HasMax && l.Max < 0:
		return fmt.Errorf("negative max length %d", l.Max)
	case l.HasMin && l.HasMax && l.Min > l.Max:
		return fmt.Errorf("min length %d greater than max length %d", l.Min, l.Max)
	}
	return nil
}

// Requirement is a boolean or a predicate evaluated against the object being
// validated. The zero Requirement means "required".
type Requirement struct {
	set   bool
	value bool
	fn    func(ctx map[string]any) bool
}

var (
	Required = Requirement{set: true, value: true}
	Optional = Requirement{set: true, value: false}
)

// RequiredWhen makes the field required when fn returns true for the
// containing object.
func RequiredWhen(fn func(ctx map[string]any) bool) Requirement {
	return Requirement{set: fn != nil, fn: fn}
}

// IsSet reports whether the requirement was declared explicitly.
func (r Requirement) IsSet() bool { return r.set }

// IsDynamic reports whether the requirement depends on the object.
func (r Requirement) IsDynamic() bool { return r.fn != nil }

// Resolve evaluates the requirement against ctx.
func (r Requirement) Resolve(ctx map[string]any) bool {
	if !r.set {
		return true
	}
	if r.fn != nil {
		return r.fn(ctx)
	}
	return r.value
}

// Decimal restricts Number fields to floats or integers.
type Decimal int

const (
	DecimalAny  Decimal = iota
	FloatOnly           // decimal: true
	IntegerOnly         // decimal: false
)

// CheckFunc is a custom predicate. Returning false fails the field with
// field-invalid; a non-nil error is returned to the caller unchanged.
type CheckFunc func(value any, label string, ctx map[string]any) (bool, error)
