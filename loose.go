package goschema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// looseSpec receives a loosely typed field specification. Every key is kept
// as-is and converted afterwards so shape errors can be reported per key.
type looseSpec struct {
	Type     any `mapstructure:"type"`
	Label    any `mapstructure:"label"`
	Required any `mapstructure:"required"`
	Nullable any `mapstructure:"nullable"`
	Decimal  any `mapstructure:"decimal"`
	Allowed  any `mapstructure:"allowed"`
	Denied   any `mapstructure:"denied"`
	Length   any `mapstructure:"length"`
	Min      any `mapstructure:"min"`
	Max      any `mapstructure:"max"`
	MinWords any `mapstructure:"minWords"`
	MaxWords any `mapstructure:"maxWords"`
	RegEx    any `mapstructure:"regEx"`
	Check    any `mapstructure:"check"`
}

// FromMap builds a schema from loosely typed specifications, e.g.
//
//	goschema.FromMap(map[string]map[string]any{
//	    "name": {"type": goschema.String, "length": []any{1, 50}},
//	    "tags": {"type": []any{goschema.String}, "required": false},
//	})
//
// Type names ("string", "number", ...) are accepted in place of the markers.
// Unknown keys are logged as warnings and ignored. Fields are declared in
// name order.
func FromMap(spec map[string]map[string]any) (*Schema, error) {
	names := make([]string, 0, len(spec))
	for name := range spec {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		fs, err := decodeLoose(name, spec[name])
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name, Spec: fs})
	}
	return New(fields...)
}

func decodeLoose(name string, raw map[string]any) (FieldSpec, error) {
	var ls looseSpec
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:   &ls,
		Metadata: &md,
	})
	if err != nil {
		return FieldSpec{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return FieldSpec{}, fmt.Errorf("%w: field %q: %v", ErrInvalidSpec, name, err)
	}
	sort.Strings(md.Unused)
	for _, k := range md.Unused {
		log().Warn("unknown field specification key", "field", name, "key", k)
	}

	bad := func(key string, v any) error {
		return fmt.Errorf("%w: field %q: unexpected %s value of type %T", ErrInvalidSpec, name, key, v)
	}
	var fs FieldSpec

	if ls.Type == nil {
		return fs, fmt.Errorf("%w: field %q: type is missing", ErrInvalidSpec, name)
	}
	t, err := looseType(ls.Type, true)
	if err != nil {
		return fs, fmt.Errorf("%w: field %q: %v", ErrInvalidSpec, name, err)
	}
	fs.Type = t

	if ls.Label != nil {
		s, ok := ls.Label.(string)
		if !ok {
			return fs, bad("label", ls.Label)
		}
		fs.Label = s
	}
	switch r := ls.Required.(type) {
	case nil:
	case bool:
		if r {
			fs.Required = Required
		} else {
			fs.Required = Optional
		}
	case Requirement:
		fs.Required = r
	case func(map[string]any) bool:
		fs.Required = RequiredWhen(r)
	default:
		return fs, bad("required", r)
	}
	if ls.Nullable != nil {
		b, ok := ls.Nullable.(bool)
		if !ok {
			return fs, bad("nullable", ls.Nullable)
		}
		fs.Nullable = b
	}
	switch d := ls.Decimal.(type) {
	case nil:
	case bool:
		if d {
			fs.Decimal = FloatOnly
		} else {
			fs.Decimal = IntegerOnly
		}
	case Decimal:
		fs.Decimal = d
	default:
		return fs, bad("decimal", d)
	}
	if fs.Allowed, err = looseSet(ls.Allowed); err != nil {
		return fs, bad("allowed", ls.Allowed)
	}
	if fs.Denied, err = looseSet(ls.Denied); err != nil {
		return fs, bad("denied", ls.Denied)
	}
	if fs.Length, err = looseLength(ls.Length); err != nil {
		return fs, fmt.Errorf("%w: field %q: length: %v", ErrInvalidSpec, name, err)
	}
	if fs.Min, err = looseBound(ls.Min); err != nil {
		return fs, bad("min", ls.Min)
	}
	if fs.Max, err = looseBound(ls.Max); err != nil {
		return fs, bad("max", ls.Max)
	}
	if fs.MinWords, err = looseWords(ls.MinWords); err != nil {
		return fs, bad("minWords", ls.MinWords)
	}
	if fs.MaxWords, err = looseWords(ls.MaxWords); err != nil {
		return fs, bad("maxWords", ls.MaxWords)
	}
	switch re := ls.RegEx.(type) {
	case nil:
	case string:
		c, err := regexp.Compile(re)
		if err != nil {
			return fs, fmt.Errorf("%w: field %q: regEx: %v", ErrInvalidSpec, name, err)
		}
		fs.RegEx = Pattern(c)
	case *regexp.Regexp:
		fs.RegEx = Pattern(re)
	case func() *regexp.Regexp:
		fs.RegEx = PatternFunc(re)
	default:
		return fs, bad("regEx", re)
	}
	switch c := ls.Check.(type) {
	case nil:
	case CheckFunc:
		fs.Check = c
	case func(any, string, map[string]any) (bool, error):
		fs.Check = c
	case func(any, string, map[string]any) bool:
		fs.Check = func(v any, label string, ctx map[string]any) (bool, error) { return c(v, label, ctx), nil }
	default:
		return fs, bad("check", c)
	}
	return fs, nil
}

// looseType accepts markers, type names, schemas, class types and a
// single-element slice for array wrappers.
func looseType(v any, allowArray bool) (Type, error) {
	switch t := v.(type) {
	case Type:
		return t, nil
	case string:
		switch strings.ToLower(t) {
		case "array":
			return Array, nil
		case "boolean", "bool":
			return Boolean, nil
		case "function", "func":
			return Function, nil
		case "number":
			return Number, nil
		case "object":
			return Object, nil
		case "string":
			return String, nil
		}
		return nil, fmt.Errorf("unknown type name %q", t)
	}
	items, ok := elements(v)
	if !ok {
		return nil, fmt.Errorf("unsupported type %T", v)
	}
	if !allowArray {
		return nil, fmt.Errorf("array element type must be a class or a schema")
	}
	if len(items) != 1 {
		return nil, fmt.Errorf("array type must wrap exactly one element type, got %d", len(items))
	}
	elem, err := looseType(items[0], false)
	if err != nil {
		return nil, err
	}
	return ArrayOf(elem), nil
}

func looseSet(v any) (Value[[]any], error) {
	switch t := v.(type) {
	case nil:
		return Value[[]any]{}, nil
	case func() []any:
		return Computed(t), nil
	}
	items, ok := elements(v)
	if !ok {
		return Value[[]any]{}, fmt.Errorf("not a list")
	}
	return Lit(items), nil
}

func looseLength(v any) (Value[Length], error) {
	switch t := v.(type) {
	case nil:
		return Value[Length]{}, nil
	case Length:
		return Lit(t), nil
	case func() Length:
		return LengthFunc(t), nil
	}
	if n, ok := looseInt(v); ok {
		return ExactLength(n), nil
	}
	items, ok := elements(v)
	if !ok {
		return Value[Length]{}, fmt.Errorf("unexpected value of type %T", v)
	}
	if len(items) != 2 {
		return Value[Length]{}, fmt.Errorf("range must be [min, max], got %d items", len(items))
	}
	var l Length
	if items[0] != nil {
		n, ok := looseInt(items[0])
		if !ok {
			return Value[Length]{}, fmt.Errorf("min is not an integer")
		}
		l.Min, l.HasMin = n, true
	}
	if items[1] != nil {
		n, ok := looseInt(items[1])
		if !ok {
			return Value[Length]{}, fmt.Errorf("max is not an integer")
		}
		l.Max, l.HasMax = n, true
	}
	return Lit(l), nil
}

func looseBound(v any) (Value[any], error) {
	switch t := v.(type) {
	case nil:
		return Value[any]{}, nil
	case func() any:
		return BoundFunc(t), nil
	}
	if !isBoundValue(v) {
		return Value[any]{}, fmt.Errorf("not a scalar bound")
	}
	return Bound(v), nil
}

func looseWords(v any) (Value[int], error) {
	switch t := v.(type) {
	case nil:
		return Value[int]{}, nil
	case func() int:
		return WordsFunc(t), nil
	}
	n, ok := looseInt(v)
	if !ok {
		return Value[int]{}, fmt.Errorf("not an integer")
	}
	return Words(n), nil
}

func looseInt(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok || !isWhole(v) {
		return 0, false
	}
	return int(f), true
}
