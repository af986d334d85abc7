package goschema

import "math"

// Validate checks obj against the schema and returns the first violation as
// a *ValidationError. obj must be a map[string]any; it is cleaned in place
// unless SkipClean is set. Undeclared keys, nested ones included, are
// rejected before cleaning would strip them.
func (s *Schema) Validate(obj any, opts ...ValidateOpt) error {
	m, ok := obj.(map[string]any)
	if !ok || m == nil {
		return newFieldError(ReasonInvalidObject, "", "", map[string]any{"value": obj})
	}
	opt := lastOpt(opts)
	if !opt.IgnoreUnknown {
		if err := s.checkUnknown(m, ""); err != nil {
			return err
		}
	}
	if !opt.SkipClean {
		s.cleanObject(m, opt)
	}
	v := validator{opt: opt}
	return v.object(s, m, "")
}

// IsValid wraps Validate and reports success as a boolean. A panic raised by
// a check, a conditional requirement or a computed constraint counts as
// invalid.
func (s *Schema) IsValid(obj any, opts ...ValidateOpt) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log().Warn("recovered panic in IsValid", "panic", r)
			ok = false
		}
	}()
	return s.Validate(obj, opts...) == nil
}

// checkUnknown reports the first undeclared key in sorted order, then
// descends into nested schemas in declaration order.
func (s *Schema) checkUnknown(m map[string]any, base string) error {
	for _, k := range sortedKeys(m) {
		if _, ok := s.fields[k]; !ok {
			return newFieldError(ReasonUnknownField, fieldPath(base, k), k, map[string]any{"field": k})
		}
	}
	for _, name := range s.names {
		if err := checkUnknownTyped(s.fields[name].Type, m[name], fieldPath(base, name)); err != nil {
			return err
		}
	}
	return nil
}

func checkUnknownTyped(t Type, v any, path string) error {
	switch tt := t.(type) {
	case *Schema:
		if m, ok := v.(map[string]any); ok {
			return tt.checkUnknown(m, path)
		}
	case arrayType:
		sc, ok := tt.elem.(*Schema)
		if !ok {
			return nil
		}
		items, _ := elements(v)
		for i, e := range items {
			if m, ok := e.(map[string]any); ok {
				if err := sc.checkUnknown(m, indexPath(path, i)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// validator holds per-call state only; a Schema is never written during validation.
type validator struct {
	opt ValidateOpt
}

// object validates every declared field in declaration order with ctx bound
// to m.
func (v validator) object(s *Schema, m map[string]any, base string) error {
	for _, name := range s.names {
		val, present := m[name]
		if !present && v.opt.IgnoreMissing {
			continue
		}
		if err := v.field(s.fields[name], val, m, fieldPath(base, name)); err != nil {
			return err
		}
	}
	return nil
}

// field applies the checks in fixed order: presence, type, allowed/denied,
// length, min, minWords, max, maxWords, pattern, custom check.
func (v validator) field(f *FieldSpec, val any, ctx map[string]any, path string) error {
	label := f.Label
	required := f.Required.Resolve(ctx)

	if val == nil {
		if required && !f.Nullable {
			return newFieldError(ReasonMissingField, path, label, nil)
		}
		return nil
	}

	done, err := v.checkType(f, val, required, path)
	if err != nil || done {
		return err
	}
	if err := checkAllowed(f, val, path); err != nil {
		return err
	}
	if err := checkLength(f, val, path); err != nil {
		return err
	}
	if err := checkBounds(f, val, path); err != nil {
		return err
	}
	if err := checkPattern(f, val, path); err != nil {
		return err
	}
	if f.Check != nil {
		ok, err := f.Check(val, label, ctx)
		if err != nil {
			return err
		}
		if !ok {
			return newFieldError(ReasonCustomCheckFailed, path, label, nil)
		}
	}
	return nil
}

// checkType dispatches on the declared type. done is true when the remaining
// checks must be skipped (empty array on an optional field).
func (v validator) checkType(f *FieldSpec, val any, required bool, path string) (bool, error) {
	label := f.Label
	typeErr := func(reason Reason, extra map[string]any) error {
		params := map[string]any{"type": f.Type.String()}
		for k, x := range extra {
			params[k] = x
		}
		return newFieldError(reason, path, label, params)
	}

	switch t := f.Type.(type) {
	case Kind:
		if !t.matches(val) {
			return false, typeErr(ReasonTypeMismatch, nil)
		}
		switch t {
		case KindArray:
			if n, _ := lengthOf(val); n == 0 && !required {
				return true, nil
			}
		case KindNumber:
			if err := checkNumber(f, val, typeErr); err != nil {
				return false, err
			}
		}
	case *Schema:
		m, ok := val.(map[string]any)
		if !ok {
			return false, typeErr(ReasonTypeMismatch, nil)
		}
		if err := v.object(t, m, path); err != nil {
			return false, err
		}
	case arrayType:
		items, ok := elements(val)
		if !ok {
			return false, typeErr(ReasonTypeMismatch, nil)
		}
		if len(items) == 0 && !required {
			return true, nil
		}
		for i, item := range items {
			if err := v.element(t.elem, item, indexPath(path, i), i, typeErr); err != nil {
				return false, err
			}
		}
	case instanceType:
		if !t.matches(val) {
			return false, typeErr(ReasonNotAnInstance, nil)
		}
	}
	return false, nil
}

func (v validator) element(elem Type, item any, path string, index int, typeErr func(Reason, map[string]any) error) error {
	switch et := elem.(type) {
	case *Schema:
		m, ok := item.(map[string]any)
		if !ok {
			return typeErr(ReasonElementTypeMismatch, map[string]any{"index": index})
		}
		return v.object(et, m, path)
	case Kind:
		if !et.matches(item) {
			return typeErr(ReasonElementTypeMismatch, map[string]any{"index": index})
		}
		if et == KindNumber {
			if f, _ := toFloat(item); math.IsNaN(f) {
				return typeErr(ReasonNotANumber, map[string]any{"index": index})
			}
		}
	case instanceType:
		if !et.matches(item) {
			return typeErr(ReasonElementTypeMismatch, map[string]any{"index": index})
		}
	}
	return nil
}

func checkNumber(f *FieldSpec, val any, typeErr func(Reason, map[string]any) error) error {
	if n, _ := toFloat(val); math.IsNaN(n) {
		return typeErr(ReasonNotANumber, nil)
	}
	switch f.Decimal {
	case FloatOnly:
		if !hasFraction(val) {
			return typeErr(ReasonNotAFloat, map[string]any{"decimal": true})
		}
	case IntegerOnly:
		if !isWhole(val) {
			return typeErr(ReasonNotAnInteger, map[string]any{"decimal": false})
		}
	}
	return nil
}

// checkAllowed tests every element of array values, the value itself
// otherwise. Allowed takes precedence over Denied.
func checkAllowed(f *FieldSpec, val any, path string) error {
	items, isArray := elements(val)
	if !isArray {
		items = []any{val}
	}
	if f.Allowed.IsSet() {
		set := f.Allowed.Resolve()
		for _, it := range items {
			if !containsValue(set, it) {
				return newFieldError(ReasonDisallowedValue, path, f.Label, map[string]any{"allowed": set})
			}
		}
		return nil
	}
	if f.Denied.IsSet() {
		set := f.Denied.Resolve()
		for _, it := range items {
			if containsValue(set, it) {
				return newFieldError(ReasonDeniedValue, path, f.Label, map[string]any{"denied": set})
			}
		}
	}
	return nil
}

func checkLength(f *FieldSpec, val any, path string) error {
	if !f.Length.IsSet() {
		return nil
	}
	n, ok := lengthOf(val)
	if !ok {
		return nil
	}
	l := f.Length.Resolve()
	if l.IsExact {
		if n != l.Exact {
			return newFieldError(ReasonWrongLength, path, f.Label, map[string]any{"length": l.Exact})
		}
		return nil
	}
	if l.HasMin && n < l.Min {
		return newFieldError(ReasonTooShort, path, f.Label, map[string]any{"minLength": l.Min})
	}
	if l.HasMax && n > l.Max {
		return newFieldError(ReasonTooLong, path, f.Label, map[string]any{"maxLength": l.Max})
	}
	return nil
}

// checkBounds runs min, minWords, max, maxWords in that order. Word counts
// apply to strings only.
func checkBounds(f *FieldSpec, val any, path string) error {
	str, isString := stringValue(val)
	if f.Min.IsSet() {
		min := f.Min.Resolve()
		if c, ok := compareValues(val, min); ok && c < 0 {
			return newFieldError(ReasonBelowMinimum, path, f.Label, map[string]any{"min": min})
		}
	}
	if isString && f.MinWords.IsSet() {
		if min := f.MinWords.Resolve(); countWords(str) < min {
			return newFieldError(ReasonTooFewWords, path, f.Label, map[string]any{"minWords": min})
		}
	}
	if f.Max.IsSet() {
		max := f.Max.Resolve()
		if c, ok := compareValues(val, max); ok && c > 0 {
			return newFieldError(ReasonAboveMaximum, path, f.Label, map[string]any{"max": max})
		}
	}
	if isString && f.MaxWords.IsSet() {
		if max := f.MaxWords.Resolve(); countWords(str) > max {
			return newFieldError(ReasonTooManyWords, path, f.Label, map[string]any{"maxWords": max})
		}
	}
	return nil
}

// checkPattern matches strings and the written form of numbers; arrays are
// matched element by element.
func checkPattern(f *FieldSpec, val any, path string) error {
	if !f.RegEx.IsSet() {
		return nil
	}
	re := f.RegEx.Resolve()
	if re == nil {
		return nil
	}
	items, isArray := elements(val)
	if !isArray {
		items = []any{val}
	}
	for _, it := range items {
		var txt string
		if s, ok := stringValue(it); ok {
			txt = s
		} else if _, ok := toFloat(it); ok {
			txt = numberText(it)
		} else {
			continue
		}
		if !re.MatchString(txt) {
			return newFieldError(ReasonPatternMismatch, path, f.Label, map[string]any{"pattern": re.String()})
		}
	}
	return nil
}
