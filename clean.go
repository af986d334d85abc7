package goschema

import "strings"

// Clean runs the cleaning pass over obj in place and returns it: strings are
// trimmed and blank strings become nil, arrays and maps are cleaned
// recursively, undeclared fields are removed unless KeepUnknown is set.
func (s *Schema) Clean(obj any, opts ...ValidateOpt) (map[string]any, error) {
	m, ok := obj.(map[string]any)
	if !ok || m == nil {
		return nil, newFieldError(ReasonInvalidObject, "", "", map[string]any{"value": obj})
	}
	s.cleanObject(m, lastOpt(opts))
	return m, nil
}

func (s *Schema) cleanObject(m map[string]any, opt ValidateOpt) {
	for _, k := range sortedKeys(m) {
		f, declared := s.fields[k]
		if !declared {
			if !opt.KeepUnknown {
				delete(m, k)
			}
			continue
		}
		m[k] = cleanTyped(f.Type, m[k], opt)
	}
}

// cleanTyped cleans a declared value, letting nested schemas strip their own
// unknown fields.
func cleanTyped(t Type, v any, opt ValidateOpt) any {
	switch tt := t.(type) {
	case *Schema:
		if m, ok := v.(map[string]any); ok {
			tt.cleanObject(m, opt)
			return m
		}
	case arrayType:
		if sc, ok := tt.elem.(*Schema); ok {
			arr, isAny := v.([]any)
			items, ok := elements(v)
			if !ok {
				break
			}
			// Maps are shared with typed slices, so cleaning them in place
			// is enough; only []any gets scalar write-backs.
			for i, e := range items {
				if m, ok := e.(map[string]any); ok {
					sc.cleanObject(m, opt)
					continue
				}
				if isAny {
					arr[i] = cleanValue(e)
				}
			}
			return v
		}
	}
	return cleanValue(v)
}

// cleanValue normalizes an untyped value.
func cleanValue(v any) any {
	switch t := v.(type) {
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return nil
		}
		return t
	case []any:
		for i := range t {
			t[i] = cleanValue(t[i])
		}
		return t
	case map[string]any:
		for k, e := range t {
			t[k] = cleanValue(e)
		}
		return t
	}
	return v
}
