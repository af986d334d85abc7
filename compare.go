package goschema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// valuesEqual compares two scalars; numbers compare by value whatever their
// Go representation (int, float64, json.Number...).
func valuesEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
		return false
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Equal(bt)
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func containsValue(set []any, v any) bool {
	for _, s := range set {
		if valuesEqual(s, v) {
			return true
		}
	}
	return false
}

// compareValues orders numbers numerically, strings lexicographically and
// times chronologically. ok is false for mixed or unordered kinds.
func compareValues(a, b any) (int, bool) {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		if !ok || math.IsNaN(af) || math.IsNaN(bf) {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	if as, ok := stringValue(a); ok {
		bs, ok := stringValue(b)
		if !ok {
			return 0, false
		}
		return strings.Compare(as, bs), true
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return at.Compare(bt), true
	}
	return 0, false
}

// stringValue returns the text of a string-kind value (named types included).
func stringValue(v any) (string, bool) {
	if v == nil || isNumberLiteral(v) {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// lengthOf returns the length of strings (in runes), arrays, slices and maps.
func lengthOf(v any) (int, bool) {
	if s, ok := stringValue(v); ok {
		return utf8.RuneCountInString(s), true
	}
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	if l, ok := v.(interface{ Len() int }); ok {
		return l.Len(), true
	}
	return 0, false
}

// elements returns the items of an array-like value.
func elements(v any) ([]any, bool) {
	if arr, ok := v.([]any); ok {
		return arr, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// numberText is the written form of a number, used for the decimal check.
func numberText(v any) string {
	switch n := v.(type) {
	case json.Number:
		return string(n)
	case float64:
		return formatFloat(n)
	case float32:
		return formatFloat(float64(n))
	}
	return fmt.Sprint(v)
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// hasFraction reports a written fractional part: digits after a dot.
func hasFraction(v any) bool {
	txt := numberText(v)
	i := strings.IndexByte(txt, '.')
	if i < 0 {
		return false
	}
	frac := txt[i+1:]
	if j := strings.IndexAny(frac, "eE"); j >= 0 {
		frac = frac[:j]
	}
	return frac != ""
}

// isWhole reports a numeric value without a fractional part.
func isWhole(v any) bool {
	f, ok := toFloat(v)
	if !ok || math.IsInf(f, 0) {
		return false
	}
	return f == math.Trunc(f)
}

func countWords(s string) int { return len(strings.Fields(s)) }
