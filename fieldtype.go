package goschema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

// Type is the declared type of a field. The variant is closed: a Kind, a
// nested *Schema, an ArrayOf wrapper or an InstanceOf class type.
type Type interface {
	String() string
	isType()
}

// Kind is a primitive type marker.
type Kind int

const (
	_ Kind = iota
	KindArray
	KindBoolean
	KindFunction
	KindNumber
	KindObject
	KindString
)

// Primitive markers usable as FieldSpec.Type.
var (
	Array    Type = KindArray
	Boolean  Type = KindBoolean
	Function Type = KindFunction
	Number   Type = KindNumber
	Object   Type = KindObject
	String   Type = KindString
)

func (Kind) isType() {}

func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindBoolean:
		return "boolean"
	case KindFunction:
		return "function"
	case KindNumber:
		return "number"
	case KindObject:
		return "object"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) valid() bool { return k >= KindArray && k <= KindString }

// matches performs the primitive-kind check without any coercion.
func (k Kind) matches(v any) bool {
	if v == nil {
		return false
	}
	switch k {
	case KindNumber:
		_, ok := toFloat(v)
		return ok
	case KindString:
		return reflect.TypeOf(v).Kind() == reflect.String && !isNumberLiteral(v)
	}
	rk := reflect.TypeOf(v).Kind()
	switch k {
	case KindArray:
		return rk == reflect.Slice || rk == reflect.Array
	case KindBoolean:
		return rk == reflect.Bool
	case KindFunction:
		return rk == reflect.Func
	case KindObject:
		switch rk {
		case reflect.Map, reflect.Struct:
			return true
		case reflect.Pointer:
			return reflect.TypeOf(v).Elem().Kind() == reflect.Struct
		}
	}
	return false
}

// isNumberLiteral reports json.Number, whose underlying kind is string.
func isNumberLiteral(v any) bool {
	_, ok := v.(json.Number)
	return ok
}

type arrayType struct{ elem Type }

// ArrayOf wraps an element type: the value must be an array whose elements
// all satisfy elem. elem must be a Kind, a *Schema or an InstanceOf type.
func ArrayOf(elem Type) Type { return arrayType{elem: elem} }

func (arrayType) isType() {}

func (a arrayType) String() string {
	if a.elem == nil {
		return "[]"
	}
	return "[" + a.elem.String() + "]"
}

// Elem returns the wrapped element type of an ArrayOf type, or nil.
func Elem(t Type) Type {
	if a, ok := t.(arrayType); ok {
		return a.elem
	}
	return nil
}

type instanceType struct{ rt reflect.Type }

// InstanceOf declares an opaque class-like type: values must be assignable to
// T (or implement T when T is an interface).
func InstanceOf[T any]() Type {
	return instanceType{rt: reflect.TypeOf((*T)(nil)).Elem()}
}

// InstanceOfType is the reflect-based form of InstanceOf.
func InstanceOfType(rt reflect.Type) Type { return instanceType{rt: rt} }

func (instanceType) isType() {}

func (i instanceType) String() string {
	if i.rt == nil {
		return "<nil>"
	}
	return i.rt.String()
}

func (i instanceType) matches(v any) bool {
	if v == nil || i.rt == nil {
		return false
	}
	vt := reflect.TypeOf(v)
	if i.rt.Kind() == reflect.Interface {
		return vt.Implements(i.rt)
	}
	return vt.AssignableTo(i.rt)
}

// toFloat converts any Go numeric value (or a valid json.Number) to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN(), true
		}
		return f, true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
