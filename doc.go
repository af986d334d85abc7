// Package goschema validates loosely typed objects (map[string]any) against
// declarative schemas.
//
// A Schema is an ordered set of field specifications. Each FieldSpec names a
// type (a primitive marker, a nested *Schema, an ArrayOf wrapper or an
// InstanceOf class type) plus optional constraints: allowed/denied sets,
// length, min/max, word counts, a pattern and a custom check. Constraints may
// be literals or producers resolved at validation time.
//
// Validation is fail-fast: the first violation is returned as a
// *ValidationError carrying a closed error code, a bracketed field path
// (items[2][name]), the field label and the relevant parameters. Checks run
// in a fixed order: presence, type, allowed/denied, length, min, minWords,
// max, maxWords, pattern and finally the custom check.
//
// Before validating, objects are cleaned in place: strings are trimmed, blank
// strings become nil and undeclared keys are removed.
//
// Typical usage:
//
//	s := goschema.MustNew(
//	    goschema.Field{Name: "name", Spec: goschema.FieldSpec{Type: goschema.String, Length: goschema.LengthBetween(1, 50)}},
//	    goschema.Field{Name: "email", Spec: goschema.FieldSpec{Type: goschema.String, RegEx: goschema.Pattern(goschema.EmailPattern)}},
//	    goschema.Field{Name: "tags", Spec: goschema.FieldSpec{Type: goschema.ArrayOf(goschema.String), Required: goschema.Optional}},
//	)
//	if err := s.Validate(obj); err != nil {
//	    ve, _ := goschema.AsValidationError(err)
//	    fmt.Println(ve.Code, ve.Path, ve.Message)
//	}
//
// JSON and YAML input can be decoded and validated in one step with ParseFrom
// and StreamParse, which also enforce duplicate-key, depth and size limits.
// Importing the source package switches the JSON driver to goccy/go-json;
// source/yaml provides YAML documents.
//
// A Schema carries no runtime state and may be shared by concurrent
// validations. Extend and Update mutate it; clone before editing a schema
// that is in use.
package goschema
