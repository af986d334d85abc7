package goschema

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/reoring/goschema/i18n"
)

// Error codes (closed enumeration). Every ValidationError carries exactly one.
const (
	CodeFieldAllowed   = "field-allowed"
	CodeFieldDenied    = "field-denied"
	CodeFieldFormat    = "field-format"
	CodeFieldInvalid   = "field-invalid"
	CodeFieldLength    = "field-length"
	CodeFieldMax       = "field-max"
	CodeFieldMaxLength = "field-max-length"
	CodeFieldMaxWords  = "field-max-words"
	CodeFieldMin       = "field-min"
	CodeFieldMinLength = "field-min-length"
	CodeFieldMinWords  = "field-min-words"
	CodeFieldNullable  = "field-nullable"
	CodeFieldPattern   = "field-pattern"
	CodeFieldRequired  = "field-required"
	CodeFieldType      = "field-type"
	CodeFieldUnknown   = "field-unknown"
	CodeObjectInvalid  = "object-invalid"
	// Input decoding (ParseFrom/StreamParse), outside the validation enumeration.
	CodeParseError   = "parse-error"
	CodeDuplicateKey = "duplicate-key"
	CodeTruncated    = "truncated"
)

// Reason refines a code with the engine check that produced it.
type Reason string

const (
	ReasonInvalidObject       Reason = "InvalidObject"
	ReasonUnknownField        Reason = "UnknownField"
	ReasonMissingField        Reason = "MissingField"
	ReasonTypeMismatch        Reason = "TypeMismatch"
	ReasonNotANumber          Reason = "NotANumber"
	ReasonNotAFloat           Reason = "NotAFloat"
	ReasonNotAnInteger        Reason = "NotAnInteger"
	ReasonElementTypeMismatch Reason = "ElementTypeMismatch"
	ReasonNotAnInstance       Reason = "NotAnInstance"
	ReasonDisallowedValue     Reason = "DisallowedValue"
	ReasonDeniedValue         Reason = "DeniedValue"
	ReasonTooShort            Reason = "TooShort"
	ReasonTooLong             Reason = "TooLong"
	ReasonWrongLength         Reason = "WrongLength"
	ReasonBelowMinimum        Reason = "BelowMinimum"
	ReasonAboveMaximum        Reason = "AboveMaximum"
	ReasonTooFewWords         Reason = "TooFewWords"
	ReasonTooManyWords        Reason = "TooManyWords"
	ReasonPatternMismatch     Reason = "PatternMismatch"
	ReasonCustomCheckFailed   Reason = "CustomCheckFailed"
)

var reasonCodes = map[Reason]string{
	ReasonInvalidObject:       CodeObjectInvalid,
	ReasonUnknownField:        CodeFieldUnknown,
	ReasonMissingField:        CodeFieldRequired,
	ReasonTypeMismatch:        CodeFieldType,
	ReasonNotANumber:          CodeFieldType,
	ReasonNotAFloat:           CodeFieldFormat,
	ReasonNotAnInteger:        CodeFieldFormat,
	ReasonElementTypeMismatch: CodeFieldType,
	ReasonNotAnInstance:       CodeFieldType,
	ReasonDisallowedValue:     CodeFieldAllowed,
	ReasonDeniedValue:         CodeFieldDenied,
	ReasonTooShort:            CodeFieldMinLength,
	ReasonTooLong:             CodeFieldMaxLength,
	ReasonWrongLength:         CodeFieldLength,
	ReasonBelowMinimum:        CodeFieldMin,
	ReasonAboveMaximum:        CodeFieldMax,
	ReasonTooFewWords:         CodeFieldMinWords,
	ReasonTooManyWords:        CodeFieldMaxWords,
	ReasonPatternMismatch:     CodeFieldPattern,
	ReasonCustomCheckFailed:   CodeFieldInvalid,
}

// Code returns the public error code for the reason.
func (r Reason) Code() string { return reasonCodes[r] }

// Construction-time failures. They are wrapped with details via %w.
var (
	ErrInvalidSpec     = errors.New("goschema: invalid field specification")
	ErrInvalidArgument = errors.New("goschema: invalid argument")
	ErrFieldNotFound   = errors.New("goschema: field not found")
	ErrInvalidPath     = errors.New("goschema: invalid field path")
)

// ValidationError is the single error kind raised by validation.
type ValidationError struct {
	Code    string // One of the Code* constants.
	Reason  Reason
	Message string
	Path    string // Bracketed field path (for example: items[2][name]).
	Label   string
	// Params carries the structured context (label, bound, pattern, allowed set...).
	Params map[string]any
	// Cause is set when the error wraps an input decoding failure.
	Cause error
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Path, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// AsValidationError extracts a *ValidationError using errors.As.
func AsValidationError(err error) (*ValidationError, bool) {
	if err == nil {
		return nil, false
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// HasCode reports whether err is a ValidationError with the given code.
func HasCode(err error, code string) bool {
	ve, ok := AsValidationError(err)
	return ok && ve.Code == code
}

func newFieldError(reason Reason, path, label string, params map[string]any) *ValidationError {
	if params == nil {
		params = map[string]any{}
	}
	if label != "" {
		params["label"] = label
	}
	code := reason.Code()
	return &ValidationError{
		Code:    code,
		Reason:  reason,
		Message: i18n.T(code, messageData(params)),
		Path:    path,
		Label:   label,
		Params:  params,
	}
}

// messageData stringifies params for the message catalog.
func messageData(params map[string]any) map[string]string {
	data := make(map[string]string, len(params))
	for k, v := range params {
		switch t := v.(type) {
		case string:
			data[k] = t
		case []any:
			parts := make([]string, len(t))
			for i := range t {
				parts[i] = fmt.Sprint(t[i])
			}
			data[k] = strings.Join(parts, ", ")
		default:
			data[k] = fmt.Sprint(v)
		}
	}
	return data
}

// sortedKeys is shared by unknown-key detection and cleaning to keep output deterministic.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
