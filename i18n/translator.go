package i18n

import "strings"

// Translator renders the human message for an error code.
// data carries placeholder values such as "label", "min" or "max".
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{}

var messages = map[string]string{
	"field-allowed":    "{label} is not an allowed value",
	"field-denied":     "{label} is a denied value",
	"field-format":     "{label} has an invalid number format",
	"field-invalid":    "{label} is not valid",
	"field-length":     "{label} must have a length of {length}",
	"field-max":        "{label} must be lesser than or equal to {max}",
	"field-max-length": "{label} must have a length lesser than or equal to {maxLength}",
	"field-max-words":  "{label} must contain at most {maxWords} words",
	"field-min":        "{label} must be greater than or equal to {min}",
	"field-min-length": "{label} must have a length greater than or equal to {minLength}",
	"field-min-words":  "{label} must contain at least {minWords} words",
	"field-nullable":   "{label} cannot be null",
	"field-pattern":    "{label} does not match the pattern {pattern}",
	"field-required":   "{label} is required",
	"field-type":       "{label} is not of type {type}",
	"field-unknown":    "{label} is not an allowed field",
	"object-invalid":   "object is not valid",
	"parse-error":      "parse error",
	"duplicate-key":    "duplicate key",
	"truncated":        "truncated",
}

func (dictTranslator) Message(code string, data map[string]string) string {
	tpl, ok := messages[code]
	if !ok {
		return code
	}
	return Render(tpl, data)
}

// Render substitutes {key} placeholders. Missing keys render as "?".
func Render(tpl string, data map[string]string) string {
	if !strings.Contains(tpl, "{") {
		return tpl
	}
	var b strings.Builder
	for {
		i := strings.IndexByte(tpl, '{')
		if i < 0 {
			b.WriteString(tpl)
			return b.String()
		}
		j := strings.IndexByte(tpl[i:], '}')
		if j < 0 {
			b.WriteString(tpl)
			return b.String()
		}
		b.WriteString(tpl[:i])
		key := tpl[i+1 : i+j]
		if v, ok := data[key]; ok {
			b.WriteString(v)
		} else {
			b.WriteString("?")
		}
		tpl = tpl[i+j+1:]
	}
}

var currentTranslator Translator = dictTranslator{}

// SetTranslator replaces the Translator implementation; nil restores the
// built-in dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
