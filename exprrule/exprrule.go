// Package exprrule builds dynamic requirements and custom checks from
// expr-lang expressions, so rules can live in configuration instead of code.
//
//	status, _ := exprrule.RequiredIf(`status == "published"`)
//	goschema.Field{Name: "publishedAt", Spec: goschema.FieldSpec{Type: goschema.String, Required: status}}
//
// Expressions see the keys of the object under validation as variables; the
// whole object is also bound to context. Checks additionally see value and
// label.
package exprrule

import (
	"encoding/json"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	goschema "github.com/reoring/goschema"
)

// Rule is a compiled boolean expression.
type Rule struct {
	src string
	prg *vm.Program
}

// Compile compiles a boolean expression. Undefined variables evaluate to nil.
func Compile(expression string) (*Rule, error) {
	prg, err := expr.Compile(expression, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("exprrule: compile %q: %w", expression, err)
	}
	return &Rule{src: expression, prg: prg}, nil
}

// String returns the source expression.
func (r *Rule) String() string { return r.src }

// Eval runs the rule against ctx plus any extra bindings, which take
// precedence over ctx keys.
func (r *Rule) Eval(ctx map[string]any, extra map[string]any) (bool, error) {
	env := make(map[string]any, len(ctx)+len(extra)+1)
	for k, v := range ctx {
		env[k] = normalize(v)
	}
	env["context"] = ctx
	for k, v := range extra {
		env[k] = normalize(v)
	}
	out, err := expr.Run(r.prg, env)
	if err != nil {
		return false, fmt.Errorf("exprrule: eval %q: %w", r.src, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("exprrule: eval %q: result is %T, not bool", r.src, out)
	}
	return b, nil
}

// RequiredIf returns a requirement that holds when expression is true for the
// containing object. An evaluation error makes the field required.
func RequiredIf(expression string) (goschema.Requirement, error) {
	r, err := Compile(expression)
	if err != nil {
		return goschema.Requirement{}, err
	}
	return goschema.RequiredWhen(func(ctx map[string]any) bool {
		ok, err := r.Eval(ctx, nil)
		return ok || err != nil
	}), nil
}

// MustRequiredIf is like RequiredIf but panics on a compile error.
func MustRequiredIf(expression string) goschema.Requirement {
	req, err := RequiredIf(expression)
	if err != nil {
		panic(err)
	}
	return req
}

// Check returns a custom check passing when expression is true. Evaluation
// errors are returned to the caller of Validate.
func Check(expression string) (goschema.CheckFunc, error) {
	r, err := Compile(expression)
	if err != nil {
		return nil, err
	}
	return func(value any, label string, ctx map[string]any) (bool, error) {
		return r.Eval(ctx, map[string]any{"value": value, "label": label})
	}, nil
}

// MustCheck is like Check but panics on a compile error.
func MustCheck(expression string) goschema.CheckFunc {
	c, err := Check(expression)
	if err != nil {
		panic(err)
	}
	return c
}

// normalize turns decoded json.Number values into int64 or float64 so they
// compare as numbers inside expressions.
func normalize(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return v
}
