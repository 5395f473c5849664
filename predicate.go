package audience

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// AudienceProperty is the rule property that names the audience a rule
// applies to.
const AudienceProperty = "audience"

// Rule is the part of a host rule the Resolver inspects.
type Rule struct {
	// The rule name, used in error messages.
	Name string

	// Rule properties, as declared in the host's rule configuration.
	Properties map[string]any
}

// VariableFunc lazily produces the value of a named variable.
type VariableFunc func(ctx context.Context) bool

// VariableMap holds the variables a host's condition evaluator can resolve,
// keyed by variable name.
type VariableMap map[string]VariableFunc

// Predicate decides whether a rule applies.
type Predicate interface {
	Test(ctx context.Context, vars VariableMap) (bool, error)
}

// ErrVariableNotFound is returned by Variable.Test when the variable map
// does not contain the variable.
var ErrVariableNotFound = errors.New("variable not found")

// Variable is a predicate that resolves to the value of the named variable.
type Variable struct {
	Name string
}

// Test looks up the variable in vars and invokes it.
func (v Variable) Test(ctx context.Context, vars VariableMap) (bool, error) {
	f, ok := vars[v.Name]
	if !ok || f == nil {
		return false, fmt.Errorf("%w: %s", ErrVariableNotFound, v.Name)
	}
	return f(ctx), nil
}

func (v Variable) String() string {
	return v.Name
}

// Extension is implemented by rule engine extensions that contribute
// predicates and variables.
type Extension interface {
	// Name identifies the extension.
	Name() string

	// Predicate returns the predicate for the rule, or nil if the extension
	// has no predicate for it.
	Predicate(r Rule) (Predicate, error)

	// Variables returns the variables the extension contributes.
	Variables() VariableMap
}

// audienceName returns v as an audience name. Any value of a string kind
// is a name, except json.Number, which is a number.
func audienceName(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	if _, ok := v.(json.Number); ok {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

// jsonKind names the kind of v the way it would be described in JSON
// configuration: string, number, boolean or object.
func jsonKind(v any) string {
	if v == nil {
		return "object"
	}
	if _, ok := v.(json.Number); ok {
		return "number"
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Func:
		return "function"
	default:
		return "object"
	}
}
