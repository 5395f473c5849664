package audience

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Conjunction is the logical operator joining the subexpressions of a
// composite expression.
type Conjunction string

const (
	And Conjunction = "and"
	Or  Conjunction = "or"
)

// Expression defines the condition of an audience. It is either a raw
// expression, or a composite of subexpressions when Composite is set.
type Expression struct {
	// The expression text, used when Composite is nil.
	Raw string

	// Subexpressions joined with a conjunction.
	Composite *Composite
}

// Composite is a list of subexpressions joined by a conjunction.
// The subexpressions are evaluated as a group, in the order given.
type Composite struct {
	Conjunction    Conjunction `yaml:"conjunction" json:"conjunction"`
	Subexpressions []string    `yaml:"subexpressions" json:"subexpressions"`
}

// Definition pairs an audience expression with the evaluation options
// that override the configuration defaults for this audience.
type Definition struct {
	Expression Expression `yaml:"expression" json:"expression"`
	Options    Options    `yaml:"options,omitempty" json:"options,omitempty"`
}

// AudienceMap holds the audience definitions keyed by audience name.
type AudienceMap map[string]Definition

// Raw returns an expression consisting of the text s.
func Raw(s string) Expression {
	return Expression{Raw: s}
}

// AllOf returns an expression that is true when all subexpressions are true.
func AllOf(subexpressions ...string) Expression {
	return Expression{Composite: &Composite{Conjunction: And, Subexpressions: subexpressions}}
}

// AnyOf returns an expression that is true when any subexpression is true.
func AnyOf(subexpressions ...string) Expression {
	return Expression{Composite: &Composite{Conjunction: Or, Subexpressions: subexpressions}}
}

// Normalize produces the single expression string for e.
//
// A raw expression is returned unchanged. The subexpressions of a composite
// are each wrapped in parentheses and joined with the conjunction, for
// example "(a) and (b)". A composite with a single subexpression yields that
// subexpression without parentheses. A composite without subexpressions
// cannot produce an expression, and Normalize returns false.
func Normalize(e Expression) (string, bool) {
	if e.Composite == nil {
		return e.Raw, true
	}

	subs := e.Composite.Subexpressions
	switch len(subs) {
	case 0:
		return "", false
	case 1:
		return subs[0], true
	}

	sep := fmt.Sprintf(") %s (", e.Composite.Conjunction)
	return "(" + strings.Join(subs, sep) + ")", true
}

// String returns the normalized expression, or an empty string if the
// expression is invalid.
func (e Expression) String() string {
	s, _ := Normalize(e)
	return s
}

// UnmarshalYAML accepts either a string (a raw expression) or a mapping
// with a conjunction and a list of subexpressions.
func (e *Expression) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*e = Raw(s)
		return nil
	case yaml.MappingNode:
		var c Composite
		if err := node.Decode(&c); err != nil {
			return err
		}
		*e = Expression{Composite: &c}
		return nil
	default:
		return fmt.Errorf("line %d: expected an expression string or object", node.Line)
	}
}

// UnmarshalYAML accepts either a bare string, interpreted as
// {expression: <string>}, or a mapping with an expression and options.
func (d *Definition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*d = Definition{Expression: Raw(s)}
		return nil
	}

	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected an audience definition string or object", node.Line)
	}

	// plain has no UnmarshalYAML method, so decoding it does not recurse
	type plain Definition
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*d = Definition(p)
	return nil
}
