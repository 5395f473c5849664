package audience_test

import (
	"testing"
	"time"

	"github.com/ezachrisen/audience"
	"github.com/matryer/is"
	"gopkg.in/yaml.v3"
)

func TestNormalize(t *testing.T) {

	cases := map[string]struct {
		expr    audience.Expression
		want    string
		invalid bool
	}{
		"raw":           {expr: audience.Raw("foo"), want: "foo"},
		"empty raw":     {expr: audience.Raw(""), want: ""},
		"multiple and":  {expr: audience.AllOf("a", "b"), want: "(a) and (b)"},
		"single and":    {expr: audience.AllOf("a"), want: "a"},
		"multiple or":   {expr: audience.AnyOf("a", "b", "c"), want: "(a) or (b) or (c)"},
		"single or":     {expr: audience.AnyOf("a"), want: "a"},
		"nested parens": {expr: audience.AnyOf("(a or b)", "c"), want: "((a or b)) or (c)"},
		"empty and":     {expr: audience.AllOf(), invalid: true},
		"empty or":      {expr: audience.AnyOf(), invalid: true},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			got, ok := audience.Normalize(c.expr)
			is.Equal(ok, !c.invalid)
			is.Equal(got, c.want)
			is.Equal(c.expr.String(), c.want)
		})
	}
}

func TestDefinitionUnmarshal(t *testing.T) {

	cases := map[string]struct {
		doc     string
		want    audience.Definition
		wantErr bool
	}{
		"bare string": {
			doc:  `"user.visits > 1"`,
			want: audience.Definition{Expression: audience.Raw("user.visits > 1")},
		},
		"raw expression": {
			doc:  `{expression: "a"}`,
			want: audience.Definition{Expression: audience.Raw("a")},
		},
		"composite": {
			doc: `
expression:
  conjunction: or
  subexpressions: [a, b]
options:
  timeout: 10
  attributes:
    campaign: summer
`,
			want: audience.Definition{
				Expression: audience.AnyOf("a", "b"),
				Options: audience.Options{
					Timeout:    10 * time.Millisecond,
					Attributes: map[string]any{"campaign": "summer"},
				},
			},
		},
		"list": {
			doc:     `[a, b]`,
			wantErr: true,
		},
		"expression list": {
			doc:     `{expression: [a, b]}`,
			wantErr: true,
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			var d audience.Definition
			err := yaml.Unmarshal([]byte(c.doc), &d)
			if c.wantErr {
				is.True(err != nil)
				return
			}
			is.NoErr(err)
			is.Equal(d, c.want)
		})
	}
}
