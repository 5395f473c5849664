package audience_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ezachrisen/audience"
	"github.com/matryer/is"
)

func newPredicateResolver(ev audience.Evaluator) *audience.Resolver {
	return audience.New(audience.Config{
		Audiences: audience.AudienceMap{
			"fooAudience": {Expression: audience.Raw("foo")},
		},
	}, ev)
}

// ruleAudience is how a host might type audience names in its rules.
type ruleAudience string

func TestPredicate(t *testing.T) {

	cases := map[string]struct {
		props   map[string]any
		wantNil bool
		wantErr string
	}{
		"no audience": {
			props:   map[string]any{"priority": 1},
			wantNil: true,
		},
		"no properties": {
			wantNil: true,
		},
		"number": {
			props:   map[string]any{"audience": 1},
			wantErr: `Invalid audience specified for rule "foo", expected string but got number.`,
		},
		"float": {
			props:   map[string]any{"audience": 1.5},
			wantErr: `Invalid audience specified for rule "foo", expected string but got number.`,
		},
		"boolean": {
			props:   map[string]any{"audience": true},
			wantErr: `Invalid audience specified for rule "foo", expected string but got boolean.`,
		},
		"object": {
			props:   map[string]any{"audience": map[string]any{"name": "fooAudience"}},
			wantErr: `Invalid audience specified for rule "foo", expected string but got object.`,
		},
		"null": {
			props:   map[string]any{"audience": nil},
			wantErr: `Invalid audience specified for rule "foo", expected string but got object.`,
		},
		"nonexistent": {
			props:   map[string]any{"audience": "barAudience"},
			wantErr: `Audience "barAudience" does not exist.`,
		},
		"json number": {
			props:   map[string]any{"audience": json.Number("1")},
			wantErr: `Invalid audience specified for rule "foo", expected string but got number.`,
		},
		"named string type nonexistent": {
			props:   map[string]any{"audience": ruleAudience("barAudience")},
			wantErr: `Audience "barAudience" does not exist.`,
		},
		"existing": {
			props: map[string]any{"audience": "fooAudience"},
		},
		"named string type": {
			props: map[string]any{"audience": ruleAudience("fooAudience")},
		},
	}

	r := newPredicateResolver(newMockEvaluator(true, nil))

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)

			p, err := r.Predicate(audience.Rule{Name: "foo", Properties: c.props})
			switch {
			case c.wantErr != "":
				is.True(err != nil)
				is.Equal(err.Error(), c.wantErr)
				is.Equal(p, nil)
			case c.wantNil:
				is.NoErr(err)
				is.Equal(p, nil)
			default:
				is.NoErr(err)
				is.Equal(p, audience.Variable{Name: "fooAudience"})
			}
		})
	}
}

func TestPredicateTest(t *testing.T) {
	is := is.New(t)
	ev := newMockEvaluator(true, nil)
	r := newPredicateResolver(ev)

	p, err := r.Predicate(audience.Rule{Name: "foo", Properties: map[string]any{"audience": "fooAudience"}})
	is.NoErr(err)

	// binding does not evaluate
	is.Equal(len(ev.Calls()), 0)

	ok, err := p.Test(context.Background(), r.Variables())
	is.NoErr(err)
	is.True(ok)
	is.Equal(len(ev.Calls()), 1)

	_, err = p.Test(context.Background(), audience.VariableMap{})
	is.True(errors.Is(err, audience.ErrVariableNotFound))
	is.Equal(err.Error(), "variable not found: fooAudience")
}

func TestResolverIsExtension(t *testing.T) {
	is := is.New(t)

	var ext audience.Extension = newPredicateResolver(nil)
	is.Equal(ext.Name(), "audiences")
	is.Equal(len(ext.Variables()), 1)
}
