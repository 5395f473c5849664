package audience_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/ezachrisen/audience"
)

// Example shows how a host binds a rule to an audience and tests it.
// The evaluator here only recognizes two expressions; real hosts use an
// expression language such as the one in the cel package.
func Example() {

	cfg, err := audience.ParseConfig([]byte(`
map:
  returning: "returning"
  premium:
    expression:
      conjunction: and
      subexpressions: [returning, paying]
`))
	if err != nil {
		fmt.Println(err)
		return
	}

	ev := audience.EvaluatorFunc(func(_ context.Context, expr string, _ audience.Options) (any, error) {
		fmt.Println("evaluating", expr)
		return !strings.Contains(expr, "paying"), nil
	})

	r := audience.New(cfg, ev)
	vars := r.Variables()

	for _, name := range []string{"returning", "premium"} {
		p, err := r.Predicate(audience.Rule{
			Name:       "banner",
			Properties: map[string]any{"audience": name},
		})
		if err != nil {
			fmt.Println(err)
			return
		}

		ok, err := p.Test(context.Background(), vars)
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println(name, ok)
	}

	_, err = r.Predicate(audience.Rule{Name: "foo", Properties: map[string]any{"audience": "barAudience"}})
	fmt.Println(err)

	// Output:
	// evaluating returning
	// returning true
	// evaluating (returning) and (paying)
	// premium false
	// Audience "barAudience" does not exist.
}
