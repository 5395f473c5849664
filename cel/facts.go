package cel

import "context"

type factsKey struct{}

// WithFacts returns a context carrying facts: run-time data, such as the
// attributes of the current user or request, that expressions evaluated
// with the context can refer to.
func WithFacts(ctx context.Context, facts map[string]any) context.Context {
	return context.WithValue(ctx, factsKey{}, facts)
}

// Facts returns the facts carried by ctx, or nil.
func Facts(ctx context.Context) map[string]any {
	f, _ := ctx.Value(factsKey{}).(map[string]any)
	return f
}

// activation combines the facts in ctx with the attributes.
func activation(ctx context.Context, attributes map[string]any) map[string]any {
	facts := Facts(ctx)
	data := make(map[string]any, len(facts)+len(attributes))
	for k, v := range facts {
		data[k] = v
	}
	for k, v := range attributes {
		data[k] = v
	}
	return data
}
