package audience

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// ExtensionName is the name under which the Resolver registers with a host.
const ExtensionName = "audiences"

// Resolver evaluates the audiences of a configuration and binds rules to them.
type Resolver struct {
	// The audience definitions, keyed by audience name
	audiences AudienceMap

	// Options applied to every evaluation, overridden per audience
	defaults Options

	// The Evaluator that evaluates the audience expressions
	evaluator Evaluator

	opts ResolverOptions
}

// ResolverOptions holds the collaborators of a Resolver other than the Evaluator.
type ResolverOptions struct {
	Logger  Logger
	Tracker Tracker
}

// Option configures a Resolver.
type Option func(o *ResolverOptions)

// WithLogger sets the Logger the Resolver reports to.
// Default: messages are discarded.
func WithLogger(l Logger) Option {
	return func(o *ResolverOptions) {
		o.Logger = l
	}
}

// WithTracker sets the Tracker that records evaluation timeouts.
// Default: events are discarded.
func WithTracker(t Tracker) Option {
	return func(o *ResolverOptions) {
		o.Tracker = t
	}
}

func applyOptions(o *ResolverOptions, opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}

// New creates a Resolver for the audiences in cfg.
// The configuration is assumed to be valid; it is not checked again.
func New(cfg Config, evaluator Evaluator, opts ...Option) *Resolver {
	r := Resolver{
		audiences: make(AudienceMap, len(cfg.Audiences)),
		defaults:  MergeOptions(Options{Timeout: DefaultTimeout}, cfg.DefaultOptions),
		evaluator: evaluator,
		opts: ResolverOptions{
			Logger:  NewZapLogger(nil),
			Tracker: nopTracker{},
		},
	}
	applyOptions(&r.opts, opts...)

	for name, def := range cfg.Audiences {
		r.audiences[name] = def
	}
	return &r
}

// Name returns ExtensionName.
func (r *Resolver) Name() string {
	return ExtensionName
}

// Predicate returns the predicate for the audience named by the rule's
// "audience" property. If the rule has no audience, Predicate returns nil
// and no error.
//
// An audience that is not a string, or that is not configured, is an error.
func (r *Resolver) Predicate(rule Rule) (Predicate, error) {
	v, ok := rule.Properties[AudienceProperty]
	if !ok {
		return nil, nil
	}

	name, ok := audienceName(v)
	if !ok {
		return nil, fmt.Errorf("Invalid audience specified for rule %q, expected string but got %s.", rule.Name, jsonKind(v))
	}

	if _, ok := r.audiences[name]; !ok {
		return nil, fmt.Errorf("Audience %q does not exist.", name)
	}

	return Variable{Name: name}, nil
}

// Variables returns a function for every configured audience that evaluates
// the audience when called.
func (r *Resolver) Variables() VariableMap {
	vars := make(VariableMap, len(r.audiences))
	for name, def := range r.audiences {
		name, def := name, def
		vars[name] = func(ctx context.Context) bool {
			return r.evaluate(ctx, name, def)
		}
	}
	return vars
}

// Evaluate evaluates the named audience. An audience that is not configured
// evaluates to false.
func (r *Resolver) Evaluate(ctx context.Context, name string) bool {
	def, ok := r.audiences[name]
	if !ok {
		r.opts.Logger.Warn(fmt.Sprintf("Audience %q does not exist.", name))
		return false
	}
	return r.evaluate(ctx, name, def)
}

// Audiences returns the configured audience names in sorted order.
func (r *Resolver) Audiences() []string {
	return sortedKeys(r.audiences)
}

// Expression returns the normalized expression of the named audience.
// The boolean is false if the audience does not exist or its definition
// cannot produce an expression.
func (r *Resolver) Expression(name string) (string, bool) {
	def, ok := r.audiences[name]
	if !ok {
		return "", false
	}
	return Normalize(def.Expression)
}

// Options returns the effective evaluation options of the named audience.
func (r *Resolver) Options(name string) (Options, bool) {
	def, ok := r.audiences[name]
	if !ok {
		return Options{}, false
	}
	return MergeOptions(r.defaults, def.Options), true
}

// evaluate never fails: every problem is logged and reported as false.
func (r *Resolver) evaluate(ctx context.Context, name string, def Definition) bool {
	expr, ok := Normalize(def.Expression)
	if !ok {
		r.opts.Logger.Warn(fmt.Sprintf("Invalid expression definition specified for audience %q.", name))
		return false
	}

	result, err := r.evaluator.Evaluate(ctx, expr, MergeOptions(r.defaults, def.Options))
	if err != nil {
		r.failed(ctx, name, expr, err)
		return false
	}

	b, ok := result.(bool)
	if !ok {
		r.opts.Logger.Warn(fmt.Sprintf("Evaluation result for audience %q is not boolean which may lead to unexpected results.", name))
	}
	return ok && b
}

// failed logs the evaluation error and, on timeout, records the event
// in the background.
func (r *Resolver) failed(ctx context.Context, name, expr string, err error) {
	ee := &EvaluationError{Type: ErrorUnexpected, Title: err.Error()}
	errors.As(err, &ee)

	r.opts.Logger.Error(fmt.Sprintf("Evaluation of audience %q failed: %s", name, ee.Title))

	if ee.Type != ErrorTimeout {
		return
	}

	payload := map[string]any{
		"name":       AudienceTimeout,
		"audience":   name,
		"expression": expr,
		"details": map[string]any{
			"errorType":   string(ee.Type),
			"errorTitle":  ee.Title,
			"errorDetail": ee.Detail,
		},
	}

	tracker, logger := r.opts.Tracker, r.opts.Logger
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := tracker.Track(ctx, EventOccurred, payload); err != nil {
			logger.Debug(fmt.Sprintf("Failed to log audience evaluation error %q.", ee.Title))
		}
	}()
}

// String returns a table of the audiences, with their expressions and
// effective timeouts.
func (r *Resolver) String() string {
	tw := table.NewWriter()
	tw.SetTitle("\nAUDIENCES\n")
	tw.AppendHeader(table.Row{"Audience", "Expression", "Timeout", "Attributes"})

	maxWidthOfExpressionColumn := 60
	maxExprLength := 0
	for _, name := range r.Audiences() {
		expr, ok := r.Expression(name)
		if !ok {
			expr = "(invalid)"
		}
		if len(expr) > maxExprLength {
			maxExprLength = len(expr)
		}
		o, _ := r.Options(name)
		tw.AppendRow(table.Row{
			name,
			expr,
			humanize.Comma(o.Timeout.Milliseconds()) + " ms",
			attributeKeys(o.Attributes),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: maxWidthOfExpressionColumn},
		{Number: 3, Align: text.AlignRight},
	})

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	if maxExprLength > maxWidthOfExpressionColumn {
		style.Options.SeparateRows = true
	}
	tw.SetStyle(style)
	return tw.Render()
}

func attributeKeys(m map[string]any) string {
	return strings.Join(sortedKeys(m), ", ")
}
