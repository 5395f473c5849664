package cel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ezachrisen/audience"
	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"
)

// DefaultCostLimit is the maximum evaluation cost of an expression.
const DefaultCostLimit = 100000

// Evaluator implements the audience.Evaluator interface using CEL.
// An Evaluator is safe for concurrent use.
type Evaluator struct {
	env *celgo.Env

	// Compilation results, keyed by expression text
	programs sync.Map

	opts options
}

type options struct {
	costLimit          uint64
	interruptFrequency uint
}

// Option configures an Evaluator.
type Option func(o *options)

// WithCostLimit sets the maximum evaluation cost of an expression.
// Expressions that exceed it fail with audience.ErrorTooComplex.
// Default: DefaultCostLimit
func WithCostLimit(limit uint64) Option {
	return func(o *options) {
		o.costLimit = limit
	}
}

// WithInterruptCheckFrequency sets how many comprehension iterations run
// between checks for timeout or cancellation.
// Default: 100
func WithInterruptCheckFrequency(n uint) Option {
	return func(o *options) {
		o.interruptFrequency = n
	}
}

// NewEvaluator creates an Evaluator for expressions over the attributes in
// the schema. The CEL string extension functions are available to
// expressions, and the words "and" and "or" may be used in place of the
// && and || operators, as in normalized composite expressions.
func NewEvaluator(s audience.Schema, opts ...Option) (*Evaluator, error) {
	e := Evaluator{
		opts: options{
			costLimit:          DefaultCostLimit,
			interruptFrequency: 100,
		},
	}
	for _, opt := range opts {
		opt(&e.opts)
	}

	decls, err := convertSchemaToDeclarations(s)
	if err != nil {
		return nil, fmt.Errorf("converting schema %s: %w", s.ID, err)
	}

	env, err := celgo.NewEnv(append(decls, ext.Strings())...)
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}
	e.env = env
	return &e, nil
}

// Compile checks the expression and caches the resulting program.
// Evaluate compiles expressions on first use; call Compile to find errors
// ahead of time.
func (e *Evaluator) Compile(expr string) error {
	_, err := e.program(expr)
	return err
}

// Evaluate evaluates the expression with the facts carried by ctx (see
// WithFacts) and the attributes in opts. Attributes take precedence over
// facts with the same name.
//
// All failures are reported as *audience.EvaluationError.
func (e *Evaluator) Evaluate(ctx context.Context, expr string, opts audience.Options) (any, error) {
	prg, err := e.program(expr)
	if err != nil {
		return nil, err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return nil, contextError(err, opts)
	}

	val, _, err := prg.ContextEval(ctx, activation(ctx, opts.Attributes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, contextError(ctxErr, opts)
		}
		if strings.Contains(err.Error(), "cost limit exceeded") {
			return nil, &audience.EvaluationError{
				Type:   audience.ErrorTooComplex,
				Title:  "Maximum expression complexity reached.",
				Detail: fmt.Sprintf("The expression exceeded the cost limit of %d.", e.opts.costLimit),
				Err:    err,
			}
		}
		return nil, &audience.EvaluationError{
			Type:   audience.ErrorEvaluationFailed,
			Title:  "Expression evaluation failed.",
			Detail: err.Error(),
			Err:    err,
		}
	}

	return val.Value(), nil
}

// compiled is the outcome of compiling an expression. Exactly one of the
// fields is set.
type compiled struct {
	prg celgo.Program
	err *audience.EvaluationError
}

// program returns the cached program for the expression, compiling it if
// needed. Compilation failures are cached too, so a misconfigured audience
// is compiled only once.
func (e *Evaluator) program(expr string) (celgo.Program, error) {
	c, ok := e.programs.Load(expr)
	if !ok {
		c, _ = e.programs.LoadOrStore(expr, e.compile(expr))
	}
	cc := c.(compiled)
	if cc.err != nil {
		return nil, cc.err
	}
	return cc.prg, nil
}

func (e *Evaluator) compile(expr string) compiled {
	ast, iss := e.env.Compile(translateConjunctions(expr))
	if iss != nil && iss.Err() != nil {
		return compiled{err: &audience.EvaluationError{
			Type:   audience.ErrorInvalidExpression,
			Title:  "The expression is invalid.",
			Detail: iss.Err().Error(),
			Err:    iss.Err(),
		}}
	}

	prg, err := e.env.Program(ast,
		celgo.CostLimit(e.opts.costLimit),
		celgo.InterruptCheckFrequency(e.opts.interruptFrequency),
	)
	if err != nil {
		return compiled{err: &audience.EvaluationError{
			Type:   audience.ErrorInvalidExpression,
			Title:  "The expression could not be prepared for evaluation.",
			Detail: err.Error(),
			Err:    err,
		}}
	}
	return compiled{prg: prg}
}

func contextError(err error, opts audience.Options) error {
	if errors.Is(err, context.DeadlineExceeded) {
		ee := &audience.EvaluationError{
			Type:  audience.ErrorTimeout,
			Title: "Maximum evaluation timeout reached before evaluation could complete.",
			Err:   err,
		}
		if opts.Timeout > 0 {
			ee.Detail = fmt.Sprintf("The evaluation took more than %dms to complete.", opts.Timeout.Milliseconds())
		}
		return ee
	}
	return &audience.EvaluationError{
		Type:  audience.ErrorUnexpected,
		Title: "The evaluation was canceled.",
		Err:   err,
	}
}
