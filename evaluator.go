package audience

import (
	"context"
	"errors"
	"fmt"
)

// Evaluator is the interface implemented by types that can evaluate audience
// expressions.
type Evaluator interface {
	// Evaluate evaluates the expression with the options and returns the
	// resulting value. Audience expressions are expected to produce a boolean,
	// but the Evaluator does not enforce it.
	//
	// Evaluate should stop when the context is done, or when opts.Timeout has
	// elapsed, and report that with an *EvaluationError of type ErrorTimeout.
	Evaluate(ctx context.Context, expr string, opts Options) (any, error)
}

// ErrorType classifies evaluation failures.
type ErrorType string

const (
	// The evaluation did not complete within the timeout.
	ErrorTimeout ErrorType = "timeout"

	// The expression could not be parsed or checked.
	ErrorInvalidExpression ErrorType = "invalid-expression"

	// The expression exceeded the evaluator's cost budget.
	ErrorTooComplex ErrorType = "too-complex-expression"

	// The expression was valid but failed while running.
	ErrorEvaluationFailed ErrorType = "evaluation-failed"

	ErrorUnexpected ErrorType = "unexpected-error"
)

// EvaluationError is returned by an Evaluator when an expression cannot be
// evaluated.
type EvaluationError struct {
	// The kind of failure.
	Type ErrorType

	// A short, human-readable summary of the failure.
	Title string

	// Optional additional information.
	Detail string

	// The underlying error, if any.
	Err error
}

func (e *EvaluationError) Error() string {
	if e.Detail == "" {
		return e.Title
	}
	return fmt.Sprintf("%s %s", e.Title, e.Detail)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is, or wraps, an *EvaluationError of type ErrorTimeout.
func IsTimeout(err error) bool {
	var ee *EvaluationError
	return errors.As(err, &ee) && ee.Type == ErrorTimeout
}

// EvaluatorFunc adapts an ordinary function to the Evaluator interface.
type EvaluatorFunc func(ctx context.Context, expr string, opts Options) (any, error)

func (f EvaluatorFunc) Evaluate(ctx context.Context, expr string, opts Options) (any, error) {
	return f(ctx, expr, opts)
}
