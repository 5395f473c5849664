// Package cel provides an implementation of the audience Evaluator interface
// backed by Google's cel-go.
//
// See https://github.com/google/cel-go and https://opensource.google/projects/cel for more information
// about CEL.
//
// The audience expressions you write must conform to the CEL spec: https://github.com/google/cel-spec.
//
// # Attributes and Facts
//
// Expressions refer to attributes by the names declared in the schema passed
// to NewEvaluator. The values come from two places:
//
//   - facts, the run-time data of the current request, carried in the
//     context with WithFacts
//   - the attributes in the evaluation options, configured per audience or
//     as defaults
//
// When both define a value with the same name, the attribute wins.
//
// For example, with this schema:
//
//	schema := audience.Schema{
//		Elements: []audience.DataElement{
//			{Name: "user", Type: audience.Map{KeyType: audience.String{}, ValueType: audience.Any{}}},
//			{Name: "campaign", Type: audience.String{}},
//		},
//	}
//
// the expression
//
//	user.country == "NO" && campaign == "summer"
//
// can take user from the facts and campaign from the audience's attributes.
//
// # Conjunctions
//
// The words "and" and "or" may be used as infix operators in place of && and
// ||, so the normalized form of a composite audience, such as
// "(a) and (b)", compiles as written. Inside string literals the words are
// left alone.
//
// # Timeouts
//
// Evaluation stops when the options' timeout elapses or the context is done.
// Long-running comprehensions (all, exists, map, filter) are interrupted;
// other expressions are short enough to run to completion. A timed-out
// evaluation returns an *audience.EvaluationError of type
// audience.ErrorTimeout.
//
// # Cost
//
// Every program runs with a cost limit (see WithCostLimit), so an expression
// over a large list cannot monopolize the evaluator.
package cel
