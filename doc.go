// Package audience lets a rule engine gate rules on named "audiences": boolean
// conditions declared in configuration and evaluated lazily by an external
// Evaluator.
//
// An audience is defined either by a raw expression, or by a list of
// subexpressions joined with a conjunction ("and" or "or"). The Resolver turns
// each definition into a single expression, sends it to the Evaluator with the
// effective evaluation options, and reduces the outcome to true or false.
//
// The audience package does not evaluate expressions itself. Use the
// evaluator in the cel package, or supply your own implementation of the
// Evaluator interface.
//
// Typical use is as follows:
//
//  1. Load a configuration (LoadConfig or ParseConfig) or build a Config in code
//  2. Create an Evaluator
//  3. Create a Resolver with New, passing a Logger and a Tracker as options
//  4. Ask the Resolver for a Predicate for each rule that names an audience
//  5. Hand the Resolver's Variables to the host's condition evaluator
//
// # Failure Handling
//
// Evaluating an audience never fails from the host's point of view. An
// invalid definition, an evaluator error or a non-boolean result all make the
// audience evaluate to false, and are reported through the Logger. When the
// evaluator times out, the Resolver also records an "audienceTimeout" event
// with the Tracker, without waiting for the tracker to finish.
//
// The only errors the host sees come from Predicate, when a rule names an
// audience that is not a string or does not exist. These indicate a bug in
// the rule definition and should fail rule registration.
//
// # Concurrency
//
// A Resolver is immutable after construction. Any number of goroutines may
// call Evaluate, Predicate and the functions returned by Variables at the
// same time. Memoization of audience results within a rule-matching pass is
// up to the host.
package audience
