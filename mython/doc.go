// Package mython implements the core of the Mython execution engine: a
// lexer with off-side (indentation-based) block structure and a
// tree-walking evaluator over a minimal object model. The initial version
// supports:
//   - Assignment, field assignment (obj.field = expr) and print statements.
//   - if/else with 2-space indented blocks.
//   - Classes with single inheritance, user-defined methods, and the
//     dunder hooks __init__, __str__, __add__, __eq__, __lt__.
//   - Integers, strings, booleans and none as first-class values.
//   - Arithmetic, comparison and short-circuiting logical operators.
//
// Comments beginning with # are ignored. There are no loops, imports, or
// collection literals; recursion through method calls is the only means of
// repetition.
//
// Parse turns source text into a Compound of Nodes; Evaluator.Run executes
// one against a fresh Env, and Evaluator.EvalStatement executes a single
// line against a caller-supplied Env for interactive use.
package mython
