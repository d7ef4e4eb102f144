// Package annotation models a single annotated text sample and the outcome
// the quality gate assigns to it.
//
// A Record is built only through NewRecord (or FromAnnotations), which checks
// the positional invariants once, at the boundary. After construction a
// Record is read-only: accessors hand out copies.
//
// The three outcomes form a closed set. Exported, Disputed and Rejected are
// the only types implementing Outcome; callers switch on the concrete type.
package annotation
