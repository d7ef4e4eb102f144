// Package gate is the decision engine of the annotation quality gate.
//
// For each record the engine applies, in order:
//
//  1. the confidence filter: every annotator's confidence must clear the threshold
//  2. the agreement resolver: all annotators must have chosen the same label
//
// and routes the record to exactly one outcome: Exported, Disputed or
// Rejected. Disputed records feed the disagreement reporter, exported ones
// the export formatter. The package performs no I/O; writing artifacts is
// the job of package sink.
package gate
