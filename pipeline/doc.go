// Package pipeline connects the annotation loader, the decision engine and
// the artifact writers into one batch run, and re-runs batches when the
// input file changes.
package pipeline
