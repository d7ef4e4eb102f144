package gate

import "github.com/teranos/labelgate/annotation"

// DefaultThreshold is the minimum per-annotator confidence a sample needs.
const DefaultThreshold = 0.8

// ConfidenceFilter gates records on per-annotator confidence.
type ConfidenceFilter struct {
	Threshold float64
}

// NewConfidenceFilter creates a filter with the given threshold
func NewConfidenceFilter(threshold float64) *ConfidenceFilter {
	return &ConfidenceFilter{Threshold: threshold}
}

// Check reports whether every confidence score in rec is >= the threshold.
// A single weak judgment rejects the whole sample. A record with no scores
// fails, since there is no confidence to assert. On failure the returned
// Rejected carries rec unmodified.
func (f *ConfidenceFilter) Check(rec annotation.Record) (bool, annotation.Rejected) {
	lowest, ok := rec.MinConfidence()
	if !ok {
		return false, annotation.Rejected{Record: rec, Reason: annotation.ReasonNoConfidence}
	}
	if lowest < f.Threshold {
		return false, annotation.Rejected{Record: rec, Reason: annotation.ReasonBelowThreshold}
	}
	return true, annotation.Rejected{}
}
