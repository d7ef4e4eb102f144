package gate

import "github.com/teranos/labelgate/annotation"

// DisagreementEntry is one self-contained diagnostic line for human review.
type DisagreementEntry struct {
	Text             string                   `json:"text"`
	Labels           []string                 `json:"labels"`
	Annotators       []annotation.AnnotatorID `json:"annotators"`
	ConfidenceScores []float64                `json:"confidence_scores"`
}

// Reporter collects disputed outcomes in the order they are added.
type Reporter struct {
	entries []DisagreementEntry
}

// Add records a disputed outcome, keeping every label, annotator and score.
func (r *Reporter) Add(d annotation.Disputed) {
	r.entries = append(r.entries, DisagreementEntry{
		Text:             d.Record.Text(),
		Labels:           d.Record.Labels(),
		Annotators:       d.Record.Annotators(),
		ConfidenceScores: d.Record.ConfidenceScores(),
	})
}

// Entries returns the collected entries; empty when nothing was disputed.
func (r *Reporter) Entries() []DisagreementEntry {
	return r.entries
}

// Len returns the number of collected entries
func (r *Reporter) Len() int {
	return len(r.entries)
}
