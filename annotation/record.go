package annotation

import (
	"encoding/json"
	"math"
	"slices"
	"strings"

	"github.com/teranos/labelgate/errors"
)

// AnnotatorID identifies the person who assigned a label.
// IDs that are plain integer literals round-trip through JSON as numbers.
type AnnotatorID string

// MarshalJSON emits integer-literal IDs as JSON numbers and everything else as strings
func (id AnnotatorID) MarshalJSON() ([]byte, error) {
	if isIntegerLiteral(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts either a JSON string or a JSON number
func (id *AnnotatorID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = AnnotatorID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrap(err, "annotator id must be a string or number")
	}
	*id = AnnotatorID(n.String())
	return nil
}

func isIntegerLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	if len(s) > 1 && s[0] == '0' {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Annotation is one annotator's judgment on a sample.
type Annotation struct {
	Annotator  AnnotatorID
	Label      string
	Confidence float64
}

// Record is one text sample with its positionally aligned annotations:
// Labels()[i] and ConfidenceScores()[i] were assigned by Annotators()[i].
type Record struct {
	text       string
	annotators []AnnotatorID
	labels     []string
	scores     []float64
}

// NewRecord validates and builds a Record. It fails with ErrMalformedRecord when
// the text is empty, there are no annotators, the three sequences differ in
// length, or a confidence score is not a number within [0,1].
func NewRecord(text string, annotators []AnnotatorID, labels []string, scores []float64) (Record, error) {
	if strings.TrimSpace(text) == "" {
		return Record{}, errors.NewMalformedRecordError("text is empty")
	}
	if len(annotators) == 0 {
		return Record{}, errors.WithDetailf(
			errors.NewMalformedRecordError("record has no annotators"),
			"text: %q", text)
	}
	if len(labels) != len(annotators) || len(scores) != len(annotators) {
		return Record{}, errors.WithDetailf(
			errors.NewMalformedRecordError("length mismatch: %d annotators, %d labels, %d confidence scores",
				len(annotators), len(labels), len(scores)),
			"text: %q", text)
	}
	for i, score := range scores {
		if math.IsNaN(score) || score < 0 || score > 1 {
			return Record{}, errors.WithDetailf(
				errors.NewMalformedRecordError("confidence score %v at position %d is outside [0,1]", score, i),
				"text: %q, annotator: %s", text, annotators[i])
		}
	}

	return Record{
		text:       text,
		annotators: slices.Clone(annotators),
		labels:     slices.Clone(labels),
		scores:     slices.Clone(scores),
	}, nil
}

// FromAnnotations builds a Record from annotation triples, in order.
func FromAnnotations(text string, annotations []Annotation) (Record, error) {
	annotators := make([]AnnotatorID, len(annotations))
	labels := make([]string, len(annotations))
	scores := make([]float64, len(annotations))
	for i, a := range annotations {
		annotators[i] = a.Annotator
		labels[i] = a.Label
		scores[i] = a.Confidence
	}
	return NewRecord(text, annotators, labels, scores)
}

// Text returns the sample content.
func (r Record) Text() string { return r.text }

// Len returns the number of annotators.
func (r Record) Len() int { return len(r.annotators) }

// Annotators returns a copy of the annotator IDs.
func (r Record) Annotators() []AnnotatorID { return slices.Clone(r.annotators) }

// Labels returns a copy of the labels.
func (r Record) Labels() []string { return slices.Clone(r.labels) }

// ConfidenceScores returns a copy of the confidence scores.
func (r Record) ConfidenceScores() []float64 { return slices.Clone(r.scores) }

// Annotations returns the aligned (annotator, label, confidence) triples.
func (r Record) Annotations() []Annotation {
	out := make([]Annotation, len(r.annotators))
	for i := range r.annotators {
		out[i] = Annotation{Annotator: r.annotators[i], Label: r.labels[i], Confidence: r.scores[i]}
	}
	return out
}

// MinConfidence returns the lowest confidence score; ok is false when there are none.
func (r Record) MinConfidence() (lowest float64, ok bool) {
	if len(r.scores) == 0 {
		return 0, false
	}
	return slices.Min(r.scores), true
}

// recordJSON is the diagnostic wire shape of a Record.
type recordJSON struct {
	Text             string        `json:"text"`
	Labels           []string      `json:"labels"`
	Annotators       []AnnotatorID `json:"annotators"`
	ConfidenceScores []float64     `json:"confidence_scores"`
}

// MarshalJSON writes the full record: text, labels, annotators, confidence_scores.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Text:             r.text,
		Labels:           nonNil(r.labels),
		Annotators:       nonNil(r.annotators),
		ConfidenceScores: nonNil(r.scores),
	})
}

// UnmarshalJSON decodes the diagnostic shape and re-validates it through NewRecord.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rec, err := NewRecord(raw.Text, raw.Annotators, raw.Labels, raw.ConfidenceScores)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
