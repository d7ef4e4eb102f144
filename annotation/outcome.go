package annotation

// Kind names an outcome variant.
type Kind string

const (
	KindExported Kind = "exported"
	KindDisputed Kind = "disputed"
	KindRejected Kind = "rejected"
)

// Reason explains why a record was disputed or rejected.
type Reason string

const (
	ReasonLabelMismatch  Reason = "label_mismatch"
	ReasonBelowThreshold Reason = "below_threshold"
	ReasonNoConfidence   Reason = "no_confidence"
)

// Outcome is the decision for one record. The set of implementations is closed.
type Outcome interface {
	Kind() Kind
	sealed()
}

// Exported passed both the confidence gate and the agreement check.
type Exported struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Disputed passed the confidence gate but its annotators disagree.
// It carries the full record for diagnostics.
type Disputed struct {
	Record Record `json:"record"`
	Reason Reason `json:"reason"`
}

// Rejected failed the confidence gate and was never checked for agreement.
type Rejected struct {
	Record Record `json:"record"`
	Reason Reason `json:"reason"`
}

func (Exported) Kind() Kind { return KindExported }
func (Disputed) Kind() Kind { return KindDisputed }
func (Rejected) Kind() Kind { return KindRejected }

func (Exported) sealed() {}
func (Disputed) sealed() {}
func (Rejected) sealed() {}
