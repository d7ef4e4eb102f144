package gate

import "fmt"

// Status classifies a finished batch for the console summary.
type Status string

const (
	StatusEmpty               Status = "empty"
	StatusAllFailedConfidence Status = "all_failed_confidence"
	StatusAllFailedAgreement  Status = "all_failed_agreement"
	StatusOK                  Status = "ok"
)

// Summary holds the batch counts. Total == Agreed + Disagreed + Rejected.
type Summary struct {
	Total     int `json:"total"`
	Agreed    int `json:"agreed"`
	Disagreed int `json:"disagreed"`
	Rejected  int `json:"rejected"`
}

// Status picks which of the fixed summary sentences applies.
func (s Summary) Status() Status {
	switch {
	case s.Total == 0:
		return StatusEmpty
	case s.Agreed == 0 && s.Disagreed == 0:
		return StatusAllFailedConfidence
	case s.Agreed == 0:
		return StatusAllFailedAgreement
	default:
		return StatusOK
	}
}

// Message renders the human-readable status sentence.
func (s Summary) Message() string {
	switch s.Status() {
	case StatusEmpty:
		return "No samples to validate."
	case StatusAllFailedConfidence:
		return "All samples failed the confidence score check."
	case StatusAllFailedAgreement:
		return "All samples failed the agreement test."
	default:
		return fmt.Sprintf("Agreed samples: %d, disagreed samples: %d, rejected by confidence: %d (of %d).",
			s.Agreed, s.Disagreed, s.Rejected, s.Total)
	}
}

// PassedConfidence is the number of records that reached the agreement check.
func (s Summary) PassedConfidence() int {
	return s.Agreed + s.Disagreed
}

// AgreementRate is the fraction of confidence-passing records whose annotators agreed.
// Zero when no record passed the confidence filter.
func (s Summary) AgreementRate() float64 {
	passed := s.PassedConfidence()
	if passed == 0 {
		return 0
	}
	return float64(s.Agreed) / float64(passed)
}
