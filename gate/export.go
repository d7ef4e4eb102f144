package gate

import "github.com/teranos/labelgate/annotation"

// TrainingRecord is the training contract: text and its resolved label, nothing else.
type TrainingRecord struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Exporter collects exported outcomes in the order they are added.
type Exporter struct {
	records []TrainingRecord
}

// Add maps an exported outcome to a training record.
func (e *Exporter) Add(x annotation.Exported) {
	e.records = append(e.records, TrainingRecord{Text: x.Text, Label: x.Label})
}

// Records returns the collected training records; empty when nothing agreed.
func (e *Exporter) Records() []TrainingRecord {
	return e.records
}

// Len returns the number of collected records
func (e *Exporter) Len() int {
	return len(e.records)
}
