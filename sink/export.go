package sink

import (
	"github.com/teranos/labelgate/errors"
	"github.com/teranos/labelgate/gate"
)

// DefaultExportPath is where the training dataset lands unless configured otherwise.
const DefaultExportPath = "data/processed/clean_training_dataset.jsonl"

// ExportWriter writes the training dataset, replacing any previous file.
type ExportWriter struct {
	Path string
}

// NewExportWriter creates an export writer; an empty path means DefaultExportPath.
func NewExportWriter(path string) *ExportWriter {
	if path == "" {
		path = DefaultExportPath
	}
	return &ExportWriter{Path: path}
}

// Write stores records as {"text", "label"} lines. Nothing is written, and
// any previous file is left untouched, when records is empty.
func (w *ExportWriter) Write(records []gate.TrainingRecord) (string, error) {
	if len(records) == 0 {
		return "", nil
	}
	if err := writeAtomic(w.Path, nil, records); err != nil {
		return "", errors.WrapWriteFailed(err, "write training export")
	}
	return w.Path, nil
}

var _ Sink[gate.TrainingRecord] = (*ExportWriter)(nil)
