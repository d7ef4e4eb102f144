package annotations

// Annotation table ingestion: CSV rows into validated annotation records.

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/labelgate/annotation"
	"github.com/teranos/labelgate/errors"
)

// Format selects the table layout.
type Format string

const (
	// FormatAuto picks wide or long from the header.
	FormatAuto Format = "auto"
	// FormatWide is one row per sample with list-encoded
	// labels, annotators and confidence_scores cells.
	FormatWide Format = "wide"
	// FormatLong is one row per annotation (text, label, annotator_id,
	// confidence_score); rows sharing a text form one sample.
	FormatLong Format = "long"
)

// Column names, matched case-insensitively.
const (
	colText             = "text"
	colLabels           = "labels"
	colAnnotators       = "annotators"
	colConfidenceScores = "confidence_scores"
	colLabel            = "label"
	colAnnotatorID      = "annotator_id"
	colConfidenceScore  = "confidence_score"
)

var (
	wideColumns = []string{colText, colLabels, colAnnotators, colConfidenceScores}
	longColumns = []string{colText, colLabel, colAnnotatorID, colConfidenceScore}
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatWide, FormatLong:
		return f, nil
	case "":
		return FormatAuto, nil
	default:
		return "", errors.WithHint(
			errors.NewInvalidInputError("unknown input format %q", s),
			"supported formats: auto, wide, long")
	}
}

// Loader reads annotation tables into records.
type Loader struct {
	format    Format
	delimiter rune
	logger    *zap.SugaredLogger
}

// NewLoader creates a loader. A zero delimiter means ','.
// If logger is nil the loader runs silently.
func NewLoader(format Format, delimiter rune, logger *zap.SugaredLogger) *Loader {
	if format == "" {
		format = FormatAuto
	}
	if delimiter == 0 {
		delimiter = ','
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Loader{format: format, delimiter: delimiter, logger: logger}
}

// LoadFile opens path and loads it.
func (l *Loader) LoadFile(path string) ([]annotation.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "open annotations %s", path),
			"set paths.input in am.toml or pass --input")
	}
	defer f.Close()

	records, err := l.Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	l.logger.Infow("Loaded annotations", "path", path, "count", len(records), "format", l.format)
	return records, nil
}

// Load reads the whole table. Any malformed row fails the entire load; an
// empty table yields zero records and no error.
func (l *Loader) Load(r io.Reader) ([]annotation.Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = l.delimiter

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "read header"), errors.ErrInvalidInput)
	}

	cols := indexHeader(header)
	format, err := l.resolveFormat(cols)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatWide:
		return l.loadWide(cr, cols)
	default:
		return l.loadLong(cr, cols)
	}
}

func (l *Loader) resolveFormat(cols map[string]int) (Format, error) {
	format := l.format
	if format == FormatAuto {
		switch {
		case hasColumn(cols, colLabels):
			format = FormatWide
		case hasColumn(cols, colLabel):
			format = FormatLong
		default:
			return "", errors.WithHintf(
				errors.NewInvalidInputError("cannot detect table layout from header"),
				"wide layout needs columns %s; long layout needs %s",
				strings.Join(wideColumns, ", "), strings.Join(longColumns, ", "))
		}
	}

	required := wideColumns
	if format == FormatLong {
		required = longColumns
	}
	for _, c := range required {
		if !hasColumn(cols, c) {
			return "", errors.WithHintf(
				errors.NewInvalidInputError("missing required column %q for %s layout", c, format),
				"expected columns: %s", strings.Join(required, ", "))
		}
	}
	return format, nil
}

// loadWide reads one record per row.
func (l *Loader) loadWide(cr *csv.Reader, cols map[string]int) ([]annotation.Record, error) {
	var records []annotation.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "read row"), errors.ErrInvalidInput)
		}
		line, _ := cr.FieldPos(0)

		rec, err := parseWideRow(row, cols)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		l.logger.Debugw("Parsed row", "line", line, "annotators", rec.Len())
		records = append(records, rec)
	}
}

func parseWideRow(row []string, cols map[string]int) (annotation.Record, error) {
	labels, err := splitList(row[cols[colLabels]])
	if err != nil {
		return annotation.Record{}, malformedCell(colLabels, err)
	}

	rawAnnotators, err := splitList(row[cols[colAnnotators]])
	if err != nil {
		return annotation.Record{}, malformedCell(colAnnotators, err)
	}
	annotators := make([]annotation.AnnotatorID, len(rawAnnotators))
	for i, a := range rawAnnotators {
		annotators[i] = annotation.AnnotatorID(a)
	}

	rawScores, err := splitList(row[cols[colConfidenceScores]])
	if err != nil {
		return annotation.Record{}, malformedCell(colConfidenceScores, err)
	}
	scores := make([]float64, len(rawScores))
	for i, s := range rawScores {
		score, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return annotation.Record{}, errors.NewMalformedRecordError("confidence score %q is not a number", s)
		}
		scores[i] = score
	}

	return annotation.NewRecord(row[cols[colText]], annotators, labels, scores)
}

// loadLong groups annotation rows by text. Records come out in order of each
// text's first appearance, annotations in row order.
func (l *Loader) loadLong(cr *csv.Reader, cols map[string]int) ([]annotation.Record, error) {
	var order []string
	grouped := make(map[string][]annotation.Annotation)
	firstLine := make(map[string]int)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "read row"), errors.ErrInvalidInput)
		}
		line, _ := cr.FieldPos(0)

		text := row[cols[colText]]
		ann, err := parseLongRow(row, cols)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		if _, seen := grouped[text]; !seen {
			order = append(order, text)
			firstLine[text] = line
		}
		grouped[text] = append(grouped[text], ann)
	}

	records := make([]annotation.Record, 0, len(order))
	for _, text := range order {
		rec, err := annotation.FromAnnotations(text, grouped[text])
		if err != nil {
			return nil, errors.Wrapf(err, "sample starting at line %d", firstLine[text])
		}
		records = append(records, rec)
	}
	l.logger.Debugw("Grouped annotation rows", "samples", len(records))
	return records, nil
}

func parseLongRow(row []string, cols map[string]int) (annotation.Annotation, error) {
	label := strings.TrimSpace(row[cols[colLabel]])
	if label == "" {
		return annotation.Annotation{}, errors.NewMalformedRecordError("label is empty")
	}
	annotator := strings.TrimSpace(row[cols[colAnnotatorID]])
	if annotator == "" {
		return annotation.Annotation{}, errors.NewMalformedRecordError("annotator_id is empty")
	}
	raw := strings.TrimSpace(row[cols[colConfidenceScore]])
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return annotation.Annotation{}, errors.NewMalformedRecordError("confidence_score %q is not a number", raw)
	}
	return annotation.Annotation{
		Annotator:  annotation.AnnotatorID(annotator),
		Label:      label,
		Confidence: score,
	}, nil
}

func malformedCell(column string, cause error) error {
	return errors.Mark(errors.Wrapf(cause, "column %s", column), errors.ErrMalformedRecord)
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

func hasColumn(cols map[string]int, name string) bool {
	_, ok := cols[name]
	return ok
}
