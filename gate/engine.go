package gate

import (
	"go.uber.org/zap"

	"github.com/teranos/labelgate/annotation"
	"github.com/teranos/labelgate/errors"
)

// Stage is the batch state reached by the engine.
type Stage string

const (
	StageLoaded             Stage = "loaded"
	StageConfidenceFiltered Stage = "confidence_filtered"
	StageAgreementResolved  Stage = "agreement_resolved"
	StageReported           Stage = "reported"
)

// Result is the complete decision for one batch.
type Result struct {
	Stage         Stage
	Outcomes      []annotation.Outcome // one per input record, input order
	Training      []TrainingRecord     // exported outcomes, input order
	Disagreements []DisagreementEntry  // disputed outcomes, input order
	Summary       Summary
}

// Rejected returns the rejected outcomes in input order.
func (r *Result) Rejected() []annotation.Rejected {
	var out []annotation.Rejected
	for _, o := range r.Outcomes {
		if rej, ok := o.(annotation.Rejected); ok {
			out = append(out, rej)
		}
	}
	return out
}

// Engine sequences the confidence filter, the agreement resolver and the two
// collectors over a batch. It holds no per-batch state and performs no I/O.
type Engine struct {
	filter *ConfidenceFilter
	logger *zap.SugaredLogger
}

// NewEngine creates an engine with the given confidence threshold.
// If logger is nil the engine runs silently.
func NewEngine(threshold float64, logger *zap.SugaredLogger) *Engine {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Engine{
		filter: NewConfidenceFilter(threshold),
		logger: logger,
	}
}

// Threshold returns the engine's confidence threshold
func (e *Engine) Threshold() float64 {
	return e.filter.Threshold
}

// Run decides every record of the batch. An empty batch is valid and yields
// zero counts. The confidence gate runs over the whole batch before any
// agreement check.
func (e *Engine) Run(records []annotation.Record) (*Result, error) {
	res := &Result{
		Stage:    StageLoaded,
		Outcomes: make([]annotation.Outcome, len(records)),
		Summary:  Summary{Total: len(records)},
	}

	passing := make([]int, 0, len(records))
	for i, rec := range records {
		ok, rejected := e.filter.Check(rec)
		if !ok {
			res.Outcomes[i] = rejected
			e.logger.Debugw("Record rejected",
				"text", rec.Text(),
				"reason", rejected.Reason,
				"threshold", e.filter.Threshold,
			)
			continue
		}
		passing = append(passing, i)
	}
	res.Stage = StageConfidenceFiltered

	for _, i := range passing {
		res.Outcomes[i] = ResolveAgreement(records[i])
	}
	res.Stage = StageAgreementResolved

	var reporter Reporter
	var exporter Exporter
	for i, outcome := range res.Outcomes {
		switch o := outcome.(type) {
		case annotation.Exported:
			exporter.Add(o)
			res.Summary.Agreed++
		case annotation.Disputed:
			reporter.Add(o)
			res.Summary.Disagreed++
			e.logger.Debugw("Record disputed", "text", o.Record.Text(), "labels", o.Record.Labels())
		case annotation.Rejected:
			res.Summary.Rejected++
		default:
			return nil, errors.AssertionFailedf("record %d has no outcome (%T)", i, outcome)
		}
	}

	sum := res.Summary
	if sum.Agreed+sum.Disagreed+sum.Rejected != sum.Total {
		return nil, errors.AssertionFailedf("partition incomplete: %d agreed + %d disagreed + %d rejected != %d total",
			sum.Agreed, sum.Disagreed, sum.Rejected, sum.Total)
	}

	res.Training = exporter.Records()
	res.Disagreements = reporter.Entries()
	res.Stage = StageReported

	e.logger.Infow("Batch decided",
		"total", sum.Total,
		"agreed", sum.Agreed,
		"disagreed", sum.Disagreed,
		"rejected", sum.Rejected,
		"threshold", e.filter.Threshold,
	)
	return res, nil
}
