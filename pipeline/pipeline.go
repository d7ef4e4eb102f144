package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/labelgate/annotation"
	"github.com/teranos/labelgate/errors"
	"github.com/teranos/labelgate/gate"
	"github.com/teranos/labelgate/logger"
	"github.com/teranos/labelgate/sink"
)

// Loader reads a batch of records from a path
type Loader interface {
	LoadFile(path string) ([]annotation.Record, error)
}

// Pipeline runs one batch: load, decide, write. Export and Log may be nil,
// in which case the corresponding artifact is never written.
type Pipeline struct {
	Loader Loader
	Engine *gate.Engine
	Export sink.Sink[gate.TrainingRecord]
	Log    sink.Sink[gate.DisagreementEntry]
	Logger *zap.SugaredLogger

	// DryRun decides the batch without writing any artifact
	DryRun bool
}

// Report is the outcome of one run
type Report struct {
	RunID      string        `json:"run_id"`
	Input      string        `json:"input"`
	Threshold  float64       `json:"threshold"`
	Summary    gate.Summary  `json:"summary"`
	Status     gate.Status   `json:"status"`
	Message    string        `json:"message"`
	ExportPath string        `json:"export_path,omitempty"`
	LogPath    string        `json:"log_path,omitempty"`
	DryRun     bool          `json:"dry_run,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
	Result     *gate.Result  `json:"-"`
}

// Run processes the batch at input. A malformed record aborts before any
// decision is made. Cancellation observed before writing abandons the batch
// with no artifacts. On a write failure the report (with the in-memory
// result) is returned along with the error.
func (p *Pipeline) Run(ctx context.Context, input string) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID:     uuid.NewString(),
		Input:     input,
		Threshold: p.Engine.Threshold(),
		DryRun:    p.DryRun,
	}

	log := p.logger().With(logger.FieldRunID, report.RunID)
	log.Debugw("Run started", logger.FieldPath, input, logger.FieldThreshold, report.Threshold)

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "run cancelled before load")
	}

	records, err := p.Loader.LoadFile(input)
	if err != nil {
		log.Errorw("Load failed", logger.FieldPath, input, logger.FieldError, err)
		return nil, err
	}

	result, err := p.Engine.Run(records)
	if err != nil {
		return nil, errors.Wrap(err, "decide batch")
	}
	report.Result = result
	report.Summary = result.Summary
	report.Status = result.Summary.Status()
	report.Message = result.Summary.Message()

	if err := ctx.Err(); err != nil {
		log.Warnw("Run cancelled before writing", logger.FieldError, err)
		return nil, errors.Wrap(err, "run cancelled before writing")
	}

	if !p.DryRun {
		if err := p.write(report, result, log); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
	}

	report.Duration = time.Since(start)
	log.Infow("Run complete",
		logger.FieldTotal, report.Summary.Total,
		logger.FieldAgreed, report.Summary.Agreed,
		logger.FieldDisagreed, report.Summary.Disagreed,
		logger.FieldRejected, report.Summary.Rejected,
		logger.FieldStatus, report.Status,
		logger.FieldDurationMS, report.Duration.Milliseconds(),
	)
	return report, nil
}

// write emits the disagreement log, then the export
func (p *Pipeline) write(report *Report, result *gate.Result, log *zap.SugaredLogger) error {
	if p.Log != nil {
		path, err := p.Log.Write(result.Disagreements)
		if err != nil {
			log.Errorw("Disagreement log write failed", logger.FieldError, err)
			return err
		}
		report.LogPath = path
		if path != "" {
			log.Infow("Wrote disagreement log", logger.FieldPath, path, logger.FieldCount, len(result.Disagreements))
		}
	}

	if p.Export != nil {
		path, err := p.Export.Write(result.Training)
		if err != nil {
			log.Errorw("Export write failed", logger.FieldError, err)
			return err
		}
		report.ExportPath = path
		if path != "" {
			log.Infow("Wrote training export", logger.FieldPath, path, logger.FieldCount, len(result.Training))
		}
	}
	return nil
}

func (p *Pipeline) logger() *zap.SugaredLogger {
	if p.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return p.Logger
}
