package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/teranos/labelgate/am"
	"github.com/teranos/labelgate/display"
	"github.com/teranos/labelgate/errors"
	"github.com/teranos/labelgate/gate"
	"github.com/teranos/labelgate/ixgest/annotations"
	"github.com/teranos/labelgate/logger"
	"github.com/teranos/labelgate/pipeline"
	"github.com/teranos/labelgate/sink"
)

// ValidateCmd runs the quality gate over one annotations file
var ValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the quality gate over an annotations file",
	Long: `Run the quality gate over an annotations file.

Every sample whose annotators all reported confidence >= threshold and all
chose the same label is written to the training export. Confident samples
with conflicting labels go to logs/<YYYY-MM-DD>/disagreements.log. Samples
that fail the confidence check are only counted.

Input layouts:
  wide  text,labels,annotators,confidence_scores (list cells)
  long  text,label,annotator_id,confidence_score (one row per annotation)
  auto  chosen from the header (default)

Examples:
  labelgate validate
  labelgate validate --input data/raw/batch7.csv --threshold 0.85
  labelgate validate --dry-run --json
  labelgate validate --watch`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

// validateFlags maps flag names to config keys
var validateFlags = map[string]string{
	"input":     "paths.input",
	"export":    "paths.export",
	"log-dir":   "paths.log_dir",
	"threshold": "validator.confidence_threshold",
	"format":    "input.format",
	"delimiter": "input.delimiter",
	"debounce":  "watch.debounce_ms",
}

func init() {
	ValidateCmd.Flags().StringP("input", "i", am.DefaultInputPath, "Annotations CSV to validate")
	ValidateCmd.Flags().StringP("export", "o", am.DefaultExportPath, "Training export path (JSONL)")
	ValidateCmd.Flags().String("log-dir", am.DefaultLogDir, "Root directory for dated disagreement logs")
	ValidateCmd.Flags().Float64P("threshold", "t", am.DefaultConfidenceThreshold, "Minimum confidence every annotator must reach")
	ValidateCmd.Flags().String("format", am.DefaultInputFormat, "Input layout: auto, wide, long")
	ValidateCmd.Flags().String("delimiter", am.DefaultDelimiter, "CSV field delimiter")
	ValidateCmd.Flags().Int("debounce", am.DefaultDebounceMS, "Watch debounce in milliseconds")
	ValidateCmd.Flags().Bool("watch", false, "Re-run whenever the input file changes")
	ValidateCmd.Flags().Bool("dry-run", false, "Decide without writing any files")
	ValidateCmd.Flags().BoolP("json", "j", false, "Output the run report as JSON")
}

// bindValidateFlags lets explicitly set flags override every config source
func bindValidateFlags(cmd *cobra.Command, v *viper.Viper) error {
	for flag, key := range validateFlags {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return errors.Wrapf(err, "bind --%s", flag)
		}
	}
	return nil
}

// newPipeline wires loader, engine and sinks from cfg
func newPipeline(cfg *am.Config, dryRun bool) (*pipeline.Pipeline, error) {
	format, err := annotations.ParseFormat(cfg.Input.Format)
	if err != nil {
		return nil, err
	}
	return &pipeline.Pipeline{
		Loader: annotations.NewLoader(format, cfg.DelimiterRune(), logger.ComponentLogger("loader")),
		Engine: gate.NewEngine(cfg.Validator.ConfidenceThreshold, logger.ComponentLogger("gate")),
		Export: sink.NewExportWriter(cfg.Paths.Export),
		Log:    sink.NewDisagreementLog(cfg.Paths.LogDir),
		Logger: logger.ComponentLogger("pipeline"),
		DryRun: dryRun,
	}, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := bindValidateFlags(cmd, am.GetViper()); err != nil {
		return err
	}
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	p, err := newPipeline(cfg, dryRun)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jsonOutput := display.ShouldOutputJSON(cmd)
	report, runErr := p.Run(ctx, cfg.Paths.Input)
	if report != nil {
		if err := printReport(report, jsonOutput); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}

	if watch, _ := cmd.Flags().GetBool("watch"); !watch {
		return nil
	}

	if !jsonOutput {
		pterm.Info.Printfln("Watching %s (Ctrl+C to stop)", cfg.Paths.Input)
	}
	w := &pipeline.Watcher{
		Pipeline: p,
		Input:    cfg.Paths.Input,
		Debounce: time.Duration(cfg.Watch.DebounceMS) * time.Millisecond,
		Logger:   logger.ComponentLogger("watcher"),
		OnRun: func(r *pipeline.Report, err error) {
			if r != nil {
				_ = printReport(r, jsonOutput)
			}
			if err != nil && !jsonOutput {
				pterm.Error.Println(err.Error())
			}
		},
	}
	return w.Watch(ctx)
}

func printReport(r *pipeline.Report, jsonOutput bool) error {
	if jsonOutput {
		return display.OutputJSON(r)
	}
	return display.PrintReport(r)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
