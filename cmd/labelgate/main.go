package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/teranos/labelgate/am"
	"github.com/teranos/labelgate/cmd/labelgate/commands"
	"github.com/teranos/labelgate/errors"
	"github.com/teranos/labelgate/logger"
)

var rootCmd = &cobra.Command{
	Use:   "labelgate",
	Short: "labelgate - Annotation quality gate for training data",
	Long: `labelgate - Quality gate between human annotations and model training.

Reads a batch of annotated samples, keeps those whose annotators were all
confident and all agreed, and logs the disputed ones for human review.

Available commands:
  validate - Run the gate over an annotations file
  am       - Manage labelgate configuration ("I am")
  version  - Show build information

Examples:
  labelgate validate                          # Use paths from am.toml
  labelgate validate --input raw.csv -v       # Explicit input, info logging
  labelgate validate --threshold 0.9 --json   # Stricter gate, JSON report
  labelgate validate --watch                  # Re-run on every input change
  labelgate am show                           # Show current configuration`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		logJSON, _ := cmd.Flags().GetBool("log-json")
		if !cmd.Flags().Changed("log-json") {
			logJSON = am.GetViper().GetBool("log.json")
		}
		if err := logger.Initialize(logJSON, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit diagnostic logs as JSON on stderr")

	rootCmd.AddCommand(commands.ValidateCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
