// Package display renders run reports for the console.
package display

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"

	"github.com/teranos/labelgate/gate"
	"github.com/teranos/labelgate/pipeline"
)

// PrintReport renders report to stdout
func PrintReport(report *pipeline.Report) error {
	return RenderReport(os.Stdout, report)
}

// RenderReport writes the counts table, the status sentence and the paths of
// any written artifacts to w
func RenderReport(w io.Writer, report *pipeline.Report) error {
	sum := report.Summary

	table, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Samples", "Count"},
		{"Total", fmt.Sprint(sum.Total)},
		{"Agreed", fmt.Sprint(sum.Agreed)},
		{"Disagreed", fmt.Sprint(sum.Disagreed)},
		{"Rejected (confidence)", fmt.Sprint(sum.Rejected)},
	}).Srender()
	if err != nil {
		return err
	}

	pterm.Fprintln(w, pterm.Info.Sprintf("Input: %s (threshold %.2f)", report.Input, report.Threshold))
	pterm.Fprintln(w, table)
	status := statusPrinter(report.Status)
	pterm.Fprintln(w, status.Sprint(report.Message))

	if report.DryRun {
		pterm.Fprintln(w, pterm.Warning.Sprint("Dry run: no files were written"))
		return nil
	}
	if report.LogPath != "" {
		pterm.Fprintln(w, fmt.Sprintf("  %s %s", pterm.Gray("Disagreements:"), pterm.Yellow(report.LogPath)))
	}
	if report.ExportPath != "" {
		pterm.Fprintln(w, fmt.Sprintf("  %s %s", pterm.Gray("Training set:"), pterm.LightGreen(report.ExportPath)))
	}
	if sum.PassedConfidence() > 0 {
		pterm.Fprintln(w, fmt.Sprintf("  %s %.1f%%", pterm.Gray("Agreement rate:"), sum.AgreementRate()*100))
	}
	return nil
}

func statusPrinter(status gate.Status) pterm.PrefixPrinter {
	switch status {
	case gate.StatusOK:
		return pterm.Success
	case gate.StatusAllFailedConfidence, gate.StatusAllFailedAgreement:
		return pterm.Warning
	default:
		return pterm.Info
	}
}
