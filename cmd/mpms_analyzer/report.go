package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/mpms_analyzer_go/internal/analysis"
	"github.com/user/mpms_analyzer_go/internal/parser"
	"github.com/user/mpms_analyzer_go/internal/report"
)

var (
	reportOut    string
	reportSkipRW bool
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <input>",
		Short: "Generate a PDF summary report",
		Long: `Generate a PDF report covering the .dat files under the input path: one
section per file with summary statistics, a header metadata excerpt and the
moment vs field plot when the file has plottable data.

Files that fail to parse are skipped and do not stop the batch.`,
		Args: cobra.ExactArgs(1),
		RunE: runReport,
	}

	cmd.Flags().StringVarP(&reportOut, "out", "o", "mpms_report.pdf", "Output PDF path")
	cmd.Flags().BoolVar(&reportSkipRW, "skip-rw", false, "Skip .rw.dat files (raw waveform data, typically very large)")

	return cmd
}

func runReport(_ *cobra.Command, args []string) error {
	input := args[0]

	files, err := parser.FindDatFiles(input)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("No .dat files found in %s\n", input)
		return nil
	}

	var entries []report.ReportEntry
	for _, f := range files {
		name := filepath.Base(f)

		if reportSkipRW && strings.Contains(name, ".rw.dat") {
			fmt.Printf("  Skipping (raw waveform): %s\n", name)
			continue
		}

		tbl, meta, err := parser.ParseDatFile(f)
		if err != nil {
			fmt.Printf("  Skipping %s: %v\n", name, err)
			slog.Error("parse failed",
				slog.String("file", name),
				slog.String("error", err.Error()))
			continue
		}

		entry := report.ReportEntry{
			Name:    name,
			Summary: analysis.Summarize(f, tbl),
			Meta:    meta,
		}

		if momentCol, ok := parser.SelectMomentColumn(tbl); ok && tbl.HasColumn(parser.FieldColumn) {
			stem := strings.TrimSuffix(name, filepath.Ext(name))
			mp := report.NewMomentPlot(stem, parser.FieldColumn)
			mp.ZeroLines = true
			if err := mp.AddSeries(tbl, parser.FieldColumn, momentCol, ""); err == nil {
				if png, err := mp.RenderPNG(); err == nil {
					entry.PlotPNG = png
				} else {
					slog.Warn("plot rendering failed",
						slog.String("file", name),
						slog.String("error", err.Error()))
				}
			}
		}

		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return fmt.Errorf("no parseable .dat files under %s", input)
	}

	if err := report.BuildPDFReport(reportOut, entries); err != nil {
		return fmt.Errorf("failed to build PDF report: %w", err)
	}
	fmt.Printf("Saved %s (%d files)\n", reportOut, len(entries))
	return nil
}
