package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/mpms_analyzer_go/internal/analysis"
	"github.com/user/mpms_analyzer_go/internal/parser"
	"github.com/user/mpms_analyzer_go/internal/report"
)

const defaultPlotsDir = "plots"

var (
	plotListOnly bool
	plotVsTemp   bool
	plotAll      bool
	plotSave     string
)

func plotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [path]",
		Short: "Plot moment vs field or temperature",
		Long: `Plot magnetic moment against field (default) or temperature for one or
more .dat files. The path may be a single file or a directory searched
recursively; it defaults to the current directory.

Figures are written as PNG files under ` + defaultPlotsDir + `/ unless --save names an
explicit output file.

Examples:
  # Plot the first .dat file under ./Jan_22_2025
  mpms_analyzer plot ./Jan_22_2025

  # Overlay every file in one figure and save it to a chosen path
  mpms_analyzer plot ./Jan_22_2025 --all --save overlay.png

  # List files and columns without plotting
  mpms_analyzer plot ./Jan_22_2025 --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPlot,
	}

	cmd.Flags().BoolVar(&plotListOnly, "list", false, "Only list .dat files and columns, do not plot")
	cmd.Flags().BoolVar(&plotVsTemp, "temp", false, "Plot moment vs temperature instead of vs field")
	cmd.Flags().BoolVar(&plotAll, "all", false, "Plot all .dat files (one overlaid figure, M vs H only)")
	cmd.Flags().StringVar(&plotSave, "save", "", "Output PNG path (default "+defaultPlotsDir+"/<name>.png)")

	return cmd
}

func runPlot(_ *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	files, err := parser.FindDatFiles(path)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("No .dat files found under %s\n", path)
		return nil
	}

	if plotListOnly {
		return listFiles(files)
	}
	if plotAll && len(files) > 1 {
		return plotOverlay(path, files)
	}

	targets := files[:1]
	if plotAll {
		targets = files
	}
	for _, f := range targets {
		if err := plotSingle(f); err != nil {
			return err
		}
	}
	return nil
}

// listFiles prints a short per-file summary instead of plotting.
func listFiles(files []string) error {
	for _, f := range files {
		tbl, _, err := parser.ParseDatFile(f)
		if err != nil {
			return err
		}
		sum := analysis.Summarize(f, tbl)

		momentCol := sum.MomentColumn
		if momentCol == "" {
			momentCol = "(none)"
		}
		fmt.Printf("\n%s\n", filepath.Base(f))
		fmt.Printf("  Rows: %d, Moment column: %s\n", sum.Rows, momentCol)
		if sum.HasField {
			fmt.Printf("  Field range: %.2f .. %.2f Oe\n", sum.FieldMin, sum.FieldMax)
		}
	}
	return nil
}

func plotSingle(f string) error {
	base := filepath.Base(f)
	tbl, _, err := parser.ParseDatFile(f)
	if err != nil {
		return err
	}

	momentCol, ok := parser.SelectMomentColumn(tbl)
	if !ok {
		fmt.Printf("No moment column found in %s. Columns: %s\n", base, strings.Join(tbl.Columns, ", "))
		return nil
	}

	xCol := parser.FieldColumn
	zeroLines := true
	if plotVsTemp {
		xCol = parser.TemperatureColumn
		zeroLines = false
	}

	stem := strings.TrimSuffix(base, filepath.Ext(base))
	mp := report.NewMomentPlot(stem, xCol)
	mp.ZeroLines = zeroLines
	if err := mp.AddSeries(tbl, xCol, momentCol, ""); err != nil {
		return fmt.Errorf("%s: %w", base, err)
	}

	return savePlot(mp, stem+".png")
}

// plotOverlay draws every plottable file as one labeled series on a single
// M vs H figure. Files that fail to parse or have nothing to plot are
// skipped, not fatal.
func plotOverlay(path string, files []string) error {
	mp := report.NewMomentPlot("Moment vs Field", parser.FieldColumn)
	mp.ZeroLines = true

	for _, f := range files {
		base := filepath.Base(f)
		tbl, _, err := parser.ParseDatFile(f)
		if err != nil {
			fmt.Printf("Skip %s: %v\n", base, err)
			slog.Debug("overlay skip", slog.String("file", base), slog.String("error", err.Error()))
			continue
		}
		momentCol, ok := parser.SelectMomentColumn(tbl)
		if !ok || !tbl.HasColumn(parser.FieldColumn) {
			continue
		}
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		if err := mp.AddSeries(tbl, parser.FieldColumn, momentCol, stem); err != nil {
			fmt.Printf("Skip %s: %v\n", base, err)
			continue
		}
	}

	if mp.SeriesCount() == 0 {
		return fmt.Errorf("no plottable .dat files under %s", path)
	}
	return savePlot(mp, "moment_vs_field.png")
}

// savePlot writes the figure to --save or to the default plots directory.
func savePlot(mp *report.MomentPlot, defaultName string) error {
	out := plotSave
	if out == "" {
		out = filepath.Join(defaultPlotsDir, defaultName)
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := mp.SavePNG(out); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", out)
	return nil
}
