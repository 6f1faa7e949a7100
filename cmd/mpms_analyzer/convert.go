package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/mpms_analyzer_go/internal/parser"
	"github.com/user/mpms_analyzer_go/internal/report"
)

var convertSkipRW bool

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input> <output-dir>",
		Short: "Convert .dat files to .xlsx workbooks",
		Long: `Convert MPMS3 .dat files to spreadsheet workbooks with a Data sheet for
the measurement table and a Metadata sheet for the header key/value pairs.

The input may be a single file or a directory searched recursively. A file
that fails to convert is counted as an error and does not stop the batch.

Examples:
  mpms_analyzer convert ./raw_data ./raw_data_xlsx
  mpms_analyzer convert sweep.dat ./out --skip-rw`,
		Args: cobra.ExactArgs(2),
		RunE: runConvert,
	}

	cmd.Flags().BoolVar(&convertSkipRW, "skip-rw", false, "Skip .rw.dat files (raw waveform data, typically very large)")

	return cmd
}

func runConvert(_ *cobra.Command, args []string) error {
	input, outDir := args[0], args[1]

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	files, err := parser.FindDatFiles(input)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("No .dat files found in %s\n", input)
		return nil
	}
	fmt.Printf("Found %d .dat files\n", len(files))

	converted, skipped, errCount := 0, 0, 0
	for _, f := range files {
		name := filepath.Base(f)

		if convertSkipRW && strings.Contains(name, ".rw.dat") {
			fmt.Printf("  Skipping (raw waveform): %s\n", name)
			skipped++
			continue
		}

		outPath, err := report.ConvertFile(f, outDir)
		if err != nil {
			fmt.Printf("  Error converting %s: %v\n", name, err)
			slog.Error("conversion failed",
				slog.String("file", name),
				slog.String("error", err.Error()))
			errCount++
			continue
		}
		fmt.Printf("  Converted: %s -> %s\n", name, filepath.Base(outPath))
		converted++
	}

	fmt.Printf("\nDone! Converted: %d, Skipped: %d, Errors: %d\n", converted, skipped, errCount)
	if abs, err := filepath.Abs(outDir); err == nil {
		fmt.Printf("Output directory: %s\n", abs)
	}
	return nil
}
