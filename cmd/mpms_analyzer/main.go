package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Build variables set by ldflags.
var (
	buildVersion = "dev"
	buildCommit  = "unknown"
)

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "mpms_analyzer",
		Short: "Parse, plot and convert Quantum Design MPMS3 .dat files",
		Long: `mpms_analyzer works with Quantum Design MPMS3 instrument output files:
semi-structured .dat files with header metadata followed by a [Data] table.

It can plot magnetic moment against field or temperature, convert files to
.xlsx workbooks, and produce a PDF summary report.`,
		Version: fmt.Sprintf("%s (%s)", buildVersion, buildCommit),
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(plotCmd())
	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("mpms_analyzer %s (%s)\n", buildVersion, buildCommit)
		},
	}
}
