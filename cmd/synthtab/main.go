package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leengari/synthtab/internal/logging"
)

var (
	logger   *slog.Logger
	logClose func()
)

var rootCmd = &cobra.Command{
	Use:   "synthtab",
	Short: "synthtab - synthetic tabular data generator",
	Long: `synthtab generates privacy-preserving synthetic datasets.

Load a CSV or XLSX file, declare per-column constraints (numeric
ranges, categorical allow-lists, datetime windows), and sample
synthetic rows that follow the original distributions while satisfying
every constraint. A fabrication mode builds customer-record datasets
from scratch, no source file needed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger, logClose = logging.SetupLogger()
		slog.SetDefault(logger)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logClose != nil {
			logClose()
		}
	},
}

func main() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(fabricateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		if logClose != nil {
			logClose()
		}
		os.Exit(1)
	}
}
