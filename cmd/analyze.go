package cmd

import (
	"context"

	"github.com/relloyd/housepipe/actions"
	"github.com/spf13/cobra"
)

var analyzeCfg = actions.StepConfig{Step: actions.StepAnalyze, LogLevel: "info"}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Clean and analyze the housing CSV and write a tab separated extract",
	Long: `Clean and analyze the housing CSV and write a tab separated extract.

Numbers are parsed after removing spaces and non-breaking spaces. Values that
cannot be parsed become null and are written to the extract as \N.
A summary of the data is written to the log, and optionally as JSON to --summary-file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzeCfg.StackDumpOnPanic = stackDumpOnPanic
		return actions.RunStep(context.Background(), &analyzeCfg)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().SortFlags = false
	addAnalyzeFlags(analyzeCmd, &analyzeCfg.Pipeline.Analyze)
	addGeneralFlags(analyzeCmd, &analyzeCfg.LogLevel, &analyzeCfg.StatsDumpFrequencySeconds)
	analyzeCmd.SilenceUsage = true
}
