package cmd

import (
	"context"

	"github.com/relloyd/housepipe/actions"
	"github.com/spf13/cobra"
)

var reportCfg = actions.StepConfig{Step: actions.StepReport, LogLevel: "info"}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the largest houses in ClickHouse to a file",
	Long: `Query ClickHouse for houses larger than --min-square, largest first, and write
the tab separated result with a header to --report-file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reportCfg.StackDumpOnPanic = stackDumpOnPanic
		return actions.RunStep(context.Background(), &reportCfg)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().SortFlags = false
	addClickHouseFlags(reportCmd, &reportCfg.Pipeline.ClickHouse)
	addReportFlags(reportCmd, &reportCfg.Pipeline.Report)
	addGeneralFlags(reportCmd, &reportCfg.LogLevel, nil)
	reportCmd.SilenceUsage = true
}
