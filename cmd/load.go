package cmd

import (
	"context"

	"github.com/relloyd/housepipe/actions"
	"github.com/spf13/cobra"
)

var loadCfg = actions.StepConfig{Step: actions.StepLoad, LogLevel: "info"}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Bulk load the extract into ClickHouse",
	Long: `Bulk load the tab separated extract into ClickHouse, --batch-size rows per request.
The table is truncated first unless --no-truncate is set.
Rows that do not have exactly 12 fields are skipped and logged.
Any failed batch stops the load.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		loadCfg.StackDumpOnPanic = stackDumpOnPanic
		return actions.RunStep(context.Background(), &loadCfg)
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().SortFlags = false
	addClickHouseFlags(loadCmd, &loadCfg.Pipeline.ClickHouse)
	addLoadFlags(loadCmd, &loadCfg.Pipeline.Load, true)
	addGeneralFlags(loadCmd, &loadCfg.LogLevel, &loadCfg.StatsDumpFrequencySeconds)
	loadCmd.SilenceUsage = true
}
