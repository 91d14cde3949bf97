package cmd

import (
	"context"

	"github.com/relloyd/housepipe/actions"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Print the version of ClickHouse or Postgres",
	Long: `Print the server version of ClickHouse or Postgres.
A failed probe is logged and does not return an error.`,
}

var probeClickHouseCfg = actions.StepConfig{Step: actions.StepProbeAnalytics, LogLevel: "info"}

var probeClickHouseCmd = &cobra.Command{
	Use:   "clickhouse",
	Short: "Print the ClickHouse server version using its HTTP interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		probeClickHouseCfg.StackDumpOnPanic = stackDumpOnPanic
		return actions.RunStep(context.Background(), &probeClickHouseCfg)
	},
}

var probePostgresCfg = actions.StepConfig{Step: actions.StepProbeRelational, LogLevel: "info"}

var probePostgresCmd = &cobra.Command{
	Use:     "postgres",
	Aliases: []string{"pg"},
	Short:   "Print the Postgres server version using psql or a Go driver",
	RunE: func(cmd *cobra.Command, args []string) error {
		probePostgresCfg.StackDumpOnPanic = stackDumpOnPanic
		return actions.RunStep(context.Background(), &probePostgresCfg)
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.AddCommand(probeClickHouseCmd)
	probeCmd.AddCommand(probePostgresCmd)
	// ClickHouse.
	probeClickHouseCmd.Flags().SortFlags = false
	addClickHouseFlags(probeClickHouseCmd, &probeClickHouseCfg.Pipeline.ClickHouse)
	addGeneralFlags(probeClickHouseCmd, &probeClickHouseCfg.LogLevel, nil)
	probeClickHouseCmd.SilenceUsage = true
	// Postgres.
	probePostgresCmd.Flags().SortFlags = false
	addRelationalFlags(probePostgresCmd, &probePostgresCfg.Pipeline.Relational)
	addGeneralFlags(probePostgresCmd, &probePostgresCfg.LogLevel, nil)
	probePostgresCmd.SilenceUsage = true
}
