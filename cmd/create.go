package cmd

import (
	"context"

	"github.com/relloyd/housepipe/actions"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate helpful metadata",
	Long:  `Generate DDL for the ClickHouse housing table`,
}

var createTableCfg = actions.CreateTableConfig{LogLevel: "info"}

var createTableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print or execute CREATE TABLE for the ClickHouse housing table",
	RunE: func(cmd *cobra.Command, args []string) error {
		createTableCfg.StackDumpOnPanic = stackDumpOnPanic
		return actions.RunCreateTable(context.Background(), &createTableCfg)
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.AddCommand(createTableCmd)
	createTableCmd.Flags().SortFlags = false
	addClickHouseFlags(createTableCmd, &createTableCfg.ClickHouse)
	switches.addFlag(createTableCmd, &createTableCfg.ExecuteDDL, "execute-ddl", "", false, "")
	addGeneralFlags(createTableCmd, &createTableCfg.LogLevel, nil)
	createTableCmd.SilenceUsage = true
}
