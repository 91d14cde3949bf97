package cmd

import (
	"context"

	"github.com/relloyd/housepipe/actions"
	"github.com/spf13/cobra"
)

var runCfg = actions.RunConfig{LogLevel: "info"}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every step: probes, analyze, load, report and publish",
	Long: `Run every step of the housing pipeline in order:

1. Print the ClickHouse server version
2. Print the Postgres server version
3. Clean and analyze the input CSV and write a tab separated extract
4. Bulk load the extract into ClickHouse in batches
5. Write the largest houses to the report file
6. Optionally copy the extract and report to S3

The probes never stop a run. Any other failed step does.
Use --output to print the pipeline definition as YAML or JSON instead, for use with "pipe".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runCfg.StackDumpOnPanic = stackDumpOnPanic
		return actions.RunPipeline(context.Background(), &runCfg)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().SortFlags = false
	addPipelineFlags(runCmd, &runCfg.Pipeline)
	switches.addFlag(runCmd, &runCfg.Output, "output", "", false, "")
	switches.addFlag(runCmd, &runCfg.IncludeSecrets, "include-secrets", "", false, "")
	addGeneralFlags(runCmd, &runCfg.LogLevel, &runCfg.StatsDumpFrequencySeconds)
	runCmd.SilenceUsage = true
}
