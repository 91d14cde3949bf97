package cmd

import (
	"net"

	"github.com/relloyd/housepipe/actions"
	"github.com/spf13/cobra"
)

var pipeConfig = actions.PipeConfig{LogLevel: "info"}

var pipeWebConfig = actions.WebServerConfig{
	LogLevel: "info",
	Scheme:   "http",
	Addr:     net.IP{0, 0, 0, 0},
	Port:     8080,
}

var pipeCmd = &cobra.Command{
	Use:   "pipe",
	Short: "Run a pipeline described in a YAML or JSON file",
	Long: `Run a pipeline described in a YAML or JSON file.
Generate a file using "run --output yaml".
Optionally run a web server to monitor progress and health remotely.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeConfig.StackDumpOnPanic = stackDumpOnPanic
		pipeWebConfig.LogLevel = pipeConfig.LogLevel
		pipeWebConfig.StackDumpOnPanic = stackDumpOnPanic
		pipeWebConfig.StatsDumpFrequencySeconds = pipeConfig.StatsDumpFrequencySeconds
		return actions.RunPipeFromFile(&pipeConfig, &pipeWebConfig)
	},
}

func init() {
	rootCmd.AddCommand(pipeCmd)
	pipeCmd.Flags().SortFlags = false
	switches.addFlag(pipeCmd, &pipeConfig.PipelineFile, "file", "", true, "")
	_ = pipeCmd.MarkFlagFilename("file", "json", "yaml", "yml")
	switches.addFlag(pipeCmd, &pipeConfig.WithWebService, "web-service", "", false, "")
	pipeCmd.Flags().IPVarP(&pipeWebConfig.Addr, "address", "a", net.IP{0, 0, 0, 0}, "Address to listen on")
	switches.addFlag(pipeCmd, &pipeWebConfig.Port, "port", "8080", false, "")
	addGeneralFlags(pipeCmd, &pipeConfig.LogLevel, &pipeConfig.StatsDumpFrequencySeconds)
	pipeCmd.SilenceUsage = true
}
