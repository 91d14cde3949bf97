package cmd

import (
	"net"

	"github.com/relloyd/housepipe/actions"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a web service to launch and monitor pipeline runs",
	Long: `Start a web service to launch and monitor pipeline runs.

POST a JSON pipeline definition to /runs to launch a run. Fields in the body
override the defaults given by this command's flags.
GET /runs lists runs, and /runs/<id>/status, /runs/<id>/stats and /runs/<id>/stop
report on or stop a single run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		serveConfig.StackDumpOnPanic = stackDumpOnPanic
		return actions.RunWebServer(&serveConfig)
	},
}

var serveConfig = actions.WebServerConfig{
	LogLevel:                  "info",
	Scheme:                    "http",
	Addr:                      net.IP{0, 0, 0, 0},
	Port:                      8080,
	StatsDumpFrequencySeconds: 5,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().SortFlags = false
	serveCmd.Flags().IPVarP(&serveConfig.Addr, "address", "a", net.IP{0, 0, 0, 0}, "Address to listen on")
	switches.addFlag(serveCmd, &serveConfig.Port, "port", "8080", false, "")
	addPipelineFlags(serveCmd, &serveConfig.Defaults)
	addGeneralFlags(serveCmd, &serveConfig.LogLevel, &serveConfig.StatsDumpFrequencySeconds)
	serveCmd.SilenceUsage = true
}
