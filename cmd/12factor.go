package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	c "github.com/relloyd/housepipe/constants"
	"github.com/relloyd/housepipe/helper"
	"github.com/relloyd/housepipe/logger"
	"github.com/spf13/cobra"
)

// init will be called first due to the lexical order in which these functions are executed.
// This ensures the value of twelveFactorMode is set such that other init() functions that configure
// Cobra can do the job of processing all environment variables that would contain equivalent of the CLI flag
// structures used by the actions.
func init() {
	setupTwelveFactorMode()
}

// setupTwelveFactorMode will enable or disable 12 factor mode based on environment variable.
func setupTwelveFactorMode() {
	mode := os.Getenv(envVarTwelveFactorMode)
	if mode != "" {
		twelveFactorMode = true
		if strings.ToLower(mode) == "lambda" {
			lambdaMode = true
		}
	} else {
		twelveFactorMode = false // explicitly turn off this mode since tests may have turned it on while others require it off.
		lambdaMode = false
	}
}

const (
	envVarTwelveFactorMode = c.EnvVarPrefix + "_" + "12FACTOR_MODE"
	envVarCommand          = c.EnvVarPrefix + "_" + "COMMAND"
	envVarSubcommand       = c.EnvVarPrefix + "_" + "SUBCOMMAND"
	envVarLogLevel         = c.EnvVarPrefix + "_" + "LOG_LEVEL"
	envVarStackDump        = c.EnvVarPrefix + "_" + "STACK_DUMP"
)

var (
	twelveFactorMode bool // true if os env var envVarTwelveFactorMode is set
	lambdaMode       bool // true if envVarTwelveFactorMode is "lambda"
	twelveFactorVars = map[string]string{
		envVarCommand:    "",
		envVarSubcommand: "",
		envVarLogLevel:   "",
		envVarStackDump:  "",
		helper.FlagNameToEnvVar("clickhouse-url"):      "",
		helper.FlagNameToEnvVar("clickhouse-password"): "",
		helper.FlagNameToEnvVar("pg-dsn"):              "",
		helper.FlagNameToEnvVar("pg-password"):         "",
	}
	twelveFactorVarsSensitive = map[string]string{ // used to flag some of the above variables as being sensitive.
		helper.FlagNameToEnvVar("clickhouse-password"): "",
		helper.FlagNameToEnvVar("pg-dsn"):              "",
		helper.FlagNameToEnvVar("pg-password"):         "",
	}
)

type twelveFactorAction struct {
	runnerFunc func() error
}

func runCommand(cmd *cobra.Command) func() error {
	return func() error {
		return cmd.RunE(cmd, nil)
	}
}

// twelveFactorActions maps HP_COMMAND, and HP_SUBCOMMAND if there is one, to the command to run.
var twelveFactorActions = map[string]twelveFactorAction{
	c.ActionFuncsCommandRun:                                    {runnerFunc: runCommand(runCmd)},
	"pipe":                                                     {runnerFunc: runCommand(pipeCmd)},
	c.ActionFuncsCommandProbe + "-" + c.ActionFuncsSubCommandCh: {runnerFunc: runCommand(probeClickHouseCmd)},
	c.ActionFuncsCommandProbe + "-" + c.ActionFuncsSubCommandPg: {runnerFunc: runCommand(probePostgresCmd)},
	c.ActionFuncsCommandAnalyze:                                {runnerFunc: runCommand(analyzeCmd)},
	c.ActionFuncsCommandLoad:                                   {runnerFunc: runCommand(loadCmd)},
	c.ActionFuncsCommandReport:                                 {runnerFunc: runCommand(reportCmd)},
	"create-table":                                             {runnerFunc: runCommand(createTableCmd)},
}

// twelveFactorActionKey forms the key into twelveFactorActions.
func twelveFactorActionKey(command, subcommand string) string {
	if subcommand == "" {
		return command
	}
	return fmt.Sprintf("%v-%v", command, subcommand)
}

func twelveFactorActionKeys(acts map[string]twelveFactorAction) []string {
	keys := make([]string, 0, len(acts))
	for k := range acts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func execute12FactorMode(acts map[string]twelveFactorAction) (err error) {
	logLevel := helper.ReadValueFromEnvWithDefault(envVarLogLevel, "warn") // fetch logLevel from env as this is not a persistent flag.
	stackDumpOnPanic = helper.GetTrueFalseStringAsBool(os.Getenv(envVarStackDump))
	log := logger.NewLogger(c.ServiceName, logLevel, stackDumpOnPanic)
	log.Info("Housepipe is running in 12 Factor mode...")
	for k := range twelveFactorVars { // for each env variable that we need...
		twelveFactorVars[k] = os.Getenv(k)
		if _, sensitive := twelveFactorVarsSensitive[k]; !sensitive {
			log.Debug(k, "=", twelveFactorVars[k])
		} else {
			log.Debug(k, "=", "<obfuscated>")
		}
	}
	action := twelveFactorActionKey(twelveFactorVars[envVarCommand], twelveFactorVars[envVarSubcommand])
	a, ok := acts[action]
	if !ok {
		err = fmt.Errorf("invalid combination of command (%v) and subcommand (%v); expected one of: %v",
			twelveFactorVars[envVarCommand], twelveFactorVars[envVarSubcommand], strings.Join(twelveFactorActionKeys(acts), ", "))
		log.Error(err.Error())
		return
	}
	err = a.runnerFunc()
	if err != nil {
		log.Error("Error: ", err)
	}
	return err
}
