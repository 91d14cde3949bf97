package cmd

import (
	"fmt"

	"github.com/relloyd/housepipe/config"
	"github.com/spf13/cobra"
)

var defaultCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Configure default values for commands",
	Long: fmt.Sprintf(`Configure default values for commands, where:

- Defaults are stored in config file %q
- Keys match flag names, e.g. clickhouse-url or batch-size`, config.Defaults.FullPath),
}

func init() {
	configCmd.AddCommand(defaultCmd)
}
