package cmd

import (
	"fmt"

	"github.com/relloyd/housepipe/actions"
	"github.com/relloyd/housepipe/config"
	"github.com/spf13/cobra"
)

var configDefaultListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Print all default flag values",
	Long: fmt.Sprintf(`List default flag values stored in config file %q
by printing them all to STDOUT`, config.Defaults.FullPath),
	RunE: func(cmd *cobra.Command, args []string) error {
		return actions.RunDefaultList(config.Defaults)
	},
}

func init() {
	defaultCmd.AddCommand(configDefaultListCmd)
}
