package cmd

import (
	"fmt"

	"github.com/relloyd/housepipe/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure default flag values",
	Long: fmt.Sprintf(`Configure default parameters where:

- Default flag values are stored in encrypted file %q
`, config.Defaults.FullPath),
}

func init() {
	rootCmd.AddCommand(configCmd)
}
