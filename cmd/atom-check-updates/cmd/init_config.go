package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/atom-check-updates/internal/config"
)

// initConfigCmd writes the default settings so they can be edited and passed with --config.
var initConfigCmd = &cobra.Command{
	Use:   "init-config <path>",
	Short: "Write the default settings to a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(args[0], config.Default()); err != nil {
			return err
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Settings written to", args[0])

		return nil
	},
}
