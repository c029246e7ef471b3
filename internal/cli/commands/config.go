package commands

import (
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pulley configuration",
	Long: `Manage the pulley configuration for this project.

The config command provides subcommands to view and validate
.pulley/config.yaml.`,
	Example: `  # View current configuration
  pulley config show

  # Validate configuration
  pulley config validate`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
