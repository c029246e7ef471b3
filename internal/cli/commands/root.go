package commands

import (
	"github.com/spf13/cobra"

	"github.com/rin/pulley/internal/cli/ui"
)

var rootCmd = &cobra.Command{
	Use:   "pulley",
	Short: "Deploy a Python web app from a git remote",
	Long: `Pulley updates a hosted Python web app in place: it resets the working
tree to the tip of the configured remote branch, keeps the virtualenv in
step with the requirements manifest, and reminds you to reload the app
from the hosting control panel.

The working tree is treated as disposable: local changes to tracked files
are discarded on every deploy. Untracked files (databases, uploads) are
left alone.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		format, err := ui.ParseFormat(flagOutputFormat)
		if err != nil {
			return err
		}
		return ui.SetGlobalFormatter(format)
	},
}

var flagOutputFormat string

func init() {
	RegisterLoggerFlags(rootCmd)
	rootCmd.PersistentFlags().StringVar(&flagOutputFormat, "format", "pretty", "Output format (pretty, json)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
