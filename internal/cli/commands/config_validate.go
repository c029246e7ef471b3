package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rin/pulley/internal/cli/ui"
)

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Validate .pulley/config.yaml against the configuration schema.

This command checks:
- Required fields are present
- Field types are correct
- The source remote and branch are named`,
	RunE: runConfigValidate,
}

var validateVerbose bool

func init() {
	configCmd.AddCommand(configValidateCmd)
	configValidateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Show the validated configuration")
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadProject()
	if err != nil {
		ui.Error("Configuration validation failed: %v", err)
		return fmt.Errorf("invalid configuration")
	}

	ui.Success("Configuration is valid")

	if validateVerbose {
		ui.Info("")
		ui.Info("Configuration details:")
		ui.Info("  Version: %s", cfg.Version)
		ui.Info("  App: %s", cfg.App.Name)
		ui.Info("  Interpreter: %s", cfg.Python.Interpreter)
		ui.Info("  Virtualenv: %s", cfg.Python.Venv)
		ui.Info("  Requirements: %s", cfg.Python.Requirements)
		ui.Info("  Source: %s/%s", cfg.Source.Remote, cfg.Source.Branch)
		if cfg.Host.Domain != "" {
			ui.Info("  Domain: %s", cfg.Host.Domain)
		}
		if cfg.Host.Panel != "" {
			ui.Info("  Control panel: %s", cfg.Host.Panel)
		}
	}

	return nil
}
