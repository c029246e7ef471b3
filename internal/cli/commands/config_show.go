package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rin/pulley/internal/cli/ui"
	"github.com/rin/pulley/internal/config"
)

var showFormat string

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the current configuration",
	Long:  "Display the effective pulley configuration, defaults included",
	Example: `  # Show configuration in YAML format (default)
  pulley config show

  # Show configuration in JSON format
  pulley config show --format json

  # Show configuration in pretty format
  pulley config show --format pretty`,
	RunE: runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configShowCmd.Flags().StringVar(&showFormat, "format", "yaml", "Output format (yaml, json, pretty)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadProject()
	if err != nil {
		return err
	}

	switch showFormat {
	case "json":
		return ui.NewJSONFormatter().Output(cfg)
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal configuration: %w", err)
		}
		ui.Output("%s", string(data))
		return nil
	case "pretty":
		showConfigPretty(cfg)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", showFormat)
	}
}

func showConfigPretty(cfg *config.Config) {
	ui.OutputLine("App:")
	ui.OutputLine("  Name: %s", cfg.App.Name)

	ui.OutputLine("\nPython:")
	ui.OutputLine("  Interpreter: %s", cfg.Python.Interpreter)
	ui.OutputLine("  Virtualenv: %s", cfg.Python.Venv)
	ui.OutputLine("  Requirements: %s", cfg.Python.Requirements)

	ui.OutputLine("\nSource:")
	ui.OutputLine("  Remote: %s", cfg.Source.Remote)
	ui.OutputLine("  Branch: %s", cfg.Source.Branch)

	if cfg.Host.Panel != "" || cfg.Host.Domain != "" {
		ui.OutputLine("\nHost:")
		if cfg.Host.Domain != "" {
			ui.OutputLine("  Domain: %s", cfg.Host.Domain)
		}
		if cfg.Host.Panel != "" {
			ui.OutputLine("  Panel: %s", cfg.Host.Panel)
		}
	}
}
