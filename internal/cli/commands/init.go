// Package commands provides CLI command implementations for pulley.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rin/pulley/internal/cli/ui"
	"github.com/rin/pulley/internal/config"
	"github.com/rin/pulley/internal/git"
	"github.com/rin/pulley/internal/templates"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize pulley in the current project",
	Long: `Initialize pulley configuration in the current project directory.

The directory must be a git clone of the app repository. Init writes
.pulley/config.yaml; it never touches the working tree.`,
	RunE: runInit,
}

var (
	initPython string
	initRemote string
	initBranch string
	initApp    string
	forceInit  bool
)

func init() {
	initCmd.Flags().StringVar(&initPython, "python", "", "Interpreter used to create the virtualenv (default python3.10)")
	initCmd.Flags().StringVar(&initRemote, "remote", "", "Remote to deploy from (default origin)")
	initCmd.Flags().StringVar(&initBranch, "branch", "", "Branch to deploy from (default main)")
	initCmd.Flags().StringVar(&initApp, "app", "", "App name shown in deploy output")
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Force initialization, overwriting existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	// Deploys hard-reset a clone; a plain directory has nothing to reset.
	gitOps := git.NewOperations(cwd)
	if !gitOps.IsRepository() {
		return fmt.Errorf("not a git repository. Pulley deploys a git clone of the app")
	}

	configManager := config.NewManager(cwd)

	if configManager.IsInitialized() && !forceInit {
		return fmt.Errorf("pulley already initialized. Use --force to reinitialize")
	}

	cfg := config.DefaultConfig()
	if initApp != "" {
		cfg.App.Name = initApp
	}
	if initPython != "" {
		cfg.Python.Interpreter = initPython
	}
	if initRemote != "" {
		cfg.Source.Remote = initRemote
	}
	if initBranch != "" {
		cfg.Source.Branch = initBranch
	}

	// Warn, don't fail: the remote may be added after init.
	if _, err := gitOps.RemoteURL(cfg.Source.Remote); err != nil {
		ui.Warning("Remote %q not found in this clone. Deploys will fail until it exists", cfg.Source.Remote)
	}

	err = templates.WriteInitialConfig(configManager.GetConfigPath(), templates.ConfigData{
		AppName:      cfg.App.Name,
		Interpreter:  cfg.Python.Interpreter,
		Venv:         cfg.Python.Venv,
		Requirements: cfg.Python.Requirements,
		Remote:       cfg.Source.Remote,
		Branch:       cfg.Source.Branch,
	})
	if err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	// Load back so a value that breaks the rendered YAML surfaces now.
	if _, err := configManager.Load(); err != nil {
		return fmt.Errorf("generated configuration is invalid: %w", err)
	}

	ui.Success("Pulley initialized in %s", cwd)
	ui.PrintKeyValue("Configuration", filepath.Join(config.PulleyDir, config.ConfigFile))
	ui.PrintKeyValue("Source", fmt.Sprintf("%s/%s", cfg.Source.Remote, cfg.Source.Branch))
	ui.PrintKeyValue("Interpreter", cfg.Python.Interpreter)
	ui.OutputLine("\nRun 'pulley deploy' to bring %s up to date", cfg.App.Name)

	return nil
}
