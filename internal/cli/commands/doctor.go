package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rin/pulley/internal/cli/ui"
	"github.com/rin/pulley/internal/config"
	"github.com/rin/pulley/internal/git"
	"github.com/rin/pulley/internal/history"
	"github.com/rin/pulley/internal/lockfile"
	"github.com/rin/pulley/internal/pip"
	"github.com/rin/pulley/internal/python"
	"github.com/rin/pulley/internal/runner"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the project is ready to deploy",
	Long: `Check the local prerequisites of a deploy: configuration, git remote,
Python interpreter, virtualenv, requirements manifest, release ledger,
and the deploy lock.

Doctor inspects local state only. It does not reach the network and it
does not check whether the deployed app is healthy.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	projectRoot, err := config.FindProjectRoot()
	if err != nil {
		return err
	}

	configManager := config.NewManager(projectRoot)
	failed := 0

	cfg, err := configManager.Load()
	if err != nil {
		// Everything else depends on the configuration.
		ui.Error("Configuration: %v", err)
		return fmt.Errorf("1 check failed")
	}
	ui.Success("Configuration valid (%s)", configManager.GetConfigPath())

	gitOps := git.NewOperations(projectRoot)
	if !gitOps.IsRepository() {
		ui.Error("Not a git repository: %s", projectRoot)
		failed++
	} else if url, err := gitOps.RemoteURL(cfg.Source.Remote); err != nil {
		ui.Error("Remote %q not configured. Add it with 'git remote add %s <url>'", cfg.Source.Remote, cfg.Source.Remote)
		failed++
	} else {
		ui.Success("Deploying from %s/%s (%s)", cfg.Source.Remote, cfg.Source.Branch, url)
	}

	r := runner.New()
	if interpreter, err := python.FindInterpreter(r, cfg.Python.Interpreter); err != nil {
		ui.Error("Interpreter %s not found on PATH", cfg.Python.Interpreter)
		failed++
	} else if version, err := python.InterpreterVersion(cmd.Context(), r, interpreter); err == nil {
		ui.Success("Interpreter %s (%s)", interpreter, version)
	} else {
		ui.Success("Interpreter %s", interpreter)
	}

	venvRoot := venvPath(projectRoot, cfg.Python.Venv)
	venv := python.NewVenv(venvRoot)
	switch {
	case venv.Exists():
		if err := venv.Validate(); err != nil {
			ui.Error("Virtualenv %s: %v", cfg.Python.Venv, err)
			failed++
		} else if version, err := venv.Version(); err == nil {
			ui.Success("Virtualenv %s (Python %s)", cfg.Python.Venv, version)
		} else {
			ui.Success("Virtualenv %s", cfg.Python.Venv)
		}
	case dirExists(venvRoot):
		ui.Error("%s exists but is not a virtualenv. Move it aside and deploy again", cfg.Python.Venv)
		failed++
	default:
		ui.Info("Virtualenv %s not created yet (the first deploy creates it)", cfg.Python.Venv)
	}

	if reqs, err := pip.ParseFile(filepath.Join(projectRoot, cfg.Python.Requirements)); err != nil {
		ui.Error("Requirements manifest: %v", err)
		failed++
	} else if len(reqs) == 1 {
		ui.Success("Requirements manifest %s (1 entry)", cfg.Python.Requirements)
	} else {
		ui.Success("Requirements manifest %s (%d entries)", cfg.Python.Requirements, len(reqs))
	}

	if _, err := os.Stat(configManager.GetLedgerPath()); err != nil {
		ui.Info("No deploys recorded yet")
	} else if store, err := history.Open(configManager.GetLedgerPath()); err != nil {
		ui.Error("Deploy ledger: %v", err)
		failed++
	} else {
		if last, err := store.Last(); err == nil && last != nil {
			ui.Success("Deploy ledger OK (last deploy %s, %s)", last.ShortID(), last.Status)
		} else {
			ui.Success("Deploy ledger OK")
		}
		_ = store.Close()
	}

	if held, err := lockfile.Probe(configManager.GetLockPath()); err == nil && held {
		ui.Warning("A deploy is running right now (lock held)")
	} else {
		ui.Success("No deploy in progress")
	}

	if failed == 1 {
		return fmt.Errorf("1 check failed")
	}
	if failed > 1 {
		return fmt.Errorf("%d checks failed", failed)
	}

	ui.OutputLine("")
	ui.Success("Ready to deploy")
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
