package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rin/pulley/internal/cli/ui"
	"github.com/rin/pulley/internal/config"
	"github.com/rin/pulley/internal/deploy"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the project and its last deploy",
	Long: `Show the deploy state of the project: the configured source, the
working tree commit, the virtualenv, and the most recent release.

Status reads only local state. The remote tip shown is the one recorded
by the last fetch; no network access happens.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	projectRoot, err := config.FindProjectRoot()
	if err != nil {
		return err
	}

	status, err := deploy.ProjectStatus(config.NewManager(projectRoot))
	if err != nil {
		return err
	}

	if ui.GlobalFormatter.IsJSON() {
		return ui.GlobalFormatter.Output(status)
	}

	printStatusPretty(status)
	return nil
}

func printStatusPretty(status *deploy.Status) {
	ui.OutputLine("%s %s", ui.DeployIcon, ui.BoldStyle.Render(status.App))
	ui.PrintKeyValue("Root", status.Root)

	source := fmt.Sprintf("%s/%s", status.Remote, status.Branch)
	if status.RemoteURL != "" {
		source += fmt.Sprintf(" (%s)", status.RemoteURL)
	}
	ui.PrintKeyValue("Source", source)

	if status.VenvExists {
		venv := status.Venv
		if status.PythonVersion != "" {
			venv += fmt.Sprintf(" (Python %s)", status.PythonVersion)
		}
		ui.PrintKeyValue("Virtualenv", venv)
	} else {
		ui.PrintKeyValue("Virtualenv", status.Venv+" (not created yet)")
	}
	ui.PrintKeyValue("Requirements", status.Requirements)

	if status.Head != "" {
		commit := ui.ShortCommit(status.Head)
		if status.CurrentBranch != "" {
			commit += " on " + status.CurrentBranch
		}
		if status.Clean {
			commit += " (clean)"
		} else {
			commit += " (local changes, discarded on deploy)"
		}
		ui.PrintKeyValue("Commit", commit)
	}

	switch {
	case status.RemoteTip == "":
		ui.PrintKeyValue("Remote tip", fmt.Sprintf("not fetched yet (run 'pulley deploy' to fetch %s/%s)", status.Remote, status.Branch))
	case status.RemoteTip == status.Head:
		ui.PrintKeyValue("Remote tip", ui.ShortCommit(status.RemoteTip)+" (working tree is at the tip)")
	default:
		ui.PrintKeyValue("Remote tip", ui.ShortCommit(status.RemoteTip)+" (deploy would reset the tree)")
	}

	ui.OutputLine("")
	if status.LastRelease != nil {
		ui.PrintRelease(status.LastRelease)
	} else {
		ui.Info("No deploys recorded yet")
	}
}
