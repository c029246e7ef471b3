package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rin/pulley/internal/cli/ui"
	"github.com/rin/pulley/internal/config"
	"github.com/rin/pulley/internal/deploy"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Bring the app up to date with the configured remote branch",
	Long: `Deploy the app: fetch the configured remote branch, hard-reset the
working tree to its tip, install the requirements manifest into the
project virtualenv, and print the reload notice.

Local changes to tracked files are discarded. Untracked files are left
alone. The first failing step aborts the deploy; nothing is rolled back.`,
	Example: `  # Deploy the app
  pulley deploy

  # Show what a deploy would do
  pulley deploy --dry-run`,
	RunE: runDeploy,
}

var deployDryRun bool

func init() {
	deployCmd.Flags().BoolVar(&deployDryRun, "dry-run", false, "Print the deploy plan without changing anything")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	projectRoot, err := config.FindProjectRoot()
	if err != nil {
		return err
	}

	configManager := config.NewManager(projectRoot)
	deployer, err := deploy.New(configManager)
	if err != nil {
		return err
	}
	deployer.WithLogger(CreateLogger()).WithDryRun(deployDryRun)

	// In JSON mode stdout carries exactly the release record; progress
	// lines and the notice move to stderr.
	if ui.GlobalFormatter.IsJSON() {
		deployer.WithOutput(os.Stderr)
	}

	// Ctrl-C stops the running step; the next deploy starts from
	// whatever state it left behind.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		ui.Warning("Interrupted, stopping the deploy")
		cancel()
	}()

	result, err := deployer.Run(ctx)
	if err != nil {
		return err
	}

	if deployDryRun {
		return nil
	}

	if ui.GlobalFormatter.IsJSON() {
		return ui.GlobalFormatter.Output(result.Release)
	}

	release := result.Release
	ui.Success("Deploy %s succeeded (%s) in %s",
		release.ShortID(),
		ui.FormatCommitRange(result.FromCommit, result.ToCommit),
		ui.FormatDuration(release.Duration()),
	)
	return nil
}
