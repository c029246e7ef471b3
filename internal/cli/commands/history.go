package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rin/pulley/internal/cli/ui"
	"github.com/rin/pulley/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent deploys",
	Long:  "List recent deploys from the release ledger, newest first.",
	Example: `  # Show the last 10 deploys
  pulley history

  # Show the last 3 deploys as JSON
  pulley history -n 3 --format json`,
	RunE: runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of deploys to show (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	configManager, _, err := loadProject()
	if err != nil {
		return err
	}

	// Initialized so JSON output is [] rather than null before the
	// first deploy.
	releases := []*history.Release{}
	if _, err := os.Stat(configManager.GetLedgerPath()); err == nil {
		store, err := history.Open(configManager.GetLedgerPath())
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		releases, err = store.List(historyLimit)
		if err != nil {
			return err
		}
	}

	if ui.GlobalFormatter.IsJSON() {
		return ui.GlobalFormatter.Output(releases)
	}

	ui.PrintReleaseList(releases)
	return nil
}
