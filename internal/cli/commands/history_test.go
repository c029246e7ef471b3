package commands

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rin/pulley/internal/history"
)

func TestHistoryCommandEmpty(t *testing.T) {
	setupProject(t)

	rootCmd.SetArgs([]string{"history"})
	err := rootCmd.Execute()
	require.NoError(t, err)
}

func TestHistoryCommandWithReleases(t *testing.T) {
	mgr, _ := setupProject(t)

	store, err := history.Open(mgr.GetLedgerPath())
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		release := &history.Release{Remote: "origin", Branch: "main"}
		require.NoError(t, store.Create(release))
		release.Status = history.StatusSucceeded
		require.NoError(t, store.Finish(release))
	}
	require.NoError(t, store.Close())

	rootCmd.SetArgs([]string{"history", "-n", "2"})
	err = rootCmd.Execute()
	require.NoError(t, err)
}
