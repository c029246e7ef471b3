package commands

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	rootCmd.SetArgs([]string{"version"})
	err := rootCmd.Execute()
	require.NoError(t, err)
}

func TestVersionCommandJSON(t *testing.T) {
	rootCmd.SetArgs([]string{"version", "--format", "json"})
	err := rootCmd.Execute()
	require.NoError(t, err)

	rootCmd.SetArgs([]string{"version", "--format", "pretty"})
	require.NoError(t, rootCmd.Execute())
}

func TestRootCommandRejectsUnknownFormat(t *testing.T) {
	rootCmd.SetArgs([]string{"version", "--format", "xml"})
	err := rootCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported format")

	rootCmd.SetArgs([]string{"version", "--format", "pretty"})
	require.NoError(t, rootCmd.Execute())
}
