package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rin/pulley/internal/config"
	"github.com/rin/pulley/internal/git"
	"github.com/rin/pulley/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server on stdio so AI agents can run
and inspect deploys.

The server exposes the same deploy pipeline as the CLI: a deploy tool,
the status report, and the release history.`,
	RunE: runMCP,
}

var mcpRootDir string

func init() {
	mcpCmd.Flags().StringVar(&mcpRootDir, "root-dir", "", "Project root directory (required if not run inside the project)")
}

func runMCP(cmd *cobra.Command, args []string) error {
	var projectRoot string
	var err error

	if mcpRootDir != "" {
		projectRoot, err = filepath.Abs(mcpRootDir)
		if err != nil {
			return fmt.Errorf("invalid root directory: %w", err)
		}
		if !git.NewOperations(projectRoot).IsRepository() {
			return fmt.Errorf("--root-dir must be a git repository: %s", projectRoot)
		}
	} else {
		projectRoot, err = config.FindProjectRoot()
		if err != nil {
			return fmt.Errorf("not in a pulley project and --root-dir not specified")
		}
	}

	configManager := config.NewManager(projectRoot)
	if !configManager.IsInitialized() {
		return fmt.Errorf("pulley not initialized in %s. Run 'pulley init' first", projectRoot)
	}

	server, err := mcp.NewServer(configManager)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	// The protocol owns stdout; operator messages go to stderr.
	fmt.Fprintf(os.Stderr, "Starting MCP server on stdio for %s\n", projectRoot)
	fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop\n")

	if err := server.Start(); err != nil {
		// Ctrl+C surfaces as a canceled context, not a failure.
		if errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "MCP server stopped\n")
			return nil
		}
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		return fmt.Errorf("server error: %w", err)
	}

	fmt.Fprintf(os.Stderr, "MCP server stopped\n")
	return nil
}
