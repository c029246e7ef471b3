// Package mcp exposes the deploy pipeline to AI agents over the Model
// Context Protocol.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rin/pulley/internal/config"
	"github.com/rin/pulley/internal/deploy"
	"github.com/rin/pulley/internal/history"
	"github.com/rin/pulley/internal/runner"
)

// Server implements the MCP server on stdio
type Server struct {
	mcpServer     *server.MCPServer
	configManager *config.Manager
	runner        runner.Runner
}

// NewServer creates an MCP server for the project handled by
// configManager. The configuration must load; everything else is
// checked per tool call.
func NewServer(configManager *config.Manager) (*Server, error) {
	if _, err := configManager.Load(); err != nil {
		return nil, err
	}

	mcpServer := server.NewMCPServer(
		"pulley",
		"1.0.0",
		server.WithLogging(),
	)

	s := &Server{
		mcpServer:     mcpServer,
		configManager: configManager,
	}
	s.registerTools()

	return s, nil
}

// WithRunner sets the command runner deploys use
func (s *Server) WithRunner(r runner.Runner) *Server {
	s.runner = r
	return s
}

// registerTools registers all pulley tools
func (s *Server) registerTools() {
	// deploy tool
	s.mcpServer.AddTool(mcp.NewTool("deploy",
		mcp.WithDescription("Deploy the app: fetch the configured remote branch, hard-reset the working tree to its tip, and install the requirements manifest into the virtualenv. Local changes to tracked files are discarded."),
		mcp.WithBoolean("dryRun",
			mcp.Description("Print the deploy plan without changing anything"),
		),
	), s.handleDeploy)

	// deploy_status tool
	s.mcpServer.AddTool(mcp.NewTool("deploy_status",
		mcp.WithDescription("Show the deploy state of the project: source, working tree commit, virtualenv, and the last release"),
	), s.handleDeployStatus)

	// deploy_history tool
	s.mcpServer.AddTool(mcp.NewTool("deploy_history",
		mcp.WithDescription("List recent deploys, newest first"),
		mcp.WithNumber("limit",
			mcp.Description("Number of deploys to return (default 10)"),
		),
	), s.handleDeployHistory)
}

// deployReport is the deploy tool's result payload.
type deployReport struct {
	DryRun  bool             `json:"dry_run,omitempty"`
	Release *history.Release `json:"release,omitempty"`
	Notice  string           `json:"notice,omitempty"`
	Log     string           `json:"log,omitempty"`
}

// Tool handlers

func (s *Server) handleDeploy(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	dryRun := false
	if v, ok := args["dryRun"].(bool); ok {
		dryRun = v
	}

	deployer, err := deploy.New(s.configManager)
	if err != nil {
		return nil, err
	}

	// Stdout belongs to the protocol; progress lines are captured and
	// returned in the result instead.
	var progress bytes.Buffer
	deployer.WithOutput(&progress).WithDryRun(dryRun)
	if s.runner != nil {
		deployer.WithRunner(s.runner)
	}

	result, err := deployer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("deploy failed: %w", err)
	}

	return jsonResult(deployReport{
		DryRun:  dryRun,
		Release: result.Release,
		Notice:  result.Notice,
		Log:     progress.String(),
	})
}

func (s *Server) handleDeployStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := deploy.ProjectStatus(s.configManager)
	if err != nil {
		return nil, fmt.Errorf("failed to read project status: %w", err)
	}
	return jsonResult(status)
}

func (s *Server) handleDeployHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	limit := 10
	if v, ok := args["limit"].(float64); ok && v > 0 {
		limit = int(v)
	}

	releases := []*history.Release{}
	if _, err := os.Stat(s.configManager.GetLedgerPath()); err == nil {
		store, err := history.Open(s.configManager.GetLedgerPath())
		if err != nil {
			return nil, fmt.Errorf("failed to open deploy ledger: %w", err)
		}
		defer func() { _ = store.Close() }()

		releases, err = store.List(limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list deploys: %w", err)
		}
	}

	return jsonResult(releases)
}

// jsonResult wraps a value as an indented-JSON text content result
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: string(data),
			},
		},
	}, nil
}

// Start serves MCP on stdio until stdin closes or the process is
// signaled.
func (s *Server) Start() error {
	return server.ServeStdio(s.mcpServer)
}
