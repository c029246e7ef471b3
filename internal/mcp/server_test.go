package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rin/pulley/internal/config"
	"github.com/rin/pulley/internal/deploy"
	"github.com/rin/pulley/internal/history"
	"github.com/rin/pulley/internal/runner"
	"github.com/rin/pulley/internal/tests/helpers"
)

// setupTestServer builds a server over a freshly cloned project with a
// mocked command runner, so deploys run without python or pip installed.
func setupTestServer(t *testing.T) (*Server, *runner.MockRunner, *helpers.TestRepo) {
	t.Helper()

	_, _, app := helpers.SetupRemoteAndClone(t)

	configManager := config.NewManager(app.Path)
	cfg := config.DefaultConfig()
	cfg.App.Name = "myshop"
	require.NoError(t, configManager.Save(cfg))

	server, err := NewServer(configManager)
	require.NoError(t, err)

	mock := runner.NewMockRunner()
	server.WithRunner(mock)

	return server, mock, app
}

func callTool(t *testing.T, name string, args map[string]interface{}) mcp.CallToolRequest {
	t.Helper()

	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// textContent extracts the single text payload of a tool result
func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestNewServerRequiresConfig(t *testing.T) {
	_, _, app := helpers.SetupRemoteAndClone(t)

	_, err := NewServer(config.NewManager(app.Path))
	require.ErrorIs(t, err, config.ErrNotInitialized)
}

func TestDeployTool(t *testing.T) {
	server, _, app := setupTestServer(t)
	ctx := context.Background()

	t.Run("deploy runs the pipeline", func(t *testing.T) {
		result, err := server.handleDeploy(ctx, callTool(t, "deploy", map[string]interface{}{}))
		require.NoError(t, err)

		var report deployReport
		require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &report))

		assert.False(t, report.DryRun)
		require.NotNil(t, report.Release)
		assert.Equal(t, history.StatusSucceeded, report.Release.Status)
		assert.True(t, report.Release.VenvCreated)
		assert.Contains(t, report.Log, "==> Fetching origin/main")
		assert.Contains(t, report.Notice, "Reload myshop")
	})

	t.Run("deploy_status reflects the deploy", func(t *testing.T) {
		result, err := server.handleDeployStatus(ctx, callTool(t, "deploy_status", nil))
		require.NoError(t, err)

		var status deploy.Status
		require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &status))

		assert.Equal(t, "myshop", status.App)
		assert.Equal(t, app.Path, status.Root)
		assert.Equal(t, app.Head(), status.Head)
		assert.Equal(t, status.Head, status.RemoteTip)
		require.NotNil(t, status.LastRelease)
		assert.Equal(t, history.StatusSucceeded, status.LastRelease.Status)
	})

	t.Run("deploy_history lists the release", func(t *testing.T) {
		result, err := server.handleDeployHistory(ctx, callTool(t, "deploy_history", map[string]interface{}{
			"limit": float64(5),
		}))
		require.NoError(t, err)

		var releases []*history.Release
		require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &releases))
		require.Len(t, releases, 1)
		assert.Equal(t, history.StatusSucceeded, releases[0].Status)
	})
}

func TestDeployToolDryRun(t *testing.T) {
	server, mock, app := setupTestServer(t)

	result, err := server.handleDeploy(context.Background(), callTool(t, "deploy", map[string]interface{}{
		"dryRun": true,
	}))
	require.NoError(t, err)

	var report deployReport
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &report))

	assert.True(t, report.DryRun)
	assert.Nil(t, report.Release)
	assert.Contains(t, report.Log, "No changes were made")

	// The plan runs nothing and records nothing.
	assert.Empty(t, mock.Calls())
	assert.NoFileExists(t, config.NewManager(app.Path).GetLedgerPath())
}

func TestDeployToolFetchFailure(t *testing.T) {
	server, _, app := setupTestServer(t)

	app.SetRemoteURL("origin", "/nonexistent/remote.git")

	_, err := server.handleDeploy(context.Background(), callTool(t, "deploy", map[string]interface{}{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch failed (network error)")
}

func TestDeployHistoryToolEmpty(t *testing.T) {
	server, _, _ := setupTestServer(t)

	result, err := server.handleDeployHistory(context.Background(), callTool(t, "deploy_history", nil))
	require.NoError(t, err)

	assert.JSONEq(t, "[]", textContent(t, result))
}
