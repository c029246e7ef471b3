package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rin/pulley/internal/config"
)

func TestConfigShowCommand(t *testing.T) {
	projectDir := t.TempDir()
	pulleyDir := filepath.Join(projectDir, config.PulleyDir)
	err := os.MkdirAll(pulleyDir, 0o755)
	require.NoError(t, err)

	testCfg := &config.Config{
		Version: "1.0",
		App: config.AppConfig{
			Name: "myshop",
		},
		Python: config.PythonConfig{
			Interpreter:  "python3.10",
			Venv:         ".venv",
			Requirements: "requirements.txt",
		},
		Source: config.SourceConfig{
			Remote: "origin",
			Branch: "main",
		},
	}

	mgr := config.NewManager(projectDir)
	err = mgr.Save(testCfg)
	require.NoError(t, err)

	oldCwd, _ := os.Getwd()
	defer os.Chdir(oldCwd)
	os.Chdir(projectDir)

	t.Run("yaml format", func(t *testing.T) {
		rootCmd.SetArgs([]string{"config", "show"})
		err := rootCmd.Execute()
		require.NoError(t, err)
	})

	t.Run("pretty format", func(t *testing.T) {
		rootCmd.SetArgs([]string{"config", "show", "--format", "pretty"})
		err := rootCmd.Execute()
		require.NoError(t, err)
	})

	t.Run("json format", func(t *testing.T) {
		rootCmd.SetArgs([]string{"config", "show", "--format", "json"})
		err := rootCmd.Execute()
		require.NoError(t, err)
	})
}

func TestConfigShowCommandErrors(t *testing.T) {
	tempDir := t.TempDir()
	oldCwd, _ := os.Getwd()
	defer os.Chdir(oldCwd)
	os.Chdir(tempDir)

	t.Run("not in a pulley project", func(t *testing.T) {
		rootCmd.SetArgs([]string{"config", "show"})
		err := rootCmd.Execute()
		require.Error(t, err)
		require.Contains(t, err.Error(), "not in a pulley project")
	})

	t.Run("invalid format", func(t *testing.T) {
		mgr := config.NewManager(tempDir)
		err := mgr.Save(config.DefaultConfig())
		require.NoError(t, err)

		rootCmd.SetArgs([]string{"config", "show", "--format", "invalid"})
		err = rootCmd.Execute()
		require.Error(t, err)
		require.Contains(t, err.Error(), "unsupported format")
	})
}

func TestConfigValidateCommand(t *testing.T) {
	projectDir := t.TempDir()
	mgr := config.NewManager(projectDir)
	require.NoError(t, mgr.Save(config.DefaultConfig()))

	oldCwd, _ := os.Getwd()
	defer os.Chdir(oldCwd)
	os.Chdir(projectDir)

	rootCmd.SetArgs([]string{"config", "validate"})
	err := rootCmd.Execute()
	require.NoError(t, err)
}

func TestConfigValidateCommandRejectsBrokenFile(t *testing.T) {
	projectDir := t.TempDir()
	pulleyDir := filepath.Join(projectDir, config.PulleyDir)
	require.NoError(t, os.MkdirAll(pulleyDir, 0o755))

	// Branch must be a string.
	broken := "version: \"1.0\"\nsource:\n  branch: [not, a, string]\n"
	require.NoError(t, os.WriteFile(filepath.Join(pulleyDir, config.ConfigFile), []byte(broken), 0o644))

	oldCwd, _ := os.Getwd()
	defer os.Chdir(oldCwd)
	os.Chdir(projectDir)

	rootCmd.SetArgs([]string{"config", "validate"})
	err := rootCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid configuration")
}
