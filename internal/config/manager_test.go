package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	manager := NewManager(tmpDir)

	assert.False(t, manager.IsInitialized())

	cfg := DefaultConfig()
	cfg.App.Name = "myshop"
	cfg.Source.Branch = "production"
	require.NoError(t, manager.Save(cfg))

	assert.True(t, manager.IsInitialized())

	loaded, err := manager.Load()
	require.NoError(t, err)
	assert.Equal(t, "myshop", loaded.App.Name)
	assert.Equal(t, "production", loaded.Source.Branch)
	assert.Equal(t, "origin", loaded.Source.Remote)
}

func TestManagerLoadNotInitialized(t *testing.T) {
	manager := NewManager(t.TempDir())

	_, err := manager.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestManagerLoadAppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	manager := NewManager(tmpDir)

	// Write a minimal config by hand; Load should fill the rest
	require.NoError(t, os.MkdirAll(manager.GetPulleyDir(), 0o755))
	require.NoError(t, os.WriteFile(manager.GetConfigPath(), []byte(`version: "1.0"`), 0o644))

	cfg, err := manager.Load()
	require.NoError(t, err)
	assert.Equal(t, "python3.10", cfg.Python.Interpreter)
	assert.Equal(t, ".venv", cfg.Python.Venv)
	assert.Equal(t, "requirements.txt", cfg.Python.Requirements)
	assert.Equal(t, "origin", cfg.Source.Remote)
	assert.Equal(t, "main", cfg.Source.Branch)
}

func TestManagerPaths(t *testing.T) {
	manager := NewManager("/srv/myshop")

	assert.Equal(t, "/srv/myshop", manager.GetProjectRoot())
	assert.Equal(t, filepath.Join("/srv/myshop", ".pulley"), manager.GetPulleyDir())
	assert.Equal(t, filepath.Join("/srv/myshop", ".pulley", "config.yaml"), manager.GetConfigPath())
	assert.Equal(t, filepath.Join("/srv/myshop", ".pulley", "pulley.db"), manager.GetLedgerPath())
	assert.Equal(t, filepath.Join("/srv/myshop", ".pulley", "deploy.lock"), manager.GetLockPath())
}

func TestFindProjectRoot(t *testing.T) {
	t.Run("finds root from subdirectory", func(t *testing.T) {
		tmpDir := t.TempDir()
		manager := NewManager(tmpDir)
		require.NoError(t, manager.Save(DefaultConfig()))

		subDir := filepath.Join(tmpDir, "static", "css")
		require.NoError(t, os.MkdirAll(subDir, 0o755))

		oldCwd, _ := os.Getwd()
		defer os.Chdir(oldCwd)
		os.Chdir(subDir)

		root, err := FindProjectRoot()
		require.NoError(t, err)

		// Resolve symlinks so the comparison survives /tmp indirection
		wantRoot, err := filepath.EvalSymlinks(tmpDir)
		require.NoError(t, err)
		gotRoot, err := filepath.EvalSymlinks(root)
		require.NoError(t, err)
		assert.Equal(t, wantRoot, gotRoot)
	})

	t.Run("errors outside a project", func(t *testing.T) {
		oldCwd, _ := os.Getwd()
		defer os.Chdir(oldCwd)
		os.Chdir(t.TempDir())

		_, err := FindProjectRoot()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not in a pulley project")
	})
}
