package commands

import (
	"path/filepath"

	"github.com/rin/pulley/internal/config"
)

// loadProject locates the project root and loads its configuration
func loadProject() (*config.Manager, *config.Config, error) {
	projectRoot, err := config.FindProjectRoot()
	if err != nil {
		return nil, nil, err
	}

	configManager := config.NewManager(projectRoot)
	cfg, err := configManager.Load()
	if err != nil {
		return nil, nil, err
	}

	return configManager, cfg, nil
}

// venvPath resolves the configured virtualenv location against the root
func venvPath(root, venv string) string {
	if filepath.IsAbs(venv) {
		return venv
	}
	return filepath.Join(root, venv)
}
