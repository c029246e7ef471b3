// Package config provides configuration management for pulley projects.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// PulleyDir is the directory name for pulley metadata
	PulleyDir = ".pulley"
	// ConfigFile is the filename for the pulley configuration
	ConfigFile = "config.yaml"
	// LedgerFile is the filename for the release ledger database
	LedgerFile = "pulley.db"
	// LockFile is the filename for the deploy lock
	LockFile = "deploy.lock"
)

// ErrNotInitialized indicates the project has no pulley configuration
var ErrNotInitialized = errors.New("pulley not initialized. Run 'pulley init' first")

// Manager handles pulley configuration for a single project
type Manager struct {
	projectRoot string
	configPath  string
}

// NewManager creates a new configuration manager
func NewManager(projectRoot string) *Manager {
	return &Manager{
		projectRoot: projectRoot,
		configPath:  filepath.Join(projectRoot, PulleyDir, ConfigFile),
	}
}

// Load reads and validates the configuration from disk
func (m *Manager) Load() (*Config, error) {
	config, err := LoadWithValidation(m.configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotInitialized
		}
		return nil, err
	}

	// Apply defaults after validation
	applyDefaults(config)

	return config, nil
}

// Save writes the configuration to disk. The write goes through a temp
// file and rename so an interrupted write never leaves a truncated
// config behind.
func (m *Manager) Save(config *Config) error {
	// Ensure the .pulley directory exists
	if err := os.MkdirAll(filepath.Dir(m.configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return writeFileAtomic(m.configPath, data)
}

// writeFileAtomic writes data to path via a uniquely named temp file in
// the same directory followed by a rename.
func writeFileAtomic(path string, data []byte) error {
	tempFile := fmt.Sprintf("%s.%d.%d.tmp", path, os.Getpid(), time.Now().UnixNano())
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if f, err := os.OpenFile(tempFile, os.O_RDWR, 0o644); err == nil {
		_ = f.Sync()
		_ = f.Close()
	}

	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename config into place: %w", err)
	}
	return nil
}

// IsInitialized checks whether pulley has been initialized in the project
func (m *Manager) IsInitialized() bool {
	_, err := os.Stat(m.configPath)
	return err == nil
}

// GetProjectRoot returns the project root directory
func (m *Manager) GetProjectRoot() string {
	return m.projectRoot
}

// GetPulleyDir returns the .pulley directory path
func (m *Manager) GetPulleyDir() string {
	return filepath.Join(m.projectRoot, PulleyDir)
}

// GetConfigPath returns the configuration file path
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// GetLedgerPath returns the release ledger database path
func (m *Manager) GetLedgerPath() string {
	return filepath.Join(m.projectRoot, PulleyDir, LedgerFile)
}

// GetLockPath returns the deploy lock file path
func (m *Manager) GetLockPath() string {
	return filepath.Join(m.projectRoot, PulleyDir, LockFile)
}

// FindProjectRoot searches for the project root by walking up from the
// current directory until a .pulley/config.yaml is found.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, PulleyDir, ConfigFile)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached the filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("not in a pulley project (no %s directory found)", PulleyDir)
}

// applyDefaults fills in default values for fields the file omits
func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = "1.0"
	}
	if cfg.Python.Interpreter == "" {
		cfg.Python.Interpreter = "python3.10"
	}
	if cfg.Python.Venv == "" {
		cfg.Python.Venv = ".venv"
	}
	if cfg.Python.Requirements == "" {
		cfg.Python.Requirements = "requirements.txt"
	}
	if cfg.Source.Remote == "" {
		cfg.Source.Remote = "origin"
	}
	if cfg.Source.Branch == "" {
		cfg.Source.Branch = "main"
	}
}
