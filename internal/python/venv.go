// Package python manages the interpreter and virtualenv a deploy uses:
// locating the configured interpreter, creating the virtualenv, and
// computing the activation environment for child processes.
package python

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rin/pulley/internal/runner"
)

// createTimeout bounds virtualenv creation
const createTimeout = 5 * time.Minute

// Venv is a virtualenv directory
type Venv struct {
	// Root is the absolute path of the virtualenv directory
	Root string
}

// NewVenv creates a Venv for the given root directory
func NewVenv(root string) *Venv {
	return &Venv{Root: root}
}

// ConfigPath returns the pyvenv.cfg path
func (v *Venv) ConfigPath() string {
	return filepath.Join(v.Root, "pyvenv.cfg")
}

// Exists reports whether a virtualenv is present: the directory exists
// and carries a pyvenv.cfg
func (v *Venv) Exists() bool {
	_, err := os.Stat(v.ConfigPath())
	return err == nil
}

// Validate checks that the virtualenv is usable. A directory without
// pyvenv.cfg yields ErrNotVirtualenv; a missing python or pip executable
// is reported by name.
func (v *Venv) Validate() error {
	if _, err := os.Stat(v.Root); err != nil {
		return fmt.Errorf("virtualenv missing: %s", v.Root)
	}
	if !v.Exists() {
		return ErrNotVirtualenv{Path: v.Root}
	}
	if _, err := os.Stat(v.Python()); err != nil {
		return fmt.Errorf("virtualenv has no python executable: %s", v.Python())
	}
	if _, err := os.Stat(v.Pip()); err != nil {
		return fmt.Errorf("virtualenv has no pip executable: %s", v.Pip())
	}
	return nil
}

// BinDir returns the directory holding the virtualenv's executables
func (v *Venv) BinDir() string {
	return filepath.Join(v.Root, binDirName)
}

// Python returns the virtualenv's python executable path
func (v *Venv) Python() string {
	return filepath.Join(v.BinDir(), pythonExeName)
}

// Pip returns the virtualenv's pip executable path
func (v *Venv) Pip() string {
	return filepath.Join(v.BinDir(), pipExeName)
}

// Env returns the activation environment: what "source bin/activate"
// would export. Merged over a process environment, it makes the
// virtualenv's interpreter and installer the ones child processes find.
func (v *Venv) Env() map[string]string {
	return map[string]string{
		"VIRTUAL_ENV": v.Root,
		"PATH":        v.BinDir() + string(os.PathListSeparator) + os.Getenv("PATH"),
	}
}

// Version returns the Python version recorded in pyvenv.cfg
func (v *Venv) Version() (string, error) {
	f, err := os.Open(v.ConfigPath())
	if err != nil {
		return "", fmt.Errorf("failed to read pyvenv.cfg: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "version", "version_info":
			return strings.TrimSpace(value), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read pyvenv.cfg: %w", err)
	}
	return "", fmt.Errorf("no version recorded in %s", v.ConfigPath())
}

// Create builds the virtualenv with "<interpreter> -m venv <root>".
// The interpreter must be an executable path or a name on the PATH.
func Create(ctx context.Context, r runner.Runner, interpreter, root string) error {
	result, err := r.Run(ctx, runner.Spec{
		Command: []string{interpreter, "-m", "venv", root},
		Timeout: createTimeout,
	})
	if err != nil {
		if result != nil && strings.TrimSpace(result.Output) != "" {
			return fmt.Errorf("failed to create virtualenv: %s: %w", strings.TrimSpace(result.Output), err)
		}
		return fmt.Errorf("failed to create virtualenv: %w", err)
	}
	return nil
}
