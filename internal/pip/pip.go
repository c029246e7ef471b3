// Package pip drives the pip executable inside a project virtualenv.
package pip

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rin/pulley/internal/python"
	"github.com/rin/pulley/internal/runner"
)

const (
	installTimeout = 15 * time.Minute
	versionTimeout = 10 * time.Second
)

// Install installs the packages listed in the manifest into the
// virtualenv using its own pip. pip skips requirements that are already
// satisfied, so repeating an install with an unchanged manifest changes
// nothing.
func Install(ctx context.Context, r runner.Runner, venv *python.Venv, dir, manifest string) error {
	result, err := r.Run(ctx, runner.Spec{
		Command: []string{venv.Pip(), "install", "-r", manifest},
		Dir:     dir,
		Env:     venv.Env(),
		Timeout: installTimeout,
	})
	if err != nil {
		if result != nil && strings.TrimSpace(result.Output) != "" {
			return fmt.Errorf("pip install failed: %s: %w", strings.TrimSpace(result.Output), err)
		}
		return fmt.Errorf("pip install failed: %w", err)
	}
	return nil
}

// Version reports the pip version inside the virtualenv, e.g.
// "pip 23.0.1 from ... (python 3.10)"
func Version(ctx context.Context, r runner.Runner, venv *python.Venv) (string, error) {
	result, err := r.Run(ctx, runner.Spec{
		Command: []string{venv.Pip(), "--version"},
		Env:     venv.Env(),
		Timeout: versionTimeout,
	})
	if err != nil {
		return "", fmt.Errorf("failed to probe pip: %w", err)
	}
	return strings.TrimSpace(result.Output), nil
}
