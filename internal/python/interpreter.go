package python

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rin/pulley/internal/runner"
)

const versionTimeout = 10 * time.Second

// FindInterpreter resolves the configured interpreter to an executable
// path. A bare name is looked up on PATH; a path with a separator is
// checked directly.
func FindInterpreter(r runner.Runner, name string) (string, error) {
	path, err := r.LookPath(name)
	if err != nil {
		return "", ErrInterpreterNotFound{Name: name}
	}
	return path, nil
}

// InterpreterVersion probes an interpreter for its version string, e.g.
// "Python 3.10.12"
func InterpreterVersion(ctx context.Context, r runner.Runner, path string) (string, error) {
	result, err := r.Run(ctx, runner.Spec{
		Command: []string{path, "--version"},
		Timeout: versionTimeout,
	})
	if err != nil {
		return "", fmt.Errorf("failed to probe %s: %w", path, err)
	}
	return strings.TrimSpace(result.Output), nil
}
