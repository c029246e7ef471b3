// Package runner executes external commands for pulley. Deploy steps
// shell out to the Python interpreter and pip through this package so
// tests can substitute a mock.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Spec describes a single command invocation.
type Spec struct {
	// Command is the argv; Command[0] is the executable
	Command []string
	// Dir is the working directory for the command
	Dir string
	// Env entries are merged over the parent environment; entries here
	// override inherited variables of the same name
	Env map[string]string
	// Timeout bounds execution; zero means no timeout
	Timeout time.Duration
}

// Result captures the outcome of a command invocation.
type Result struct {
	ExitCode  int
	Output    string
	StartTime time.Time
	EndTime   time.Time
}

// Duration returns how long the command ran.
func (r *Result) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// Runner runs external commands.
type Runner interface {
	// Run executes the command and returns its result. A non-zero exit
	// returns both the result and an error.
	Run(ctx context.Context, spec Spec) (*Result, error)
	// LookPath searches for an executable in the PATH
	LookPath(name string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	output io.Writer
}

// New creates an ExecRunner that discards streamed output.
func New() *ExecRunner {
	return &ExecRunner{
		output: io.Discard,
	}
}

// WithOutput streams child process output to w while still capturing it
// in the Result.
func (r *ExecRunner) WithOutput(w io.Writer) *ExecRunner {
	r.output = w
	return r
}

// Run implements Runner
func (r *ExecRunner) Run(ctx context.Context, spec Spec) (*Result, error) {
	if len(spec.Command) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, spec.Command[0], spec.Command[1:]...)
	cmd.Dir = spec.Dir

	// Later duplicates win, so appending overrides inherited variables
	cmd.Env = os.Environ()
	for k, v := range spec.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	var outputBuf bytes.Buffer
	cmd.Stdout = io.MultiWriter(r.output, &outputBuf)
	cmd.Stderr = io.MultiWriter(r.output, &outputBuf)

	result := &Result{
		StartTime: time.Now(),
	}

	err := cmd.Run()
	result.EndTime = time.Now()
	result.Output = outputBuf.String()

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		}
		if ctx.Err() == context.DeadlineExceeded {
			return result, fmt.Errorf("command timed out after %s: %w", spec.Timeout, err)
		}
		return result, err
	}

	return result, nil
}

// LookPath implements Runner
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
