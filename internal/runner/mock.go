package runner

import (
	"context"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

// MockRunner is a mock implementation of Runner for testing. Responses
// are keyed by the base name of the executable, so tests don't depend on
// temp directory layouts.
type MockRunner struct {
	mu        sync.Mutex
	calls     []Spec
	responses map[string]mockResponse
	paths     map[string]string
}

type mockResponse struct {
	result *Result
	err    error
}

// NewMockRunner creates a mock runner where every command succeeds with
// empty output and every executable resolves to itself.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		responses: make(map[string]mockResponse),
		paths:     make(map[string]string),
	}
}

// SetResponse sets the result returned for commands whose executable has
// the given base name.
func (m *MockRunner) SetResponse(name string, result *Result, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[name] = mockResponse{result: result, err: err}
}

// SetMissing makes LookPath fail for the given executable name.
func (m *MockRunner) SetMissing(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths[name] = ""
}

// Run implements Runner
func (m *MockRunner) Run(_ context.Context, spec Spec) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, spec)

	if len(spec.Command) > 0 {
		if resp, ok := m.responses[filepath.Base(spec.Command[0])]; ok {
			return resp.result, resp.err
		}
	}

	now := time.Now()
	return &Result{StartTime: now, EndTime: now}, nil
}

// LookPath implements Runner
func (m *MockRunner) LookPath(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if path, ok := m.paths[name]; ok {
		if path == "" {
			return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
		}
		return path, nil
	}
	return name, nil
}

// SetPath makes LookPath resolve name to the given path.
func (m *MockRunner) SetPath(name, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths[name] = path
}

// Calls returns all recorded invocations.
func (m *MockRunner) Calls() []Spec {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]Spec, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallsFor returns recorded invocations whose executable has the given
// base name.
func (m *MockRunner) CallsFor(name string) []Spec {
	m.mu.Lock()
	defer m.mu.Unlock()

	var calls []Spec
	for _, c := range m.calls {
		if len(c.Command) > 0 && filepath.Base(c.Command[0]) == name {
			calls = append(calls, c)
		}
	}
	return calls
}
