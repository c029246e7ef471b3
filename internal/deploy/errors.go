package deploy

import "fmt"

// Kind classifies what a failed step says about the world: the machine
// the deploy runs on, the network path to the source remote, or the
// toolchain the deploy drives.
type Kind string

const (
	// KindEnvironment covers missing directories, repositories,
	// interpreters, and broken virtualenvs.
	KindEnvironment Kind = "environment"
	// KindNetwork covers unreachable or unauthorized remotes.
	KindNetwork Kind = "network"
	// KindTooling covers failures of the tools the deploy runs, such
	// as venv creation or pip installs.
	KindTooling Kind = "tooling"
)

// StepError reports which step failed and how to read the failure. The
// underlying diagnostic is preserved verbatim.
type StepError struct {
	Step Step
	Kind Kind
	Err  error
}

func (e StepError) Error() string {
	return fmt.Sprintf("%s failed (%s error): %v", e.Step, e.Kind, e.Err)
}

func (e StepError) Unwrap() error {
	return e.Err
}
