package python

import "fmt"

// ErrInterpreterNotFound is returned when the configured interpreter is
// not installed on the host
type ErrInterpreterNotFound struct {
	Name string
}

func (e ErrInterpreterNotFound) Error() string {
	return fmt.Sprintf("python interpreter not found: %s", e.Name)
}

// ErrNotVirtualenv is returned when the virtualenv path exists but does
// not look like a virtualenv. The directory is never deleted or rebuilt;
// a mispointed venv path could name application data.
type ErrNotVirtualenv struct {
	Path string
}

func (e ErrNotVirtualenv) Error() string {
	return fmt.Sprintf("%s exists but is not a virtualenv (no pyvenv.cfg)", e.Path)
}
