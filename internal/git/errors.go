package git

import "fmt"

// ErrNotRepository is returned when a path is not a git repository
type ErrNotRepository struct {
	Path string
}

func (e ErrNotRepository) Error() string {
	return fmt.Sprintf("not a git repository: %s", e.Path)
}

// ErrBranchNotFound is returned when a remote-tracking branch is missing
// after a fetch
type ErrBranchNotFound struct {
	Remote string
	Branch string
}

func (e ErrBranchNotFound) Error() string {
	return fmt.Sprintf("branch %s not found on remote %s", e.Branch, e.Remote)
}

// ErrRemoteNotFound is returned when the repository has no remote with
// the configured name
type ErrRemoteNotFound struct {
	Name string
}

func (e ErrRemoteNotFound) Error() string {
	return fmt.Sprintf("remote not found: %s", e.Name)
}
