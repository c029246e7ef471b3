// Package git wraps the go-git operations pulley needs: inspecting the
// local checkout, fetching a remote branch, and hard-resetting the
// working tree to its tip.
package git

import (
	"errors"
	"fmt"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Operations provides git operations on a single repository
type Operations struct {
	repoPath string
}

// NewOperations creates a new git operations instance
func NewOperations(repoPath string) *Operations {
	return &Operations{
		repoPath: repoPath,
	}
}

func (o *Operations) open() (*git.Repository, error) {
	repo, err := git.PlainOpen(o.repoPath)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository{Path: o.repoPath}
		}
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	return repo, nil
}

// IsRepository checks if the path is a git repository
func (o *Operations) IsRepository() bool {
	_, err := git.PlainOpen(o.repoPath)
	return err == nil
}

// Head returns the commit hash HEAD points at
func (o *Operations) Head() (string, error) {
	repo, err := o.open()
	if err != nil {
		return "", err
	}

	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

// CurrentBranch returns the short name of the branch HEAD is on
func (o *Operations) CurrentBranch() (string, error) {
	repo, err := o.open()
	if err != nil {
		return "", err
	}

	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	return ref.Name().Short(), nil
}

// RemoteURL returns the first URL of the named remote
func (o *Operations) RemoteURL(name string) (string, error) {
	repo, err := o.open()
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote(name)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return "", ErrRemoteNotFound{Name: name}
		}
		return "", fmt.Errorf("failed to get remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", ErrRemoteNotFound{Name: name}
	}
	return urls[0], nil
}

// RemoteTip returns the commit hash of the remote-tracking ref for the
// given branch, as of the last fetch. No network access.
func (o *Operations) RemoteTip(remote, branch string) (string, error) {
	repo, err := o.open()
	if err != nil {
		return "", err
	}

	ref, err := repo.Reference(plumbing.NewRemoteReferenceName(remote, branch), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", ErrBranchNotFound{Remote: remote, Branch: branch}
		}
		return "", fmt.Errorf("failed to resolve remote ref: %w", err)
	}
	return ref.Hash().String(), nil
}

// IsClean reports whether tracked files carry local modifications.
// Untracked files do not count: a deploy never touches them, and every
// pulley project keeps untracked state (.pulley, the virtualenv) in the
// working tree.
func (o *Operations) IsClean() (bool, error) {
	repo, err := o.open()
	if err != nil {
		return false, err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to open worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("failed to get status: %w", err)
	}

	for _, fs := range status {
		if fs.Worktree == git.Untracked {
			continue
		}
		if fs.Worktree != git.Unmodified || fs.Staging != git.Unmodified {
			return false, nil
		}
	}
	return true, nil
}

// Info returns information about the repository, using the named remote
// for the URL
func (o *Operations) Info(remote string) (*RepositoryInfo, error) {
	repo, err := o.open()
	if err != nil {
		return nil, err
	}

	info := &RepositoryInfo{
		Path: o.repoPath,
	}

	ref, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	info.CurrentBranch = ref.Name().Short()
	info.Commit = ref.Hash().String()

	if url, err := o.RemoteURL(remote); err == nil {
		info.RemoteURL = url
	}

	if clean, err := o.IsClean(); err == nil {
		info.IsClean = clean
	}

	return info, nil
}
