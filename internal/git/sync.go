package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Fetch updates the remote-tracking ref for the given branch. It fetches
// only that branch, follows no tags, and never merges. An already
// up-to-date remote is not an error.
func (o *Operations) Fetch(ctx context.Context, remote, branch string, progress io.Writer) error {
	repo, err := o.open()
	if err != nil {
		return err
	}

	refspec := gitconfig.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", branch, remote, branch))
	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remote,
		RefSpecs:   []gitconfig.RefSpec{refspec},
		Tags:       git.NoTags,
		Force:      true,
		Progress:   progress,
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to fetch %s/%s: %w", remote, branch, err)
	}
	return nil
}

// HardReset makes the tracked files of the working tree exactly match
// the given commit, discarding local commits and uncommitted tracked
// changes. HEAD stays on its current ref. Untracked and ignored files
// are never touched: the reset moves the index first, then rebuilds only
// the paths either commit tracks.
func (o *Operations) HardReset(commit string) error {
	repo, err := o.open()
	if err != nil {
		return err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %w", err)
	}

	hash := plumbing.NewHash(commit)

	// The branch ref moves during the reset, so remember what HEAD
	// tracked while it can still be resolved
	oldTree := headTree(repo)

	// Move HEAD's ref and the index without touching any files
	if err := wt.Reset(&git.ResetOptions{Mode: git.MixedReset, Commit: hash}); err != nil {
		return fmt.Errorf("failed to reset to %s: %w", shortHash(commit), err)
	}

	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	commitObj, err := repo.CommitObject(hash)
	if err != nil {
		return fmt.Errorf("failed to read commit %s: %w", shortHash(commit), err)
	}
	tree, err := commitObj.Tree()
	if err != nil {
		return fmt.Errorf("failed to read tree of %s: %w", shortHash(commit), err)
	}

	// Every non-untracked path still differing from the index is a
	// tracked file to rebuild from the target commit
	paths := make(map[string]struct{})
	for path, st := range status {
		if st.Worktree == git.Untracked {
			continue
		}
		paths[path] = struct{}{}
	}

	// Files the old HEAD tracked that the target commit dropped look
	// untracked once the index has moved. They are stale code, not
	// operator data, and checkoutFile removes them.
	if oldTree != nil {
		err := oldTree.Files().ForEach(func(f *object.File) error {
			if _, err := tree.File(f.Name); errors.Is(err, object.ErrFileNotFound) {
				paths[f.Name] = struct{}{}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to walk previous tree: %w", err)
		}
	}

	if len(paths) == 0 {
		return nil
	}

	files := make([]string, 0, len(paths))
	for path := range paths {
		files = append(files, path)
	}
	sort.Strings(files)

	for _, path := range files {
		if err := o.checkoutFile(tree, path); err != nil {
			return err
		}
	}
	return nil
}

// headTree returns the tree of the current HEAD commit, or nil when HEAD
// cannot be resolved, as in a repository with no commits.
func headTree(repo *git.Repository) *object.Tree {
	ref, err := repo.Head()
	if err != nil {
		return nil
	}
	commitObj, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil
	}
	tree, err := commitObj.Tree()
	if err != nil {
		return nil
	}
	return tree
}

// checkoutFile writes one path from the tree into the working directory,
// removing it when the tree no longer carries it.
func (o *Operations) checkoutFile(tree *object.Tree, path string) error {
	target := filepath.Join(o.repoPath, filepath.FromSlash(path))

	file, err := tree.File(path)
	if errors.Is(err, object.ErrFileNotFound) {
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", path, err)
	}

	contents, err := file.Contents()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	// Clear whatever occupies the path; a tracked file may have been
	// replaced by a directory locally
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("failed to clear %s: %w", path, err)
	}

	if file.Mode == filemode.Symlink {
		if err := os.Symlink(contents, target); err != nil {
			return fmt.Errorf("failed to restore symlink %s: %w", path, err)
		}
		return nil
	}

	mode, err := file.Mode.ToOSFileMode()
	if err != nil {
		mode = 0o644
	}
	if err := os.WriteFile(target, []byte(contents), mode.Perm()); err != nil {
		return fmt.Errorf("failed to restore %s: %w", path, err)
	}
	return nil
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
