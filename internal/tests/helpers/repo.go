// Package helpers provides shared git fixtures for pulley tests. All
// repositories are built with go-git so tests run without the git binary
// and without network access: "remotes" are bare repositories on the
// local filesystem.
package helpers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// TestRepo is a git repository created for a test
type TestRepo struct {
	Path string
	repo *git.Repository
	t    *testing.T
}

// InitRepo creates a repository with main as the default branch
func InitRepo(t *testing.T) *TestRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.Main,
		},
	})
	if err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}

	return &TestRepo{Path: dir, repo: repo, t: t}
}

// InitBareRemote creates a bare repository usable as a fetch/push target
// by filesystem path
func InitBareRemote(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if _, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.Main,
		},
		Bare: true,
	}); err != nil {
		t.Fatalf("failed to init bare repo: %v", err)
	}
	return dir
}

// CloneRepo clones the repository at url, which gets an origin remote
// pointing back at it
func CloneRepo(t *testing.T, url string) *TestRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainClone(dir, false, &git.CloneOptions{
		URL: url,
	})
	if err != nil {
		t.Fatalf("failed to clone %s: %v", url, err)
	}

	return &TestRepo{Path: dir, repo: repo, t: t}
}

// WriteFile writes a file under the repository root, creating parent
// directories as needed
func (r *TestRepo) WriteFile(name, content string) {
	r.t.Helper()

	path := filepath.Join(r.Path, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatalf("failed to create dir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatalf("failed to write %s: %v", name, err)
	}
}

// Commit stages everything and commits, returning the commit hash
func (r *TestRepo) Commit(message string) string {
	r.t.Helper()

	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("failed to open worktree: %v", err)
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		r.t.Fatalf("failed to stage files: %v", err)
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		r.t.Fatalf("failed to commit: %v", err)
	}
	return hash.String()
}

// CommitFile writes one file and commits it
func (r *TestRepo) CommitFile(name, content, message string) string {
	r.t.Helper()

	r.WriteFile(name, content)
	return r.Commit(message)
}

// Head returns the current HEAD commit hash
func (r *TestRepo) Head() string {
	r.t.Helper()

	ref, err := r.repo.Head()
	if err != nil {
		r.t.Fatalf("failed to get HEAD: %v", err)
	}
	return ref.Hash().String()
}

// AddRemote adds a named remote pointing at url
func (r *TestRepo) AddRemote(name, url string) {
	r.t.Helper()

	if _, err := r.repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: name,
		URLs: []string{url},
	}); err != nil {
		r.t.Fatalf("failed to add remote %s: %v", name, err)
	}
}

// SetRemoteURL replaces the URL of an existing remote
func (r *TestRepo) SetRemoteURL(name, url string) {
	r.t.Helper()

	if err := r.repo.DeleteRemote(name); err != nil {
		r.t.Fatalf("failed to delete remote %s: %v", name, err)
	}
	r.AddRemote(name, url)
}

// Push pushes a branch to the named remote
func (r *TestRepo) Push(remote, branch string) {
	r.t.Helper()

	refspec := gitconfig.RefSpec("refs/heads/" + branch + ":refs/heads/" + branch)
	err := r.repo.Push(&git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []gitconfig.RefSpec{refspec},
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		r.t.Fatalf("failed to push %s to %s: %v", branch, remote, err)
	}
}

// SetupRemoteAndClone builds the standard deploy fixture: a bare remote,
// an upstream clone that pushes to it, and the deployed checkout cloned
// from it. The upstream starts with one commit already pushed.
func SetupRemoteAndClone(t *testing.T) (remotePath string, upstream, app *TestRepo) {
	t.Helper()

	remotePath = InitBareRemote(t)

	upstream = InitRepo(t)
	upstream.AddRemote("origin", remotePath)
	upstream.CommitFile("app.py", "print('hello')\n", "initial commit")
	upstream.Push("origin", "main")

	app = CloneRepo(t, remotePath)
	return remotePath, upstream, app
}
