package git_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rin/pulley/internal/git"
	"github.com/rin/pulley/internal/tests/helpers"
)

func TestOperationsIsRepository(t *testing.T) {
	repo := helpers.InitRepo(t)

	assert.True(t, git.NewOperations(repo.Path).IsRepository())
	assert.False(t, git.NewOperations(t.TempDir()).IsRepository())
}

func TestOperationsHead(t *testing.T) {
	repo := helpers.InitRepo(t)
	commit := repo.CommitFile("app.py", "print('v1')\n", "first commit")

	ops := git.NewOperations(repo.Path)

	head, err := ops.Head()
	require.NoError(t, err)
	assert.Equal(t, commit, head)

	branch, err := ops.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestOperationsHeadNotRepository(t *testing.T) {
	ops := git.NewOperations(t.TempDir())

	_, err := ops.Head()
	require.Error(t, err)
	assert.ErrorAs(t, err, &git.ErrNotRepository{})
}

func TestOperationsRemoteURL(t *testing.T) {
	remotePath, _, app := helpers.SetupRemoteAndClone(t)
	ops := git.NewOperations(app.Path)

	url, err := ops.RemoteURL("origin")
	require.NoError(t, err)
	assert.Equal(t, remotePath, url)

	_, err = ops.RemoteURL("upstream")
	require.Error(t, err)
	assert.ErrorAs(t, err, &git.ErrRemoteNotFound{})
}

func TestOperationsRemoteTip(t *testing.T) {
	_, upstream, app := helpers.SetupRemoteAndClone(t)
	ops := git.NewOperations(app.Path)

	t.Run("after clone", func(t *testing.T) {
		tip, err := ops.RemoteTip("origin", "main")
		require.NoError(t, err)
		assert.Equal(t, upstream.Head(), tip)
	})

	t.Run("unknown branch", func(t *testing.T) {
		_, err := ops.RemoteTip("origin", "production")
		require.Error(t, err)
		assert.ErrorAs(t, err, &git.ErrBranchNotFound{})
	})
}

func TestOperationsIsClean(t *testing.T) {
	repo := helpers.InitRepo(t)
	repo.CommitFile("app.py", "print('v1')\n", "first commit")

	ops := git.NewOperations(repo.Path)

	clean, err := ops.IsClean()
	require.NoError(t, err)
	assert.True(t, clean)

	// Untracked files are invisible; a deploy leaves them alone.
	repo.WriteFile(".pulley/config.yaml", "version: \"1.0\"\n")

	clean, err = ops.IsClean()
	require.NoError(t, err)
	assert.True(t, clean)

	repo.WriteFile("app.py", "print('v2')\n")

	clean, err = ops.IsClean()
	require.NoError(t, err)
	assert.False(t, clean)
}

func TestOperationsInfo(t *testing.T) {
	remotePath, _, app := helpers.SetupRemoteAndClone(t)
	ops := git.NewOperations(app.Path)

	info, err := ops.Info("origin")
	require.NoError(t, err)
	assert.Equal(t, app.Path, info.Path)
	assert.Equal(t, "main", info.CurrentBranch)
	assert.Equal(t, app.Head(), info.Commit)
	assert.Equal(t, remotePath, info.RemoteURL)
	assert.True(t, info.IsClean)
}
