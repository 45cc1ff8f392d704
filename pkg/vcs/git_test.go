package vcs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOpts = Options{AuthorName: "Test User", AuthorEmail: "test@example.com"}

// initRepo creates a repository with one committed file
func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	writeFile(t, dir, ".vimrc", "set nocompatible\n")
	commitAll(t, repo, "initial")
	return dir, repo
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func commitAll(t *testing.T, repo *git.Repository, msg string) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.AddWithOptions(&git.AddOptions{All: true}))
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash
}

func TestOpenFromSubdirectory(t *testing.T) {
	dir, _ := initRepo(t)
	sub := filepath.Join(dir, ".config", "nvim")
	require.NoError(t, os.MkdirAll(sub, 0755))

	r, err := Open(sub, testOpts)
	require.NoError(t, err)
	assert.Equal(t, dir, r.Root())

	root, err := FindRoot(sub)
	require.NoError(t, err)
	assert.Equal(t, dir, root)
}

func TestOpenOutsideRepository(t *testing.T) {
	_, err := Open(t.TempDir(), testOpts)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRemoteSync))
}

func TestHasPendingLocalChanges(t *testing.T) {
	dir, _ := initRepo(t)
	r, err := Open(dir, testOpts)
	require.NoError(t, err)

	pending, err := r.HasPendingLocalChanges()
	require.NoError(t, err)
	assert.False(t, pending)

	writeFile(t, dir, ".zshrc", "export EDITOR=nvim\n")
	pending, err = r.HasPendingLocalChanges()
	require.NoError(t, err)
	assert.True(t, pending)
}

func TestCommitAndPushCommitsBeforePushing(t *testing.T) {
	dir, repo := initRepo(t)
	r, err := Open(dir, testOpts)
	require.NoError(t, err)

	writeFile(t, dir, ".config/git/config", "[user]\n")
	err = r.CommitAndPush(context.Background(), "Automated commit at 10:00 - 01/01/24")

	// No remote is configured, so the push fails after the commit.
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRemoteSync))

	head, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "Automated commit at 10:00 - 01/01/24", commit.Message)
	assert.Equal(t, "Test User", commit.Author.Name)

	pending, err := r.HasPendingLocalChanges()
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestCommitAndPushCleanTree(t *testing.T) {
	dir, repo := initRepo(t)
	r, err := Open(dir, testOpts)
	require.NoError(t, err)

	before, err := repo.Head()
	require.NoError(t, err)

	require.NoError(t, r.CommitAndPush(context.Background(), "nothing"))

	after, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, before.Hash(), after.Hash())
}

func setTracking(t *testing.T, repo *git.Repository, hash plumbing.Hash) {
	t.Helper()
	head, err := repo.Head()
	require.NoError(t, err)
	ref := plumbing.NewHashReference(plumbing.NewRemoteReferenceName(DefaultRemoteName, head.Name().Short()), hash)
	require.NoError(t, repo.Storer.SetReference(ref))
}

func TestRelation(t *testing.T) {
	dir, repo := initRepo(t)
	r, err := Open(dir, testOpts)
	require.NoError(t, err)

	head, err := repo.Head()
	require.NoError(t, err)
	first := head.Hash()

	t.Run("no upstream", func(t *testing.T) {
		_, err := r.relation(head)
		assert.True(t, errors.IsErrorCode(err, errors.ErrRemoteSync))
	})

	setTracking(t, repo, first)
	t.Run("up to date", func(t *testing.T) {
		rel, err := r.relation(head)
		require.NoError(t, err)
		assert.Equal(t, UpToDate, rel)
	})

	writeFile(t, dir, ".zshrc", "one\n")
	second := commitAll(t, repo, "second")
	head, err = repo.Head()
	require.NoError(t, err)

	t.Run("ahead", func(t *testing.T) {
		rel, err := r.relation(head)
		require.NoError(t, err)
		assert.Equal(t, Ahead, rel)
	})

	// Move HEAD back to the first commit with the upstream at the second.
	setTracking(t, repo, second)
	behindHead := plumbing.NewHashReference(head.Name(), first)
	t.Run("behind", func(t *testing.T) {
		rel, err := r.relation(behindHead)
		require.NoError(t, err)
		assert.Equal(t, Behind, rel)
	})

	// A sibling commit of second that the upstream does not contain.
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.Reset(&git.ResetOptions{Commit: first, Mode: git.HardReset}))
	writeFile(t, dir, ".bashrc", "two\n")
	commitAll(t, repo, "sibling")
	head, err = repo.Head()
	require.NoError(t, err)

	t.Run("diverged", func(t *testing.T) {
		rel, err := r.relation(head)
		require.NoError(t, err)
		assert.Equal(t, Diverged, rel)
	})
}

func TestSynchronizeWithoutRemote(t *testing.T) {
	dir, _ := initRepo(t)
	r, err := Open(dir, testOpts)
	require.NoError(t, err)

	err = r.SynchronizeWithRemote(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRemoteSync))
}

func TestRelationString(t *testing.T) {
	assert.Equal(t, "behind", Behind.String())
	assert.Equal(t, "diverged", Diverged.String())
}
