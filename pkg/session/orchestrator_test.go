package session

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/dotsync/pkg/discovery"
	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	homeRoot = "/home/bob"
	repoRoot = "/home/bob/dotfiles"
)

var t0 = time.Date(2024, 9, 1, 18, 0, 0, 0, time.UTC)

type env struct {
	fs types.FS
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{fs: filesystem.NewMemory()}
	require.NoError(t, e.fs.MkdirAll(repoRoot, 0755))
	return e
}

func (e *env) file(t *testing.T, root, rel, content string, mtime time.Time) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, e.fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, e.fs.WriteFile(path, []byte(content), 0644))
	require.NoError(t, e.fs.Chtimes(path, mtime, mtime))
}

func (e *env) touchDir(t *testing.T, root, rel string, mtime time.Time) {
	t.Helper()
	require.NoError(t, e.fs.Chtimes(filepath.Join(root, rel), mtime, mtime))
}

func (e *env) read(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := e.fs.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)
	return string(data)
}

func (e *env) options(tracked ...types.SyncItem) Options {
	d := discovery.DefaultOptions()
	d.Extra = tracked
	return Options{
		FS:        e.fs,
		HomeRoot:  homeRoot,
		RepoRoot:  repoRoot,
		Discovery: d,
		Decider:   PolicyAll,
		Now:       func() time.Time { return t0 },
	}
}

func (e *env) run(t *testing.T, opts Options) *types.SessionResult {
	t.Helper()
	o, err := New(opts)
	require.NoError(t, err)
	result, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDone, o.State())
	return result
}

func TestNewRequiresRoots(t *testing.T) {
	_, err := New(Options{HomeRoot: homeRoot})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRunAddToRepoScenario(t *testing.T) {
	e := newEnv(t)
	e.file(t, homeRoot, ".vimrc", "set nu", t0)

	remote := new(mockRemote)
	remote.On("HasPendingLocalChanges").Return(false, nil)
	remote.On("SynchronizeWithRemote", mock.Anything).Return(nil)
	remote.On("CommitAndPush", mock.Anything, "Automated commit at 18:00 - 01/09/24").Return(nil).Once()

	opts := e.options(".vimrc")
	opts.Remote = remote
	result := e.run(t, opts)

	assert.True(t, result.RepoModified)
	assert.True(t, result.Committed)
	assert.Equal(t, 1, result.Executed)
	assert.Equal(t, "set nu", e.read(t, repoRoot, ".vimrc"))

	info, err := e.fs.Stat(filepath.Join(repoRoot, ".vimrc"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(t0))

	remote.AssertExpectations(t)
}

func TestRunUpdateHomeScenario(t *testing.T) {
	e := newEnv(t)
	e.file(t, repoRoot, ".config/nvim/init.lua", "repo", t0.Add(200*time.Second))
	e.touchDir(t, repoRoot, ".config/nvim", t0.Add(200*time.Second))
	e.file(t, homeRoot, ".config/nvim/init.lua", "home", t0)
	e.file(t, homeRoot, ".config/nvim/spell/en.utf-8.add", "words", t0)
	e.touchDir(t, homeRoot, ".config/nvim", t0)

	reporter := &recordingReporter{}
	opts := e.options()
	opts.Reporter = reporter
	result := e.run(t, opts)

	entry, ok := reporter.plan.Find(".config/nvim")
	require.True(t, ok)
	assert.Equal(t, types.StatusRepoNewer, entry.Status)

	assert.False(t, result.RepoModified)
	assert.Equal(t, "repo", e.read(t, homeRoot, ".config/nvim/init.lua"))
	assert.Equal(t, "words", e.read(t, homeRoot, ".config/nvim/spell/en.utf-8.add"))
	assert.Same(t, result, reporter.final)
	require.Len(t, reporter.results, 1)
}

func TestRunTypeMismatchScenario(t *testing.T) {
	e := newEnv(t)
	e.file(t, homeRoot, ".gitconfig", "[user]", t0)
	e.file(t, repoRoot, ".gitconfig/main", "[user]", t0.Add(time.Hour))

	reporter := &recordingReporter{}
	opts := e.options()
	opts.Reporter = reporter
	result := e.run(t, opts)

	entry, ok := reporter.plan.Find(".gitconfig")
	require.True(t, ok)
	assert.Equal(t, types.StatusTypeMismatch, entry.Status)
	assert.Equal(t, types.ActionSkip, entry.Action)
	assert.Equal(t, 0, result.Selected)
	assert.Equal(t, "[user]", e.read(t, homeRoot, ".gitconfig"))
}

func TestRunIsIdempotent(t *testing.T) {
	e := newEnv(t)
	e.file(t, homeRoot, ".vimrc", "home only", t0)
	e.file(t, repoRoot, ".zshrc", "repo only", t0)
	e.file(t, repoRoot, ".config/fish/config.fish", "fish", t0)
	e.touchDir(t, repoRoot, ".config/fish", t0)
	e.file(t, homeRoot, ".bashrc", "newer", t0.Add(time.Hour))
	e.file(t, repoRoot, ".bashrc", "older", t0)

	remote := new(mockRemote)
	remote.On("HasPendingLocalChanges").Return(false, nil)
	remote.On("SynchronizeWithRemote", mock.Anything).Return(nil)
	remote.On("CommitAndPush", mock.Anything, mock.AnythingOfType("string")).Return(nil).Once()

	opts := e.options(".vimrc")
	opts.Remote = remote

	first := e.run(t, opts)
	assert.True(t, first.RepoModified)
	// .config itself is new in the repo as well as .config/fish
	assert.Equal(t, 5, first.Executed)

	reporter := &recordingReporter{}
	opts.Reporter = reporter
	second := e.run(t, opts)
	assert.False(t, second.RepoModified)
	assert.Equal(t, 0, second.Selected)
	for _, entry := range reporter.plan {
		assert.Equal(t, types.StatusInSync, entry.Status, "item %s", entry.Item)
	}

	remote.AssertNumberOfCalls(t, "CommitAndPush", 1)
}

func TestRunNeitherSideExists(t *testing.T) {
	e := newEnv(t)
	reporter := &recordingReporter{}
	opts := e.options(".ghost")
	opts.Reporter = reporter

	result := e.run(t, opts)
	entry, ok := reporter.plan.Find(".ghost")
	require.True(t, ok)
	assert.Equal(t, types.StatusNotFound, entry.Status)
	assert.Equal(t, types.ActionSkip, entry.Action)
	assert.Zero(t, result.Selected)
}

func TestRunPendingChangesSkipsPull(t *testing.T) {
	e := newEnv(t)
	remote := new(mockRemote)
	remote.On("HasPendingLocalChanges").Return(true, nil)

	opts := e.options()
	opts.Remote = remote
	e.run(t, opts)

	remote.AssertNotCalled(t, "SynchronizeWithRemote", mock.Anything)
	remote.AssertNotCalled(t, "CommitAndPush", mock.Anything, mock.Anything)
}

func TestRunRemoteSyncFailureIsWarning(t *testing.T) {
	e := newEnv(t)
	e.file(t, repoRoot, ".zshrc", "z", t0)

	remote := new(mockRemote)
	remote.On("HasPendingLocalChanges").Return(false, nil)
	remote.On("SynchronizeWithRemote", mock.Anything).
		Return(errors.New(errors.ErrRemoteSync, "branches have diverged"))

	opts := e.options()
	opts.Remote = remote
	result := e.run(t, opts)

	assert.Equal(t, 1, result.Executed)
	assert.Equal(t, "z", e.read(t, homeRoot, ".zshrc"))
	remote.AssertNotCalled(t, "CommitAndPush", mock.Anything, mock.Anything)
}

func TestRunCommitFailureIsError(t *testing.T) {
	e := newEnv(t)
	e.file(t, homeRoot, ".vimrc", "v", t0)

	remote := new(mockRemote)
	remote.On("HasPendingLocalChanges").Return(false, nil)
	remote.On("SynchronizeWithRemote", mock.Anything).Return(nil)
	remote.On("CommitAndPush", mock.Anything, "custom message").Return(stderrors.New("push rejected"))

	opts := e.options(".vimrc")
	opts.Remote = remote
	opts.CommitMessage = "custom message"

	o, err := New(opts)
	require.NoError(t, err)
	result, err := o.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRemoteSync))
	require.NotNil(t, result)
	assert.True(t, result.RepoModified)
	assert.False(t, result.Committed)
	assert.EqualError(t, result.CommitErr, "push rejected")
	assert.Equal(t, StateDone, o.State())
}

func TestRunDryRun(t *testing.T) {
	e := newEnv(t)
	e.file(t, homeRoot, ".vimrc", "v", t0)

	remote := new(mockRemote)
	decider := new(mockDecider)

	opts := e.options(".vimrc")
	opts.Remote = remote
	opts.Decider = decider
	opts.DryRun = true
	result := e.run(t, opts)

	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Planned)
	assert.False(t, result.RepoModified)
	_, err := e.fs.Stat(filepath.Join(repoRoot, ".vimrc"))
	assert.Error(t, err)

	remote.AssertNotCalled(t, "HasPendingLocalChanges")
	decider.AssertNotCalled(t, "Select", mock.Anything, mock.Anything)
}

func TestRunDeciderSelection(t *testing.T) {
	e := newEnv(t)
	e.file(t, homeRoot, ".vimrc", "v", t0)
	e.file(t, repoRoot, ".zshrc", "z", t0)

	decider := new(mockDecider)
	decider.On("Select", mock.Anything, mock.Anything).Return(func(_ context.Context, plan types.SyncPlan) []types.PlanEntry {
		entry, _ := plan.Find(".zshrc")
		return []types.PlanEntry{entry}
	}, nil)

	opts := e.options(".vimrc")
	opts.Decider = decider
	result := e.run(t, opts)

	assert.Equal(t, 1, result.Selected)
	assert.False(t, result.RepoModified)
	_, err := e.fs.Stat(filepath.Join(repoRoot, ".vimrc"))
	assert.Error(t, err, "unselected item is not synced")
	decider.AssertExpectations(t)
}

func TestRunDeciderErrorSelectsNothing(t *testing.T) {
	e := newEnv(t)
	e.file(t, homeRoot, ".vimrc", "v", t0)

	decider := new(mockDecider)
	decider.On("Select", mock.Anything, mock.Anything).Return(nil, stderrors.New("no terminal"))

	opts := e.options(".vimrc")
	opts.Decider = decider
	result := e.run(t, opts)

	assert.Zero(t, result.Selected)
	assert.False(t, result.RepoModified)
}

func TestRunDeciderCancellation(t *testing.T) {
	e := newEnv(t)
	e.file(t, homeRoot, ".vimrc", "v", t0)

	ctx, cancel := context.WithCancel(context.Background())
	decider := new(mockDecider)
	decider.On("Select", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, context.Canceled)

	opts := e.options(".vimrc")
	opts.Decider = decider
	o, err := New(opts)
	require.NoError(t, err)

	_, err = o.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateAwaitingSelection, o.State())
}

func TestRunMissingRepoRoot(t *testing.T) {
	fsys := filesystem.NewMemory()
	o, err := New(Options{FS: fsys, HomeRoot: homeRoot, RepoRoot: "/missing", Discovery: discovery.DefaultOptions()})
	require.NoError(t, err)

	_, err = o.Run(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrRootMissing))
}

func TestRunCopyFailureContinues(t *testing.T) {
	e := newEnv(t)
	e.file(t, homeRoot, ".config/nvim/lua/a.lua", "a", t0.Add(time.Hour))
	e.touchDir(t, homeRoot, ".config/nvim", t0.Add(time.Hour))
	e.file(t, repoRoot, ".config/nvim/lua", "blocking file", t0)
	e.touchDir(t, repoRoot, ".config/nvim", t0)
	e.file(t, homeRoot, ".vimrc", "v", t0)

	remote := new(mockRemote)
	remote.On("HasPendingLocalChanges").Return(false, nil)
	remote.On("SynchronizeWithRemote", mock.Anything).Return(nil)
	remote.On("CommitAndPush", mock.Anything, mock.Anything).Return(nil).Once()

	opts := e.options(".vimrc")
	opts.Remote = remote
	result := e.run(t, opts)

	assert.Equal(t, 2, result.Selected)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Executed)
	assert.True(t, result.RepoModified)
	remote.AssertExpectations(t)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "awaiting_selection", StateAwaitingSelection.String())
	assert.Equal(t, "unknown", State(42).String())
}
