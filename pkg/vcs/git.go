package vcs

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog"
)

// DefaultRemoteName is the remote used when none is configured
const DefaultRemoteName = "origin"

// Options configures a Repository
type Options struct {
	// Remote is the remote name to synchronize with
	Remote string
	// AuthorName and AuthorEmail override the git config identity for
	// automated commits when both are set.
	AuthorName  string
	AuthorEmail string
	Logger      *zerolog.Logger
}

// Repository wraps a git work tree
type Repository struct {
	repo   *git.Repository
	wt     *git.Worktree
	root   string
	opts   Options
	logger zerolog.Logger
}

// Open opens the repository whose work tree contains path
func Open(path string, opts Options) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRemoteSync, "%s is not inside a git repository", path).
			WithDetail("path", path)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrRemoteSync, "repository has no work tree").
			WithDetail("path", path)
	}

	if opts.Remote == "" {
		opts.Remote = DefaultRemoteName
	}
	logger := logging.GetLogger("vcs")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Repository{
		repo:   repo,
		wt:     wt,
		root:   wt.Filesystem.Root(),
		opts:   opts,
		logger: logger,
	}, nil
}

// FindRoot returns the work tree root of the repository containing path
func FindRoot(path string) (string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", err
	}
	return wt.Filesystem.Root(), nil
}

// Root returns the work tree root
func (r *Repository) Root() string {
	return r.root
}

// HasPendingLocalChanges reports whether the work tree has uncommitted
// or untracked changes.
func (r *Repository) HasPendingLocalChanges() (bool, error) {
	status, err := r.wt.Status()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrRemoteSync, "failed to read work tree status")
	}
	return !status.IsClean(), nil
}

// Relation is how the local branch stands against its upstream
type Relation int

const (
	UpToDate Relation = iota
	Behind
	Ahead
	Diverged
)

func (rel Relation) String() string {
	switch rel {
	case UpToDate:
		return "up-to-date"
	case Behind:
		return "behind"
	case Ahead:
		return "ahead"
	default:
		return "diverged"
	}
}

// SynchronizeWithRemote fetches the upstream and then pulls, pushes or
// reports divergence depending on how the branches relate.
func (r *Repository) SynchronizeWithRemote(ctx context.Context) error {
	r.logger.Info().Str("remote", r.opts.Remote).Msg("Fetching from remote")
	err := r.repo.FetchContext(ctx, &git.FetchOptions{RemoteName: r.opts.Remote})
	if err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		return r.remoteErr(ctx, err, "failed to fetch from remote")
	}

	head, err := r.repo.Head()
	if err != nil {
		return errors.Wrap(err, errors.ErrRemoteSync, "cannot resolve HEAD")
	}
	if !head.Name().IsBranch() {
		return errors.New(errors.ErrRemoteSync, "HEAD is detached")
	}

	rel, err := r.relation(head)
	if err != nil {
		return err
	}
	logger := r.logger.With().Str("branch", head.Name().Short()).Str("relation", rel.String()).Logger()

	switch rel {
	case UpToDate:
		logger.Info().Msg("Already up to date with remote")
		return nil
	case Behind:
		logger.Info().Msg("Remote has updates, pulling")
		err := r.wt.PullContext(ctx, &git.PullOptions{
			RemoteName:    r.opts.Remote,
			ReferenceName: head.Name(),
			SingleBranch:  true,
		})
		if err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
			return r.remoteErr(ctx, err, "failed to pull from remote")
		}
		return nil
	case Ahead:
		logger.Info().Msg("Local is ahead of remote, pushing")
		return r.push(ctx)
	default:
		return errors.New(errors.ErrRemoteSync, "branches have diverged, manual intervention required").
			WithDetail("branch", head.Name().Short())
	}
}

// relation compares HEAD with its remote tracking branch
func (r *Repository) relation(head *plumbing.Reference) (Relation, error) {
	trackingName := plumbing.NewRemoteReferenceName(r.opts.Remote, head.Name().Short())
	tracking, err := r.repo.Reference(trackingName, true)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrRemoteSync, "no upstream for branch %s", head.Name().Short()).
			WithDetail("tracking", trackingName.String())
	}

	if head.Hash() == tracking.Hash() {
		return UpToDate, nil
	}

	local, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrRemoteSync, "cannot read local commit")
	}
	remote, err := r.repo.CommitObject(tracking.Hash())
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrRemoteSync, "cannot read remote commit")
	}

	bases, err := local.MergeBase(remote)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrRemoteSync, "cannot compute merge base")
	}
	for _, base := range bases {
		switch base.Hash {
		case local.Hash:
			return Behind, nil
		case remote.Hash:
			return Ahead, nil
		}
	}
	return Diverged, nil
}

// CommitAndPush stages every change, commits it with message and pushes
// the current branch. A clean work tree is not an error.
func (r *Repository) CommitAndPush(ctx context.Context, message string) error {
	pending, err := r.HasPendingLocalChanges()
	if err != nil {
		return err
	}
	if !pending {
		r.logger.Info().Msg("No changes to commit")
		return nil
	}

	if err := r.wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return errors.Wrap(err, errors.ErrRemoteSync, "failed to stage changes")
	}

	commitOpts := &git.CommitOptions{}
	if r.opts.AuthorName != "" && r.opts.AuthorEmail != "" {
		commitOpts.Author = &object.Signature{
			Name:  r.opts.AuthorName,
			Email: r.opts.AuthorEmail,
			When:  time.Now(),
		}
	}

	hash, err := r.wt.Commit(message, commitOpts)
	if err != nil {
		return errors.Wrap(err, errors.ErrRemoteSync, "failed to commit changes")
	}
	r.logger.Info().Str("commit", hash.String()).Str("message", message).Msg("Committed changes")

	return r.push(ctx)
}

func (r *Repository) push(ctx context.Context) error {
	if _, err := r.repo.Remote(r.opts.Remote); err != nil {
		return errors.Wrapf(err, errors.ErrRemoteSync, "remote %q is not configured", r.opts.Remote).
			WithDetail("remote", r.opts.Remote)
	}

	err := r.repo.PushContext(ctx, &git.PushOptions{RemoteName: r.opts.Remote})
	if err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		return r.remoteErr(ctx, err, "failed to push to remote")
	}
	r.logger.Info().Str("remote", r.opts.Remote).Msg("Pushed to remote")
	return nil
}

// remoteErr keeps cancellation visible to callers while coding every
// other failure as REMOTE_SYNC.
func (r *Repository) remoteErr(ctx context.Context, err error, msg string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if stderrors.Is(err, git.ErrNonFastForwardUpdate) {
		msg += ": branches have diverged"
	}
	return errors.Wrap(err, errors.ErrRemoteSync, msg).WithDetail("remote", r.opts.Remote)
}
