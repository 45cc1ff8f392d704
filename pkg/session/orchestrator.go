package session

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/arthur-debert/dotsync/pkg/discovery"
	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/executor"
	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/planner"
	"github.com/arthur-debert/dotsync/pkg/types"
	"github.com/rs/zerolog"
)

// CommitTimeFormat renders the time in the default commit message
const CommitTimeFormat = "15:04 - 02/01/06"

// DefaultCommitMessage is used when no commit message is configured
func DefaultCommitMessage(now time.Time) string {
	return "Automated commit at " + now.Format(CommitTimeFormat)
}

// Options configures an Orchestrator
type Options struct {
	FS        types.FS
	HomeRoot  string
	RepoRoot  string
	Discovery discovery.Options
	Tolerance time.Duration
	Buffer    time.Duration

	// Remote is optional; without it the session is local only.
	Remote   Remote
	Decider  Decider
	Reporter Reporter

	DryRun        bool
	CommitMessage string
	Logger        *zerolog.Logger
	// Now is the clock used for the default commit message
	Now func() time.Time
}

// Orchestrator runs sync sessions
type Orchestrator struct {
	opts     Options
	planner  *planner.Planner
	executor *executor.Executor
	logger   zerolog.Logger
	state    State
}

// New creates an orchestrator. Both roots are required.
func New(opts Options) (*Orchestrator, error) {
	if opts.HomeRoot == "" || opts.RepoRoot == "" {
		return nil, errors.New(errors.ErrInvalidInput, "home and repository roots are required")
	}

	logger := logging.GetLogger("session")
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	if opts.FS == nil {
		opts.FS = filesystem.NewOS()
	}
	if opts.Decider == nil {
		opts.Decider = PolicyNone
	}
	if opts.Reporter == nil {
		opts.Reporter = nopReporter{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Orchestrator{
		opts: opts,
		planner: planner.New(planner.Options{
			FS:        opts.FS,
			HomeRoot:  opts.HomeRoot,
			RepoRoot:  opts.RepoRoot,
			Tolerance: opts.Tolerance,
			Buffer:    opts.Buffer,
			Logger:    &logger,
		}),
		executor: executor.New(executor.Options{
			FS:        opts.FS,
			HomeRoot:  opts.HomeRoot,
			RepoRoot:  opts.RepoRoot,
			Tolerance: opts.Tolerance,
			Logger:    &logger,
		}),
		logger: logger,
		state:  StateIdle,
	}, nil
}

// State returns the current lifecycle state
func (o *Orchestrator) State() State {
	return o.state
}

func (o *Orchestrator) enter(s State) {
	o.logger.Trace().Str("from", o.state.String()).Str("to", s.String()).Msg("Session state")
	o.state = s
}

// Plan discovers and classifies items without touching the remote or
// either tree.
func (o *Orchestrator) Plan() (types.SyncPlan, error) {
	o.enter(StateDiscovering)
	items, err := discovery.Discover(o.opts.FS, o.opts.RepoRoot, o.opts.Discovery)
	if err != nil {
		return nil, err
	}

	o.enter(StatePlanning)
	return o.planner.Plan(items), nil
}

// Run executes a full session. The returned result is non-nil whenever
// planning completed, including when a later step fails.
func (o *Orchestrator) Run(ctx context.Context) (*types.SessionResult, error) {
	done := logging.LogOperationStart(o.logger, "sync_session")
	defer done()

	o.enter(StateIdle)
	if err := o.syncRemote(ctx); err != nil {
		return nil, err
	}

	plan, err := o.Plan()
	if err != nil {
		return nil, err
	}
	o.opts.Reporter.PlanReady(plan)

	result := &types.SessionResult{
		DryRun:  o.opts.DryRun,
		Planned: len(plan),
	}

	if o.opts.DryRun {
		o.logger.Info().Int("planned", len(plan)).Msg("Dry run, nothing will be copied")
		return o.finish(result), nil
	}

	o.enter(StateAwaitingSelection)
	selected, err := o.opts.Decider.Select(ctx, plan)
	if err != nil {
		if isCancellation(ctx, err) {
			return result, err
		}
		o.logger.Warn().Err(err).Msg("No selection made, nothing will be synced")
		selected = nil
	}

	o.enter(StateExecuting)
	for _, entry := range selected {
		if !entry.Actionable() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result.Selected++
		res := o.executor.Execute(entry)
		result.Results = append(result.Results, res)
		switch {
		case res.Err != nil:
			result.Failed++
		case !res.Skipped:
			result.Executed++
		}
		if res.RepoModified {
			result.RepoModified = true
		}
		o.opts.Reporter.ItemExecuted(res)
	}

	o.enter(StateReporting)
	if result.RepoModified && o.opts.Remote != nil {
		message := o.opts.CommitMessage
		if message == "" {
			message = DefaultCommitMessage(o.opts.Now())
		}
		o.logger.Info().Str("message", message).Msg("Committing repository changes")

		if err := o.opts.Remote.CommitAndPush(ctx, message); err != nil {
			result.CommitErr = err
			o.finish(result)
			return result, errors.Wrap(err, errors.ErrRemoteSync, "failed to commit and push repository changes")
		}
		result.Committed = true
	} else if !result.RepoModified {
		o.logger.Info().Msg("No repository changes to commit")
	}

	return o.finish(result), nil
}

func (o *Orchestrator) finish(result *types.SessionResult) *types.SessionResult {
	if o.state != StateReporting {
		o.enter(StateReporting)
	}
	o.opts.Reporter.SessionDone(result)
	o.enter(StateDone)
	return result
}

// syncRemote brings the repository up to date before discovery. Only
// cancellation is fatal; every other failure is a warning.
func (o *Orchestrator) syncRemote(ctx context.Context) error {
	remote := o.opts.Remote
	if remote == nil {
		return nil
	}
	if o.opts.DryRun {
		o.logger.Info().Msg("Dry run, not synchronizing with remote")
		return nil
	}

	pending, err := remote.HasPendingLocalChanges()
	if err != nil {
		o.logger.Warn().Err(err).Msg("Cannot inspect repository status, skipping remote sync")
		return nil
	}
	if pending {
		o.logger.Warn().Msg("Repository has uncommitted changes, skipping remote sync")
		return nil
	}

	if err := remote.SynchronizeWithRemote(ctx); err != nil {
		if isCancellation(ctx, err) {
			return err
		}
		o.logger.Warn().Err(err).Msg("Remote sync incomplete, continuing with local sync")
	}
	return nil
}

func isCancellation(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		stderrors.Is(err, context.Canceled) ||
		stderrors.Is(err, context.DeadlineExceeded)
}
