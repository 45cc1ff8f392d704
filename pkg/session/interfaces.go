package session

import (
	"context"

	"github.com/arthur-debert/dotsync/pkg/types"
)

// Remote is the version control collaborator of a session
type Remote interface {
	HasPendingLocalChanges() (bool, error)
	SynchronizeWithRemote(ctx context.Context) error
	CommitAndPush(ctx context.Context, message string) error
}

// Decider chooses which plan entries to execute
type Decider interface {
	Select(ctx context.Context, plan types.SyncPlan) ([]types.PlanEntry, error)
}

// Reporter receives progress from a session
type Reporter interface {
	PlanReady(plan types.SyncPlan)
	ItemExecuted(result types.ExecResult)
	SessionDone(result *types.SessionResult)
}

type nopReporter struct{}

func (nopReporter) PlanReady(types.SyncPlan)         {}
func (nopReporter) ItemExecuted(types.ExecResult)    {}
func (nopReporter) SessionDone(*types.SessionResult) {}
