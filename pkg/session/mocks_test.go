package session

import (
	"context"

	"github.com/arthur-debert/dotsync/pkg/types"
	"github.com/stretchr/testify/mock"
)

type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) HasPendingLocalChanges() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

func (m *mockRemote) SynchronizeWithRemote(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockRemote) CommitAndPush(ctx context.Context, message string) error {
	return m.Called(ctx, message).Error(0)
}

type mockDecider struct {
	mock.Mock
}

func (m *mockDecider) Select(ctx context.Context, plan types.SyncPlan) ([]types.PlanEntry, error) {
	args := m.Called(ctx, plan)
	if fn, ok := args.Get(0).(func(context.Context, types.SyncPlan) []types.PlanEntry); ok {
		return fn(ctx, plan), args.Error(1)
	}
	selected, _ := args.Get(0).([]types.PlanEntry)
	return selected, args.Error(1)
}

type recordingReporter struct {
	plan    types.SyncPlan
	results []types.ExecResult
	final   *types.SessionResult
}

func (r *recordingReporter) PlanReady(plan types.SyncPlan) { r.plan = plan }
func (r *recordingReporter) ItemExecuted(result types.ExecResult) {
	r.results = append(r.results, result)
}
func (r *recordingReporter) SessionDone(result *types.SessionResult) { r.final = result }
