package types_test

import (
	"encoding/json"
	"testing"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSyncItem(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.SyncItem
		wantErr bool
	}{
		{name: "top level dotfile", input: ".vimrc", want: ".vimrc"},
		{name: "nested config dir", input: ".config/nvim", want: ".config/nvim"},
		{name: "trailing slash from completion", input: ".config/nvim/", want: ".config/nvim"},
		{name: "redundant segments", input: ".config/./nvim", want: ".config/nvim"},
		{name: "empty", input: "", wantErr: true},
		{name: "blank", input: "   ", wantErr: true},
		{name: "absolute", input: "/etc/passwd", wantErr: true},
		{name: "parent escape", input: "../.vimrc", wantErr: true},
		{name: "inner parent escape", input: ".config/../../x", wantErr: true},
		{name: "root itself", input: ".", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.NewSyncItem(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidItem))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSyncItemHelpers(t *testing.T) {
	item := types.SyncItem(".config/nvim")
	assert.Equal(t, "nvim", item.Base())
	assert.Equal(t, "/home/u/.config/nvim", item.In("/home/u"))
	assert.Equal(t, ".config/nvim", item.String())
}

func TestStatusActionMapping(t *testing.T) {
	tests := []struct {
		status types.SyncStatus
		action types.SyncAction
	}{
		{types.StatusNotFound, types.ActionSkip},
		{types.StatusNewInHome, types.ActionAddToRepo},
		{types.StatusNewInRepo, types.ActionCopyToHome},
		{types.StatusTypeMismatch, types.ActionSkip},
		{types.StatusInSync, types.ActionSkip},
		{types.StatusRepoNewer, types.ActionUpdateHome},
		{types.StatusHomeNewer, types.ActionUpdateRepo},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.action, tt.status.Action())
		})
	}
}

func TestActionDirection(t *testing.T) {
	assert.True(t, types.ActionAddToRepo.WritesRepo())
	assert.True(t, types.ActionUpdateRepo.WritesRepo())
	assert.False(t, types.ActionCopyToHome.WritesRepo())
	assert.True(t, types.ActionCopyToHome.WritesHome())
	assert.True(t, types.ActionUpdateHome.WritesHome())
	assert.False(t, types.ActionSkip.WritesHome())
	assert.False(t, types.ActionSkip.WritesRepo())
}

func TestStatusAndActionMarshalText(t *testing.T) {
	data, err := json.Marshal(map[string]interface{}{
		"status": types.StatusNewInHome,
		"action": types.ActionAddToRepo,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"new_in_home","action":"add_to_repo"}`, string(data))
}

func TestSyncPlan(t *testing.T) {
	plan := types.SyncPlan{
		{Item: ".zshrc", Status: types.StatusInSync, Action: types.ActionSkip},
		{Item: ".config/nvim", Status: types.StatusRepoNewer, Action: types.ActionUpdateHome},
		{Item: ".bashrc", Status: types.StatusNewInRepo, Action: types.ActionCopyToHome, Err: errors.New(errors.ErrInternal, "stat failed")},
		{Item: ".vimrc", Status: types.StatusHomeNewer, Action: types.ActionUpdateRepo},
	}

	plan.Sort()
	var order []types.SyncItem
	for _, e := range plan {
		order = append(order, e.Item)
	}
	assert.Equal(t, []types.SyncItem{".bashrc", ".config/nvim", ".vimrc", ".zshrc"}, order)

	actionable := plan.Actionable()
	require.Len(t, actionable, 2)
	assert.Equal(t, types.SyncItem(".config/nvim"), actionable[0].Item)
	assert.Equal(t, types.SyncItem(".vimrc"), actionable[1].Item)

	entry, ok := plan.Find(".zshrc")
	require.True(t, ok)
	assert.Equal(t, types.StatusInSync, entry.Status)

	_, ok = plan.Find(".missing")
	assert.False(t, ok)

	counts := plan.CountByStatus()
	assert.Equal(t, 1, counts[types.StatusRepoNewer])
	assert.Equal(t, 0, counts[types.StatusTypeMismatch])
}

func TestPlanEntryKind(t *testing.T) {
	assert.Equal(t, types.KindDirectory, types.PlanEntry{RepoKind: types.KindDirectory}.Kind())
	assert.Equal(t, types.KindFile, types.PlanEntry{HomeKind: types.KindFile, RepoKind: types.KindDirectory}.Kind())
	assert.Equal(t, types.KindNone, types.PlanEntry{}.Kind())
	assert.Equal(t, types.KindDirectory, types.KindOf(true))
	assert.Equal(t, types.KindFile, types.KindOf(false))
}
