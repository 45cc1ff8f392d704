package output

import (
	"github.com/arthur-debert/dotsync/pkg/planner"
	"github.com/arthur-debert/dotsync/pkg/types"
)

// PlanView is the template model of a sync plan.
type PlanView struct {
	Title   string
	DryRun  bool
	Entries []EntryView
}

// EntryView is one plan line.
type EntryView struct {
	Item   string
	Symbol string
	Text   string
	Style  string
	Action string
}

// ItemView is the template model of one execution result.
type ItemView struct {
	Item    string
	Verb    string
	Skipped bool
	Reason  string
	Err     error
}

// SkipView names an item left untouched and why.
type SkipView struct {
	Item   string
	Reason string
}

// SummaryView is the template model of a finished session.
type SummaryView struct {
	DryRun    bool
	Planned   int
	Selected  int
	Executed  int
	Failed    int
	Committed bool
	CommitErr error
	InSync    []string
	Skipped   []SkipView
}

// NewPlanView describes every entry of plan.
func NewPlanView(title string, plan types.SyncPlan, dryRun bool) PlanView {
	v := PlanView{Title: title, DryRun: dryRun}
	for _, e := range plan {
		d := planner.Describe(e)
		v.Entries = append(v.Entries, EntryView{
			Item:   e.Item.String(),
			Symbol: d.Symbol,
			Text:   d.Text,
			Style:  d.Style,
			Action: e.Action.String(),
		})
	}
	return v
}

var actionVerbs = map[types.SyncAction]string{
	types.ActionAddToRepo:  "added to repository",
	types.ActionCopyToHome: "copied to home",
	types.ActionUpdateHome: "updated in home",
	types.ActionUpdateRepo: "updated in repository",
}

// NewItemView describes one execution result.
func NewItemView(r types.ExecResult) ItemView {
	v := ItemView{Item: r.Entry.Item.String(), Err: r.Err}
	switch {
	case r.Err != nil:
	case r.Skipped:
		v.Skipped = true
		v.Reason = skipReason(r.Entry)
		if r.Entry.Actionable() {
			v.Reason = "source disappeared before copying"
		}
	default:
		v.Verb = actionVerbs[r.Entry.Action]
	}
	return v
}

// NewSummaryView summarizes res. Entries of plan that were not executed are
// listed as in sync or skipped unless the session was a dry run.
func NewSummaryView(plan types.SyncPlan, res *types.SessionResult) SummaryView {
	v := SummaryView{
		DryRun:    res.DryRun,
		Planned:   res.Planned,
		Selected:  res.Selected,
		Executed:  res.Executed,
		Failed:    res.Failed,
		Committed: res.Committed,
		CommitErr: res.CommitErr,
	}
	if res.DryRun {
		return v
	}

	handled := make(map[types.SyncItem]bool, len(res.Results))
	for _, r := range res.Results {
		handled[r.Entry.Item] = true
	}
	for _, e := range plan {
		if handled[e.Item] {
			continue
		}
		if e.Status == types.StatusInSync && e.Err == nil {
			v.InSync = append(v.InSync, e.Item.String())
			continue
		}
		v.Skipped = append(v.Skipped, SkipView{Item: e.Item.String(), Reason: skipReason(e)})
	}
	return v
}

func skipReason(e types.PlanEntry) string {
	if e.Actionable() {
		return "not selected"
	}
	if e.Status == types.StatusNotFound && e.Err == nil {
		return "missing in both home and repository"
	}
	return planner.Describe(e).Text
}
