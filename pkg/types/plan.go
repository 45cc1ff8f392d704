package types

import (
	"sort"
	"time"
)

// PlanEntry is the planned outcome for one item
type PlanEntry struct {
	Item      SyncItem
	Status    SyncStatus
	Action    SyncAction
	HomeKind  ItemKind
	RepoKind  ItemKind
	HomeMTime time.Time
	RepoMTime time.Time
	// Err is set when one side could not be inspected; the action is then Skip.
	Err error
}

// Kind returns the authoritative kind: the home side when it exists,
// otherwise the repo side.
func (e PlanEntry) Kind() ItemKind {
	if e.HomeKind != KindNone {
		return e.HomeKind
	}
	return e.RepoKind
}

// Actionable reports whether executing the entry would copy anything
func (e PlanEntry) Actionable() bool {
	return e.Err == nil && e.Action != ActionSkip
}

// SyncPlan is the ordered set of entries for one session
type SyncPlan []PlanEntry

// Sort orders the plan by item path
func (p SyncPlan) Sort() {
	sort.Slice(p, func(i, j int) bool { return p[i].Item < p[j].Item })
}

// Actionable returns the entries that would copy something, in plan order
func (p SyncPlan) Actionable() []PlanEntry {
	var out []PlanEntry
	for _, e := range p {
		if e.Actionable() {
			out = append(out, e)
		}
	}
	return out
}

// Find returns the entry for item
func (p SyncPlan) Find(item SyncItem) (PlanEntry, bool) {
	for _, e := range p {
		if e.Item == item {
			return e, true
		}
	}
	return PlanEntry{}, false
}

// CountByStatus tallies the plan per status
func (p SyncPlan) CountByStatus() map[SyncStatus]int {
	counts := make(map[SyncStatus]int)
	for _, e := range p {
		counts[e.Status]++
	}
	return counts
}
