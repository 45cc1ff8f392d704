package types

import "fmt"

// SyncStatus is the classification of one item's (home, repo) pairing.
type SyncStatus int

const (
	StatusNotFound SyncStatus = iota
	StatusNewInHome
	StatusNewInRepo
	StatusTypeMismatch
	StatusInSync
	StatusRepoNewer
	StatusHomeNewer
)

var statusNames = map[SyncStatus]string{
	StatusNotFound:     "not_found",
	StatusNewInHome:    "new_in_home",
	StatusNewInRepo:    "new_in_repo",
	StatusTypeMismatch: "type_mismatch",
	StatusInSync:       "in_sync",
	StatusRepoNewer:    "repo_newer",
	StatusHomeNewer:    "home_newer",
}

// String returns the snake_case name of the status
func (s SyncStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler
func (s SyncStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Action returns the action that the status maps to. The mapping is fixed:
// only statuses where exactly one side is authoritative produce a copy.
func (s SyncStatus) Action() SyncAction {
	switch s {
	case StatusNewInHome:
		return ActionAddToRepo
	case StatusNewInRepo:
		return ActionCopyToHome
	case StatusRepoNewer:
		return ActionUpdateHome
	case StatusHomeNewer:
		return ActionUpdateRepo
	default:
		return ActionSkip
	}
}

// SyncAction is what the executor does for an item.
type SyncAction int

const (
	ActionSkip SyncAction = iota
	ActionAddToRepo
	ActionCopyToHome
	ActionUpdateHome
	ActionUpdateRepo
)

var actionNames = map[SyncAction]string{
	ActionSkip:       "skip",
	ActionAddToRepo:  "add_to_repo",
	ActionCopyToHome: "copy_to_home",
	ActionUpdateHome: "update_home",
	ActionUpdateRepo: "update_repo",
}

// String returns the snake_case name of the action
func (a SyncAction) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// MarshalText implements encoding.TextMarshaler
func (a SyncAction) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// WritesRepo reports whether the action copies home into the repository
func (a SyncAction) WritesRepo() bool {
	return a == ActionAddToRepo || a == ActionUpdateRepo
}

// WritesHome reports whether the action copies the repository into home
func (a SyncAction) WritesHome() bool {
	return a == ActionCopyToHome || a == ActionUpdateHome
}
