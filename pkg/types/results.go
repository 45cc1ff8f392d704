package types

// ExecResult is the outcome of executing one plan entry
type ExecResult struct {
	Entry        PlanEntry
	RepoModified bool
	// Skipped is true when nothing was copied: a Skip action, or a source
	// that vanished between planning and execution.
	Skipped bool
	Err     error
}

// SessionResult summarizes one sync session
type SessionResult struct {
	// RepoModified is the only signal used to decide whether to commit and push.
	RepoModified bool
	DryRun       bool
	Planned      int
	Selected     int
	Executed     int
	Failed       int
	Results      []ExecResult
	// Committed is true when a commit/push was attempted and succeeded.
	Committed bool
	CommitErr error
}
