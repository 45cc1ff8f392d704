// Package vcs is the git collaborator of a sync session, built on go-git.
//
// Before a session the repository is brought level with its upstream:
// fast-forward pull when behind, push when ahead, and a warning when the
// two have diverged. After a session that wrote to the repository every
// change is committed and pushed.
package vcs
