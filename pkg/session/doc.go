// Package session runs one synchronization pass between a home directory
// and a dotfiles repository.
//
// A session moves through a fixed sequence of states:
//
//	Idle → Discovering → Planning → AwaitingSelection → Executing → Reporting → Done
//
// Before discovery an optional Remote is asked to bring the repository up
// to date. AwaitingSelection is the only point where the session waits on
// something outside itself: a Decider chooses which planned items to sync.
// Interactive prompting and the automated policies are both Deciders.
// Selected items are executed one at a time, and when any of them wrote to
// the repository the Remote is asked to commit and push exactly once.
package session
