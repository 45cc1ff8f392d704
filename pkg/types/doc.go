// Package types defines the core data model shared by the sync engine:
// items, their per-side kind, the sync status and action computed for them,
// the plan built from those, and the results of executing it.
//
// It also declares the FS interface every filesystem-touching component
// is written against, so the same code runs on the OS and on an in-memory
// filesystem in tests.
package types
