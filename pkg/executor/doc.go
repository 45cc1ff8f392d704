// Package executor applies planned sync actions.
//
// The executor copies exactly one item per call, in the direction given by
// the entry's action, and reports whether the repository side was written.
// Failures are contained to the item: they are logged and returned in the
// result so the session can move on to the next item.
package executor
