// Package filesystem provides filesystem implementations for dotsync.
//
// This package contains implementations of the types.FS interface:
// the OS filesystem used at runtime and an afero-backed one used by
// tests to build home and repository trees in memory.
package filesystem
