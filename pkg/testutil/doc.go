// Package testutil provides helpers for tests that need real home and
// repository trees on disk.
//
// Key components:
//   - CreateFile, CreateDir and SetMTime build trees with controlled
//     modification times
//   - SyncEnvironment isolates a test from the user's home, configuration
//     and state directories
package testutil
