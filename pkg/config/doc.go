// Package config loads dotsync configuration.
//
// Configuration is layered with koanf: the embedded defaults, then the
// user file in the XDG config directory, then the first configuration file
// found at the repository root, then DOTSYNC_ environment variables. A
// double underscore in a variable name separates nested keys, so
// DOTSYNC_SYNC__POLICY sets sync.policy. Lists are appended across layers
// rather than replaced.
package config
