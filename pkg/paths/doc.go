// Package paths resolves the two roots a sync session works on.
//
// The home root is taken, in order, from an explicit value, DOTSYNC_HOME,
// or the user's home directory. The repository root is taken from an
// explicit value, DOTFILES_ROOT, the git work tree enclosing the current
// directory, or the current directory itself. A leading ~ is expanded in
// explicit values and environment variables.
package paths
