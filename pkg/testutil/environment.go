package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SyncEnvironment is a pair of home and repository roots under a
// temporary directory
type SyncEnvironment struct {
	Home string
	Repo string
	// Config is the directory used as XDG_CONFIG_HOME
	Config string
}

// NewSyncEnvironment creates empty home and repository roots and points
// DOTSYNC_HOME, DOTFILES_ROOT and the XDG directories at the temporary
// tree. Every DOTSYNC_ variable inherited from the caller is cleared.
func NewSyncEnvironment(t *testing.T) *SyncEnvironment {
	t.Helper()

	root := t.TempDir()
	env := &SyncEnvironment{
		Home:   CreateDir(t, root, "home"),
		Repo:   CreateDir(t, root, "dotfiles"),
		Config: CreateDir(t, root, "config"),
	}

	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, "DOTSYNC_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}

	t.Setenv("DOTSYNC_HOME", env.Home)
	t.Setenv("DOTFILES_ROOT", env.Repo)
	t.Setenv("XDG_CONFIG_HOME", env.Config)
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	return env
}

// HomePath joins rel to the home root
func (e *SyncEnvironment) HomePath(rel string) string {
	return filepath.Join(e.Home, rel)
}

// RepoPath joins rel to the repository root
func (e *SyncEnvironment) RepoPath(rel string) string {
	return filepath.Join(e.Repo, rel)
}
