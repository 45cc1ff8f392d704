package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/vcs"
)

// Environment variable names
const (
	// EnvDotfilesRoot locates the dotfiles repository
	EnvDotfilesRoot = "DOTFILES_ROOT"

	// EnvHome overrides the home root
	EnvHome = "DOTSYNC_HOME"
)

// RootSource records how a root was determined
type RootSource string

const (
	SourceFlag     RootSource = "flag"
	SourceEnv      RootSource = "env"
	SourceUserHome RootSource = "user-home"
	SourceGit      RootSource = "git"
	SourceCwd      RootSource = "cwd"
)

// Roots are the absolute home and repository roots of a session
type Roots struct {
	Home       string
	Repo       string
	HomeSource RootSource
	RepoSource RootSource
}

// UsedFallback reports whether the repository root is just the current
// directory, which usually means the tool was run from the wrong place.
func (r Roots) UsedFallback() bool {
	return r.RepoSource == SourceCwd
}

// Resolve determines both roots. Empty arguments fall through to the
// environment and then to detection.
func Resolve(home, repo string) (Roots, error) {
	var roots Roots
	var err error

	roots.Home, roots.HomeSource, err = resolveHome(home)
	if err != nil {
		return Roots{}, err
	}
	roots.Repo, roots.RepoSource, err = resolveRepo(repo)
	if err != nil {
		return Roots{}, err
	}
	return roots, nil
}

func resolveHome(explicit string) (string, RootSource, error) {
	if explicit != "" {
		return absolute(explicit, SourceFlag)
	}
	if env := os.Getenv(EnvHome); env != "" {
		return absolute(env, SourceEnv)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", errors.Wrap(err, errors.ErrRootMissing, "cannot determine home directory")
	}
	return absolute(home, SourceUserHome)
}

func resolveRepo(explicit string) (string, RootSource, error) {
	if explicit != "" {
		return absolute(explicit, SourceFlag)
	}
	if env := os.Getenv(EnvDotfilesRoot); env != "" {
		return absolute(env, SourceEnv)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", "", errors.Wrap(err, errors.ErrRootMissing, "cannot determine current directory")
	}
	if root, err := vcs.FindRoot(cwd); err == nil {
		return absolute(root, SourceGit)
	}
	return absolute(cwd, SourceCwd)
}

func absolute(path string, source RootSource) (string, RootSource, error) {
	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid path %s", path).
			WithDetail("path", path)
	}
	return abs, source, nil
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
