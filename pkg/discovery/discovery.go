// Package discovery enumerates the items a sync session considers.
//
// Candidates come from the repository tree: hidden top-level entries
// (the config subdirectory among them), allow-listed top-level
// directories, and every directory directly inside the config
// subdirectory. Explicitly tracked items are merged in so that files
// which only exist in home can still be added to the repository.
package discovery

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	dserrors "github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/types"
)

const (
	DefaultHiddenPrefix = "."
	DefaultConfigDir    = ".config"
)

// DefaultAllowDirs are top-level directory names discovered even though
// they are not hidden.
var DefaultAllowDirs = []string{"nvim"}

// ConfigFileNames are the repository level configuration files, in the
// order they are looked up.
var ConfigFileNames = []string{
	".dotsync.yaml",
	"dotsync.yaml",
	"dotupdate.config.yaml",
	".dotsync.toml",
	"dotsync.toml",
}

// AlwaysExcluded names are never offered as items: version control
// metadata and the tool's own configuration files.
var AlwaysExcluded = append([]string{".git"}, ConfigFileNames...)

// Options controls what Discover returns
type Options struct {
	// Exclude holds names (or full relative paths) to skip
	Exclude []string
	// AllowDirs are non-hidden top-level directories to include
	AllowDirs []string
	// ConfigDir is the subdirectory whose child directories are items
	ConfigDir string
	// HiddenPrefix marks top-level entries as candidates
	HiddenPrefix string
	// Extra items are merged into the result whether or not they exist
	Extra []types.SyncItem
}

// DefaultOptions returns the conventional discovery settings
func DefaultOptions() Options {
	return Options{
		AllowDirs:    append([]string(nil), DefaultAllowDirs...),
		ConfigDir:    DefaultConfigDir,
		HiddenPrefix: DefaultHiddenPrefix,
	}
}

// Discover returns the de-duplicated, sorted set of items found under
// repoRoot. A missing or unreadable repository root is fatal and reported
// as ROOT_MISSING. An unreadable config subdirectory only logs a warning.
func Discover(fsys types.FS, repoRoot string, opts Options) ([]types.SyncItem, error) {
	logger := logging.GetLogger("discovery")

	excluded := make(map[string]bool, len(opts.Exclude)+len(AlwaysExcluded))
	for _, name := range AlwaysExcluded {
		excluded[name] = true
	}
	for _, name := range opts.Exclude {
		excluded[filepath.Clean(name)] = true
	}
	allowed := make(map[string]bool, len(opts.AllowDirs))
	for _, name := range opts.AllowDirs {
		allowed[name] = true
	}

	entries, err := fsys.ReadDir(repoRoot)
	if err != nil {
		return nil, dserrors.Wrapf(err, dserrors.ErrRootMissing, "cannot read repository root %s", repoRoot).
			WithDetail("root", repoRoot)
	}

	found := make(map[types.SyncItem]bool)
	add := func(rel string) {
		found[types.SyncItem(rel)] = true
	}

	for _, entry := range entries {
		name := entry.Name()
		if excluded[name] {
			logger.Trace().Str("name", name).Msg("Excluded")
			continue
		}
		isDir := isDirectory(fsys, filepath.Join(repoRoot, name), entry)
		switch {
		case opts.HiddenPrefix != "" && strings.HasPrefix(name, opts.HiddenPrefix):
			add(name)
		case isDir && allowed[name]:
			add(name)
		}
	}

	if opts.ConfigDir != "" {
		configPath := filepath.Join(repoRoot, opts.ConfigDir)
		children, err := fsys.ReadDir(configPath)
		switch {
		case err == nil:
			for _, child := range children {
				rel := filepath.Join(opts.ConfigDir, child.Name())
				if excluded[child.Name()] || excluded[rel] {
					logger.Trace().Str("item", rel).Msg("Excluded")
					continue
				}
				if isDirectory(fsys, filepath.Join(configPath, child.Name()), child) {
					add(rel)
				}
			}
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug().Str("path", configPath).Msg("No config subdirectory in repository")
		default:
			logger.Warn().Err(err).Str("path", configPath).Msg("Cannot read config subdirectory, skipping it")
		}
	}

	for _, item := range opts.Extra {
		if excluded[item.String()] || excluded[item.Base()] {
			logger.Debug().Str("item", item.String()).Msg("Tracked item is excluded")
			continue
		}
		found[item] = true
	}

	items := make([]types.SyncItem, 0, len(found))
	for item := range found {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })

	logger.Debug().Int("count", len(items)).Str("root", repoRoot).Msg("Discovered items")
	return items, nil
}

// isDirectory follows symlinks so a linked config directory counts as one
func isDirectory(fsys types.FS, path string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}
