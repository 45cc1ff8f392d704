package types

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotsync/pkg/errors"
)

// SyncItem identifies one dotfile or config directory by its path relative
// to both the home root and the repository root.
type SyncItem string

// NewSyncItem validates and normalizes a user supplied item path.
// Items must be relative and must not escape their root.
func NewSyncItem(path string) (SyncItem, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New(errors.ErrInvalidItem, "item path is empty")
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return "", errors.Newf(errors.ErrInvalidItem, "item %q must be relative", path).
			WithDetail("item", path)
	}

	clean := filepath.Clean(path)
	if clean == "." {
		return "", errors.Newf(errors.ErrInvalidItem, "item %q names the root itself", path).
			WithDetail("item", path)
	}
	for _, part := range strings.Split(filepath.ToSlash(clean), "/") {
		if part == ".." {
			return "", errors.Newf(errors.ErrInvalidItem, "item %q must not contain '..'", path).
				WithDetail("item", path)
		}
	}

	return SyncItem(clean), nil
}

// String returns the relative path
func (i SyncItem) String() string {
	return string(i)
}

// Base returns the last element of the item path
func (i SyncItem) Base() string {
	return filepath.Base(string(i))
}

// In joins the item onto root
func (i SyncItem) In(root string) string {
	return filepath.Join(root, string(i))
}

// ItemKind is the filesystem type of one side of an item.
type ItemKind string

const (
	// KindNone means the side does not exist
	KindNone      ItemKind = ""
	KindFile      ItemKind = "file"
	KindDirectory ItemKind = "dir"
)

// KindOf returns the kind for a directory flag
func KindOf(isDir bool) ItemKind {
	if isDir {
		return KindDirectory
	}
	return KindFile
}
