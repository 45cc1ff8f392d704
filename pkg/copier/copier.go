// Package copier copies sync items between the home and repository trees.
//
// Directory copies are merges: entries present in the destination but not
// in the source are left alone, so application state written next to a
// tracked config (plugin caches, lock files) survives a sync. Every copied
// file and directory takes the modification time of its source.
package copier

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	dserrors "github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/types"
	"github.com/rs/zerolog"
)

const (
	parentDirPerm fs.FileMode = 0755
	ownerWrite    fs.FileMode = 0200
	ownerRWX      fs.FileMode = 0700
)

// Copier performs file and merge-directory copies on a filesystem
type Copier struct {
	fs     types.FS
	logger zerolog.Logger
	now    func() time.Time
}

// New creates a copier operating on fsys
func New(fsys types.FS) *Copier {
	return &Copier{
		fs:     fsys,
		logger: logging.GetLogger("copier"),
		now:    time.Now,
	}
}

// Copy copies src to dst, choosing a file or directory copy from the
// kind of src at call time.
func (c *Copier) Copy(src, dst string) error {
	info, err := c.statSource(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return c.CopyDirectoryContents(src, dst)
	}
	return c.CopyFile(src, dst)
}

// CopyFile copies the regular file src to dst. Missing parent directories
// of dst are created. The content, permission bits and modification time
// of src are carried over.
func (c *Copier) CopyFile(src, dst string) error {
	info, err := c.statSource(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return copyErr(nil, src, dst, "source is a directory")
	}
	dstInfo, err := c.fs.Stat(dst)
	if err == nil && dstInfo.IsDir() {
		return copyErr(nil, src, dst, "destination is a directory")
	}
	if err == nil && dstInfo.Mode().Perm()&ownerWrite == 0 {
		if err := c.fs.Chmod(dst, dstInfo.Mode().Perm()|ownerWrite); err != nil {
			return copyErr(err, src, dst, "cannot make destination writable")
		}
	}

	if err := c.fs.MkdirAll(filepath.Dir(dst), parentDirPerm); err != nil {
		return copyErr(err, src, dst, "cannot create parent directory")
	}

	if err := c.copyContents(src, dst, info.Mode().Perm()); err != nil {
		return err
	}

	// Close resets the mtime on some filesystems, so metadata goes last.
	if err := c.fs.Chmod(dst, info.Mode().Perm()); err != nil {
		return copyErr(err, src, dst, "cannot set permissions")
	}
	if err := c.fs.Chtimes(dst, c.now(), info.ModTime()); err != nil {
		return copyErr(err, src, dst, "cannot set modification time")
	}

	c.logger.Trace().Str("src", src).Str("dst", dst).Msg("Copied file")
	return nil
}

func (c *Copier) copyContents(src, dst string, perm fs.FileMode) error {
	in, err := c.fs.Open(src)
	if err != nil {
		return copyErr(err, src, dst, "cannot open source")
	}
	defer func() { _ = in.Close() }()

	out, err := c.fs.Create(dst, perm)
	if err != nil {
		return copyErr(err, src, dst, "cannot create destination")
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return copyErr(err, src, dst, "cannot write destination")
	}
	if err := out.Close(); err != nil {
		return copyErr(err, src, dst, "cannot close destination")
	}
	return nil
}

// CopyDirectoryContents merges the directory src into dst. dst is created
// if missing. Subdirectories are merged recursively and files are copied
// with CopyFile. Entries of dst that src does not have are not touched.
// Finally dst takes the permission bits and modification time of src.
//
// A source tree whose symlinks lead back into one of their own ancestors
// is rejected before anything is written. When dst did not exist and the
// merge fails, the partial copy is removed.
func (c *Copier) CopyDirectoryContents(src, dst string) error {
	info, err := c.statSource(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return copyErr(nil, src, dst, "source is not a directory")
	}
	if err := c.checkCycles(src, []fs.FileInfo{info}); err != nil {
		return err
	}

	_, statErr := c.fs.Stat(dst)
	created := errors.Is(statErr, fs.ErrNotExist)

	if err := c.mergeDir(src, dst, info); err != nil {
		if created {
			if rmErr := c.fs.RemoveAll(dst); rmErr != nil {
				c.logger.Warn().Err(rmErr).Str("dst", dst).Msg("Could not remove partial copy")
			}
		}
		return err
	}
	return nil
}

// checkCycles walks src the way mergeDir will, failing on a directory that
// is the same file as one of its ancestors.
func (c *Copier) checkCycles(src string, ancestors []fs.FileInfo) error {
	entries, err := c.fs.ReadDir(src)
	if err != nil {
		return copyErr(err, src, "", "cannot read source directory")
	}
	for _, entry := range entries {
		child := filepath.Join(src, entry.Name())
		childInfo, err := c.fs.Stat(child)
		if err != nil {
			return copyErr(err, child, "", "cannot inspect source entry")
		}
		if !childInfo.IsDir() {
			continue
		}
		for _, ancestor := range ancestors {
			if os.SameFile(childInfo, ancestor) {
				return copyErr(nil, child, "", "symlink cycle in source tree")
			}
		}
		if err := c.checkCycles(child, append(ancestors, childInfo)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Copier) mergeDir(src, dst string, info fs.FileInfo) error {
	dstInfo, err := c.fs.Stat(dst)
	switch {
	case err == nil && !dstInfo.IsDir():
		return copyErr(nil, src, dst, "destination exists and is not a directory")
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return copyErr(err, src, dst, "cannot inspect destination")
	case err != nil:
		// The source mode is applied once the children are in place, so a
		// read-only source still yields a writable directory to fill.
		if err := c.fs.MkdirAll(dst, parentDirPerm); err != nil {
			return copyErr(err, src, dst, "cannot create destination directory")
		}
	case dstInfo.Mode().Perm()&ownerWrite == 0:
		if err := c.fs.Chmod(dst, dstInfo.Mode().Perm()|ownerRWX); err != nil {
			return copyErr(err, src, dst, "cannot make destination writable")
		}
	}

	entries, err := c.fs.ReadDir(src)
	if err != nil {
		return copyErr(err, src, dst, "cannot read source directory")
	}

	for _, entry := range entries {
		childSrc := filepath.Join(src, entry.Name())
		childDst := filepath.Join(dst, entry.Name())

		// Stat rather than trust the entry type so symlinks are followed.
		childInfo, err := c.fs.Stat(childSrc)
		if err != nil {
			return copyErr(err, childSrc, childDst, "cannot inspect source entry")
		}
		if childInfo.IsDir() {
			err = c.mergeDir(childSrc, childDst, childInfo)
		} else {
			err = c.CopyFile(childSrc, childDst)
		}
		if err != nil {
			return err
		}
	}

	if err := c.fs.Chmod(dst, info.Mode().Perm()); err != nil {
		return copyErr(err, src, dst, "cannot set directory permissions")
	}
	if err := c.fs.Chtimes(dst, c.now(), info.ModTime()); err != nil {
		return copyErr(err, src, dst, "cannot set directory modification time")
	}

	c.logger.Trace().Str("src", src).Str("dst", dst).Int("entries", len(entries)).Msg("Merged directory")
	return nil
}

func (c *Copier) statSource(src string) (fs.FileInfo, error) {
	info, err := c.fs.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, dserrors.Wrapf(err, dserrors.ErrNotFound, "source %s vanished", src).
				WithDetail("src", src)
		}
		return nil, copyErr(err, src, "", "cannot inspect source")
	}
	return info, nil
}

func copyErr(err error, src, dst, msg string) error {
	var e *dserrors.DotsyncError
	if err == nil {
		e = dserrors.New(dserrors.ErrCopy, msg)
	} else {
		e = dserrors.Wrap(err, dserrors.ErrCopy, msg)
	}
	e = e.WithDetail("src", src)
	if dst != "" {
		e = e.WithDetail("dst", dst)
	}
	return e
}
