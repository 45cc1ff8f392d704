// Package timestamps decides which side of an item is authoritative by
// comparing modification times.
//
// Two predicates are used. Closeness suppresses copies when both sides
// are within a tolerance of each other, since copying itself rewrites
// mtimes and filesystems differ in time resolution. Dominance is biased:
// the first argument wins unless the second is newer by more than the
// buffer. The planner checks dominance as (repo, home), so the repository
// wins near ties such as a fresh clone.
package timestamps

import (
	"errors"
	"io/fs"
	"time"

	dserrors "github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/types"
)

const (
	// DefaultTolerance is the closeness window used when none is configured
	DefaultTolerance = 100 * time.Second
	// DefaultBuffer is the dominance buffer used when none is configured
	DefaultBuffer = 100 * time.Second
)

// WithinTolerance reports whether |t1 - t2| < tol
func WithinTolerance(t1, t2 time.Time, tol time.Duration) bool {
	diff := t1.Sub(t2)
	if diff < 0 {
		diff = -diff
	}
	return diff < tol
}

// Dominates reports whether t1 > t2 - buf
func Dominates(t1, t2 time.Time, buf time.Duration) bool {
	return t1.After(t2.Add(-buf))
}

// Oracle reads modification times from a filesystem and applies the
// comparison predicates to paths.
type Oracle struct {
	FS        types.FS
	Tolerance time.Duration
	Buffer    time.Duration
}

// NewOracle returns an oracle with the default tolerance and buffer
func NewOracle(fsys types.FS) *Oracle {
	return &Oracle{FS: fsys, Tolerance: DefaultTolerance, Buffer: DefaultBuffer}
}

// MTime returns the modification time of path
func (o *Oracle) MTime(path string) (time.Time, error) {
	info, err := o.FS.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, dserrors.Wrapf(err, dserrors.ErrNotFound, "%s does not exist", path).
				WithDetail("path", path)
		}
		return time.Time{}, dserrors.Wrapf(err, dserrors.ErrInternal, "cannot stat %s", path).
			WithDetail("path", path)
	}
	return info.ModTime(), nil
}

// IsClose reports whether the mtimes of a and b are within the tolerance
func (o *Oracle) IsClose(a, b string) (bool, error) {
	ta, tb, err := o.pair(a, b)
	if err != nil {
		return false, err
	}
	return WithinTolerance(ta, tb, o.Tolerance), nil
}

// IsDominant reports whether a is authoritative over b
func (o *Oracle) IsDominant(a, b string) (bool, error) {
	ta, tb, err := o.pair(a, b)
	if err != nil {
		return false, err
	}
	return Dominates(ta, tb, o.Buffer), nil
}

func (o *Oracle) pair(a, b string) (time.Time, time.Time, error) {
	ta, err := o.MTime(a)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	tb, err := o.MTime(b)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return ta, tb, nil
}
