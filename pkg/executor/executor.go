package executor

import (
	"time"

	"github.com/arthur-debert/dotsync/pkg/copier"
	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/timestamps"
	"github.com/arthur-debert/dotsync/pkg/types"
	"github.com/rs/zerolog"
)

// Options contains configuration for the executor
type Options struct {
	FS       types.FS
	HomeRoot string
	RepoRoot string
	// Tolerance is used to verify both sides agree after a copy
	Tolerance time.Duration
	Logger    *zerolog.Logger
}

// Executor applies plan entries to the home and repository trees
type Executor struct {
	fs        types.FS
	copier    *copier.Copier
	homeRoot  string
	repoRoot  string
	tolerance time.Duration
	logger    zerolog.Logger
}

// New creates a new executor instance
func New(opts Options) *Executor {
	logger := logging.GetLogger("executor")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	tolerance := opts.Tolerance
	if tolerance <= 0 {
		tolerance = timestamps.DefaultTolerance
	}

	return &Executor{
		fs:        fsys,
		copier:    copier.New(fsys),
		homeRoot:  opts.HomeRoot,
		repoRoot:  opts.RepoRoot,
		tolerance: tolerance,
		logger:    logger,
	}
}

// Execute applies one entry. Home to repository actions report
// RepoModified on success; nothing else does.
func (e *Executor) Execute(entry types.PlanEntry) types.ExecResult {
	result := types.ExecResult{Entry: entry}

	if !entry.Actionable() {
		result.Skipped = true
		return result
	}

	var src, dst string
	switch {
	case entry.Action.WritesRepo():
		src, dst = entry.Item.In(e.homeRoot), entry.Item.In(e.repoRoot)
	case entry.Action.WritesHome():
		src, dst = entry.Item.In(e.repoRoot), entry.Item.In(e.homeRoot)
	default:
		result.Err = errors.Newf(errors.ErrInternal, "unknown action %s", entry.Action).
			WithDetail("item", entry.Item.String())
		return result
	}

	logger := e.logger.With().
		Str("item", entry.Item.String()).
		Str("action", entry.Action.String()).
		Logger()
	logger.Info().Str("src", src).Str("dst", dst).Msg("Syncing item")

	// The source kind is re-read here since the tree may have changed
	// after planning.
	if err := e.copier.Copy(src, dst); err != nil {
		if errors.IsErrorCode(err, errors.ErrNotFound) {
			logger.Warn().Str("src", src).Msg("Source vanished since planning, skipping")
			result.Skipped = true
			return result
		}
		logger.Error().Err(err).Interface("details", errors.GetErrorDetails(err)).Msg("Sync failed")
		result.Err = err
		return result
	}

	result.RepoModified = entry.Action.WritesRepo()
	e.verify(logger, src, dst)

	logger.Info().Bool("repo_modified", result.RepoModified).Msg("Item synced")
	return result
}

// verify re-reads both sides and warns when they do not agree
func (e *Executor) verify(logger zerolog.Logger, src, dst string) {
	srcInfo, err := e.fs.Stat(src)
	if err != nil {
		logger.Warn().Err(err).Msg("Cannot verify source after sync")
		return
	}
	dstInfo, err := e.fs.Stat(dst)
	if err != nil {
		logger.Warn().Err(err).Msg("Cannot verify destination after sync")
		return
	}
	if !timestamps.WithinTolerance(srcInfo.ModTime(), dstInfo.ModTime(), e.tolerance) {
		logger.Warn().
			Time("src_mtime", srcInfo.ModTime()).
			Time("dst_mtime", dstInfo.ModTime()).
			Msg("Sides still differ after sync")
	}
}
