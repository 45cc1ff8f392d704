// Package planner classifies each item's (home, repo) pairing into a
// status and the action that follows from it.
package planner

import (
	"errors"
	"io/fs"
	"time"

	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/timestamps"
	"github.com/arthur-debert/dotsync/pkg/types"
	"github.com/rs/zerolog"
)

// Side is what is known about one side of an item
type Side struct {
	Exists bool
	Kind   types.ItemKind
	MTime  time.Time
}

// Classify is the classification table. The repository is checked for
// dominance over home, so it wins when the two are within the buffer.
func Classify(home, repo Side, tolerance, buffer time.Duration) types.SyncStatus {
	switch {
	case !home.Exists && !repo.Exists:
		return types.StatusNotFound
	case home.Exists && !repo.Exists:
		return types.StatusNewInHome
	case !home.Exists && repo.Exists:
		return types.StatusNewInRepo
	case home.Kind != repo.Kind:
		return types.StatusTypeMismatch
	case timestamps.WithinTolerance(home.MTime, repo.MTime, tolerance):
		return types.StatusInSync
	case timestamps.Dominates(repo.MTime, home.MTime, buffer):
		return types.StatusRepoNewer
	default:
		return types.StatusHomeNewer
	}
}

// Options configures a Planner
type Options struct {
	FS       types.FS
	HomeRoot string
	RepoRoot string
	// Tolerance must be positive; zero or less selects the default.
	Tolerance time.Duration
	// Buffer of zero removes the repository bias; negative selects the
	// default.
	Buffer time.Duration
	Logger *zerolog.Logger
}

// Planner builds sync plans for a home/repository pair
type Planner struct {
	fs        types.FS
	homeRoot  string
	repoRoot  string
	tolerance time.Duration
	buffer    time.Duration
	logger    zerolog.Logger
}

// New creates a planner. A tolerance that is not positive and a negative
// buffer fall back to the defaults.
func New(opts Options) *Planner {
	logger := logging.GetLogger("planner")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	tolerance := opts.Tolerance
	if tolerance <= 0 {
		logger.Debug().Dur("tolerance", tolerance).Msg("Using default tolerance")
		tolerance = timestamps.DefaultTolerance
	}
	buffer := opts.Buffer
	if buffer < 0 {
		logger.Debug().Dur("buffer", buffer).Msg("Using default buffer")
		buffer = timestamps.DefaultBuffer
	}

	return &Planner{
		fs:        fsys,
		homeRoot:  opts.HomeRoot,
		repoRoot:  opts.RepoRoot,
		tolerance: tolerance,
		buffer:    buffer,
		logger:    logger,
	}
}

// PlanItem classifies a single item from one stat per side. A stat failure
// other than non-existence is recorded on the entry and forces Skip.
func (p *Planner) PlanItem(item types.SyncItem) types.PlanEntry {
	entry := types.PlanEntry{Item: item}

	home, homeErr := p.inspect(item.In(p.homeRoot))
	repo, repoErr := p.inspect(item.In(p.repoRoot))

	entry.HomeKind, entry.HomeMTime = home.Kind, home.MTime
	entry.RepoKind, entry.RepoMTime = repo.Kind, repo.MTime

	if err := errors.Join(homeErr, repoErr); err != nil {
		entry.Err = err
		entry.Status = Classify(home, repo, p.tolerance, p.buffer)
		entry.Action = types.ActionSkip
		p.logger.Warn().Err(err).Str("item", item.String()).Msg("Cannot inspect item, skipping")
		return entry
	}

	entry.Status = Classify(home, repo, p.tolerance, p.buffer)
	entry.Action = entry.Status.Action()

	p.logger.Debug().
		Str("item", item.String()).
		Str("status", entry.Status.String()).
		Str("action", entry.Action.String()).
		Msg("Planned item")
	return entry
}

// Plan classifies every item and returns the entries sorted by item path
func (p *Planner) Plan(items []types.SyncItem) types.SyncPlan {
	plan := make(types.SyncPlan, 0, len(items))
	for _, item := range items {
		plan = append(plan, p.PlanItem(item))
	}
	plan.Sort()
	return plan
}

func (p *Planner) inspect(path string) (Side, error) {
	info, err := p.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Side{}, nil
		}
		return Side{}, err
	}
	return Side{Exists: true, Kind: types.KindOf(info.IsDir()), MTime: info.ModTime()}, nil
}
