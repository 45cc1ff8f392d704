package config

import (
	"time"

	"github.com/arthur-debert/dotsync/pkg/discovery"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/timestamps"
	"github.com/arthur-debert/dotsync/pkg/types"
)

// PolicyAsk prompts for every actionable item
const PolicyAsk = "ask"

// Config is the complete dotsync configuration
type Config struct {
	IgnoreItems []string  `koanf:"ignore_items"`
	TrackItems  []string  `koanf:"track_items"`
	Discovery   Discovery `koanf:"discovery"`
	Sync        Sync      `koanf:"sync"`
	Git         Git       `koanf:"git"`

	// Sources lists the files that contributed, in load order
	Sources []string `koanf:"-"`
}

// Discovery holds discovery settings
type Discovery struct {
	HiddenPrefix string   `koanf:"hidden_prefix"`
	ConfigDir    string   `koanf:"config_dir"`
	AllowDirs    []string `koanf:"allow_dirs"`
}

// Sync holds timestamp and selection settings
type Sync struct {
	Tolerance time.Duration `koanf:"tolerance"`
	Buffer    time.Duration `koanf:"buffer"`
	Policy    string        `koanf:"policy"`
}

// Git holds settings for the version control collaborator
type Git struct {
	Enabled       bool   `koanf:"enabled"`
	Remote        string `koanf:"remote"`
	CommitMessage string `koanf:"commit_message"`
	AuthorName    string `koanf:"author_name"`
	AuthorEmail   string `koanf:"author_email"`
}

// DiscoveryOptions converts the configuration into discovery options.
// extra items (from the command line) are merged with track_items.
func (c *Config) DiscoveryOptions(extra ...types.SyncItem) discovery.Options {
	return discovery.Options{
		Exclude:      append([]string(nil), c.IgnoreItems...),
		AllowDirs:    append([]string(nil), c.Discovery.AllowDirs...),
		ConfigDir:    c.Discovery.ConfigDir,
		HiddenPrefix: c.Discovery.HiddenPrefix,
		Extra:        append(c.TrackedItems(), extra...),
	}
}

// TrackedItems validates track_items, dropping invalid entries with a warning
func (c *Config) TrackedItems() []types.SyncItem {
	logger := logging.GetLogger("config")
	var items []types.SyncItem
	for _, raw := range c.TrackItems {
		item, err := types.NewSyncItem(raw)
		if err != nil {
			logger.Warn().Err(err).Str("item", raw).Msg("Ignoring invalid tracked item")
			continue
		}
		items = append(items, item)
	}
	return items
}

// normalize replaces unusable values with the built in defaults
func (c *Config) normalize() {
	logger := logging.GetLogger("config")
	if c.Sync.Tolerance <= 0 {
		logger.Warn().
			Dur("tolerance", c.Sync.Tolerance).
			Dur("default", timestamps.DefaultTolerance).
			Msg("Tolerance must be positive, using default")
		c.Sync.Tolerance = timestamps.DefaultTolerance
	}
	if c.Sync.Buffer < 0 {
		logger.Warn().Dur("buffer", c.Sync.Buffer).Msg("Buffer must not be negative, using default")
		c.Sync.Buffer = timestamps.DefaultBuffer
	}
	if c.Sync.Policy == "" {
		c.Sync.Policy = PolicyAsk
	}
	if c.Git.Remote == "" {
		c.Git.Remote = "origin"
	}
}
