package config

import (
	"bytes"
	"strings"

	"github.com/arthur-debert/dotsync/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// fileView is the on-disk shape of a configuration file. Durations are
// written as strings such as "100s".
type fileView struct {
	IgnoreItems []string      `yaml:"ignore_items" toml:"ignore_items"`
	TrackItems  []string      `yaml:"track_items" toml:"track_items"`
	Discovery   discoveryView `yaml:"discovery" toml:"discovery"`
	Sync        syncView      `yaml:"sync" toml:"sync"`
	Git         gitView       `yaml:"git" toml:"git"`
}

type discoveryView struct {
	HiddenPrefix string   `yaml:"hidden_prefix" toml:"hidden_prefix"`
	ConfigDir    string   `yaml:"config_dir" toml:"config_dir"`
	AllowDirs    []string `yaml:"allow_dirs" toml:"allow_dirs"`
}

type syncView struct {
	Tolerance string `yaml:"tolerance" toml:"tolerance"`
	Buffer    string `yaml:"buffer" toml:"buffer"`
	Policy    string `yaml:"policy" toml:"policy"`
}

type gitView struct {
	Enabled       bool   `yaml:"enabled" toml:"enabled"`
	Remote        string `yaml:"remote" toml:"remote"`
	CommitMessage string `yaml:"commit_message" toml:"commit_message"`
	AuthorName    string `yaml:"author_name" toml:"author_name"`
	AuthorEmail   string `yaml:"author_email" toml:"author_email"`
}

func viewOf(c *Config) fileView {
	track := c.TrackItems
	if track == nil {
		track = []string{}
	}
	return fileView{
		IgnoreItems: c.IgnoreItems,
		TrackItems:  track,
		Discovery: discoveryView{
			HiddenPrefix: c.Discovery.HiddenPrefix,
			ConfigDir:    c.Discovery.ConfigDir,
			AllowDirs:    c.Discovery.AllowDirs,
		},
		Sync: syncView{
			Tolerance: c.Sync.Tolerance.String(),
			Buffer:    c.Sync.Buffer.String(),
			Policy:    c.Sync.Policy,
		},
		Git: gitView{
			Enabled:       c.Git.Enabled,
			Remote:        c.Git.Remote,
			CommitMessage: c.Git.CommitMessage,
			AuthorName:    c.Git.AuthorName,
			AuthorEmail:   c.Git.AuthorEmail,
		},
	}
}

const generatedHeader = "# dotsync configuration\n# Lists are appended to the built in defaults.\n\n"

// GenerateConfig renders cfg as a configuration file in format, which is
// "yaml" or "toml".
func GenerateConfig(cfg *Config, format string) ([]byte, error) {
	view := viewOf(cfg)

	var buf bytes.Buffer
	buf.WriteString(generatedHeader)

	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to render yaml")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to render yaml")
		}
	case "toml":
		out, err := toml.Marshal(view)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to render toml")
		}
		buf.Write(out)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported config format %q", format).
			WithDetail("format", format)
	}
	return buf.Bytes(), nil
}
