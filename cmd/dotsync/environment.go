package dotsync

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/dotsync/pkg/config"
	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/paths"
	"github.com/arthur-debert/dotsync/pkg/session"
	"github.com/arthur-debert/dotsync/pkg/types"
	"github.com/arthur-debert/dotsync/pkg/ui/confirmations"
	"github.com/arthur-debert/dotsync/pkg/vcs"
	"github.com/spf13/cobra"
)

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	verbosity int
	dryRun    bool
	home      string
	repo      string
}

// environment is everything a command needs to build a session
type environment struct {
	roots paths.Roots
	cfg   *config.Config
}

// loadEnvironment resolves the roots and loads the configuration.
// overrides holds config keys set by command flags.
func loadEnvironment(cmd *cobra.Command, g *globalFlags, overrides map[string]interface{}) (*environment, error) {
	logger := logging.GetLogger("cli")

	roots, err := paths.Resolve(g.home, g.repo)
	if err != nil {
		return nil, fmt.Errorf(MsgErrResolveRoots, err)
	}
	if roots.UsedFallback() {
		fmt.Fprintln(cmd.ErrOrStderr(), warningPrefix(), MsgFallbackWarning)
	}
	logger.Debug().
		Str("home", roots.Home).
		Str("homeSource", string(roots.HomeSource)).
		Str("repo", roots.Repo).
		Str("repoSource", string(roots.RepoSource)).
		Msg("Roots resolved")

	cfg, err := config.LoadWithOverrides(roots.Repo, overrides)
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	return &environment{roots: roots, cfg: cfg}, nil
}

// itemsFromArgs validates item arguments given on the command line
func itemsFromArgs(args []string) ([]types.SyncItem, error) {
	items := make([]types.SyncItem, 0, len(args))
	for _, arg := range args {
		item, err := types.NewSyncItem(arg)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// decider picks the Decider for a policy name; "ask" prompts on the
// command's input and output
func decider(cmd *cobra.Command, name string) (session.Decider, error) {
	if strings.EqualFold(strings.TrimSpace(name), config.PolicyAsk) {
		return confirmations.NewConsoleDecider(cmd.InOrStdin(), cmd.OutOrStdout()), nil
	}
	policy, err := session.ParsePolicy(name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid --policy (want ask, all, pull, push or none)")
	}
	return policy, nil
}

// remote opens the repository as the session's Remote. A repository that
// cannot be opened disables remote handling with a warning.
func (e *environment) remote() session.Remote {
	logger := logging.GetLogger("cli")

	if !e.cfg.Git.Enabled {
		logger.Debug().Msg("Git handling disabled by configuration")
		return nil
	}
	repo, err := vcs.Open(e.roots.Repo, vcs.Options{
		Remote:      e.cfg.Git.Remote,
		AuthorName:  e.cfg.Git.AuthorName,
		AuthorEmail: e.cfg.Git.AuthorEmail,
	})
	if err != nil {
		logger.Warn().Err(err).Str("repo", e.roots.Repo).Msg("Repository is not a git worktree, skipping remote sync")
		return nil
	}
	return repo
}

// flagOverrides maps changed flags onto their config keys
func flagOverrides(cmd *cobra.Command, keys map[string]string) map[string]interface{} {
	overrides := map[string]interface{}{}
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		overrides[key] = f.Value.String()
	}
	return overrides
}

// sessionOptions are the options common to sync and status
func (e *environment) sessionOptions(extra []types.SyncItem) session.Options {
	return session.Options{
		FS:        filesystem.NewOS(),
		HomeRoot:  e.roots.Home,
		RepoRoot:  e.roots.Repo,
		Discovery: e.cfg.DiscoveryOptions(extra...),
		Tolerance: e.cfg.Sync.Tolerance,
		Buffer:    e.cfg.Sync.Buffer,
	}
}
