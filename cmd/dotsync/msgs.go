package dotsync

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Keep home dotfiles and a dotfiles repository in sync"
	MsgSyncShort       = "Synchronize home and the repository"
	MsgStatusShort     = "Show how home and the repository compare"
	MsgGenConfigShort  = "Print or write the default configuration"
	MsgGuideShort      = "Explain how dotsync decides what to copy"
	MsgCompletionShort = "Generate shell completion script"
	MsgVersionShort    = "Print version information"

	MsgSyncTitle   = "Sync"
	MsgStatusTitle = "Status"

	MsgConfigWritten = "Wrote default configuration to %s\n"

	// Error messages
	MsgErrResolveRoots = "failed to resolve roots: %w"
	MsgErrLoadConfig   = "failed to load configuration: %w"
	MsgErrNoCommand    = "no command specified"

	MsgErrJSONNeedsPolicy = "--format json cannot prompt; pass --policy all, pull, push or none"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun   = "Show the plan without copying, committing or pushing"
	MsgFlagHome     = "Home root (default: $DOTSYNC_HOME or the user home)"
	MsgFlagRepo     = "Repository root (default: $DOTFILES_ROOT or the enclosing git worktree)"
	MsgFlagPolicy   = "Which items to copy: ask, all, pull, push or none (default from config)"
	MsgFlagMessage  = "Commit message for repository changes"
	MsgFlagNoRemote = "Do not pull, commit or push"
	MsgFlagFormat   = "Output format: auto, term, text or json"
	MsgFlagGenFmt   = "Configuration format: yaml or toml"
	MsgFlagWrite    = "Write the configuration to the repository root"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/sync-long.txt
	msgSyncLongRaw string
	MsgSyncLong    = strings.TrimSpace(msgSyncLongRaw)

	//go:embed msgs/sync-example.txt
	msgSyncExampleRaw string
	MsgSyncExample    = strings.TrimRight(msgSyncExampleRaw, "\n")

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/status-example.txt
	msgStatusExampleRaw string
	MsgStatusExample    = strings.TrimRight(msgStatusExampleRaw, "\n")

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/fallback-warning.txt
	msgFallbackWarningRaw string
	MsgFallbackWarning    = strings.TrimSpace(msgFallbackWarningRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)

	//go:embed msgs/guide.md
	MsgGuide string
)
