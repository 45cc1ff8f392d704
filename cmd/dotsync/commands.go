package dotsync

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/dotsync/internal/version"
	"github.com/arthur-debert/dotsync/pkg/config"
	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/session"
	"github.com/arthur-debert/dotsync/pkg/ui"
	"github.com/arthur-debert/dotsync/pkg/ui/confirmations"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "dotsync",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&g.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&g.home, "home", "", MsgFlagHome)
	rootCmd.PersistentFlags().StringVar(&g.repo, "repo", "", MsgFlagRepo)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newSyncCmd(g))
	rootCmd.AddCommand(newStatusCmd(g))
	rootCmd.AddCommand(newGenConfigCmd(g))
	rootCmd.AddCommand(newGuideCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newSyncCmd(g *globalFlags) *cobra.Command {
	var (
		policy   string
		message  string
		format   string
		noRemote bool
	)

	cmd := &cobra.Command{
		Use:     "sync [items...]",
		Short:   MsgSyncShort,
		Long:    MsgSyncLong,
		Example: MsgSyncExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ui.ParseFormat(format)
			if err != nil {
				return err
			}
			env, err := loadEnvironment(cmd, g, flagOverrides(cmd, map[string]string{
				"policy":  "sync.policy",
				"message": "git.commit_message",
			}))
			if err != nil {
				return err
			}
			extra, err := itemsFromArgs(args)
			if err != nil {
				return err
			}

			dec, err := decider(cmd, env.cfg.Sync.Policy)
			if err != nil {
				return err
			}
			if _, prompts := dec.(*confirmations.ConsoleDecider); prompts && f == ui.FormatJSON && !g.dryRun {
				return errors.New(errors.ErrInvalidInput, MsgErrJSONNeedsPolicy)
			}

			reporter, err := ui.NewReporter(f, cmd.OutOrStdout(), MsgSyncTitle, g.dryRun)
			if err != nil {
				return err
			}

			opts := env.sessionOptions(extra)
			opts.Decider = dec
			opts.Reporter = reporter
			opts.DryRun = g.dryRun
			opts.CommitMessage = env.cfg.Git.CommitMessage
			if !noRemote {
				opts.Remote = env.remote()
			}

			orch, err := session.New(opts)
			if err != nil {
				return err
			}
			res, err := orch.Run(cmd.Context())
			if err != nil {
				return err
			}
			if res.Failed > 0 {
				log.Warn().Int("failed", res.Failed).Msg("Some items could not be synchronized")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&policy, "policy", "p", config.PolicyAsk, MsgFlagPolicy)
	cmd.Flags().StringVarP(&message, "message", "m", "", MsgFlagMessage)
	cmd.Flags().BoolVar(&noRemote, "no-remote", false, MsgFlagNoRemote)
	cmd.Flags().StringVarP(&format, "format", "f", "auto", MsgFlagFormat)

	_ = cmd.RegisterFlagCompletionFunc("policy", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := []string{config.PolicyAsk}
		for _, p := range session.Policies {
			names = append(names, string(p))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return ui.FormatNames, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func newStatusCmd(g *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "status [items...]",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Example: MsgStatusExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ui.ParseFormat(format)
			if err != nil {
				return err
			}
			env, err := loadEnvironment(cmd, g, nil)
			if err != nil {
				return err
			}
			extra, err := itemsFromArgs(args)
			if err != nil {
				return err
			}

			reporter, err := ui.NewReporter(f, cmd.OutOrStdout(), MsgStatusTitle, false)
			if err != nil {
				return err
			}

			opts := env.sessionOptions(extra)
			opts.Reporter = reporter
			opts.DryRun = true

			orch, err := session.New(opts)
			if err != nil {
				return err
			}
			_, err = orch.Run(cmd.Context())
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", MsgFlagFormat)
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return ui.FormatNames, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newGenConfigCmd(g *globalFlags) *cobra.Command {
	var (
		format string
		write  bool
	)

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateConfig(config.Default(), format)
			if err != nil {
				return err
			}
			if !write {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			env, err := loadEnvironment(cmd, g, nil)
			if err != nil {
				return err
			}
			path := filepath.Join(env.roots.Repo, ".dotsync."+format)
			if _, err := os.Stat(path); err == nil {
				return errors.Newf(errors.ErrInvalidInput, "%s already exists", path).WithDetail("path", path)
			}
			if g.dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "Would write default configuration to %s\n", path)
				return nil
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return errors.Wrapf(err, errors.ErrInternal, "failed to write %s", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", MsgFlagGenFmt)
	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	return cmd
}

func newGuideCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "guide",
		Short:   MsgGuideShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), renderGuide(cmd))
			return err
		},
	}
}

// renderGuide renders the guide with glamour on terminals and returns the
// markdown source otherwise
func renderGuide(cmd *cobra.Command) string {
	if ui.DetectFormat(cmd.OutOrStdout()) != ui.FormatTerminal {
		return MsgGuide
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		return MsgGuide
	}
	rendered, err := renderer.Render(MsgGuide)
	if err != nil {
		return MsgGuide
	}
	return rendered
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
