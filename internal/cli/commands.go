package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/arthur-debert/endfix/internal/version"
	"github.com/arthur-debert/endfix/pkg/core"
	"github.com/arthur-debert/endfix/pkg/errors"
	"github.com/arthur-debert/endfix/pkg/host"
	"github.com/arthur-debert/endfix/pkg/ui"
	"github.com/arthur-debert/endfix/pkg/ui/display"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// coreOptions maps a session onto a startup pass
func (s *session) coreOptions(dryRun bool) core.Options {
	return core.Options{
		FS:      s.fs,
		Config:  s.cfg,
		GameDir: s.gameDir,
		DryRun:  dryRun,
	}
}

// reportError turns a finished report into the command's exit status
func reportError(report *core.Report) error {
	if report.Error != "" {
		return errors.Newf(errors.ErrInternal, MsgErrPassAborted, report.Error)
	}
	if report.Failed > 0 {
		return errors.Newf(errors.ErrRepairIO, MsgErrFailedWorlds, report.Failed)
	}
	return nil
}

func newScanCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "scan",
		Short:   MsgScanShort,
		Long:    MsgScanLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			renderer, err := ui.NewRenderer(s.format, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			report := core.Run(s.coreOptions(true))
			if err := renderer.RenderResult(report); err != nil {
				return err
			}
			return reportError(report)
		},
	}
}

func newFixCmd(opts *globalOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "fix",
		Short:   MsgFixShort,
		Long:    MsgFixLong,
		Example: MsgFixExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			renderer, err := ui.NewRenderer(s.format, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			log.Info().Str("gameDir", s.gameDir).Bool("dryRun", dryRun).Msg("Starting fix")
			report := core.Run(s.coreOptions(dryRun))
			if err := renderer.RenderResult(report); err != nil {
				return err
			}
			return reportError(report)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	return cmd
}

func newRunCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "run",
		Short:   MsgRunShort,
		Long:    MsgRunLong,
		Example: MsgRunExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			// stdout carries dispatched commands, so the report goes to stderr
			renderer, err := ui.NewRenderer(s.format, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := core.Serve(ctx, s.coreOptions(false), cmd.InOrStdin(), cmd.OutOrStdout())
			if report != nil {
				if rerr := renderer.RenderResult(report); rerr != nil {
					return rerr
				}
			}
			if err != nil {
				return err
			}
			return reportError(report)
		},
	}
}

func newActivateCmd(opts *globalOptions) *cobra.Command {
	var world string

	cmd := &cobra.Command{
		Use:     "activate <dimension>",
		Short:   MsgActivateShort,
		Long:    MsgActivateLong,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			renderer, err := ui.NewRenderer(s.format, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			worldDir := world
			if worldDir != "" && !filepath.IsAbs(worldDir) {
				worldDir = filepath.Join(s.gameDir, worldDir)
			}

			fired, err := core.Activate(commandContext(cmd), s.coreOptions(false), worldDir, host.DimensionID(args[0]), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if worldDir == "" {
				worldDir = core.DefaultWorld(s.coreOptions(false))
			}
			return renderer.RenderResult(&display.Activation{
				WorldDir:  worldDir,
				Dimension: args[0],
				Fired:     fired,
			})
		},
	}
	cmd.Flags().StringVar(&world, "world", "", MsgFlagWorld)
	_ = cmd.MarkFlagDirname("world")
	return cmd
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			out, err := s.cfg.TOML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
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
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
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

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
