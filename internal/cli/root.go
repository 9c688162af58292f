// Package cli builds the endfix command tree.
package cli

import (
	"fmt"

	"github.com/arthur-debert/endfix/internal/version"
	"github.com/arthur-debert/endfix/pkg/config"
	"github.com/arthur-debert/endfix/pkg/filesystem"
	"github.com/arthur-debert/endfix/pkg/logging"
	"github.com/arthur-debert/endfix/pkg/paths"
	"github.com/arthur-debert/endfix/pkg/types"
	"github.com/arthur-debert/endfix/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions hold the persistent flags
type globalOptions struct {
	verbosity  int
	configFile string
	gameDir    string
	format     string
}

// session is what a command needs once flags are resolved
type session struct {
	fs      types.FS
	cfg     *config.Config
	gameDir string
	format  ui.Format
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "endfix",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&opts.gameDir, "game-dir", "", MsgFlagGameDir)
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "auto", MsgFlagFormat)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "term", "text", "json", "yaml", "toml"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.MarkPersistentFlagDirname("game-dir")

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newScanCmd(opts))
	rootCmd.AddCommand(newFixCmd(opts))
	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newActivateCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// open resolves the game directory and loads the configuration. A
// --game-dir flag wins over game.dir from any config layer.
func (o *globalOptions) open() (*session, error) {
	format, err := ui.ParseFormat(o.format)
	if err != nil {
		return nil, err
	}

	gameDir, err := paths.GameDir(o.gameDir)
	if err != nil {
		return nil, err
	}

	overrides := map[string]interface{}{}
	if o.gameDir != "" {
		overrides["game.dir"] = gameDir
	}
	cfg, err := config.Load(config.Options{
		GameDir:    gameDir,
		ConfigFile: o.configFile,
		Overrides:  overrides,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Game.Dir != "" && o.gameDir == "" {
		if gameDir, err = paths.GameDir(cfg.Game.Dir); err != nil {
			return nil, err
		}
	}
	cfg.Game.Dir = gameDir

	log.Debug().Str("gameDir", gameDir).Str("format", format.String()).Msg("Session resolved")
	return &session{
		fs:      filesystem.NewOS(),
		cfg:     cfg,
		gameDir: gameDir,
		format:  format,
	}, nil
}
