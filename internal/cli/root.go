package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/mixtape/internal/config"
	mixerrors "github.com/tessro/mixtape/internal/errors"
	"github.com/tessro/mixtape/internal/logger"
)

var (
	cfgFile  string
	jsonOut  bool
	verbose  bool
	userFlag string

	cfg *config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "mixtape",
	Short: "Browse and play mixes from the terminal",
	Long: `mixtape is a terminal client for a mix sharing service.

Browse the public feed, look at a profile's uploaded and liked mixes, and
play them through one persistent player that also answers your media keys.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(!skipsValidation(cmd)); err != nil {
			return err
		}
		return initLogger(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.mixtaperc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "profile to use (overrides catalog.user)")
}

// skipsValidation reports whether cmd can run with an incomplete config,
// so 'config init' works before a catalog is set up.
func skipsValidation(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == configCmd || c == versionCmd {
			return true
		}
	}
	return false
}

func initConfig(validate bool) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return mixerrors.WithSuggestion(
			fmt.Errorf("%w: %w", mixerrors.ErrInvalidConfig, err),
			"Check the file with 'mixtape config path' or recreate it with 'mixtape config init'")
	}
	if userFlag != "" {
		cfg.Catalog.User = userFlag
	}

	if !validate {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", mixerrors.ErrInvalidConfig, err)
	}
	return nil
}

// initLogger builds the process logger. The dashboard owns the terminal, so
// it never logs to stderr.
func initLogger(cmd *cobra.Command) error {
	l, err := logger.New(cfg.Log, verbose && cmd.Name() != uiCmd.Name())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log = l.With(zap.String("session", uuid.NewString()), zap.String("command", cmd.Name()))
	return nil
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, mixerrors.Format(err))
		stop()
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
