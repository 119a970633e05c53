package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/appengine-ltd/steelball/internal/config"
	"github.com/appengine-ltd/steelball/internal/logger"
	"github.com/appengine-ltd/steelball/internal/ui"
)

// version, commit, date are injected at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type globalFlags struct {
	configPath string
	seed       int64
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "steelball",
		Short:         "Roll the steel ball onto the hidden platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to config file (default: ./steelball.yaml or the user config dir)")
	rootCmd.PersistentFlags().Int64Var(&flags.seed, "seed", 0, "RNG seed; 0 picks one from the clock")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play in a 3D window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(flags, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runPlay(ctx, cfg)
		},
	}

	termCmd := &cobra.Command{
		Use:   "term",
		Short: "Play in the terminal with a top-down map",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(flags, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			rules, err := cfg.Rules()
			if err != nil {
				return err
			}
			// The terminal owns stdout and stderr while the program runs.
			out, closeLog := terminalLogWriter(cfg)
			defer func() {
				logger.Log.SetOutput(os.Stderr)
				_ = closeLog()
			}()
			logger.Log.SetOutput(out)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return ui.NewApp(ui.AppConfig{Version: version, Rules: rules}).Run(ctx)
		},
	}

	var force bool
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				p, err := config.DefaultPath()
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	configCmd.AddCommand(initCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Steel Ball %s (%s) %s\n", version, commit, date)
		},
	}

	rootCmd.AddCommand(playCmd, termCmd, configCmd, versionCmd)
	rootCmd.SetContext(context.Background())
	return rootCmd
}

// setup loads config, applies command-line overrides and configures logging.
func setup(flags *globalFlags, changed func(name string) bool) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("config load: %w", err)
	}
	if changed("seed") {
		cfg.Seed = flags.seed
	}
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger.For("cli").WithField("seed", cfg.Seed).Debug("config loaded")
	return cfg, nil
}
