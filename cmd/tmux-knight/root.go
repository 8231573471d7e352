package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tmux-knight/internal/config"
	"github.com/jmylchreest/tmux-knight/internal/daemon"
	"github.com/jmylchreest/tmux-knight/internal/portal"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// logEnvVar selects the log level when --verbose is not given.
const logEnvVar = "TMUX_KNIGHT_LOG"

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tmux-knight",
	Short: "Follow the desktop light/dark preference in tmux",
	Long: `tmux-knight watches the desktop appearance preference reported by
gsettings (org.gnome.desktop.interface color-scheme) and keeps
~/.config/tmux/themes/current.conf linked to light.conf or dark.conf,
asking tmux to source the link whenever it changes.

Running tmux-knight without a subcommand starts the daemon.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.Load(globalOpts.configPath)
		if err != nil {
			return err
		}
		return nil
	},
	RunE: runDaemon,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportFailure(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/tmux-knight/config.toml)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := parseLevel(os.Getenv(logEnvVar))
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// parseLevel maps a level name to a slog level; unknown names mean info.
func parseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// runDaemon polls until SIGINT or SIGTERM.
func runDaemon(cmd *cobra.Command, args []string) error {
	logger.Info("starting tmux-knight", "version", version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d := daemon.New(cfg, logger)

	if cfg.Watch.Config {
		if watcher := startConfigWatcher(ctx, d); watcher != nil {
			defer watcher.Stop()
		}
	}

	if cfg.Watch.Portal {
		monitor := portal.NewMonitor(logger)
		monitor.SetChangeHandler(func(portal.ColorScheme) { d.Wake() })
		if err := monitor.Start(); err != nil {
			logger.Warn("portal monitor unavailable, polling only", "error", err)
		} else {
			defer func() {
				if err := monitor.Stop(); err != nil {
					logger.Warn("error stopping portal monitor", "error", err)
				}
			}()
		}
	}

	if err := d.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	logger.Info("tmux-knight stopped")
	return nil
}

// startConfigWatcher hot-reloads the config file into d.
// It returns nil when the file cannot be watched.
func startConfigWatcher(ctx context.Context, d *daemon.Daemon) *daemon.ConfigWatcher {
	path := globalOpts.configPath
	if path == "" {
		var err error
		if path, err = config.ConfigPath(); err != nil {
			logger.Warn("config hot-reload disabled", "error", err)
			return nil
		}
	}

	watcher := daemon.NewConfigWatcher(path, logger)
	watcher.SetReloadCallback(d.UpdateConfig)
	watcher.SetErrorCallback(func(err error) {
		logger.Error("rejected config change, keeping previous configuration", "path", path, "error", err)
	})
	if err := watcher.Start(ctx); err != nil {
		logger.Debug("config hot-reload disabled", "path", path, "error", err)
		return nil
	}
	return watcher
}
