package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tmux-knight/internal/daemon"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a single convergence cycle and exit",
	Long: `Sample the desktop preference once, fix current.conf if it points at the
wrong theme and reload tmux. Exits non-zero if the link could not be
updated or tmux could not be reloaded.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := daemon.New(cfg, logger).Converger().Cycle(ctx)

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", result.Preference, result.Outcome)

	return errors.Join(result.LinkErr, result.ReloadErr)
}
