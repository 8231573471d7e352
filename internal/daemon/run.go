package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmylchreest/tmux-knight/internal/appearance"
	"github.com/jmylchreest/tmux-knight/internal/config"
	"github.com/jmylchreest/tmux-knight/internal/themelink"
	"github.com/jmylchreest/tmux-knight/internal/tmux"
)

// Daemon runs the converger on a fixed cadence until its context ends.
//
// Only the goroutine calling Run touches the converger. Wake and
// UpdateConfig may be called from any goroutine; they hand their input to
// the loop through channels that are drained between cycles.
type Daemon struct {
	logger    *slog.Logger
	converger *Converger
	interval  time.Duration

	wakeCh   chan struct{}
	configCh chan *config.Config

	now func() time.Time
}

// New creates a Daemon from the configuration.
func New(cfg *config.Config, logger *slog.Logger) *Daemon {
	if logger == nil {
		logger = slog.Default()
	}
	source, reloader, paths := Components(cfg)
	return NewWithConverger(NewConverger(source, reloader, paths, logger), cfg.Interval.Duration(), logger)
}

// NewWithConverger creates a Daemon around an existing converger.
func NewWithConverger(c *Converger, interval time.Duration, logger *slog.Logger) *Daemon {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = config.DefaultInterval
	}
	return &Daemon{
		logger:    logger,
		converger: c,
		interval:  interval,
		wakeCh:    make(chan struct{}, 1),
		configCh:  make(chan *config.Config, 1),
		now:       time.Now,
	}
}

// Components builds the external collaborators described by cfg.
func Components(cfg *config.Config) (*appearance.Source, *tmux.Reloader, themelink.Paths) {
	source := &appearance.Source{
		Command: cfg.GSettings.Command,
		Schema:  cfg.GSettings.Schema,
		Key:     cfg.GSettings.Key,
		Timeout: cfg.GSettings.Timeout.Duration(),
	}
	reloader := &tmux.Reloader{
		Command: cfg.Tmux.Command,
		Timeout: cfg.Tmux.Timeout.Duration(),
	}
	return source, reloader, themelink.NewPaths(cfg.ThemesDir)
}

// Converger returns the converger driven by the daemon.
func (d *Daemon) Converger() *Converger {
	return d.converger
}

// Interval returns the current poll interval.
func (d *Daemon) Interval() time.Duration {
	return d.interval
}

// Wake makes the loop start its next cycle without waiting for the deadline.
func (d *Daemon) Wake() {
	select {
	case d.wakeCh <- struct{}{}:
	default:
	}
}

// UpdateConfig queues cfg to be applied before the next cycle.
// Only the most recent pending config is kept.
func (d *Daemon) UpdateConfig(cfg *config.Config) {
	for {
		select {
		case d.configCh <- cfg:
			d.Wake()
			return
		default:
		}
		select {
		case <-d.configCh:
		default:
		}
	}
}

// Run polls until ctx is cancelled and returns ctx.Err().
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info("watching desktop appearance",
		"themes", d.converger.paths.Dir,
		"interval", d.interval)

	for {
		d.applyPendingConfig()

		deadline := d.now().Add(d.interval)
		d.converger.Cycle(ctx)

		if err := d.waitUntil(ctx, deadline); err != nil {
			return err
		}
	}
}

// waitUntil blocks until deadline, a wake-up, or ctx cancellation.
// A deadline already in the past returns immediately; missed ticks are not
// made up.
func (d *Daemon) waitUntil(ctx context.Context, deadline time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	delay := deadline.Sub(d.now())
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-d.wakeCh:
		return nil
	case <-timer.C:
		return nil
	}
}

// applyPendingConfig swaps in a queued config, keeping the warning limiter.
func (d *Daemon) applyPendingConfig() {
	var cfg *config.Config
	select {
	case cfg = <-d.configCh:
	default:
		return
	}

	source, reloader, paths := Components(cfg)
	d.converger.source = source
	d.converger.reloader = reloader
	d.converger.paths = paths
	d.interval = cfg.Interval.Duration()

	d.logger.Info("applied new configuration", "themes", paths.Dir, "interval", d.interval)
}
