package daemon

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/jmylchreest/tmux-knight/internal/appearance"
	"github.com/jmylchreest/tmux-knight/internal/themelink"
	"github.com/jmylchreest/tmux-knight/internal/tmux"
)

// PreferenceSource samples the desktop appearance preference.
type PreferenceSource interface {
	Sample(ctx context.Context) (appearance.Preference, error)
}

// ReloadConsumer picks up the active theme file.
type ReloadConsumer interface {
	Reload(ctx context.Context, path string) error
}

// Outcome describes how a cycle ended.
type Outcome int

const (
	// OutcomeConverged means the link already matched; nothing was touched.
	OutcomeConverged Outcome = iota
	// OutcomeRemoveFailed means the old link could not be removed.
	OutcomeRemoveFailed
	// OutcomeSwitched means the link was replaced and a reload was attempted.
	OutcomeSwitched
)

// String returns a short name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeConverged:
		return "converged"
	case OutcomeRemoveFailed:
		return "remove-failed"
	case OutcomeSwitched:
		return "switched"
	default:
		return "unknown"
	}
}

// Result is what a single cycle observed and did.
type Result struct {
	Preference appearance.Preference
	QueryErr   error
	Outcome    Outcome
	LinkErr    error // removal or creation failure
	ReloadErr  error
}

// Converger performs one poll -> compare -> converge step.
// It owns the link-creation warning limiter for the process lifetime.
type Converger struct {
	source   PreferenceSource
	reloader ReloadConsumer
	paths    themelink.Paths
	limiter  *WarnLimiter
	logger   *slog.Logger

	remove func(current string) error
	create func(target, current string) error
	now    func() time.Time
}

// NewConverger creates a Converger.
func NewConverger(source PreferenceSource, reloader ReloadConsumer, paths themelink.Paths, logger *slog.Logger) *Converger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converger{
		source:   source,
		reloader: reloader,
		paths:    paths,
		limiter:  NewWarnLimiter(WarnInterval),
		logger:   logger,
		remove:   themelink.Remove,
		create:   themelink.Create,
		now:      time.Now,
	}
}

// Paths returns the theme paths the converger works on.
func (c *Converger) Paths() themelink.Paths {
	return c.paths
}

// Cycle runs one convergence step.
func (c *Converger) Cycle(ctx context.Context) Result {
	pref, err := c.source.Sample(ctx)
	if err != nil {
		c.logger.Error("failed to get current theme", "error", err)
		pref = appearance.Light
	}

	result := c.converge(ctx, pref, c.paths.For(pref))
	result.QueryErr = err
	return result
}

// converge makes the active link point at target and reloads tmux.
func (c *Converger) converge(ctx context.Context, pref appearance.Preference, target string) Result {
	result := Result{Preference: pref}
	current := c.paths.Current

	if themelink.IsConverged(current, target) {
		result.Outcome = OutcomeConverged
		return result
	}

	if err := c.remove(current); err != nil {
		c.logger.Error("failed to unlink previous theme", "path", current, "error", err)
		result.Outcome = OutcomeRemoveFailed
		result.LinkErr = err
		return result
	}

	result.Outcome = OutcomeSwitched

	if err := c.create(target, current); err != nil {
		result.LinkErr = err
		if c.limiter.Allow(c.now()) {
			c.logger.Warn("failed to symlink to new theme", "theme", pref.String(), "target", target, "error", err)
		} else if last, ok := c.limiter.Last(); ok {
			c.logger.Debug("symlink warning suppressed", "theme", pref.String(), "last_warning", last, "error", err)
		}
	}

	result.ReloadErr = c.reloader.Reload(ctx, current)
	c.logReload(result.ReloadErr)

	if result.LinkErr == nil && result.ReloadErr == nil {
		c.logger.Debug("switched tmux theme", "theme", pref.String(), "target", target)
	}
	return result
}

// logReload reports a reload failure at the level matching its cause.
func (c *Converger) logReload(err error) {
	if err == nil {
		return
	}

	var (
		exitErr   *tmux.ExitError
		signalErr *tmux.SignalError
	)
	switch {
	case errors.As(err, &exitErr):
		c.logger.Warn("failed with exit code: "+strconv.Itoa(exitErr.Code), "exit_code", exitErr.Code)
	case errors.As(err, &signalErr):
		c.logger.Warn("process terminated due to signal", "signal", signalErr.Signal.String())
	default:
		c.logger.Error("failed to execute tmux", "error", err)
	}
}
