// Package tmux asks a running tmux server to re-source a configuration file.
package tmux

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// Reloader runs `tmux source-file <path>`.
type Reloader struct {
	Command string

	// Timeout bounds a single invocation. Zero disables it.
	Timeout time.Duration
}

// NewReloader creates a Reloader using the tmux binary on PATH.
func NewReloader() *Reloader {
	return &Reloader{Command: "tmux"}
}

// Args returns the argument list used to reload path.
func (r *Reloader) Args(path string) []string {
	return []string{"source-file", path}
}

// Reload sources path into the running tmux server.
// It returns nil on exit status 0, *ExitError on a non-zero status,
// *SignalError when tmux was killed by a signal and *LaunchError when
// the command could not be started at all.
func (r *Reloader) Reload(ctx context.Context, path string) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.Command, r.Args(path)...)
	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return &LaunchError{Command: r.Command, Err: err}
	}

	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return &SignalError{Signal: status.Signal()}
	}
	if code := exitErr.ExitCode(); code >= 0 {
		return &ExitError{Code: code}
	}
	return &SignalError{}
}

// ExitError reports a non-zero exit status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("failed with exit code: %d", e.Code)
}

// SignalError reports that tmux was terminated by a signal.
type SignalError struct {
	Signal syscall.Signal
}

func (e *SignalError) Error() string {
	if e.Signal == 0 {
		return "process terminated due to signal"
	}
	return "process terminated due to signal: " + e.Signal.String()
}

// LaunchError reports that the command could not be started.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return "failed to execute " + e.Command + ": " + e.Err.Error()
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}
