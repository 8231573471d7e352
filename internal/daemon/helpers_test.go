package daemon

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/tmux-knight/internal/appearance"
	"github.com/jmylchreest/tmux-knight/internal/themelink"
)

// logRecorder is a slog.Handler that keeps every record in memory.
type logRecorder struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *logRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (h *logRecorder) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *logRecorder) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *logRecorder) WithGroup(string) slog.Handler      { return h }

// at returns the messages logged at exactly level.
func (h *logRecorder) at(level slog.Level) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var msgs []string
	for _, r := range h.records {
		if r.Level != level {
			continue
		}
		msg := r.Message
		r.Attrs(func(a slog.Attr) bool {
			msg += " " + a.Key + "=" + a.Value.String()
			return true
		})
		msgs = append(msgs, msg)
	}
	return msgs
}

// count returns how many records at level contain substr.
func (h *logRecorder) count(level slog.Level, substr string) int {
	n := 0
	for _, msg := range h.at(level) {
		if strings.Contains(msg, substr) {
			n++
		}
	}
	return n
}

func newTestLogger() (*slog.Logger, *logRecorder) {
	rec := &logRecorder{}
	return slog.New(rec), rec
}

// stubSource returns a fixed preference.
type stubSource struct {
	mu    sync.Mutex
	pref  appearance.Preference
	err   error
	calls int
}

func (s *stubSource) Sample(context.Context) (appearance.Preference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.pref, s.err
}

func (s *stubSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// stubReloader records every reload request.
type stubReloader struct {
	mu    sync.Mutex
	err   error
	paths []string
}

func (r *stubReloader) Reload(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return r.err
}

func (r *stubReloader) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

// setupThemes creates a themes directory with light.conf and dark.conf.
func setupThemes(t *testing.T) themelink.Paths {
	t.Helper()
	p := themelink.NewPaths(t.TempDir())
	require.NoError(t, os.WriteFile(p.Light, []byte("set -g status-style bg=white\n"), 0644))
	require.NoError(t, os.WriteFile(p.Dark, []byte("set -g status-style bg=black\n"), 0644))
	return p
}

// writeScript writes an executable shell script into a temp dir.
func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}
