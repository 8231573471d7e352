package tmux

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTmux writes an executable shell script standing in for tmux.
func fakeTmux(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tmux")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func TestReloader_Args(t *testing.T) {
	r := NewReloader()
	assert.Equal(t, "tmux", r.Command)
	assert.Equal(t, []string{"source-file", "/themes/current.conf"}, r.Args("/themes/current.conf"))
}

func TestReloader_Success(t *testing.T) {
	record := filepath.Join(t.TempDir(), "args")
	r := &Reloader{Command: fakeTmux(t, `echo "$@" > `+record)}

	require.NoError(t, r.Reload(context.Background(), "/themes/current.conf"))

	data, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Equal(t, "source-file /themes/current.conf", strings.TrimSpace(string(data)))
}

func TestReloader_ExitCode(t *testing.T) {
	r := &Reloader{Command: fakeTmux(t, "exit 1")}

	err := r.Reload(context.Background(), "/themes/current.conf")
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
	assert.Contains(t, err.Error(), "1")
}

func TestReloader_Signal(t *testing.T) {
	r := &Reloader{Command: fakeTmux(t, "kill -TERM $$")}

	err := r.Reload(context.Background(), "/themes/current.conf")
	require.Error(t, err)

	var sigErr *SignalError
	require.True(t, errors.As(err, &sigErr))
	assert.Contains(t, err.Error(), "signal")
}

func TestReloader_LaunchFailure(t *testing.T) {
	r := &Reloader{Command: filepath.Join(t.TempDir(), "no-such-tmux")}

	err := r.Reload(context.Background(), "/themes/current.conf")
	require.Error(t, err)

	var launchErr *LaunchError
	require.True(t, errors.As(err, &launchErr))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
