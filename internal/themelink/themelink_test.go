package themelink

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/tmux-knight/internal/appearance"
)

// setupThemes creates a themes directory with light.conf and dark.conf.
func setupThemes(t *testing.T) Paths {
	t.Helper()
	p := NewPaths(t.TempDir())
	require.NoError(t, os.WriteFile(p.Light, []byte("set -g status-style bg=white\n"), 0644))
	require.NoError(t, os.WriteFile(p.Dark, []byte("set -g status-style bg=black\n"), 0644))
	return p
}

func TestNewPaths(t *testing.T) {
	p := NewPaths("/home/user/.config/tmux/themes")
	assert.Equal(t, "/home/user/.config/tmux/themes/light.conf", p.Light)
	assert.Equal(t, "/home/user/.config/tmux/themes/dark.conf", p.Dark)
	assert.Equal(t, "/home/user/.config/tmux/themes/current.conf", p.Current)
	assert.Equal(t, p.Light, p.For(appearance.Light))
	assert.Equal(t, p.Dark, p.For(appearance.Dark))
}

func TestNewPaths_RelativeDir(t *testing.T) {
	work := t.TempDir()
	t.Chdir(work)

	p := NewPaths("themes")
	assert.Equal(t, filepath.Join(work, "themes"), p.Dir)
	assert.Equal(t, filepath.Join(work, "themes", DarkFile), p.Dark)
	assert.Equal(t, filepath.Join(work, "themes", CurrentFile), p.Current)
}

func TestIsConverged(t *testing.T) {
	p := setupThemes(t)

	// Absent link
	assert.False(t, IsConverged(p.Current, p.Dark))

	// Absolute link to the right theme
	require.NoError(t, os.Symlink(p.Dark, p.Current))
	assert.True(t, IsConverged(p.Current, p.Dark))
	assert.False(t, IsConverged(p.Current, p.Light))
}

func TestIsConverged_RelativeLink(t *testing.T) {
	p := setupThemes(t)

	require.NoError(t, os.Symlink(LightFile, p.Current))
	assert.True(t, IsConverged(p.Current, p.Light))
}

func TestIsConverged_ChainedLink(t *testing.T) {
	p := setupThemes(t)

	alias := filepath.Join(p.Dir, "dark-alias.conf")
	require.NoError(t, os.Symlink(p.Dark, alias))
	require.NoError(t, os.Symlink(alias, p.Current))
	assert.True(t, IsConverged(p.Current, p.Dark))
}

func TestIsConverged_Dangling(t *testing.T) {
	p := setupThemes(t)

	require.NoError(t, os.Symlink(filepath.Join(p.Dir, "gone.conf"), p.Current))
	assert.False(t, IsConverged(p.Current, p.Light))
	assert.False(t, IsConverged(p.Current, p.Dark))
}

func TestIsConverged_MissingTarget(t *testing.T) {
	p := NewPaths(t.TempDir())

	require.NoError(t, os.Symlink(p.Dark, p.Current))
	assert.False(t, IsConverged(p.Current, p.Dark))
}

func TestRemove(t *testing.T) {
	p := setupThemes(t)

	require.NoError(t, os.Symlink(p.Light, p.Current))
	require.NoError(t, Remove(p.Current))

	_, err := os.Lstat(p.Current)
	assert.True(t, os.IsNotExist(err))

	// Theme file itself is untouched
	_, err = os.Stat(p.Light)
	assert.NoError(t, err)
}

func TestRemove_Absent(t *testing.T) {
	p := setupThemes(t)
	assert.NoError(t, Remove(p.Current))
}

func TestRemove_Directory(t *testing.T) {
	p := setupThemes(t)
	require.NoError(t, os.Mkdir(p.Current, 0755))

	err := Remove(p.Current)
	require.Error(t, err)

	var removalErr *RemovalError
	require.True(t, errors.As(err, &removalErr))
	assert.ErrorIs(t, err, ErrIsDirectory)
	assert.Equal(t, p.Current, removalErr.Path)
}

func TestCreate(t *testing.T) {
	p := setupThemes(t)

	require.NoError(t, Create(p.Dark, p.Current))

	target, err := os.Readlink(p.Current)
	require.NoError(t, err)
	assert.Equal(t, p.Dark, target)
}

func TestCreate_AlreadyExists(t *testing.T) {
	p := setupThemes(t)
	require.NoError(t, os.Symlink(p.Light, p.Current))

	err := Create(p.Dark, p.Current)
	require.Error(t, err)

	var creationErr *CreationError
	require.True(t, errors.As(err, &creationErr))
	assert.Equal(t, p.Dark, creationErr.Target)
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestInspect(t *testing.T) {
	p := setupThemes(t)

	state := Inspect(p)
	assert.False(t, state.Exists)
	assert.Equal(t, "unknown", state.Theme)

	require.NoError(t, os.Symlink(p.Dark, p.Current))
	state = Inspect(p)
	assert.True(t, state.Exists)
	assert.True(t, state.IsLink)
	assert.Equal(t, p.Dark, state.Target)
	assert.Equal(t, "dark", state.Theme)
	assert.NotEmpty(t, state.Resolved)
	assert.False(t, state.ModTime.IsZero())
}

func TestInspect_Dangling(t *testing.T) {
	p := setupThemes(t)
	require.NoError(t, os.Symlink("nowhere.conf", p.Current))

	state := Inspect(p)
	assert.True(t, state.Exists)
	assert.True(t, state.IsLink)
	assert.Equal(t, "nowhere.conf", state.Target)
	assert.Empty(t, state.Resolved)
	assert.Equal(t, "unknown", state.Theme)
}
