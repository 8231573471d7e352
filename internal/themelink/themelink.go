// Package themelink manages the symlink that selects the active tmux theme.
package themelink

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/jmylchreest/tmux-knight/internal/appearance"
)

// File names inside the themes directory.
const (
	LightFile   = "light.conf"
	DarkFile    = "dark.conf"
	CurrentFile = "current.conf"
)

// Paths holds the three files tmux-knight works with.
// Light and Dark are authored externally; Current is the link this
// program owns.
type Paths struct {
	Dir     string
	Light   string
	Dark    string
	Current string
}

// NewPaths returns the theme paths inside dir. A relative dir is made
// absolute against the working directory so link targets resolve.
func NewPaths(dir string) Paths {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return Paths{
		Dir:     dir,
		Light:   filepath.Join(dir, LightFile),
		Dark:    filepath.Join(dir, DarkFile),
		Current: filepath.Join(dir, CurrentFile),
	}
}

// For returns the theme file matching the preference.
func (p Paths) For(pref appearance.Preference) string {
	if pref == appearance.Dark {
		return p.Dark
	}
	return p.Light
}

// canonical resolves every symlink in path and makes it absolute.
func canonical(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

// IsConverged reports whether current already resolves to target.
// A path that cannot be resolved (absent or dangling link) is never
// converged.
func IsConverged(current, target string) bool {
	linked, err := canonical(current)
	if err != nil {
		return false
	}
	want, err := canonical(target)
	if err != nil {
		return false
	}
	return linked == want
}

// ErrIsDirectory is wrapped by a RemovalError when current is a directory.
var ErrIsDirectory = errors.New("path is a directory")

// Remove deletes the link at current. A missing link is not an error;
// a directory is never removed.
func Remove(current string) error {
	info, err := os.Lstat(current)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err == nil && info.IsDir() {
		return &RemovalError{Path: current, Err: ErrIsDirectory}
	}

	err = os.Remove(current)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return &RemovalError{Path: current, Err: err}
}

// Create points a new symlink at current to target.
func Create(target, current string) error {
	if err := os.Symlink(target, current); err != nil {
		return &CreationError{Path: current, Target: target, Err: err}
	}
	return nil
}

// State describes the link as found on disk.
type State struct {
	Exists   bool      `json:"exists" yaml:"exists"`
	IsLink   bool      `json:"is_link" yaml:"is_link"`
	Target   string    `json:"target,omitempty" yaml:"target,omitempty"`     // raw link contents
	Resolved string    `json:"resolved,omitempty" yaml:"resolved,omitempty"` // canonical path, empty if dangling
	Theme    string    `json:"theme" yaml:"theme"`                           // "light", "dark" or "unknown"
	ModTime  time.Time `json:"mod_time,omitempty" yaml:"mod_time,omitempty"`
}

// Inspect reports the state of the link at p.Current.
func Inspect(p Paths) State {
	state := State{Theme: "unknown"}

	info, err := os.Lstat(p.Current)
	if err != nil {
		return state
	}
	state.Exists = true
	state.ModTime = info.ModTime()
	state.IsLink = info.Mode()&os.ModeSymlink != 0

	if state.IsLink {
		if target, err := os.Readlink(p.Current); err == nil {
			state.Target = target
		}
	}
	if resolved, err := canonical(p.Current); err == nil {
		state.Resolved = resolved
	}

	switch {
	case IsConverged(p.Current, p.Light):
		state.Theme = appearance.Light.String()
	case IsConverged(p.Current, p.Dark):
		state.Theme = appearance.Dark.String()
	}
	return state
}

// RemovalError is returned when the existing link cannot be removed.
type RemovalError struct {
	Path string
	Err  error
}

func (e *RemovalError) Error() string {
	return "failed to unlink previous theme " + e.Path + ": " + e.Err.Error()
}

func (e *RemovalError) Unwrap() error {
	return e.Err
}

// CreationError is returned when the new link cannot be created.
type CreationError struct {
	Path   string
	Target string
	Err    error
}

func (e *CreationError) Error() string {
	return "failed to symlink " + e.Path + " to " + e.Target + ": " + e.Err.Error()
}

func (e *CreationError) Unwrap() error {
	return e.Err
}
