// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	appName = "tmux-knight"

	// DefaultInterval is the time between two preference samples.
	DefaultInterval = 1500 * time.Millisecond

	// DefaultCommandTimeout bounds each gsettings and tmux invocation.
	DefaultCommandTimeout = 5 * time.Second
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "1.5s", "3s", "500ms", or a quoted integer of milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '1500ms', '3s' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the configuration for tmux-knight.
// Loaded from ~/.config/tmux-knight/config.toml
type Config struct {
	Interval  Duration        `toml:"interval"`   // Time between polls
	ThemesDir string          `toml:"themes_dir"` // Empty = <config>/tmux/themes
	GSettings GSettingsConfig `toml:"gsettings"`
	Tmux      TmuxConfig      `toml:"tmux"`
	Watch     WatchConfig     `toml:"watch"`
}

// GSettingsConfig describes how the desktop preference is queried.
type GSettingsConfig struct {
	Command string   `toml:"command"`
	Schema  string   `toml:"schema"`
	Key     string   `toml:"key"`
	Timeout Duration `toml:"timeout"` // 0 = no timeout
}

// TmuxConfig describes how tmux is asked to reload.
type TmuxConfig struct {
	Command string   `toml:"command"`
	Timeout Duration `toml:"timeout"` // 0 = no timeout
}

// WatchConfig toggles the optional wake-up sources.
type WatchConfig struct {
	Config bool `toml:"config"` // Reload this file when it changes
	Portal bool `toml:"portal"` // Poll immediately on xdg-desktop-portal SettingChanged
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Interval: Duration(DefaultInterval),
		GSettings: GSettingsConfig{
			Command: "gsettings",
			Schema:  "org.gnome.desktop.interface",
			Key:     "color-scheme",
			Timeout: Duration(DefaultCommandTimeout),
		},
		Tmux: TmuxConfig{
			Command: "tmux",
			Timeout: Duration(DefaultCommandTimeout),
		},
		Watch: WatchConfig{
			Config: true,
			Portal: false,
		},
	}
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", &StartupError{Message: "failed to get configuration directory", Err: err}
	}
	return filepath.Join(configDir, appName, "config.toml"), nil
}

// DefaultThemesDir returns <config>/tmux/themes.
func DefaultThemesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", &StartupError{Message: "failed to get configuration directory", Err: err}
	}
	return filepath.Join(configDir, "tmux", "themes"), nil
}

// Load loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns the default config if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, cfg.resolve()
		}
		return nil, &StartupError{Message: "failed to read config file", Err: err}
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &StartupError{Message: "failed to parse config file", Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &StartupError{Message: "invalid configuration", Err: err}
	}

	return cfg, cfg.resolve()
}

// resolve fills in ThemesDir, expands ~ in it and makes it absolute.
// Symlink targets are relative to the link's directory, so a relative
// themes directory would produce links that never resolve.
func (c *Config) resolve() error {
	if c.ThemesDir == "" {
		dir, err := DefaultThemesDir()
		if err != nil {
			return err
		}
		c.ThemesDir = dir
		return nil
	}
	dir, err := filepath.Abs(expandPath(c.ThemesDir))
	if err != nil {
		return &StartupError{Message: "failed to resolve themes directory", Err: err}
	}
	c.ThemesDir = dir
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Interval.Duration() <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval.Duration())
	}
	if strings.TrimSpace(c.GSettings.Command) == "" {
		return errors.New("gsettings.command must not be empty")
	}
	if c.GSettings.Schema == "" || c.GSettings.Key == "" {
		return errors.New("gsettings.schema and gsettings.key must not be empty")
	}
	if strings.TrimSpace(c.Tmux.Command) == "" {
		return errors.New("tmux.command must not be empty")
	}
	if c.GSettings.Timeout.Duration() < 0 || c.Tmux.Timeout.Duration() < 0 {
		return errors.New("timeouts must not be negative")
	}
	return nil
}

// Marshal renders the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// StartupError is an unrecoverable error raised before the poll loop starts.
type StartupError struct {
	Message string
	Err     error
}

func (e *StartupError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *StartupError) Unwrap() error {
	return e.Err
}
