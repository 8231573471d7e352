package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/tmux-knight/internal/appearance"
	"github.com/jmylchreest/tmux-knight/internal/config"
	"github.com/jmylchreest/tmux-knight/internal/daemon"
	"github.com/jmylchreest/tmux-knight/internal/themelink"
)

var statusOpts struct {
	format string
}

// Status is a snapshot of the preference and the active theme link.
type Status struct {
	Preference string          `json:"preference" yaml:"preference"`
	QueryError string          `json:"query_error,omitempty" yaml:"query_error,omitempty"`
	Converged  bool            `json:"converged" yaml:"converged"`
	ThemesDir  string          `json:"themes_dir" yaml:"themes_dir"`
	LightFound bool            `json:"light_found" yaml:"light_found"`
	DarkFound  bool            `json:"dark_found" yaml:"dark_found"`
	Link       themelink.State `json:"link" yaml:"link"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the desktop preference and the active tmux theme",
	Long: `Query the desktop preference once and report which theme
current.conf points at, without changing anything.

Formats:
  text  human-readable summary (default)
  json  single JSON object
  yaml  YAML document`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusOpts.format, "format", "f", "text",
		"Output format: text, json, yaml")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status := collectStatus(ctx, cfg)
	return writeStatus(cmd.OutOrStdout(), status, statusOpts.format)
}

// collectStatus samples the preference and inspects the link.
func collectStatus(ctx context.Context, cfg *config.Config) Status {
	source, _, paths := daemon.Components(cfg)

	status := Status{ThemesDir: paths.Dir}

	pref, err := source.Sample(ctx)
	if err != nil {
		status.QueryError = err.Error()
		pref = appearance.Light
	}
	status.Preference = pref.String()
	status.Converged = themelink.IsConverged(paths.Current, paths.For(pref))
	status.LightFound = fileExists(paths.Light)
	status.DarkFound = fileExists(paths.Dark)
	status.Link = themelink.Inspect(paths)

	return status
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writeStatus renders status in the requested format.
func writeStatus(w io.Writer, status Status, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(status)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(status)
	case "text", "":
		return writeStatusText(w, status)
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func writeStatusText(w io.Writer, status Status) error {
	r := lipgloss.NewRenderer(w)
	labelStyle := r.NewStyle().Bold(true)
	okStyle := r.NewStyle().Foreground(lipgloss.Color("2"))
	badStyle := r.NewStyle().Foreground(lipgloss.Color("1"))

	line := func(label, value string) {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-11s", label+":")), value)
	}

	pref := status.Preference
	if status.QueryError != "" {
		pref += badStyle.Render(" (fallback: " + status.QueryError + ")")
	}
	line("Preference", pref)

	switch {
	case !status.Link.Exists:
		line("Link", badStyle.Render("missing"))
	case !status.Link.IsLink:
		line("Link", badStyle.Render("not a symlink"))
	default:
		link := status.Link.Theme + " -> " + status.Link.Target
		if !status.Link.ModTime.IsZero() {
			link += " (updated " + humanize.Time(status.Link.ModTime) + ")"
		}
		line("Link", link)
	}

	if status.Converged {
		line("State", okStyle.Render("in sync"))
	} else {
		line("State", badStyle.Render("out of sync"))
	}

	line("Themes", status.ThemesDir)
	if !status.LightFound {
		line("Warning", badStyle.Render(themelink.LightFile+" not found"))
	}
	if !status.DarkFound {
		line("Warning", badStyle.Render(themelink.DarkFile+" not found"))
	}
	return nil
}
