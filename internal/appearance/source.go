package appearance

import (
	"context"
	"os/exec"
	"time"
	"unicode/utf8"
)

// Source queries gsettings for the color-scheme preference.
type Source struct {
	Command string
	Schema  string
	Key     string

	// Timeout bounds a single query. Zero disables it.
	Timeout time.Duration
}

// NewSource creates a Source using the standard GNOME interface schema.
func NewSource() *Source {
	return &Source{
		Command: "gsettings",
		Schema:  "org.gnome.desktop.interface",
		Key:     "color-scheme",
	}
}

// Args returns the argument list passed to the gsettings command.
func (s *Source) Args() []string {
	return []string{"get", s.Schema, s.Key}
}

// Sample runs the query once and parses its output.
// All failures are reported as *QueryError.
func (s *Source) Sample(ctx context.Context) (Preference, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, s.Command, s.Args()...)
	output, err := cmd.Output()
	if err != nil {
		return Light, &QueryError{
			Message: "failed to execute " + s.Command,
			Err:     err,
		}
	}

	if !utf8.Valid(output) {
		return Light, &QueryError{
			Message: "expected " + s.Command + " output to be valid UTF-8",
		}
	}

	return ParsePreference(string(output))
}

// QueryError is returned when the preference could not be determined.
type QueryError struct {
	Message string
	Err     error
}

func (e *QueryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
