package appearance

import (
	"fmt"
	"strings"
)

// Preference is the desktop's reported appearance setting.
type Preference int

const (
	Light Preference = iota
	Dark
)

// Recognized gsettings color-scheme values.
const (
	ValueDefault    = "default"
	ValuePreferDark = "prefer-dark"
)

// String returns the lower-case name of the preference.
func (p Preference) String() string {
	switch p {
	case Light:
		return "light"
	case Dark:
		return "dark"
	default:
		return fmt.Sprintf("preference(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Preference) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParsePreference maps a raw gsettings value to a Preference.
// Surrounding whitespace and a single layer of single quotes are stripped,
// and the comparison is case-insensitive.
func ParsePreference(raw string) (Preference, error) {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "'")
	value = strings.TrimSuffix(value, "'")
	value = strings.ToLower(value)

	switch value {
	case ValueDefault:
		return Light, nil
	case ValuePreferDark:
		return Dark, nil
	default:
		return Light, &QueryError{
			Message: fmt.Sprintf("unknown gsettings color-scheme value: %s", value),
		}
	}
}
