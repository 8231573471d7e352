// Package appearance reads the desktop light/dark preference.
// The preference is sampled fresh on every call through gsettings;
// nothing is cached or persisted.
package appearance
