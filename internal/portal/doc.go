// Package portal listens for appearance changes announced by
// xdg-desktop-portal on the session bus.
//
// The signal is only used as a hint to poll early; the preference itself is
// still read through gsettings.
package portal
