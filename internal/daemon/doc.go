// Package daemon provides the main orchestration for tmux-knight.
// It runs the poll loop that samples the desktop preference, converges
// the active theme link and asks tmux to reload, and it coordinates the
// optional configuration hot-reload and wake-up hints.
package daemon
