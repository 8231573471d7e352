// Command tmux-knight keeps the tmux theme in step with the desktop
// light/dark preference.
package main

func main() {
	Execute()
}
