package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// reportFailure prints a heading and every error in err's chain.
// Colour support is detected on w, not on stdout.
func reportFailure(w io.Writer, err error) {
	r := lipgloss.NewRenderer(w)
	failureStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	causeStyle := r.NewStyle().Bold(true)

	fmt.Fprintln(w, failureStyle.Render("tmux-knight failed"))
	for _, cause := range causeChain(err) {
		fmt.Fprintf(w, "  %s %s\n", causeStyle.Render("Cause:"), cause)
	}
}

// causeChain returns the message of each error in the unwrap chain, with the
// text contributed by the wrapped error removed from its wrapper.
func causeChain(err error) []string {
	var causes []string
	for err != nil {
		msg := err.Error()
		next := errors.Unwrap(err)
		if next != nil {
			msg = strings.TrimSuffix(msg, ": "+next.Error())
		}
		causes = append(causes, msg)
		err = next
	}
	return causes
}
