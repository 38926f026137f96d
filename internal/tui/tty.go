// Package tui holds the terminal affordances of the dataferry CLI: TTY
// detection, the live progress display for chunked pushes, and the styled
// summary box printed after a sync.
package tui

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether stdout is an interactive terminal. Prompts and the
// progress display are suppressed when it is not.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
