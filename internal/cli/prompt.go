package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mwhsu/dataferry/internal/tui"
)

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user accepted the prompt.
	Accepted bool
	// Cancelled is true if reading input failed (e.g. Ctrl+C).
	Cancelled bool
}

// Confirm asks the user a yes/no question and reads one line of input.
// It returns immediately with Accepted=false in non-interactive (non-TTY)
// environments unless assumeTTY forces the prompt (used by tests).
//
// The prompt defaults to "No" when the user presses Enter without input.
// Valid inputs for acceptance: "y", "yes" in any case; anything else declines.
func Confirm(writer io.Writer, reader io.Reader, question string, assumeTTY bool) PromptResult {
	if !assumeTTY && !tui.IsTTY() {
		return PromptResult{Accepted: false}
	}

	fmt.Fprintf(writer, "? %s [y/N] ", question)

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		if scanner.Err() != nil {
			return PromptResult{Cancelled: true}
		}
		// EOF without error, the user pressed Ctrl+D.
		return PromptResult{Accepted: false}
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{Accepted: false}
	}
}
