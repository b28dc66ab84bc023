package installer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmer is the single-question confirmation capability the writer uses
// before overwriting conflicting files. Injected so tests and
// non-interactive runs can substitute a policy for the terminal.
type Confirmer interface {
	// Confirm asks one yes/no question. Only an affirmative answer
	// returns true.
	Confirm(prompt string) (bool, error)
}

// TerminalConfirmer reads one line from In and treats "y"/"yes"
// (case-insensitive) as affirmative, anything else as refusal.
type TerminalConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (t *TerminalConfirmer) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(t.Out, "? %s (y/N) ", prompt)

	scanner := bufio.NewScanner(t.In)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, fmt.Errorf("reading confirmation: %w", err)
		}
		return false, nil
	}

	answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return answer == "y" || answer == "yes", nil
}

// AutoApprove answers yes to every confirmation. Used for --yes runs.
type AutoApprove struct{}

func (AutoApprove) Confirm(string) (bool, error) { return true, nil }
