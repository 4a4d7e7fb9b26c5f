package console

import (
	"io"
	"os"

	"golang.org/x/term"
)

const defaultWidth = 80

// fder is implemented by *os.File.
type fder interface {
	Fd() uintptr
}

// IsTerminal reports whether v is attached to a TTY.
func IsTerminal(v any) bool {
	f, ok := v.(fder)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd())) //nolint:gosec // File descriptors fit in int.
}

// IsInteractive reports whether both stdin and stdout are terminals,
// which is what prompting and progress rendering need.
func IsInteractive() bool {
	return IsTerminal(os.Stdin) && IsTerminal(os.Stdout)
}

// Width returns the column count of w, or 80 when it is not a terminal.
func Width(w io.Writer) int {
	f, ok := w.(fder)
	if !ok {
		return defaultWidth
	}

	width, _, err := term.GetSize(int(f.Fd())) //nolint:gosec // File descriptors fit in int.
	if err != nil || width <= 0 {
		return defaultWidth
	}

	return width
}
