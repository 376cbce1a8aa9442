package render

import (
	"os"

	"golang.org/x/term"
)

// DefaultWidth is used when the terminal size cannot be determined, such as
// when output is piped.
const DefaultWidth = 80

// WidthFunc reports the current terminal width. Injectable so the renderer
// is testable without a real terminal.
type WidthFunc func() (width int, ok bool)

// TerminalWidth queries the width of the terminal attached to stdout.
func TerminalWidth() (int, bool) {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 0, false
	}
	return w, true
}

// FixedWidth returns a WidthFunc that always reports w. Used by tests and by
// the watch TUI, which learns its size from window events instead.
func FixedWidth(w int) WidthFunc {
	return func() (int, bool) { return w, true }
}
