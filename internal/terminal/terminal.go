// Package terminal provides small helpers for interactive prompts.
package terminal

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Width returns the width of stdout, or 80 when it is not a terminal.
func Width() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// LinesUsed returns how many terminal rows text occupies at the given width.
// Every newline-separated segment takes at least one row.
func LinesUsed(text string, width int) int {
	if width <= 0 {
		width = 80
	}
	n := 0
	for _, seg := range strings.Split(text, "\n") {
		l := len([]rune(seg))
		rows := (l + width - 1) / width
		if rows < 1 {
			rows = 1
		}
		n += rows
	}
	return n
}

// ClearPreviousLines erases text that was printed (or typed) above the cursor.
// The cursor is assumed to sit on the empty line after the text, as it does
// once the user has pressed Enter.
func ClearPreviousLines(text string) {
	linesToClear := LinesUsed(text, Width()) + 1
	for i := 0; i < linesToClear; i++ {
		fmt.Print("\r\x1b[2K")
		if i < linesToClear-1 {
			fmt.Print("\x1b[1A")
		}
	}
}
