package platform

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTerminal returns true if w is a file attached to a terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
