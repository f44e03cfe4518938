package tui

import (
	"os"

	"github.com/mattn/go-isatty"
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// IsTTY returns true if we can use a TTY for interactive TUI
func IsTTY() bool {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return false
	}
	// Also try to open /dev/tty to verify it's actually available
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// Interactive reports whether prompts may be shown: a TTY is available and
// DEPSTACK_NO_INTERACTIVE is unset.
func Interactive() bool {
	return os.Getenv("DEPSTACK_NO_INTERACTIVE") == "" && IsTTY()
}
