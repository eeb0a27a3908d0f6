package pty

import (
	"errors"
	"io"
	"os"

	"golang.org/x/term"
)

// Size is a terminal size in character cells.
type Size struct {
	Cols uint16
	Rows uint16
}

// Pty is the parent's side of a pseudo-terminal. Exactly one goroutine reads
// from it and one writes to it at a time.
type Pty interface {
	// Read reads output produced by the child.
	io.Reader

	// Write sends input to the child.
	io.Writer

	// Spawn starts argv attached to the terminal with the given environment.
	Spawn(argv []string, env []string) (*Process, error)

	// Close releases the terminal. It is safe to call more than once.
	Close() error
}

// Open allocates a pseudo-terminal of the given size using the platform's
// strategy: a native pair on Unix, ConPTY on Windows.
func Open(size Size) (Pty, error) {
	if size.Cols == 0 || size.Rows == 0 {
		return nil, &ProvisioningError{Err: errors.New("terminal size must be non-zero")}
	}
	return openPlatform(size)
}

// TerminalSize returns the dimensions of the first file that is a terminal.
func TerminalSize(files ...*os.File) (Size, error) {
	for _, f := range files {
		if f == nil || !term.IsTerminal(int(f.Fd())) {
			continue
		}
		cols, rows, err := term.GetSize(int(f.Fd()))
		if err != nil {
			return Size{}, &ProvisioningError{Err: err}
		}
		return Size{Cols: uint16(cols), Rows: uint16(rows)}, nil
	}
	return Size{}, &ProvisioningError{Err: errors.New("not attached to a terminal")}
}
