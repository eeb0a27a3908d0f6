package pty

import "strconv"

// ExitCode is the exit status of a child process, which may not be known yet.
// The zero value is unknown, so "exited with 0" and "no status" never collide.
type ExitCode struct {
	code  int
	known bool
}

// UnknownExitCode is reported while the OS has not yet delivered a status.
var UnknownExitCode = ExitCode{}

// NewExitCode returns a known exit code.
func NewExitCode(code int) ExitCode {
	return ExitCode{code: code, known: true}
}

func (c ExitCode) Known() bool {
	return c.known
}

func (c ExitCode) Value() (int, bool) {
	return c.code, c.known
}

// Int returns the code, or -1 when it is unknown.
func (c ExitCode) Int() int {
	if !c.known {
		return -1
	}
	return c.code
}

func (c ExitCode) String() string {
	if !c.known {
		return "unknown"
	}
	return strconv.Itoa(c.code)
}
