package session

import "github.com/PiranhaCodes/ptyrun/internal/pty"

// Result is what a finished session produced.
type Result struct {
	SessionID string

	// Output holds every byte read from the terminal, in order.
	Output []byte

	// ExitCode is unknown when the child had not been reaped at cleanup.
	ExitCode pty.ExitCode
}

// Code returns the exit code, or -1 when it is unknown.
func (r *Result) Code() int {
	return r.ExitCode.Int()
}

// result assembles the Result after cleanup. The output is copied so the
// caller's slice never aliases the session's buffer.
func (s *Session) result() *Result {
	out := make([]byte, s.output.Len())
	copy(out, s.output.Bytes())
	return &Result{SessionID: s.ID, Output: out, ExitCode: s.exitCode}
}
