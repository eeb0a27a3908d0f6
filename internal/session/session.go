package session

import (
	"bytes"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/PiranhaCodes/ptyrun/internal/keyboard"
	"github.com/PiranhaCodes/ptyrun/internal/logger"
	"github.com/PiranhaCodes/ptyrun/internal/pty"
)

// State is a position in the session's control loop.
type State int

const (
	StateRunning State = iota
	StateChildExited
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateChildExited:
		return "child_exited"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// readChunkSize is the most output taken from the terminal per read.
const readChunkSize = 1024

// Session is one command attached to one pseudo-terminal.
type Session struct {
	ID string

	pty        pty.Pty
	proc       *pty.Process
	keys       keyboard.Source
	encoding   keyboard.Encoding
	display    io.Writer
	transcript *os.File
	settle     time.Duration
	log        *logger.Logger

	// Only the control loop touches state and output.
	state  State
	output bytes.Buffer

	closeOnce sync.Once
	exitCode  pty.ExitCode
}

func (s *Session) setState(next State) {
	if s.state == next {
		return
	}
	s.log.Debug("session state change",
		zap.Stringer("from", s.state),
		zap.Stringer("to", next))
	s.state = next
}

// record appends chunk to the output and mirrors it to the live display and
// the transcript. Display and transcript failures never end the session.
func (s *Session) record(chunk []byte) {
	s.output.Write(chunk)

	if s.display != nil {
		if _, err := s.display.Write(chunk); err != nil {
			s.log.WithError(err).Debug("display write failed")
		}
	}
	if s.transcript != nil {
		if _, err := s.transcript.Write(chunk); err != nil {
			s.log.WithError(err).Warn("transcript write failed")
		}
	}
}
