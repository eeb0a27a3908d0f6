package session

import (
	"go.uber.org/zap"
)

// close moves the session to StateClosing exactly once. It releases the
// terminal, captures the exit code, closes the transcript and kills a child
// that outlived the session. Failures are logged and never returned.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.setState(StateClosing)
		s.log.Debug("cleaning up session")

		if s.pty != nil {
			if err := s.pty.Close(); err != nil {
				s.log.WithError(err).Warn("failed to close pty")
			}
		}

		if s.proc != nil {
			s.exitCode = s.proc.ExitCode()
		}

		if s.transcript != nil {
			if err := s.transcript.Close(); err != nil {
				s.log.WithError(err).Warn("failed to close transcript",
					zap.String("path", s.transcript.Name()))
			}
		}

		if s.proc != nil && !s.proc.Exited() {
			s.log.Warn("child still running after session end, killing it",
				zap.Int("pid", s.proc.Pid()))
			if err := s.proc.Kill(); err != nil {
				s.log.WithError(err).Error("failed to kill child", zap.Int("pid", s.proc.Pid()))
			}
		}

		s.log.Debug("session cleaned up", zap.Stringer("exit_code", s.exitCode))
	})
}
