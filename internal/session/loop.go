package session

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/PiranhaCodes/ptyrun/internal/keyboard"
)

// loop runs the control loop until the child is gone, then lets remaining
// output drain. It returns in StateChildExited.
func (s *Session) loop() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	keys := s.watchKeys(ctx)
	chunks, readErr := s.watchOutput(ctx)

	s.setState(StateRunning)
	for s.state == StateRunning {
		if s.proc.Exited() {
			s.setState(StateChildExited)
			break
		}

		select {
		case <-s.proc.Done():
			// Picked up by the poll at the top of the loop.

		case ev, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			s.handleKey(ev)

		case chunk := <-chunks:
			s.record(chunk)

		case err := <-readErr:
			readErr = nil
			s.log.Debug("pty read ended", zap.Error(err))
			s.setState(StateChildExited)
		}
	}

	s.drain(chunks, readErr)
}

// handleKey interrupts the child on ctrl+c and forwards every other press.
func (s *Session) handleKey(ev keyboard.Event) {
	if ev.Kind != keyboard.KindPress {
		return
	}

	if ev.IsInterrupt() {
		s.log.Info("interrupting child", zap.Int("pid", s.proc.Pid()))
		if err := s.proc.Interrupt(); err != nil {
			s.log.WithError(err).Warn("failed to interrupt child")
		}
		s.setState(StateChildExited)
		return
	}

	if _, err := s.pty.Write(keyboard.Encode(ev.Name, s.encoding)); err != nil {
		s.log.WithError(err).Debug("pty write failed, ending session")
		s.setState(StateChildExited)
	}
}

// drain keeps recording output and waits for the child to be reaped, until
// both have finished or the settle timeout passes.
func (s *Session) drain(chunks <-chan []byte, readErr <-chan error) {
	timer := time.NewTimer(s.settle)
	defer timer.Stop()

	done := s.proc.Done()
	for readErr != nil || done != nil {
		select {
		case chunk := <-chunks:
			s.record(chunk)
		case <-readErr:
			readErr = nil
		case <-done:
			done = nil
		case <-timer.C:
			s.log.Debug("settle timeout reached",
				zap.Bool("output_open", readErr != nil),
				zap.Bool("child_running", done != nil))
			return
		}
	}
}

// watchKeys pulls events from the key source until it ends or ctx is done.
// A nil source yields a nil channel, which never delivers.
func (s *Session) watchKeys(ctx context.Context) <-chan keyboard.Event {
	if s.keys == nil {
		return nil
	}

	events := make(chan keyboard.Event)
	go func() {
		defer close(events)
		for {
			ev, err := s.keys.Next(ctx)
			if err != nil {
				if !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
					s.log.WithError(err).Warn("key source failed")
				}
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events
}

// watchOutput reads the terminal in readChunkSize pieces. Every chunk is
// delivered before the read error that ends the stream.
func (s *Session) watchOutput(ctx context.Context) (<-chan []byte, <-chan error) {
	chunks := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		buf := make([]byte, readChunkSize)
		for {
			n, err := s.pty.Read(buf)
			if n > 0 {
				data := make([]byte, n)
				copy(data, buf[:n])
				select {
				case chunks <- data:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	return chunks, readErr
}
