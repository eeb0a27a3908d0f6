package keyboard

import (
	"context"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// inputReader owns the only goroutine reading a file. Sources opened on the
// same file share it and pull events one at a time, so a key is never taken
// by a source that has already been closed.
type inputReader struct {
	in     *os.File
	events chan Event
	errs   chan error
}

var (
	readersMu sync.Mutex
	readers   = map[*os.File]*inputReader{}
)

// readerFor returns the running reader for in, starting one if needed.
func readerFor(in *os.File) *inputReader {
	readersMu.Lock()
	defer readersMu.Unlock()

	if r, ok := readers[in]; ok {
		return r
	}
	r := &inputReader{
		in:     in,
		events: make(chan Event),
		errs:   make(chan error, 1),
	}
	readers[in] = r
	go r.loop()
	return r
}

func (r *inputReader) loop() {
	buf := make([]byte, 256)
	for {
		n, err := r.in.Read(buf)
		for _, ev := range Decode(buf[:n]) {
			r.events <- ev
		}
		if err != nil {
			readersMu.Lock()
			delete(readers, r.in)
			readersMu.Unlock()
			r.errs <- err
			return
		}
	}
}

// TerminalSource reads key presses from a terminal held in raw mode, so that
// ctrl+c arrives as a key instead of a signal to this process. Input that is
// not a terminal is read as-is.
type TerminalSource struct {
	in       *os.File
	oldState *term.State
	reader   *inputReader

	closed    chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewTerminalSource puts in into raw mode when it is a terminal and attaches
// to the reader for in. Close restores the previous mode and detaches; a
// later source on the same file picks up where this one stopped.
func NewTerminalSource(in *os.File) (*TerminalSource, error) {
	s := &TerminalSource{
		in:     in,
		closed: make(chan struct{}),
	}

	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return nil, err
		}
		s.oldState = oldState
	}

	s.reader = readerFor(in)
	return s, nil
}

// Next returns the next key press. After Close it reports io.EOF without
// consuming input.
func (s *TerminalSource) Next(ctx context.Context) (Event, error) {
	select {
	case <-s.closed:
		return Event{}, io.EOF
	default:
	}
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}

	select {
	case ev := <-s.reader.events:
		return ev, nil
	case err := <-s.reader.errs:
		// Keep reporting the terminal error to later callers.
		s.reader.errs <- err
		return Event{}, err
	case <-s.closed:
		return Event{}, io.EOF
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

// Close restores the terminal mode and detaches from the reader. It does not
// close the underlying file.
func (s *TerminalSource) Close() error {
	s.closeOnce.Do(func() {
		close(s.closed)
		if s.oldState != nil {
			s.closeErr = term.Restore(int(s.in.Fd()), s.oldState)
		}
	})
	return s.closeErr
}
