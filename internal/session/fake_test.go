package session

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/PiranhaCodes/ptyrun/internal/pty"
)

// fakePty is an in-memory terminal whose "child" is driven by the test.
type fakePty struct {
	outR *io.PipeReader
	outW *io.PipeWriter
	exit chan pty.ExitCode

	spawnErr error
	closeErr error
	writeErr error
	killErr  error

	// exitOnInterrupt makes Interrupt end the child with 130.
	exitOnInterrupt bool

	mu         sync.Mutex
	written    bytes.Buffer
	argv       []string
	env        []string
	closes     int
	interrupts int
	kills      int
}

func newFakePty() *fakePty {
	r, w := io.Pipe()
	return &fakePty{outR: r, outW: w, exit: make(chan pty.ExitCode, 1)}
}

func (f *fakePty) open(pty.Size) (pty.Pty, error) {
	return f, nil
}

func (f *fakePty) Read(b []byte) (int, error) {
	return f.outR.Read(b)
}

func (f *fakePty) Write(b []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return f.written.Write(b)
}

func (f *fakePty) Spawn(argv []string, env []string) (*pty.Process, error) {
	if f.spawnErr != nil {
		return nil, f.spawnErr
	}
	f.mu.Lock()
	f.argv = argv
	f.env = env
	f.mu.Unlock()

	return pty.NewProcess(4242,
		func() pty.ExitCode { return <-f.exit },
		func() error {
			f.mu.Lock()
			f.interrupts++
			f.mu.Unlock()
			if f.exitOnInterrupt {
				f.finish(130)
			}
			return nil
		},
		func() error {
			f.mu.Lock()
			f.kills++
			f.mu.Unlock()
			return f.killErr
		},
	), nil
}

func (f *fakePty) Close() error {
	f.mu.Lock()
	f.closes++
	f.mu.Unlock()
	f.outR.CloseWithError(io.ErrClosedPipe)
	return f.closeErr
}

// emit writes child output, blocking until the session has read it.
func (f *fakePty) emit(s string) {
	_, _ = f.outW.Write([]byte(s))
}

// finish closes the child's output and reports its exit.
func (f *fakePty) finish(code int) {
	f.outW.Close()
	select {
	case f.exit <- pty.NewExitCode(code):
	default:
	}
}

func (f *fakePty) Written() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written.String()
}

// waitWritten blocks until the session has forwarded want.
func (f *fakePty) waitWritten(want string) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f.Written() == want {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func (f *fakePty) counts() (closes, interrupts, kills int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes, f.interrupts, f.kills
}
