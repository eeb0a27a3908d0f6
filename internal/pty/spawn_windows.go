//go:build windows

package pty

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"

	"github.com/UserExistsError/conpty"
	"golang.org/x/sys/windows"
)

// etx is what a terminal sends for ctrl+c. ConPTY turns it into a
// CTRL_C_EVENT for the processes attached to the pseudo console.
const etx = 0x03

// emulatedPty is a ConPTY pseudo console. ConPTY creates the console and the
// child in one call, so allocation happens in Spawn and there is no follower.
type emulatedPty struct {
	size Size

	mu   sync.Mutex
	cpty *conpty.ConPty

	closeOnce sync.Once
	closeErr  error
}

func openPlatform(size Size) (Pty, error) {
	if !conpty.IsConPtyAvailable() {
		return nil, &ProvisioningError{Err: conpty.ErrConPtyUnsupported}
	}
	return &emulatedPty{size: size}, nil
}

func (p *emulatedPty) console() (*conpty.ConPty, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cpty == nil {
		return nil, io.ErrClosedPipe
	}
	return p.cpty, nil
}

func (p *emulatedPty) Read(b []byte) (int, error) {
	cpty, err := p.console()
	if err != nil {
		return 0, err
	}
	n, err := cpty.Read(b)
	if errors.Is(err, syscall.ERROR_BROKEN_PIPE) {
		return n, io.EOF
	}
	return n, err
}

func (p *emulatedPty) Write(b []byte) (int, error) {
	cpty, err := p.console()
	if err != nil {
		return 0, err
	}
	return cpty.Write(b)
}

// Spawn starts argv inside a new pseudo console. There is no process group to
// target, so Interrupt is best effort.
func (p *emulatedPty) Spawn(argv []string, env []string) (*Process, error) {
	if len(argv) == 0 {
		return nil, &SpawnError{Err: errors.New("empty command")}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cpty != nil {
		return nil, &SpawnError{Argv: argv, Err: errors.New("pseudo console already has a child")}
	}

	cpty, err := conpty.Start(
		windows.ComposeCommandLine(argv),
		conpty.ConPtyDimensions(int(p.size.Cols), int(p.size.Rows)),
		conpty.ConPtyEnv(env),
	)
	if err != nil {
		return nil, &SpawnError{Argv: argv, Err: err}
	}
	p.cpty = cpty

	pid := int(cpty.Pid())
	return NewProcess(pid,
		func() ExitCode {
			code, err := cpty.Wait(context.Background())
			if err != nil {
				return UnknownExitCode
			}
			return NewExitCode(int(code))
		},
		func() error {
			_, err := cpty.Write([]byte{etx})
			return err
		},
		func() error {
			proc, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("failed to find process %d: %w", pid, err)
			}
			return proc.Kill()
		},
	), nil
}

func (p *emulatedPty) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.cpty != nil {
			p.closeErr = p.cpty.Close()
		}
	})
	return p.closeErr
}
