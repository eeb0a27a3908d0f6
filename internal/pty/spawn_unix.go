//go:build !windows

package pty

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"

	ptylib "github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// nativePty is a controller/follower pair allocated by the kernel.
type nativePty struct {
	ptmx *os.File
	tty  *os.File

	mu        sync.Mutex
	ttyClosed bool

	closeOnce sync.Once
	closeErr  error
}

func openPlatform(size Size) (Pty, error) {
	ptmx, tty, err := ptylib.Open()
	if err != nil {
		return nil, &ProvisioningError{Err: fmt.Errorf("failed to open pty: %w", err)}
	}

	if err := ptylib.Setsize(ptmx, &ptylib.Winsize{Rows: size.Rows, Cols: size.Cols}); err != nil {
		tty.Close()
		ptmx.Close()
		return nil, &ProvisioningError{Err: fmt.Errorf("failed to size pty: %w", err)}
	}

	return &nativePty{ptmx: ptmx, tty: tty}, nil
}

func (p *nativePty) Read(b []byte) (int, error)  { return p.ptmx.Read(b) }
func (p *nativePty) Write(b []byte) (int, error) { return p.ptmx.Write(b) }

// Spawn starts argv in a new session whose controlling terminal is the
// follower, so an interrupt can target the child's whole process group.
func (p *nativePty) Spawn(argv []string, env []string) (*Process, error) {
	if len(argv) == 0 {
		return nil, &SpawnError{Err: errors.New("empty command")}
	}

	p.mu.Lock()
	if p.ttyClosed {
		p.mu.Unlock()
		return nil, &SpawnError{Argv: argv, Err: errors.New("pty follower already released")}
	}
	tty := p.tty
	p.mu.Unlock()

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = env
	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
	}

	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Argv: argv, Err: err}
	}

	// The child holds its own copy; keeping ours would hide end-of-output.
	p.closeFollower()

	pid := cmd.Process.Pid
	return NewProcess(pid,
		func() ExitCode { return waitExitCode(cmd) },
		func() error { return unix.Kill(-pid, unix.SIGINT) },
		func() error { return unix.Kill(-pid, unix.SIGKILL) },
	), nil
}

func (p *nativePty) closeFollower() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ttyClosed {
		return nil
	}
	p.ttyClosed = true
	return p.tty.Close()
}

func (p *nativePty) Close() error {
	p.closeOnce.Do(func() {
		ttyErr := p.closeFollower()
		p.closeErr = errors.Join(p.ptmx.Close(), ttyErr)
	})
	return p.closeErr
}

// waitExitCode reaps cmd. Termination by a signal maps to 128+signal.
func waitExitCode(cmd *exec.Cmd) ExitCode {
	err := cmd.Wait()
	if err == nil {
		return NewExitCode(0)
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return UnknownExitCode
	}
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok {
		return NewExitCode(exitErr.ExitCode())
	}
	if status.Signaled() {
		return NewExitCode(128 + int(status.Signal()))
	}
	return NewExitCode(status.ExitStatus())
}
