package pty

import "sync"

// Process is a child started by Spawn. A background goroutine reaps it once;
// the exit code is unknown until that happens.
type Process struct {
	pid       int
	done      chan struct{}
	interrupt func() error
	kill      func() error

	mu   sync.Mutex
	exit ExitCode
}

// NewProcess wraps a started child. wait blocks until the child exits and
// reports its status; interrupt and kill deliver signals to it.
func NewProcess(pid int, wait func() ExitCode, interrupt, kill func() error) *Process {
	p := &Process{
		pid:       pid,
		done:      make(chan struct{}),
		interrupt: interrupt,
		kill:      kill,
	}
	go func() {
		code := wait()
		p.mu.Lock()
		p.exit = code
		p.mu.Unlock()
		close(p.done)
	}()
	return p
}

func (p *Process) Pid() int {
	return p.pid
}

// Done is closed once the child has been reaped.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Exited reports whether the child has been reaped, without blocking.
func (p *Process) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *Process) ExitCode() ExitCode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exit
}

// Interrupt sends the platform's interrupt to the child. On Unix the whole
// process group receives SIGINT.
func (p *Process) Interrupt() error {
	return p.interrupt()
}

// Kill forcibly terminates the child.
func (p *Process) Kill() error {
	return p.kill()
}
