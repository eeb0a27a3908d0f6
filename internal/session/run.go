package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PiranhaCodes/ptyrun/internal/keyboard"
	"github.com/PiranhaCodes/ptyrun/internal/logger"
	"github.com/PiranhaCodes/ptyrun/internal/pty"
)

const (
	DefaultExpectedRuntime = 30 * time.Second
	DefaultSettleTimeout   = 2 * time.Second
)

// ErrNoCommand is wrapped in a SpawnError when Options.Command is empty.
var ErrNoCommand = errors.New("no command given")

// Options configures Run. Only Command is required.
type Options struct {
	Command []string

	// ExpectedRuntime is logged but not enforced.
	ExpectedRuntime time.Duration

	// Size of the pseudo-terminal. Nil uses the size of the invoking terminal.
	Size *pty.Size

	// Keys supplies key events. Nil runs the command without keyboard input.
	Keys keyboard.Source

	// Encoding decides how forwarded keys become bytes. Defaults to control.
	Encoding keyboard.Encoding

	// Display receives output as it is captured.
	Display io.Writer

	// Env is the child's base environment, os.Environ() when nil. TERM is
	// always overridden.
	Env []string

	// SettleTimeout bounds how long output is drained and the child awaited
	// after the loop ends. Zero means DefaultSettleTimeout.
	SettleTimeout time.Duration

	// TranscriptDir, when set, receives a <session id>.log copy of the output.
	TranscriptDir string

	Logger *logger.Logger

	// OpenPty allocates the terminal. Defaults to pty.Open.
	OpenPty func(pty.Size) (pty.Pty, error)
}

func (o *Options) setDefaults() {
	if o.ExpectedRuntime <= 0 {
		o.ExpectedRuntime = DefaultExpectedRuntime
	}
	if o.Encoding == "" {
		o.Encoding = keyboard.EncodingControl
	}
	if o.Env == nil {
		o.Env = os.Environ()
	}
	if o.SettleTimeout <= 0 {
		o.SettleTimeout = DefaultSettleTimeout
	}
	if o.Logger == nil {
		o.Logger = logger.Default()
	}
	if o.OpenPty == nil {
		o.OpenPty = pty.Open
	}
}

// Run executes one session and returns what it captured. Provisioning and
// spawn failures are returned as *pty.ProvisioningError and *pty.SpawnError;
// anything that goes wrong after the child starts ends the session normally.
// The terminal is released on every path.
func Run(opts Options) (*Result, error) {
	opts.setDefaults()

	id := uuid.New().String()
	log := opts.Logger.WithSessionID(id)

	if len(opts.Command) == 0 {
		return nil, &pty.SpawnError{Err: ErrNoCommand}
	}

	log.Info("starting session",
		zap.Strings("command", opts.Command),
		zap.Duration("expected_runtime", opts.ExpectedRuntime))

	var size pty.Size
	if opts.Size != nil {
		size = *opts.Size
	} else {
		var err error
		if size, err = pty.TerminalSize(os.Stdout, os.Stdin); err != nil {
			return nil, err
		}
	}

	p, err := opts.OpenPty(size)
	if err != nil {
		var provErr *pty.ProvisioningError
		if !errors.As(err, &provErr) {
			err = &pty.ProvisioningError{Err: err}
		}
		return nil, err
	}

	s := &Session{
		ID:       id,
		pty:      p,
		keys:     opts.Keys,
		encoding: opts.Encoding,
		display:  opts.Display,
		settle:   opts.SettleTimeout,
		log:      log,
	}
	defer s.close()

	if opts.TranscriptDir != "" {
		if s.transcript, err = openTranscript(opts.TranscriptDir, id); err != nil {
			return nil, err
		}
	}

	proc, err := p.Spawn(opts.Command, pty.Environ(opts.Env, pty.TermType))
	if err != nil {
		var spawnErr *pty.SpawnError
		if !errors.As(err, &spawnErr) {
			err = &pty.SpawnError{Argv: opts.Command, Err: err}
		}
		log.WithError(err).Debug("spawn failed")
		return nil, err
	}
	s.proc = proc
	log.Info("spawned child", zap.Int("pid", proc.Pid()))

	s.loop()
	s.close()

	res := s.result()
	log.Info("session finished",
		zap.Stringer("exit_code", res.ExitCode),
		zap.Int("output_bytes", len(res.Output)))
	return res, nil
}

// RunCommand runs cmd interactively on the invoking terminal: keys come from
// stdin, output is shown on stdout. expectedRuntimeSeconds is advisory; zero
// means the default of 30.
func RunCommand(cmd []string, expectedRuntimeSeconds int) ([]byte, int, error) {
	res, err := RunInteractive(Options{
		Command:         cmd,
		ExpectedRuntime: time.Duration(expectedRuntimeSeconds) * time.Second,
	})
	if err != nil {
		return nil, -1, err
	}
	return res.Output, res.Code(), nil
}

// RunInteractive is Run with keys read from stdin, held in raw mode for the
// life of the session, and output shown on stdout.
func RunInteractive(opts Options) (*Result, error) {
	keys, err := keyboard.NewTerminalSource(os.Stdin)
	if err != nil {
		return nil, &pty.ProvisioningError{Err: fmt.Errorf("failed to prepare keyboard: %w", err)}
	}
	defer keys.Close()

	opts.Keys = keys
	if opts.Display == nil {
		opts.Display = os.Stdout
	}
	return Run(opts)
}

func openTranscript(dir, id string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create transcript directory: %w", err)
	}
	path := filepath.Join(dir, id+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	return f, nil
}
