package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/PiranhaCodes/ptyrun/internal/config"
	"github.com/PiranhaCodes/ptyrun/internal/keyboard"
	"github.com/PiranhaCodes/ptyrun/internal/logger"
	"github.com/PiranhaCodes/ptyrun/internal/pty"
	"github.com/PiranhaCodes/ptyrun/internal/session"
)

const (
	exitUsage = 1
	exitFatal = 125
)

// options is the parsed command line.
type options struct {
	configPath    string
	shell         string
	runtime       int
	keys          string
	transcriptDir string
	command       []string
}

// expandPath resolves a leading "~" or "~/" against the home directory.
// "~user" forms are left alone.
func expandPath(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~")
	if !ok || (rest != "" && rest[0] != '/' && rest[0] != filepath.Separator) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, rest), nil
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("ptyrun", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "~/.ptyrun/config.yml", "Path to configuration file")
	fs.StringVar(&opts.shell, "shell", "", "Run this script through the detected shell instead of a command")
	fs.IntVar(&opts.runtime, "runtime", 0, "Expected runtime in seconds (advisory)")
	fs.StringVar(&opts.keys, "keys", "", "Key encoding: control or literal")
	fs.StringVar(&opts.transcriptDir, "transcript-dir", "", "Directory to write session transcripts to")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: ptyrun [flags] command [args...]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.command = fs.Args()

	if opts.shell != "" {
		if len(opts.command) > 0 {
			return nil, errors.New("-shell cannot be combined with a command")
		}
		argv, err := pty.ShellCommand(opts.shell)
		if err != nil {
			return nil, err
		}
		opts.command = argv
	}

	if len(opts.command) == 0 {
		fs.Usage()
		return nil, session.ErrNoCommand
	}
	return opts, nil
}

// sessionOptions merges the command line over the loaded configuration.
func sessionOptions(opts *options, cfg *config.Config, log *logger.Logger) (session.Options, error) {
	encName := cfg.Session.KeyEncoding
	if opts.keys != "" {
		encName = opts.keys
	}
	enc, err := keyboard.ParseEncoding(encName)
	if err != nil {
		return session.Options{}, err
	}

	runtime := cfg.Session.ExpectedRuntimeDuration()
	if opts.runtime > 0 {
		runtime = time.Duration(opts.runtime) * time.Second
	}

	transcriptDir := cfg.Session.TranscriptDir
	if opts.transcriptDir != "" {
		transcriptDir = opts.transcriptDir
	}
	if transcriptDir, err = expandPath(transcriptDir); err != nil {
		return session.Options{}, err
	}

	return session.Options{
		Command:         opts.command,
		ExpectedRuntime: runtime,
		Encoding:        enc,
		SettleTimeout:   cfg.Session.SettleTimeout(),
		TranscriptDir:   transcriptDir,
		Logger:          log,
	}, nil
}

// exitStatus maps a session's exit code to a process exit status. An unknown
// code becomes 255.
func exitStatus(res *session.Result) int {
	code, ok := res.ExitCode.Value()
	if !ok {
		return 255
	}
	return code & 0xff
}

func run(args []string, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if !errors.Is(err, session.ErrNoCommand) {
			fmt.Fprintf(stderr, "ptyrun: %v\n", err)
		}
		return exitUsage
	}

	cfgPath, err := expandPath(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "ptyrun: failed to expand config path: %v\n", err)
		return exitFatal
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "ptyrun: %v\n", err)
		return exitFatal
	}

	log, err := logger.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "ptyrun: failed to create logger: %v\n", err)
		return exitFatal
	}
	defer func() { _ = log.Sync() }()

	sessOpts, err := sessionOptions(opts, cfg, log)
	if err != nil {
		fmt.Fprintf(stderr, "ptyrun: %v\n", err)
		return exitFatal
	}

	log.Debug("loaded configuration", zap.String("config", cfgPath))

	res, err := session.RunInteractive(sessOpts)
	if err != nil {
		log.WithError(err).Error("session failed", zap.Strings("command", opts.command))
		fmt.Fprintf(stderr, "ptyrun: %v\n", err)
		return exitFatal
	}
	return exitStatus(res)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}
