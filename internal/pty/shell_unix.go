//go:build !windows

package pty

import (
	"errors"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// ErrNoShell is returned by DetectShell when no usable shell exists.
var ErrNoShell = errors.New("no usable shell")

// shellCandidates back up $SHELL, most capable first.
var shellCandidates = []string{"/bin/bash", "/bin/zsh", "/bin/sh"}

// DetectShell picks $SHELL when it can be run, else the first shellCandidate
// that can. A bare name in $SHELL is resolved through PATH.
func DetectShell() (string, error) {
	if shell, ok := runnable(os.Getenv("SHELL")); ok {
		return shell, nil
	}
	for _, candidate := range shellCandidates {
		if shell, ok := runnable(candidate); ok {
			return shell, nil
		}
	}
	return "", ErrNoShell
}

func runnable(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return path, unix.Access(path, unix.X_OK) == nil
}

// ShellCommand returns the argv that runs script through the detected shell.
func ShellCommand(script string) ([]string, error) {
	shell, err := DetectShell()
	if err != nil {
		return nil, err
	}
	return []string{shell, "-c", script}, nil
}
