//go:build windows

package pty

import "os"

// ShellCommand returns the argv that runs script through %COMSPEC%.
func ShellCommand(script string) ([]string, error) {
	shell := os.Getenv("COMSPEC")
	if shell == "" {
		shell = "cmd.exe"
	}
	return []string{shell, "/C", script}, nil
}
