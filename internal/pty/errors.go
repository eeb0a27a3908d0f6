package pty

import (
	"fmt"
	"strings"
)

// ProvisioningError is returned when a pseudo-terminal cannot be allocated or
// the invoking terminal's dimensions cannot be determined. No child exists yet.
type ProvisioningError struct {
	Err error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("pty provisioning failed: %v", e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

// SpawnError is returned when the command cannot be located or executed.
type SpawnError struct {
	Argv []string
	Err  error
}

func (e *SpawnError) Error() string {
	if len(e.Argv) == 0 {
		return fmt.Sprintf("spawn failed: %v", e.Err)
	}
	return fmt.Sprintf("spawn %q failed: %v", strings.Join(e.Argv, " "), e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
