// Package session runs one command on a pseudo-terminal: it relays key events
// to the child, captures every byte the terminal produces, treats ctrl+c as an
// interrupt for the child, and returns the captured output with the exit code.
//
// The control loop never blocks on a single source. Key events and terminal
// output are read by two goroutines and delivered over channels to one select
// loop, which alone writes to the terminal and to the output buffer.
package session
