// Package pty provides pseudo-terminal provisioning and child process spawning
// for a single interactive command: a native controller/follower pair on Unix,
// an emulated ConPTY object on Windows, process-group signaling, exit code
// collection and shell detection.
package pty
