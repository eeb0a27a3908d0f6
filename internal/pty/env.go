package pty

import "strings"

// TermType is the terminal type advertised to every child.
const TermType = "xterm"

// Environ returns a copy of base with TERM replaced by term.
func Environ(base []string, term string) []string {
	env := make([]string, 0, len(base)+1)
	for _, kv := range base {
		if strings.HasPrefix(kv, "TERM=") {
			continue
		}
		env = append(env, kv)
	}
	return append(env, "TERM="+term)
}
