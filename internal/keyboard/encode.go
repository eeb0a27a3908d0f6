package keyboard

import (
	"fmt"
	"strings"
)

// Encoding selects how a key name becomes bytes for the child.
type Encoding string

const (
	// EncodingControl writes the bytes a terminal would send for the key.
	EncodingControl Encoding = "control"
	// EncodingLiteral writes the key's name verbatim, so "enter" arrives as
	// the five letters e-n-t-e-r.
	EncodingLiteral Encoding = "literal"
)

// ParseEncoding accepts "control" or "literal" in any case.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(strings.ToLower(s)) {
	case EncodingControl:
		return EncodingControl, nil
	case EncodingLiteral:
		return EncodingLiteral, nil
	}
	return "", fmt.Errorf("unknown key encoding %q", s)
}

var controlBytes = map[string]string{
	"enter":      "\r",
	"tab":        "\t",
	"space":      " ",
	"backspace":  "\x7f",
	"esc":        "\x1b",
	"ctrl+space": "\x00",
	"up":         "\x1b[A",
	"down":       "\x1b[B",
	"right":      "\x1b[C",
	"left":       "\x1b[D",
	"home":       "\x1b[H",
	"end":        "\x1b[F",
	"insert":     "\x1b[2~",
	"delete":     "\x1b[3~",
	"page up":    "\x1b[5~",
	"page down":  "\x1b[6~",
}

// Encode returns the bytes written to the child for a press of name. Names
// with no conventional byte sequence are written verbatim in either mode.
func Encode(name string, enc Encoding) []byte {
	if enc == EncodingLiteral {
		return []byte(name)
	}
	if b, ok := controlBytes[name]; ok {
		return []byte(b)
	}
	if c, ok := controlByte(name); ok {
		return []byte{c}
	}
	return []byte(name)
}
