package keyboard

import (
	"strings"
	"unicode/utf8"
)

const esc = 0x1b

// csiKeys maps the bytes following ESC [ (or ESC O) to key names.
var csiKeys = map[string]string{
	"A":  "up",
	"B":  "down",
	"C":  "right",
	"D":  "left",
	"H":  "home",
	"F":  "end",
	"1~": "home",
	"2~": "insert",
	"3~": "delete",
	"4~": "end",
	"5~": "page up",
	"6~": "page down",
}

// Decode turns raw terminal input into key press events. A chunk is assumed
// to hold whole escape sequences, which is how terminals deliver them.
func Decode(b []byte) []Event {
	var events []Event
	for len(b) > 0 {
		name, n := decodeOne(b)
		events = append(events, Press(name))
		b = b[n:]
	}
	return events
}

func decodeOne(b []byte) (string, int) {
	c := b[0]
	switch {
	case c == esc:
		return decodeEscape(b)
	case c == '\r' || c == '\n':
		return "enter", 1
	case c == '\t':
		return "tab", 1
	case c == ' ':
		return "space", 1
	case c == 0x7f:
		return "backspace", 1
	case c == 0:
		return "ctrl+space", 1
	case c < 0x20:
		return "ctrl+" + strings.ToLower(string(rune(c+'@'))), 1
	case c < utf8.RuneSelf:
		return string(rune(c)), 1
	}

	r, n := utf8.DecodeRune(b)
	if r == utf8.RuneError {
		return string(b[:1]), 1
	}
	return string(r), n
}

func decodeEscape(b []byte) (string, int) {
	if len(b) < 3 || (b[1] != '[' && b[1] != 'O') {
		return "esc", 1
	}

	// A CSI sequence ends at the first byte in 0x40..0x7e.
	for i := 2; i < len(b); i++ {
		if b[i] >= 0x40 && b[i] <= 0x7e {
			if name, ok := csiKeys[string(b[2:i+1])]; ok {
				return name, i + 1
			}
			break
		}
	}
	return "esc", 1
}

// controlByte returns the C0 control byte for a "ctrl+<key>" name.
func controlByte(name string) (byte, bool) {
	key, ok := strings.CutPrefix(name, "ctrl+")
	if !ok || len(key) != 1 {
		return 0, false
	}
	c := strings.ToUpper(key)[0]
	if c < '@' || c > '_' {
		return 0, false
	}
	return c - '@', true
}
