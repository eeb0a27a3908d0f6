// Package keyboard models key events as named keys with a press/release kind
// and provides the sources that produce them: a raw-mode terminal reader for
// interactive use and a scripted source for tests.
package keyboard

import "context"

// Kind distinguishes key presses from releases.
type Kind int

const (
	KindPress Kind = iota
	KindRelease
)

func (k Kind) String() string {
	if k == KindRelease {
		return "release"
	}
	return "press"
}

// Interrupt is the key combination that interrupts the child instead of
// being forwarded to it.
const Interrupt = "ctrl+c"

// Event is a single key event. Name follows the conventional key names:
// "a", "enter", "space", "up", "ctrl+c" and so on.
type Event struct {
	Name string
	Kind Kind
}

func Press(name string) Event {
	return Event{Name: name, Kind: KindPress}
}

func Release(name string) Event {
	return Event{Name: name, Kind: KindRelease}
}

// IsInterrupt reports whether e is a press of the interrupt combination.
func (e Event) IsInterrupt() bool {
	return e.Kind == KindPress && e.Name == Interrupt
}

// Source produces key events one at a time. Next blocks until an event is
// available or ctx is done, and returns io.EOF once the source is exhausted.
type Source interface {
	Next(ctx context.Context) (Event, error)
}
