package keyboard

import (
	"context"
	"io"
	"sync"
	"time"
)

// Step is one scripted event, delivered Delay after the previous one.
type Step struct {
	Delay time.Duration
	Event Event
}

// ScriptedSource replays a fixed sequence of events and then reports io.EOF.
type ScriptedSource struct {
	mu    sync.Mutex
	steps []Step
}

func NewScripted(steps ...Step) *ScriptedSource {
	return &ScriptedSource{steps: steps}
}

// Type returns one undelayed press step per key in text, named the way a
// terminal would deliver it ("\n" becomes "enter").
func Type(text string) []Step {
	var steps []Step
	for _, ev := range Decode([]byte(text)) {
		steps = append(steps, Step{Event: ev})
	}
	return steps
}

func (s *ScriptedSource) Next(ctx context.Context) (Event, error) {
	s.mu.Lock()
	if len(s.steps) == 0 {
		s.mu.Unlock()
		return Event{}, io.EOF
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	s.mu.Unlock()

	if step.Delay <= 0 {
		if err := ctx.Err(); err != nil {
			return Event{}, err
		}
		return step.Event, nil
	}

	timer := time.NewTimer(step.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return step.Event, nil
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}
