package keyboard

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "letters", input: "ls", want: []string{"l", "s"}},
		{name: "enter", input: "\r", want: []string{"enter"}},
		{name: "newline", input: "\n", want: []string{"enter"}},
		{name: "space and tab", input: " \t", want: []string{"space", "tab"}},
		{name: "backspace", input: "\x7f\x08", want: []string{"backspace", "ctrl+h"}},
		{name: "interrupt", input: "\x03", want: []string{"ctrl+c"}},
		{name: "ctrl backslash", input: "\x1c", want: []string{"ctrl+\\"}},
		{name: "ctrl space", input: "\x00", want: []string{"ctrl+space"}},
		{name: "arrows", input: "\x1b[A\x1b[B\x1b[C\x1b[D", want: []string{"up", "down", "right", "left"}},
		{name: "application arrows", input: "\x1bOA", want: []string{"up"}},
		{name: "editing keys", input: "\x1b[3~\x1b[5~\x1b[6~", want: []string{"delete", "page up", "page down"}},
		{name: "lone escape", input: "\x1b", want: []string{"esc"}},
		{name: "unknown sequence", input: "\x1b[99z", want: []string{"esc", "[", "9", "9", "z"}},
		{name: "utf8", input: "é", want: []string{"é"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, ev := range Decode([]byte(tt.input)) {
				assert.Equal(t, KindPress, ev.Kind)
				got = append(got, ev.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_Control(t *testing.T) {
	tests := map[string]string{
		"a":         "a",
		"é":         "é",
		"enter":     "\r",
		"space":     " ",
		"backspace": "\x7f",
		"up":        "\x1b[A",
		"page down": "\x1b[6~",
		"ctrl+d":    "\x04",
		"ctrl+\\":   "\x1c",
		"f13":       "f13",
	}

	for name, want := range tests {
		assert.Equal(t, []byte(want), Encode(name, EncodingControl), name)
	}
}

func TestEncode_Literal(t *testing.T) {
	assert.Equal(t, []byte("enter"), Encode("enter", EncodingLiteral))
	assert.Equal(t, []byte("space"), Encode("space", EncodingLiteral))
	assert.Equal(t, []byte("a"), Encode("a", EncodingLiteral))
}

func TestEncode_RoundTripsTerminalInput(t *testing.T) {
	for _, raw := range []string{"x", "\r", "\t", "\x7f", "\x08", "\x1b[A", "\x1b[3~", "\x01", "ü"} {
		events := Decode([]byte(raw))
		require.Len(t, events, 1, "%q", raw)
		assert.Equal(t, []byte(raw), Encode(events[0].Name, EncodingControl), "%q", raw)
	}
}

func TestParseEncoding(t *testing.T) {
	enc, err := ParseEncoding("Literal")
	require.NoError(t, err)
	assert.Equal(t, EncodingLiteral, enc)

	enc, err = ParseEncoding("control")
	require.NoError(t, err)
	assert.Equal(t, EncodingControl, enc)

	_, err = ParseEncoding("morse")
	assert.Error(t, err)
}

func TestEvent_IsInterrupt(t *testing.T) {
	assert.True(t, Press("ctrl+c").IsInterrupt())
	assert.False(t, Release("ctrl+c").IsInterrupt())
	assert.False(t, Press("c").IsInterrupt())
	assert.Equal(t, "release", KindRelease.String())
}

func TestScriptedSource(t *testing.T) {
	src := NewScripted(
		Step{Event: Press("a")},
		Step{Delay: 20 * time.Millisecond, Event: Release("a")},
	)
	ctx := context.Background()

	ev, err := src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, Press("a"), ev)

	start := time.Now()
	ev, err = src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, Release("a"), ev)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	_, err = src.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestScriptedSource_Cancelled(t *testing.T) {
	src := NewScripted(Step{Delay: time.Hour, Event: Press("a")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestType(t *testing.T) {
	steps := Type("hi\n")
	require.Len(t, steps, 3)
	assert.Equal(t, Press("h"), steps[0].Event)
	assert.Equal(t, Press("enter"), steps[2].Event)
}

func TestTerminalSource_Pipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	src, err := NewTerminalSource(r)
	require.NoError(t, err)
	defer src.Close()

	_, err = w.Write([]byte("a\x03"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ev, err := src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, Press("a"), ev)

	ev, err = src.Next(ctx)
	require.NoError(t, err)
	assert.True(t, ev.IsInterrupt())

	require.NoError(t, w.Close())
	_, err = src.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)

	_, err = src.Next(ctx)
	assert.ErrorIs(t, err, io.EOF, "end of input is sticky")
	assert.NoError(t, src.Close())
}

func TestTerminalSource_SecondSourceGetsNextKey(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	first, err := NewTerminalSource(r)
	require.NoError(t, err)

	waiting := make(chan error, 1)
	go func() {
		_, err := first.Next(context.Background())
		waiting <- err
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, first.Close())

	select {
	case err := <-waiting:
		assert.ErrorIs(t, err, io.EOF)
	case <-time.After(time.Second):
		t.Fatal("Next did not return after Close")
	}

	second, err := NewTerminalSource(r)
	require.NoError(t, err)
	defer second.Close()

	_, err = w.Write([]byte("x"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ev, err := second.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, Press("x"), ev)

	_, err = first.Next(ctx)
	assert.ErrorIs(t, err, io.EOF, "a closed source consumes nothing")
}
