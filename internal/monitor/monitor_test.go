package monitor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/capture"
)

// fakePort returns the queued chunks from Read, then readErr.
type fakePort struct {
	mu      sync.Mutex
	chunks  []string
	readErr error
	written bytes.Buffer
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.chunks) == 0 {
		return 0, p.readErr
	}
	n := copy(b, p.chunks[0])
	p.chunks = p.chunks[1:]
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written.Write(b)
}

type recordingCapture struct {
	mu     sync.Mutex
	events []capture.Event
}

func (r *recordingCapture) Log(e capture.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recordingCapture) texts(dir capture.Direction) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if e.Direction == dir {
			out = append(out, e.Text)
		}
	}
	return out
}

func TestReceiveRelaysAndSplitsLines(t *testing.T) {
	port := &fakePort{
		chunks:  []string{"rea", "dy\r\nhumidity=4", "8.50\r\n", "partial"},
		readErr: io.EOF,
	}
	rec := &recordingCapture{}
	var term bytes.Buffer

	s := NewSession(port, &term, Config{PortName: "/dev/ttyUSB0", Capture: rec, SessionID: "s-1"})
	require.ErrorIs(t, s.Receive(context.Background()), ErrDeviceClosed)

	assert.Equal(t, "ready\r\nhumidity=48.50\r\npartial", term.String())
	assert.Equal(t, []string{"ready", "humidity=48.50", "partial"}, rec.texts(capture.DirectionOut))
	assert.Equal(t, 3, s.Lines())

	for _, e := range rec.events {
		assert.Equal(t, capture.KindLine, e.Kind)
		assert.Equal(t, "s-1", e.SessionID)
		assert.Equal(t, "/dev/ttyUSB0", e.Port)
	}
}

func TestReceiveReturnsReadError(t *testing.T) {
	boom := errors.New("device unplugged")
	port := &fakePort{readErr: boom}

	s := NewSession(port, io.Discard, Config{})
	assert.ErrorIs(t, s.Receive(context.Background()), boom)
}

func TestReceiveStopsOnCancel(t *testing.T) {
	// A port that only ever times out.
	port := &fakePort{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSession(port, io.Discard, Config{})
	assert.NoError(t, s.Receive(ctx))
}

func TestSendAppendsTerminator(t *testing.T) {
	port := &fakePort{}
	rec := &recordingCapture{}

	s := NewSession(port, io.Discard, Config{Capture: rec})
	require.NoError(t, s.Send("status"))

	assert.Equal(t, "status\r\n", port.written.String())
	assert.Equal(t, []string{"status"}, rec.texts(capture.DirectionIn))
}

func TestSendCustomTerminator(t *testing.T) {
	port := &fakePort{}
	s := NewSession(port, io.Discard, Config{Terminator: "\n"})
	require.NoError(t, s.Send("x"))
	assert.Equal(t, "x\n", port.written.String())
}

func TestNewSessionDefaults(t *testing.T) {
	a := NewSession(&fakePort{}, io.Discard, Config{})
	b := NewSession(&fakePort{}, io.Discard, Config{})
	assert.NotEmpty(t, a.SessionID())
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}

type failingSender struct{ err error }

func (f failingSender) Send(string) error { return f.err }

func TestRunScriptSendsEveryLine(t *testing.T) {
	port := &fakePort{}
	s := NewSession(port, io.Discard, Config{})

	err := RunScript(context.Background(), strings.NewReader("one\r\ntwo\nthree"), s)
	require.NoError(t, err)
	assert.Equal(t, "one\r\ntwo\r\nthree\r\n", port.written.String())
}

func TestRunScriptStopsOnSendError(t *testing.T) {
	boom := errors.New("write failed")
	err := RunScript(context.Background(), strings.NewReader("a\nb\n"), failingSender{boom})
	assert.ErrorIs(t, err, boom)
}

func TestRunScriptCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	port := &fakePort{}
	s := NewSession(port, io.Discard, Config{})

	require.NoError(t, RunScript(ctx, strings.NewReader("a\nb\n"), s))
	assert.Zero(t, port.written.Len())
}

func TestRunScriptReturnsWhileInputBlocks(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	port := &fakePort{}
	s := NewSession(port, io.Discard, Config{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- RunScript(ctx, pr, s) }()

	_, err := io.WriteString(pw, "status\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		port.mu.Lock()
		defer port.mu.Unlock()
		return port.written.String() == "status\r\n"
	}, time.Second, 5*time.Millisecond)

	// The pipe stays open: only cancellation can end the loop.
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("RunScript did not return after cancel")
	}
}

func TestRunScriptReportsReadError(t *testing.T) {
	boom := errors.New("stdin broken")
	pr, pw := io.Pipe()
	pw.CloseWithError(boom)

	err := RunScript(context.Background(), pr, failingSender{})
	assert.ErrorIs(t, err, boom)
}
