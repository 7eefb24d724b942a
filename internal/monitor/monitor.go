// Package monitor is the host side of a debug console connection.
//
// A Session relays bytes received from the device to a terminal, records
// complete lines in a capture, and sends lines typed on the host back to
// the device.
package monitor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/capture"
)

const readBufferSize = 256

// ErrDeviceClosed is returned by Receive when the port reports EOF.
var ErrDeviceClosed = errors.New("monitor: device closed the connection")

// Config configures a Session.
type Config struct {
	// PortName is recorded in captured events.
	PortName string
	// Terminator is appended to lines sent to the device.
	Terminator string
	// Capture receives every received and sent line. Nil disables capture.
	Capture capture.Logger
	// SessionID groups captured events. A random ID is used if empty.
	SessionID string
	// Logger receives session lifecycle messages.
	Logger *slog.Logger
}

// Session relays one console connection.
type Session struct {
	port io.ReadWriter
	out  io.Writer
	cfg  Config

	mu      sync.Mutex
	partial bytes.Buffer
	lines   int
}

// NewSession creates a session relaying port to out.
func NewSession(port io.ReadWriter, out io.Writer, cfg Config) *Session {
	if cfg.Terminator == "" {
		cfg.Terminator = "\r\n"
	}
	if cfg.Capture == nil {
		cfg.Capture = capture.NoopLogger{}
	}
	if cfg.SessionID == "" {
		cfg.SessionID = capture.NewSessionID()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Session{port: port, out: out, cfg: cfg}
}

// SessionID returns the capture session ID.
func (s *Session) SessionID() string { return s.cfg.SessionID }

// Lines returns the number of complete lines received so far.
func (s *Session) Lines() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines
}

// Receive copies device output to the terminal until ctx is done (nil) or
// the port reaches EOF (ErrDeviceClosed). The port is expected to return
// from Read periodically (a zero-byte read on timeout) so cancellation is
// noticed.
func (s *Session) Receive(ctx context.Context) error {
	buf := make([]byte, readBufferSize)
	for {
		if ctx.Err() != nil {
			s.flush()
			return nil
		}

		n, err := s.port.Read(buf)
		if n > 0 {
			if _, werr := s.out.Write(buf[:n]); werr != nil {
				return fmt.Errorf("write terminal: %w", werr)
			}
			s.consume(buf[:n])
		}
		if err != nil {
			s.flush()
			if errors.Is(err, io.EOF) {
				s.cfg.Logger.Info("device closed the connection", "port", s.cfg.PortName)
				return ErrDeviceClosed
			}
			return fmt.Errorf("read %s: %w", s.cfg.PortName, err)
		}
	}
}

// consume splits received bytes into lines and captures each complete one.
func (s *Session) consume(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			s.partial.Write(p)
			return
		}
		s.partial.Write(p[:i])
		s.emitLocked()
		p = p[i+1:]
	}
}

// flush captures a trailing line that never saw its terminator.
func (s *Session) flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.partial.Len() > 0 {
		s.emitLocked()
	}
}

func (s *Session) emitLocked() {
	line := strings.TrimSuffix(s.partial.String(), "\r")
	s.partial.Reset()
	s.lines++
	s.cfg.Capture.Log(s.event(capture.DirectionOut, line))
}

// Send writes line and the terminator to the device.
func (s *Session) Send(line string) error {
	if _, err := io.WriteString(s.port, line+s.cfg.Terminator); err != nil {
		return fmt.Errorf("write %s: %w", s.cfg.PortName, err)
	}
	s.cfg.Capture.Log(s.event(capture.DirectionIn, line))
	return nil
}

func (s *Session) event(dir capture.Direction, text string) capture.Event {
	return capture.Event{
		Timestamp: time.Now(),
		SessionID: s.cfg.SessionID,
		Direction: dir,
		Kind:      capture.KindLine,
		Port:      s.cfg.PortName,
		Text:      text,
	}
}
