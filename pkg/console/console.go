package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/capture"
	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/config"
)

// Console writes debug text to a Port.
// It is safe for concurrent use.
type Console struct {
	port         Port
	name         string
	baud         int
	pollInterval time.Duration
	terminator   string
	logger       *slog.Logger
	capture      capture.Logger
	session      string
	closers      []io.Closer

	mu    sync.Mutex
	open  bool
	ready bool
}

// Option configures a Console.
type Option func(*Console)

// WithBaud sets the speed passed to Port.Open.
func WithBaud(baud int) Option {
	return func(c *Console) { c.baud = baud }
}

// WithPollInterval sets how often Begin polls Port.Ready.
func WithPollInterval(d time.Duration) Option {
	return func(c *Console) { c.pollInterval = d }
}

// WithTerminator sets the line terminator written by Println.
func WithTerminator(t string) Option {
	return func(c *Console) { c.terminator = t }
}

// WithLogger sets the logger for console lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(c *Console) { c.logger = l }
}

// WithCapture records everything written to the console.
func WithCapture(l capture.Logger) Option {
	return func(c *Console) { c.capture = l }
}

// WithSession sets the capture session ID. A random one is used otherwise.
func WithSession(id string) Option {
	return func(c *Console) { c.session = id }
}

// WithName sets the port name reported in logs and captures.
func WithName(name string) Option {
	return func(c *Console) { c.name = name }
}

// New returns a Console on port with the firmware defaults: 115200 baud,
// CRLF terminator, 10ms readiness polling and no capture.
func New(port Port, opts ...Option) *Console {
	c := &Console{
		port:         port,
		baud:         config.DefaultBaud,
		pollInterval: config.DefaultPollInterval,
		terminator:   config.LineEndingCRLF.Terminator(),
		logger:       slog.Default(),
		capture:      capture.NoopLogger{},
	}
	if n, ok := port.(interface{ Name() string }); ok {
		c.name = n.Name()
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pollInterval <= 0 {
		c.pollInterval = config.DefaultPollInterval
	}
	if c.session == "" {
		c.session = capture.NewSessionID()
	}
	return c
}

// Session returns the capture session ID.
func (c *Console) Session() string { return c.session }

// Terminator returns the line terminator written by Println.
func (c *Console) Terminator() string { return c.terminator }

// Begin opens the port and waits until the host side reports ready.
//
// There is no timeout; Begin returns only when the port is ready, when
// ctx is done, or when the port fails. Calling Begin on a ready console
// returns immediately.
func (c *Console) Begin(ctx context.Context) error {
	c.mu.Lock()
	if c.ready {
		c.mu.Unlock()
		return nil
	}
	if !c.open {
		if err := c.port.Open(c.baud); err != nil {
			c.mu.Unlock()
			return err
		}
		c.open = true
		c.logger.Debug("console opened", "port", c.name, "baud", c.baud)
	}
	c.mu.Unlock()

	if err := c.waitReady(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.ready = true
	c.mu.Unlock()

	c.capture.Log(c.event(capture.KindBegin, ""))
	return nil
}

func (c *Console) waitReady(ctx context.Context) error {
	ready, err := c.port.Ready()
	if err != nil {
		return fmt.Errorf("console %s: %w", c.name, err)
	}
	if ready {
		return nil
	}

	c.logger.Debug("waiting for host", "port", c.name)

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		ready, err := c.port.Ready()
		if err != nil {
			return fmt.Errorf("console %s: %w", c.name, err)
		}
		if ready {
			c.logger.Debug("host ready", "port", c.name)
			return nil
		}
	}
}

// Print writes the text form of v without a line terminator.
func (c *Console) Print(v any) error {
	s := Format(v)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writeLocked(s); err != nil {
		return err
	}
	c.capture.Log(c.event(capture.KindPrint, s))
	return nil
}

// Println writes the text form of v and then the line terminator as a
// second write.
func (c *Console) Println(v any) error {
	s := Format(v)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writeLocked(s); err != nil {
		return err
	}
	if err := c.writeLocked(c.terminator); err != nil {
		// The text already reached the port.
		if s != "" {
			c.capture.Log(c.event(capture.KindPrint, s))
		}
		return err
	}
	c.capture.Log(c.event(capture.KindPrintln, s+c.terminator))
	return nil
}

// Write implements io.Writer so a Console can back a log.Logger or slog handler.
func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return 0, ErrNotOpen
	}
	n, err := c.port.Write(p)
	if n > 0 {
		c.capture.Log(c.event(capture.KindPrint, string(p[:n])))
	}
	return n, err
}

func (c *Console) writeLocked(s string) error {
	if !c.open {
		return ErrNotOpen
	}
	if s == "" {
		return nil
	}
	if _, err := io.WriteString(c.port, s); err != nil {
		return fmt.Errorf("console %s: %w", c.name, err)
	}
	return nil
}

func (c *Console) event(kind capture.Kind, text string) capture.Event {
	return capture.Event{
		Timestamp: time.Now(),
		SessionID: c.session,
		Direction: capture.DirectionOut,
		Kind:      kind,
		Port:      c.name,
		Text:      text,
	}
}

// AddCloser registers a resource released by Close, such as a capture file.
func (c *Console) AddCloser(closer io.Closer) {
	c.mu.Lock()
	c.closers = append(c.closers, closer)
	c.mu.Unlock()
}

// Close closes the port and every registered closer.
func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.open {
		if err := c.port.Close(); err != nil {
			errs = append(errs, err)
		}
		c.open = false
		c.ready = false
	}
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
