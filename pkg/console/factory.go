package console

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/capture"
	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/config"
)

// NewPort returns the Port named by cfg: a standard stream or a serial device.
func NewPort(cfg config.Config) Port {
	switch cfg.Port {
	case config.PortStdout:
		return NewWriterPort(cfg.Port, os.Stdout)
	case config.PortStderr:
		return NewWriterPort(cfg.Port, os.Stderr)
	default:
		return NewSerialPort(cfg.Port, cfg.ReadyLine)
	}
}

// FromConfig builds a Console from cfg. When cfg.Capture is set the
// capture file is opened here and closed by Console.Close. When logger has
// debug enabled, console traffic is also mirrored into it. Extra options
// are applied after the configured ones.
func FromConfig(cfg config.Config, logger *slog.Logger, opts ...Option) (*Console, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	base := []Option{
		WithName(cfg.Port),
		WithBaud(cfg.Baud),
		WithPollInterval(cfg.PollInterval),
		WithTerminator(cfg.LineEnding.Terminator()),
		WithLogger(logger),
	}
	if cfg.Session != "" {
		base = append(base, WithSession(cfg.Session))
	}

	var (
		file  *capture.FileLogger
		sinks []capture.Logger
	)
	if cfg.Capture != "" {
		var err error
		file, err = capture.NewFileLogger(cfg.Capture)
		if err != nil {
			return nil, fmt.Errorf("open capture file: %w", err)
		}
		sinks = append(sinks, file)
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		sinks = append(sinks, capture.NewSlogAdapter(logger))
	}
	if len(sinks) > 0 {
		base = append(base, WithCapture(capture.Tee(sinks...)))
	}

	c := New(NewPort(cfg), append(base, opts...)...)
	if file != nil {
		c.AddCloser(file)
	}
	return c, nil
}
