// Package config loads the debug console configuration.
//
// Configuration is a small YAML document describing which port the console
// writes to and how the host side signals that it is ready:
//
//	port: /dev/ttyUSB0
//	baud: 115200
//	ready_line: dsr
//	poll_interval: 10ms
//	line_ending: crlf
//	capture: /tmp/device.dlog
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Well-known port names that map to the process's standard streams.
const (
	PortStdout = "stdout"
	PortStderr = "stderr"
)

// DefaultBaud is the console speed used by the firmware.
const DefaultBaud = 115200

// DefaultPollInterval is how often readiness is polled while waiting for the host.
const DefaultPollInterval = 10 * time.Millisecond

// ReadyLine selects the modem status line that signals host readiness.
type ReadyLine string

const (
	ReadyDSR  ReadyLine = "dsr"
	ReadyCTS  ReadyLine = "cts"
	ReadyDCD  ReadyLine = "dcd"
	ReadyNone ReadyLine = "none"
)

// LineEnding selects the terminator written by Println.
type LineEnding string

const (
	LineEndingCRLF LineEnding = "crlf"
	LineEndingLF   LineEnding = "lf"
)

// Terminator returns the bytes written for the line ending.
func (l LineEnding) Terminator() string {
	if l == LineEndingLF {
		return "\n"
	}
	return "\r\n"
}

// Config holds the console configuration.
type Config struct {
	Port         string        `yaml:"port"`
	Baud         int           `yaml:"baud"`
	ReadyLine    ReadyLine     `yaml:"ready_line"`
	PollInterval time.Duration `yaml:"poll_interval"`
	LineEnding   LineEnding    `yaml:"line_ending"`
	Capture      string        `yaml:"capture"`
	Session      string        `yaml:"session"`
}

// ErrInvalid is wrapped by all validation errors.
var ErrInvalid = errors.New("invalid configuration")

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Port:         PortStdout,
		Baud:         DefaultBaud,
		ReadyLine:    ReadyDSR,
		PollInterval: DefaultPollInterval,
		LineEnding:   LineEndingCRLF,
	}
}

// Load reads and validates the configuration file at path.
// Fields missing from the file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges and enumerations.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: port must not be empty", ErrInvalid)
	}
	if c.Baud <= 0 {
		return fmt.Errorf("%w: baud must be positive, got %d", ErrInvalid, c.Baud)
	}
	switch c.ReadyLine {
	case ReadyDSR, ReadyCTS, ReadyDCD, ReadyNone:
	default:
		return fmt.Errorf("%w: ready_line must be dsr, cts, dcd or none, got %q", ErrInvalid, c.ReadyLine)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll_interval must be positive, got %s", ErrInvalid, c.PollInterval)
	}
	switch c.LineEnding {
	case LineEndingCRLF, LineEndingLF:
	default:
		return fmt.Errorf("%w: line_ending must be crlf or lf, got %q", ErrInvalid, c.LineEnding)
	}
	return nil
}

// IsStream reports whether the port names a standard stream rather than a device.
func (c Config) IsStream() bool {
	return c.Port == PortStdout || c.Port == PortStderr
}
