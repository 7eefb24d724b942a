package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Baud != 115200 {
		t.Errorf("Baud = %d, want 115200", cfg.Baud)
	}
	if cfg.Port != PortStdout {
		t.Errorf("Port = %q, want %q", cfg.Port, PortStdout)
	}
	if cfg.LineEnding.Terminator() != "\r\n" {
		t.Errorf("Terminator = %q, want CRLF", cfg.LineEnding.Terminator())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	data := []byte(`
port: /dev/ttyUSB0
ready_line: cts
poll_interval: 25ms
line_ending: lf
capture: device.dlog
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Port != "/dev/ttyUSB0" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.Baud != DefaultBaud {
		t.Errorf("Baud = %d, want default %d", cfg.Baud, DefaultBaud)
	}
	if cfg.ReadyLine != ReadyCTS {
		t.Errorf("ReadyLine = %q, want cts", cfg.ReadyLine)
	}
	if cfg.PollInterval != 25*time.Millisecond {
		t.Errorf("PollInterval = %s, want 25ms", cfg.PollInterval)
	}
	if cfg.LineEnding.Terminator() != "\n" {
		t.Errorf("Terminator = %q, want LF", cfg.LineEnding.Terminator())
	}
	if cfg.Capture != "device.dlog" {
		t.Errorf("Capture = %q", cfg.Capture)
	}
	if cfg.IsStream() {
		t.Error("IsStream() = true for a device path")
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Parse(nil) = %+v, want defaults", cfg)
	}
}

func TestParseRejectsUnknownField(t *testing.T) {
	if _, err := Parse([]byte("speed: 9600\n")); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty port", func(c *Config) { c.Port = "" }},
		{"zero baud", func(c *Config) { c.Baud = 0 }},
		{"negative baud", func(c *Config) { c.Baud = -9600 }},
		{"bad ready line", func(c *Config) { c.ReadyLine = "rts" }},
		{"zero poll interval", func(c *Config) { c.PollInterval = 0 }},
		{"bad line ending", func(c *Config) { c.LineEnding = "cr" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.yaml")
	if err := os.WriteFile(path, []byte("port: stderr\nbaud: 9600\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != PortStderr || cfg.Baud != 9600 {
		t.Errorf("Load = %+v", cfg)
	}
	if !cfg.IsStream() {
		t.Error("IsStream() = false for stderr")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) = %v, want os.ErrNotExist", err)
	}
}

func TestLoadInvalidValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.yaml")
	if err := os.WriteFile(path, []byte("line_ending: cr\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load = %v, want ErrInvalid", err)
	}
}

func TestParseCommentOnly(t *testing.T) {
	cfg, err := Parse([]byte("# nothing configured\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Parse = %+v, want defaults", cfg)
	}
}
