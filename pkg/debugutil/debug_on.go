//go:build debug

package debugutil

import (
	"context"
	"log/slog"
	"os"

	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/config"
	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/console"
)

// Enabled is true if we were built with the "debug" build tag.
const Enabled = true

func current() *console.Console {
	mu.Lock()
	defer mu.Unlock()
	if out == nil {
		out = console.New(console.NewWriterPort(config.PortStdout, os.Stdout))
	}
	return out
}

// Begin opens the console and blocks until the host side is ready.
// It never times out. Transport failures are not reported.
func Begin() {
	_ = current().Begin(context.Background())
}

// BeginContext is Begin with cancellation, for hosted programs that must
// not hang when no terminal ever attaches.
func BeginContext(ctx context.Context) error {
	return current().Begin(ctx)
}

// Print writes v to the console without a line terminator.
func Print(v any) {
	_ = current().Print(v)
}

// Println writes v to the console followed by the line terminator.
func Println(v any) {
	_ = current().Println(v)
}

// Configure builds a console from cfg and installs it, closing the
// console it replaces.
func Configure(cfg config.Config) error {
	c, err := console.FromConfig(cfg, slog.Default())
	if err != nil {
		return err
	}

	mu.Lock()
	prev := out
	out = c
	mu.Unlock()

	if prev != nil {
		return prev.Close()
	}
	return nil
}
