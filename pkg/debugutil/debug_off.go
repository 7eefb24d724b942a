//go:build !debug

package debugutil

import (
	"context"

	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/config"
)

// Enabled is true if we were built with the "debug" build tag.
const Enabled = false

// Begin is a no-op without the debug tag.
func Begin() {}

// BeginContext is a no-op without the debug tag.
func BeginContext(context.Context) error { return nil }

// Print is a no-op without the debug tag.
func Print(any) {}

// Println is a no-op without the debug tag.
func Println(any) {}

// Configure only validates cfg without the debug tag; no port or capture
// file is opened.
func Configure(cfg config.Config) error {
	return cfg.Validate()
}
