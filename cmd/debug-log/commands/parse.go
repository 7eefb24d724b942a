// Package commands implements the debug-log CLI commands.
package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/capture"
)

// FilterOptions holds the string form of filter flags shared by the commands.
type FilterOptions struct {
	Session   string
	Port      string
	Direction string
	Kind      string
	TimeStart string
	TimeEnd   string
}

// Build converts the options into a capture.Filter.
func (o FilterOptions) Build() (capture.Filter, error) {
	filter := capture.Filter{
		SessionID: o.Session,
		Port:      o.Port,
	}

	if o.Direction != "" {
		d, err := parseDirection(o.Direction)
		if err != nil {
			return capture.Filter{}, err
		}
		filter.Direction = &d
	}
	if o.Kind != "" {
		k, err := parseKind(o.Kind)
		if err != nil {
			return capture.Filter{}, err
		}
		filter.Kind = &k
	}
	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return capture.Filter{}, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}
	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return capture.Filter{}, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}
	return filter, nil
}

// parseDirection parses a direction string (case-insensitive).
func parseDirection(s string) (capture.Direction, error) {
	switch strings.ToLower(s) {
	case "out":
		return capture.DirectionOut, nil
	case "in":
		return capture.DirectionIn, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// parseKind parses a kind string (case-insensitive).
func parseKind(s string) (capture.Kind, error) {
	switch strings.ToLower(s) {
	case "begin":
		return capture.KindBegin, nil
	case "print":
		return capture.KindPrint, nil
	case "println":
		return capture.KindPrintln, nil
	case "line":
		return capture.KindLine, nil
	default:
		return 0, fmt.Errorf("invalid kind: %s (must be begin, print, println, or line)", s)
	}
}

// shortenSession returns the first 8 characters of the session ID.
func shortenSession(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
