package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/capture"
)

const timestampLayout = "2006-01-02T15:04:05.000000Z"

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event capture.Event) {
	ts := event.Timestamp.UTC().Format(timestampLayout)
	fmt.Fprintf(w, "%s [session:%s] %-3s %s", ts, shortenSession(event.SessionID), event.Direction, event.Kind)
	if event.Port != "" {
		fmt.Fprintf(w, " %s", event.Port)
	}
	fmt.Fprintln(w)

	if event.Kind != capture.KindBegin {
		fmt.Fprintf(w, "  Text: %s\n", strconv.Quote(event.Text))
	}
}

// RunView prints the events of a capture file that match filter.
// With raw set, the text of outgoing events is written verbatim, replaying
// the console output as the host saw it.
func RunView(path string, filter capture.Filter, raw bool, output io.Writer) error {
	reader, err := capture.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		if raw {
			if event.Direction == capture.DirectionOut {
				if _, err := io.WriteString(output, event.Text); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			continue
		}
		formatEvent(output, event)
	}

	return nil
}
