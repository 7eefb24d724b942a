package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/capture"
)

// exportRecord is the JSON shape of an exported event.
type exportRecord struct {
	Timestamp string `json:"timestamp"`
	Session   string `json:"session"`
	Direction string `json:"direction"`
	Kind      string `json:"kind"`
	Port      string `json:"port,omitempty"`
	Text      string `json:"text"`
}

func toRecord(event capture.Event) exportRecord {
	return exportRecord{
		Timestamp: event.Timestamp.UTC().Format(timestampLayout),
		Session:   event.SessionID,
		Direction: event.Direction.String(),
		Kind:      event.Kind.String(),
		Port:      event.Port,
		Text:      event.Text,
	}
}

// RunExport exports the capture file to the specified format.
// An empty output writes to stdout.
func RunExport(path, format, output string) error {
	var exportFn func(*capture.Reader, io.Writer) error
	switch format {
	case "jsonl":
		exportFn = exportJSONL
	case "csv":
		exportFn = exportCSV
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := capture.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return exportFn(reader, w)
}

func exportJSONL(reader *capture.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(toRecord(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
}

func exportCSV(reader *capture.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "session", "direction", "kind", "port", "text"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		r := toRecord(event)
		row := []string{r.Timestamp, r.Session, r.Direction, r.Kind, r.Port, r.Text}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
}
