package commands

import (
	"fmt"
	"io"

	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/capture"
)

// RunFilter copies the events of path matching opts into output and
// reports the count on w.
func RunFilter(path, output string, opts FilterOptions, w io.Writer) error {
	filter, err := opts.Build()
	if err != nil {
		return err
	}

	reader, err := capture.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	logger, err := capture.NewFileLogger(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer logger.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		logger.Log(event)
		count++
	}

	fmt.Fprintf(w, "Filtered %d events to %s\n", count, output)
	return nil
}
