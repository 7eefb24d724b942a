// Package capture records debug console traffic.
//
// Every run of bytes a Console writes, and every line the host monitor
// receives, can be captured as an Event. Captures are separate from
// operational logging (slog): they are a complete machine-readable trace
// of what crossed the console, suitable for replay and analysis.
//
// # Basic Usage
//
//	// For development: mirror console traffic into slog
//	logger := capture.NewSlogAdapter(slog.Default())
//
//	// For later analysis: write to a capture file
//	logger, _ := capture.NewFileLogger("/tmp/device.dlog")
//
//	// Both
//	logger := capture.Tee(fileLogger, capture.NewSlogAdapter(slog.Default()))
//
// # File Format
//
// Capture files are a stream of CBOR-encoded events with the .dlog
// extension. The debug-log tool views, filters and exports them.
package capture
