package capture

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// FileLogger appends events to a .dlog capture file. Each event is
// written with a single write call, so a crash leaves at most one
// truncated event at the end of the file.
type FileLogger struct {
	mu      sync.Mutex
	f       *os.File
	closed  bool
	dropped int
}

// NewFileLogger opens path for appending, creating it if needed.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{f: f}, nil
}

// Log appends event. Events that cannot be written are counted and
// reported by Close; the console keeps running.
func (l *FileLogger) Log(event Event) {
	data, err := EncodeEvent(event)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	if err == nil {
		_, err = l.f.Write(data)
	}
	if err != nil {
		l.dropped++
	}
}

// Close closes the file. Later calls and later events are ignored.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	var errs []error
	if l.dropped > 0 {
		errs = append(errs, fmt.Errorf("capture: %d events not written to %s", l.dropped, l.f.Name()))
	}
	if err := l.f.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
