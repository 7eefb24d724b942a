// Package console implements the serial console used for debug output.
//
// A Console owns a Port. Begin opens the port at the configured speed and
// blocks until the host side of the connection reports ready; Print and
// Println then format values the way the firmware's serial console does.
package console

import (
	"errors"
	"io"
	"sync"
)

// Port is the byte transport underneath a Console.
type Port interface {
	// Open prepares the port at the given baud rate.
	Open(baud int) error
	// Ready reports whether the host side of the connection is ready to receive.
	Ready() (bool, error)
	// Write sends p to the host.
	Write(p []byte) (int, error)
	// Close releases the port.
	Close() error
}

// ErrNotOpen is returned when writing to a console or port that has not been opened.
var ErrNotOpen = errors.New("console: port not open")

// WriterPort is a Port over an io.Writer such as os.Stdout.
// It has no readiness signal and is ready as soon as it is opened.
type WriterPort struct {
	name string
	w    io.Writer

	mu   sync.Mutex
	open bool
}

// NewWriterPort returns a port named name writing to w.
func NewWriterPort(name string, w io.Writer) *WriterPort {
	return &WriterPort{name: name, w: w}
}

// Name returns the port name.
func (p *WriterPort) Name() string { return p.name }

// Open marks the port open. The baud rate has no meaning for a plain writer.
func (p *WriterPort) Open(int) error {
	p.mu.Lock()
	p.open = true
	p.mu.Unlock()
	return nil
}

// Ready reports true once the port is open.
func (p *WriterPort) Ready() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open, nil
}

func (p *WriterPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	open := p.open
	p.mu.Unlock()
	if !open {
		return 0, ErrNotOpen
	}
	return p.w.Write(b)
}

// Close marks the port closed. The underlying writer is left open; it
// usually is a standard stream owned by the process.
func (p *WriterPort) Close() error {
	p.mu.Lock()
	p.open = false
	p.mu.Unlock()
	return nil
}

var _ Port = (*WriterPort)(nil)
