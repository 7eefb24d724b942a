package console

import (
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/config"
)

// SerialPort is a Port backed by a serial device.
//
// Readiness follows one modem status line driven by the host. Most USB
// serial adapters wire the host's DTR to DSR, which is the default.
type SerialPort struct {
	name      string
	readyLine config.ReadyLine
	open      func(name string, mode *serial.Mode) (serial.Port, error)

	mu   sync.Mutex
	port serial.Port
}

// NewSerialPort returns a port for the named device (for example
// /dev/ttyUSB0 or COM3). It is not opened until Open is called.
func NewSerialPort(name string, readyLine config.ReadyLine) *SerialPort {
	return &SerialPort{
		name:      name,
		readyLine: readyLine,
		open:      serial.Open,
	}
}

// Name returns the device name.
func (p *SerialPort) Name() string { return p.name }

// Open opens the device at baud, 8N1, and asserts DTR so a peer waiting
// on its DSR line sees this side as present.
func (p *SerialPort) Open(baud int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.port != nil {
		return nil
	}

	port, err := p.open(p.name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return fmt.Errorf("open serial port %s: %w", p.name, err)
	}
	if err := port.SetDTR(true); err != nil {
		port.Close()
		return fmt.Errorf("assert DTR on %s: %w", p.name, err)
	}
	p.port = port
	return nil
}

// Ready reports the state of the configured readiness line.
func (p *SerialPort) Ready() (bool, error) {
	p.mu.Lock()
	port := p.port
	p.mu.Unlock()

	if port == nil {
		return false, ErrNotOpen
	}
	if p.readyLine == config.ReadyNone {
		return true, nil
	}

	bits, err := port.GetModemStatusBits()
	if err != nil {
		return false, fmt.Errorf("read modem status on %s: %w", p.name, err)
	}
	switch p.readyLine {
	case config.ReadyCTS:
		return bits.CTS, nil
	case config.ReadyDCD:
		return bits.DCD, nil
	default:
		return bits.DSR, nil
	}
}

func (p *SerialPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	port := p.port
	p.mu.Unlock()

	if port == nil {
		return 0, ErrNotOpen
	}
	return port.Write(b)
}

// Read reads bytes sent by the peer. A zero-byte read with a nil error
// means the read timeout expired.
func (p *SerialPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	port := p.port
	p.mu.Unlock()

	if port == nil {
		return 0, ErrNotOpen
	}
	return port.Read(b)
}

// SetReadTimeout bounds how long Read waits for data.
func (p *SerialPort) SetReadTimeout(d time.Duration) error {
	p.mu.Lock()
	port := p.port
	p.mu.Unlock()

	if port == nil {
		return ErrNotOpen
	}
	return port.SetReadTimeout(d)
}

// Close drops DTR and closes the device. Closing a port that is not open is a no-op.
func (p *SerialPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.port == nil {
		return nil
	}
	_ = p.port.SetDTR(false)
	err := p.port.Close()
	p.port = nil
	return err
}

// ListSerialPorts returns the serial devices present on this host.
func ListSerialPorts() ([]string, error) {
	return serial.GetPortsList()
}

var _ Port = (*SerialPort)(nil)
