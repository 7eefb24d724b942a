package capture

import (
	"time"

	"github.com/google/uuid"
)

// Event is a single captured piece of console traffic.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the bytes were written or received.
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID groups the events of one console session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction of the traffic relative to the device.
	Direction Direction `cbor:"3,keyasint"`

	// Kind of console operation that produced the event.
	Kind Kind `cbor:"4,keyasint"`

	// Port is the console port name (stdout, /dev/ttyUSB0, ...).
	Port string `cbor:"5,keyasint,omitempty"`

	// Text is the exact text written or received, terminators included.
	Text string `cbor:"6,keyasint,omitempty"`
}

// NewSessionID returns a fresh random session identifier.
func NewSessionID() string {
	return uuid.New().String()
}

// Direction indicates which way the traffic flowed.
type Direction uint8

const (
	// DirectionOut is device-to-host output (console writes).
	DirectionOut Direction = 0
	// DirectionIn is host-to-device input (typed in the monitor).
	DirectionIn Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionOut:
		return "OUT"
	case DirectionIn:
		return "IN"
	default:
		return "UNKNOWN"
	}
}

// Kind classifies the event.
type Kind uint8

const (
	// KindBegin marks the console becoming ready.
	KindBegin Kind = 0
	// KindPrint is text written without a terminator.
	KindPrint Kind = 1
	// KindPrintln is text written followed by the line terminator.
	KindPrintln Kind = 2
	// KindLine is a complete line observed by the host monitor.
	KindLine Kind = 3
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "BEGIN"
	case KindPrint:
		return "PRINT"
	case KindPrintln:
		return "PRINTLN"
	case KindLine:
		return "LINE"
	default:
		return "UNKNOWN"
	}
}
