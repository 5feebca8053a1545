package midi

import (
	"fmt"
	"strings"
)

// Output is an open MIDI sink accepting raw channel messages
type Output interface {
	// Send writes one message to the sink
	Send(msg Message) error

	// Close releases the underlying port
	Close() error

	// Name describes the sink for logs
	Name() string
}

// OutputKind selects where messages go
type OutputKind string

const (
	OutputVirtual OutputKind = "virtual" // rtmidi virtual port other apps connect to
	OutputPort    OutputKind = "port"    // existing system MIDI port
	OutputSerial  OutputKind = "serial"  // DIN MIDI through a serial adapter
	OutputDump    OutputKind = "dump"    // log only, no MIDI I/O
)

// DefaultVirtualPortName is the name other applications see for the virtual port
const DefaultVirtualPortName = "Accordion Bass"

// DefaultSerialBaud is the DIN MIDI line rate
const DefaultSerialBaud = 31250

// ParseOutputKind validates an output kind given on the command line
func ParseOutputKind(s string) (OutputKind, error) {
	switch k := OutputKind(strings.ToLower(strings.TrimSpace(s))); k {
	case OutputVirtual, OutputPort, OutputSerial, OutputDump:
		return k, nil
	case "":
		return OutputVirtual, nil
	default:
		return "", fmt.Errorf("unknown output %q (want virtual, port, serial or dump)", s)
	}
}

// OutputOptions configures Open
type OutputOptions struct {
	Kind         OutputKind
	PortName     string // virtual port name, or system port to connect to
	SerialDevice string
	SerialBaud   int
}

// sendOutput adapts a send function plus closer to Output
type sendOutput struct {
	name  string
	send  func(Message) error
	close func() error
}

func (o *sendOutput) Send(msg Message) error { return o.send(msg) }
func (o *sendOutput) Name() string           { return o.name }

func (o *sendOutput) Close() error {
	if o.close == nil {
		return nil
	}
	return o.close()
}
