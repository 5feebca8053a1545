package midi

import (
	"fmt"
	"log/slog"

	"go.bug.st/serial"
)

// OpenSerial opens a serial device and writes raw MIDI bytes to it.
// baud <= 0 selects the DIN MIDI rate.
func OpenSerial(device string, baud int, logger *slog.Logger) (Output, error) {
	if device == "" {
		return nil, fmt.Errorf("no serial device specified")
	}
	if baud <= 0 {
		baud = DefaultSerialBaud
	}
	if logger == nil {
		logger = slog.Default()
	}

	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}
	logger.Info("serial MIDI output opened", "device", device, "baud", baud)

	return &sendOutput{
		name: device,
		send: func(msg Message) error {
			n, err := port.Write(msg.Bytes())
			if err != nil {
				return fmt.Errorf("serial write: %w", err)
			}
			if n != len(msg) {
				return fmt.Errorf("serial write: short write (%d of %d bytes)", n, len(msg))
			}
			return nil
		},
		close: port.Close,
	}, nil
}

// ListSerialPorts returns the serial devices present on this machine
func ListSerialPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
