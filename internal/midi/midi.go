package midi

import (
	"fmt"
	"log/slog"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Manager handles MIDI port discovery and opening outputs
type Manager struct {
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewManager creates a new MIDI manager
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger}
}

// Close cleans up the MIDI driver
func (m *Manager) Close() {
	gomidi.CloseDriver()
}

// ListOutPorts returns the names of available MIDI output ports
func (m *Manager) ListOutPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	outs := gomidi.GetOutPorts()
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names
}

// GetOutPort returns an output port by name, or nil if there is none
func (m *Manager) GetOutPort(name string) drivers.Out {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findOutPort(name)
}

// Open creates the output selected by opts
func (m *Manager) Open(opts OutputOptions) (Output, error) {
	switch opts.Kind {
	case OutputVirtual, "":
		name := opts.PortName
		if name == "" {
			name = DefaultVirtualPortName
		}
		return m.OpenVirtual(name)
	case OutputPort:
		return m.OpenPort(opts.PortName)
	case OutputSerial:
		return OpenSerial(opts.SerialDevice, opts.SerialBaud, m.logger)
	case OutputDump:
		return NewDump(m.logger), nil
	default:
		return nil, fmt.Errorf("unknown output kind: %s", opts.Kind)
	}
}

// OpenVirtual creates a virtual output port other applications can connect to
func (m *Manager) OpenVirtual(name string) (Output, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	drv, ok := drivers.Get().(*rtmididrv.Driver)
	if !ok || drv == nil {
		return nil, fmt.Errorf("virtual ports need the rtmidi driver")
	}

	out, err := drv.OpenVirtualOut(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual port %q: %w", name, err)
	}
	m.logger.Info("virtual MIDI port created", "port", name)
	return portOutput(name, out)
}

// OpenPort connects to an existing system output port by name
func (m *Manager) OpenPort(name string) (Output, error) {
	if name == "" {
		return nil, fmt.Errorf("no output port specified")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.findOutPort(name)
	if out == nil {
		return nil, fmt.Errorf("output port not found: %s", name)
	}
	m.logger.Info("MIDI output port opened", "port", name)
	return portOutput(name, out)
}

func portOutput(name string, out drivers.Out) (Output, error) {
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("failed to create sender: %w", err)
	}
	return &sendOutput{
		name: name,
		send: func(msg Message) error {
			return send(gomidi.Message(msg.Bytes()))
		},
		close: out.Close,
	}, nil
}

func (m *Manager) findOutPort(name string) drivers.Out {
	outs := gomidi.GetOutPorts()
	for _, out := range outs {
		if out.String() == name {
			return out
		}
	}
	return nil
}
