package midi

import (
	"fmt"
	"log/slog"
)

// DumpOutput logs every message instead of sending it anywhere.
// It is useful for trying out a layout without a synth attached.
type DumpOutput struct {
	logger *slog.Logger
	count  int
}

// NewDump creates a dump output writing to logger
func NewDump(logger *slog.Logger) *DumpOutput {
	if logger == nil {
		logger = slog.Default()
	}
	return &DumpOutput{logger: logger}
}

func (d *DumpOutput) Send(msg Message) error {
	d.count++
	d.logger.Info("midi out", "hex", fmt.Sprintf("% X", msg[:]), "msg", msg.String())
	return nil
}

func (d *DumpOutput) Close() error {
	d.logger.Info("midi dump closed", "messages", d.count)
	return nil
}

func (d *DumpOutput) Name() string { return "dump" }

// Count returns how many messages were sent
func (d *DumpOutput) Count() int { return d.count }
