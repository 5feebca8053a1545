//go:build linux

package keyboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"

	"github.com/holoplot/go-evdev"

	"github.com/PixPMusic/gopher-bass/internal/engine"
)

// List returns the readable input devices that have letter keys
func List() ([]Info, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	var out []Info
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		if slices.Contains(dev.CapableEvents(evdev.EV_KEY), evdev.KEY_A) {
			phys, _ := dev.PhysicalLocation()
			if phys == "" {
				phys = "N/A"
			}
			out = append(out, Info{Path: p.Path, Name: p.Name, Phys: phys})
		}
		dev.Close()
	}
	return out, nil
}

// Keyboard is an open input device
type Keyboard struct {
	dev    *evdev.InputDevice
	info   Info
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// Open opens the device at path for reading
func Open(path string, logger *slog.Logger) (*Keyboard, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dev, err := evdev.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return nil, fmt.Errorf("open %s: %w (is your user in the input group?)", path, err)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	name, _ := dev.Name()
	phys, _ := dev.PhysicalLocation()
	k := &Keyboard{
		dev:    dev,
		info:   Info{Path: path, Name: name, Phys: phys},
		logger: logger.With("device", path),
	}
	k.logger.Info("keyboard opened", "name", name)
	return k, nil
}

// Info describes the open device
func (k *Keyboard) Info() Info { return k.info }

// SetCapture grabs or releases the device. While grabbed, key events only
// reach this program.
func (k *Keyboard) SetCapture(on bool) error {
	if on {
		return k.dev.Grab()
	}
	return k.dev.Ungrab()
}

// Events reads key transitions until ctx is done or the device fails.
// The returned channel is closed when reading stops.
func (k *Keyboard) Events(ctx context.Context) <-chan engine.KeyEvent {
	out := make(chan engine.KeyEvent)
	go func() {
		defer close(out)
		for {
			ie, err := k.dev.ReadOne()
			if err != nil {
				if !k.isClosed() && ctx.Err() == nil {
					k.logger.Error("keyboard read failed", "error", err)
				}
				return
			}
			if ie.Type != evdev.EV_KEY {
				continue
			}
			state, ok := stateFromValue(ie.Value)
			if !ok {
				continue
			}
			ev := engine.KeyEvent{Key: evdev.CodeName(ie.Type, ie.Code), State: state}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (k *Keyboard) isClosed() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.closed
}

// Close releases the device, which also stops a pending read
func (k *Keyboard) Close() error {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return nil
	}
	k.closed = true
	k.mu.Unlock()
	return k.dev.Close()
}
