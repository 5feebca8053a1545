// Package keyboard finds keyboard input devices and reads key transitions
// from them. Reading needs Linux evdev; other platforms only get errors.
package keyboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PixPMusic/gopher-bass/internal/engine"
)

var (
	ErrNoKeyboards    = errors.New("no keyboards found")
	ErrDeviceNotFound = errors.New("no keyboard matches")
	ErrUnsupported    = errors.New("keyboard input is only supported on Linux")
)

// Info describes an input device that can produce letter keys
type Info struct {
	Path string
	Name string
	Phys string
}

func (i Info) String() string {
	return fmt.Sprintf("%s (%s)", i.Name, i.Path)
}

// FindByName returns the first device whose name contains name, ignoring case
func FindByName(devices []Info, name string) (Info, error) {
	if name == "" {
		return Info{}, fmt.Errorf("%w: empty name", ErrDeviceNotFound)
	}
	needle := strings.ToLower(name)
	for _, d := range devices {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			return d, nil
		}
	}
	return Info{}, fmt.Errorf("%w: %q", ErrDeviceNotFound, name)
}

// stateFromValue maps an EV_KEY value to a key state: 0 up, 1 down, 2 repeat
func stateFromValue(v int32) (engine.KeyState, bool) {
	switch v {
	case 0:
		return engine.KeyUp, true
	case 1:
		return engine.KeyDown, true
	case 2:
		return engine.KeyRepeat, true
	}
	return 0, false
}
