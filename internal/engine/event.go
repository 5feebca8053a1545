// Package engine turns key transitions into MIDI messages using a layout
// table. It tracks which notes are sounding and which toggles are on, so
// that everything turned on is turned off again at shutdown.
package engine

import "fmt"

// KeyState is the transition carried by a key event. The values match the
// Linux input event values for EV_KEY.
type KeyState int

const (
	KeyUp KeyState = iota
	KeyDown
	KeyRepeat
)

func (s KeyState) String() string {
	switch s {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyRepeat:
		return "repeat"
	}
	return fmt.Sprintf("KeyState(%d)", int(s))
}

// KeyEvent is one key transition from the input device
type KeyEvent struct {
	Key   string
	State KeyState
}

func (e KeyEvent) String() string {
	return e.Key + " " + e.State.String()
}
