package engine

import (
	"errors"
	"fmt"
)

var ErrCaptureFailed = errors.New("keyboard capture change failed")

// Capturer engages or releases exclusive capture of the input device
type Capturer interface {
	SetCapture(on bool) error
}

// GrabController tracks whether the keyboard is exclusively captured.
// The recorded state only changes once the capturer confirms the change.
type GrabController struct {
	capturer Capturer
	captured bool
}

// NewGrabController creates a controller in the released state. A nil
// capturer accepts every change.
func NewGrabController(c Capturer) *GrabController {
	return &GrabController{capturer: c}
}

// Captured reports the confirmed capture state
func (g *GrabController) Captured() bool {
	return g.captured
}

// Toggle requests the opposite of the current state and returns the state
// now in effect
func (g *GrabController) Toggle() (bool, error) {
	if err := g.set(!g.captured); err != nil {
		return g.captured, err
	}
	return g.captured, nil
}

// Release drops capture if it is held
func (g *GrabController) Release() error {
	if !g.captured {
		return nil
	}
	return g.set(false)
}

func (g *GrabController) set(on bool) error {
	if g.capturer != nil {
		if err := g.capturer.SetCapture(on); err != nil {
			return fmt.Errorf("%w: %v", ErrCaptureFailed, err)
		}
	}
	g.captured = on
	return nil
}
