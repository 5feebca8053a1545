//go:build !linux

package keyboard

import (
	"context"
	"log/slog"

	"github.com/PixPMusic/gopher-bass/internal/engine"
)

func List() ([]Info, error) {
	return nil, ErrUnsupported
}

// Keyboard is unavailable on this platform
type Keyboard struct{}

func Open(path string, logger *slog.Logger) (*Keyboard, error) {
	return nil, ErrUnsupported
}

func (k *Keyboard) Info() Info { return Info{} }

func (k *Keyboard) SetCapture(on bool) error { return ErrUnsupported }

func (k *Keyboard) Events(ctx context.Context) <-chan engine.KeyEvent {
	out := make(chan engine.KeyEvent)
	close(out)
	return out
}

func (k *Keyboard) Close() error { return nil }
