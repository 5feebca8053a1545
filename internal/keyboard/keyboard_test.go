package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PixPMusic/gopher-bass/internal/engine"
)

func TestFindByName(t *testing.T) {
	devices := []Info{
		{Path: "/dev/input/event3", Name: "AT Translated Set 2 keyboard"},
		{Path: "/dev/input/event7", Name: "Logitech USB Keyboard"},
		{Path: "/dev/input/event8", Name: "Logitech USB Keyboard Consumer Control"},
	}

	d, err := FindByName(devices, "logitech")
	require.NoError(t, err)
	assert.Equal(t, "/dev/input/event7", d.Path, "first match wins")

	d, err = FindByName(devices, "SET 2")
	require.NoError(t, err)
	assert.Equal(t, "/dev/input/event3", d.Path)

	_, err = FindByName(devices, "razer")
	assert.ErrorIs(t, err, ErrDeviceNotFound)

	_, err = FindByName(devices, "")
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestStateFromValue(t *testing.T) {
	tests := []struct {
		value int32
		want  engine.KeyState
		ok    bool
	}{
		{0, engine.KeyUp, true},
		{1, engine.KeyDown, true},
		{2, engine.KeyRepeat, true},
		{3, 0, false},
		{-1, 0, false},
	}
	for _, tt := range tests {
		got, ok := stateFromValue(tt.value)
		assert.Equal(t, tt.ok, ok, "value %d", tt.value)
		if tt.ok {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestInfoString(t *testing.T) {
	assert.Equal(t, "Kbd (/dev/input/event1)", Info{Path: "/dev/input/event1", Name: "Kbd"}.String())
}
