package midi

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestNoteOn(t *testing.T) {
	msg := NoteOn(2, 36, 90)
	assert.Equal(t, Message{0x92, 36, 90}, msg)
	assert.Equal(t, StatusNoteOn, msg.Status())
	assert.Equal(t, uint8(2), msg.Channel())

	var ch, key, vel uint8
	require.True(t, gomidi.Message(msg.Bytes()).GetNoteOn(&ch, &key, &vel))
	assert.Equal(t, uint8(2), ch)
	assert.Equal(t, uint8(36), key)
	assert.Equal(t, uint8(90), vel)
}

func TestNoteOff(t *testing.T) {
	msg := NoteOff(15, 43)
	assert.Equal(t, Message{0x8F, 43, 0}, msg)
	assert.Equal(t, StatusNoteOff, msg.Status())

	var ch, key, vel uint8
	require.True(t, gomidi.Message(msg.Bytes()).GetNoteOff(&ch, &key, &vel))
	assert.Equal(t, uint8(15), ch)
	assert.Equal(t, uint8(43), key)
}

func TestControlChange(t *testing.T) {
	msg := ControlChange(0, 7, 127)
	assert.Equal(t, Message{0xB0, 7, 127}, msg)

	var ch, cc, val uint8
	require.True(t, gomidi.Message(msg.Bytes()).GetControlChange(&ch, &cc, &val))
	assert.Equal(t, uint8(7), cc)
	assert.Equal(t, uint8(127), val)
}

func TestControlChangeKeepsOutOfRangeBytes(t *testing.T) {
	msg := ControlChange(1, 200, 127)
	assert.Equal(t, Message{0xB1, 200, 127}, msg)
	assert.Equal(t, "B1 C8 7F", msg.String())
}

func TestChannelMasked(t *testing.T) {
	// channel 16 (0x10) must not bleed into the status nibble
	msg := NoteOn(0x10, 60, 1)
	assert.Equal(t, StatusNoteOn, msg.Status())
	assert.Equal(t, uint8(0), msg.Channel())
}

func TestParseOutputKind(t *testing.T) {
	tests := []struct {
		in   string
		want OutputKind
	}{
		{"", OutputVirtual},
		{"virtual", OutputVirtual},
		{"PORT", OutputPort},
		{" serial ", OutputSerial},
		{"dump", OutputDump},
	}
	for _, tt := range tests {
		got, err := ParseOutputKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseOutputKind("jack")
	assert.Error(t, err)
}

func TestDumpOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	out := NewDump(logger)
	require.NoError(t, out.Send(NoteOn(0, 36, 100)))
	require.NoError(t, out.Send(NoteOff(0, 36)))
	require.NoError(t, out.Close())

	assert.Equal(t, 2, out.Count())
	assert.Equal(t, "dump", out.Name())
	assert.Contains(t, buf.String(), "90 24 64")
	assert.Contains(t, buf.String(), "messages=2")
}

func TestOpenSerialNeedsDevice(t *testing.T) {
	_, err := OpenSerial("", 0, nil)
	assert.Error(t, err)
}
