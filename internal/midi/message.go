package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Status nibbles of the channel messages this program emits
const (
	StatusNoteOff       uint8 = 0x80
	StatusNoteOn        uint8 = 0x90
	StatusControlChange uint8 = 0xB0
)

// Message is a raw 3-byte MIDI channel message.
// Data bytes are stored verbatim; values above 127 are not masked.
type Message [3]byte

// NoteOn builds a Note-On message. Channel is 0-15.
func NoteOn(channel, note, velocity uint8) Message {
	return Message{StatusNoteOn | channel&0x0F, note, velocity}
}

// NoteOff builds a Note-Off message with release velocity 0
func NoteOff(channel, note uint8) Message {
	return Message{StatusNoteOff | channel&0x0F, note, 0}
}

// ControlChange builds a Control-Change message
func ControlChange(channel, controller, value uint8) Message {
	return Message{StatusControlChange | channel&0x0F, controller, value}
}

// Status returns the status nibble (0x80, 0x90, 0xB0, ...)
func (m Message) Status() uint8 {
	return m[0] & 0xF0
}

// Channel returns the 0-indexed channel
func (m Message) Channel() uint8 {
	return m[0] & 0x0F
}

// Bytes returns the message as a slice for port writers
func (m Message) Bytes() []byte {
	return m[:]
}

func (m Message) String() string {
	if m[1] > 0x7F || m[2] > 0x7F {
		// gomidi does not describe out-of-range data bytes usefully
		return fmt.Sprintf("% X", m[:])
	}
	return gomidi.Message(m[:]).String()
}
