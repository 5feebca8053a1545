package engine

import (
	"github.com/PixPMusic/gopher-bass/internal/layout"
	"github.com/PixPMusic/gopher-bass/internal/midi"
)

// KeyHandler translates press and release of a bound key into MIDI messages
type KeyHandler interface {
	// Press returns the messages for a key going down, in send order
	Press(entry layout.Entry) []midi.Message

	// Release returns the messages for a key going up, in send order
	Release(entry layout.Entry) []midi.Message
}

// BassHandler plays the notes of bass and chord buttons
type BassHandler struct {
	notes *Registry
}

func NewBassHandler(notes *Registry) *BassHandler {
	return &BassHandler{notes: notes}
}

func (h *BassHandler) Press(e layout.Entry) []midi.Message {
	return notesOn(h.notes, e, nil)
}

func (h *BassHandler) Release(e layout.Entry) []midi.Message {
	return notesOff(h.notes, e, nil)
}

// AuxHandler plays the notes and controllers of auxiliary keys
type AuxHandler struct {
	notes   *Registry
	toggles *ToggleStore
}

func NewAuxHandler(notes *Registry, toggles *ToggleStore) *AuxHandler {
	return &AuxHandler{notes: notes, toggles: toggles}
}

func (h *AuxHandler) Press(e layout.Entry) []midi.Message {
	msgs := notesOn(h.notes, e, nil)

	ctl := e.Control
	if ctl == nil {
		return msgs
	}
	value := ctl.Value
	if ctl.Behavior == layout.Toggle {
		value = 0
		if h.toggles.Flip(e.Key) {
			value = 127
		}
	}
	return controls(e, value, msgs)
}

func (h *AuxHandler) Release(e layout.Entry) []midi.Message {
	msgs := notesOff(h.notes, e, nil)

	ctl := e.Control
	if ctl == nil || ctl.Behavior == layout.Toggle {
		return msgs
	}
	return controls(e, 0, msgs)
}

func notesOn(reg *Registry, e layout.Entry, msgs []midi.Message) []midi.Message {
	for _, n := range e.Notes {
		msgs = append(msgs, midi.NoteOn(e.Channel, n, e.Velocity))
		reg.Add(NoteKey{Note: n, Channel: e.Channel})
	}
	return msgs
}

func notesOff(reg *Registry, e layout.Entry, msgs []midi.Message) []midi.Message {
	for _, n := range e.Notes {
		msgs = append(msgs, midi.NoteOff(e.Channel, n))
		reg.Remove(NoteKey{Note: n, Channel: e.Channel})
	}
	return msgs
}

func controls(e layout.Entry, value uint8, msgs []midi.Message) []midi.Message {
	for _, cc := range e.Control.Numbers {
		msgs = append(msgs, midi.ControlChange(e.Channel, cc, value))
	}
	return msgs
}
