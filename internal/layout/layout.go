// Package layout holds the keyboard layout: which physical key produces which
// notes, chords and controller messages. A Table is built once from a parsed
// Document and is read-only afterwards.
package layout

import (
	"slices"
	"sort"
)

// Section tells which part of the layout an entry came from
type Section int

const (
	// Primary entries are the bass and chord buttons; they always produce notes.
	Primary Section = iota
	// Auxiliary entries may produce notes, controller messages, or both.
	Auxiliary
)

func (s Section) String() string {
	if s == Primary {
		return "bass_mapping"
	}
	return "auxiliary_keys"
}

// Behavior is how a controller reacts to press and release
type Behavior int

const (
	// Momentary sends the value on press and 0 on release.
	Momentary Behavior = iota
	// Toggle alternates 127 and 0 on each press; release does nothing.
	Toggle
)

func (b Behavior) String() string {
	if b == Toggle {
		return "toggle"
	}
	return "momentary"
}

// ControlSpec describes the controller messages of an auxiliary key
type ControlSpec struct {
	Numbers  []uint8
	Value    uint8
	Behavior Behavior
}

// Entry is one resolved key binding. Channel is 0-indexed and already
// resolved from the explicit channel, the category table or the default.
type Entry struct {
	Key      string
	Label    string
	Section  Section
	Category string
	Notes    []uint8
	Channel  uint8
	Velocity uint8
	Control  *ControlSpec
}

// HasNotes reports whether the entry sounds notes
func (e Entry) HasNotes() bool {
	return len(e.Notes) > 0
}

func (e Entry) clone() Entry {
	e.Notes = slices.Clone(e.Notes)
	if e.Control != nil {
		c := *e.Control
		c.Numbers = slices.Clone(c.Numbers)
		e.Control = &c
	}
	return e
}

// Info is the descriptive layout_info section
type Info struct {
	Name           string `yaml:"name" json:"name"`
	KeyboardLayout string `yaml:"keyboard_layout" json:"keyboard_layout"`
	Description    string `yaml:"description" json:"description"`
}

// DefaultGrabKey toggles exclusive capture of the keyboard
const DefaultGrabKey = "KEY_CAPSLOCK"

// Table is an immutable, validated layout
type Table struct {
	primary   map[string]Entry
	auxiliary map[string]Entry

	// DefaultChannel is 0-indexed
	DefaultChannel uint8
	Velocity       uint8
	GrabKey        string
	Info           Info
	Source         string
}

// Lookup finds the binding for a key, checking the primary mapping first.
// The returned entry is a copy and may be modified freely.
func (t *Table) Lookup(key string) (Entry, bool) {
	e, ok := t.primary[key]
	if !ok {
		e, ok = t.auxiliary[key]
	}
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// Len returns the number of bound keys
func (t *Table) Len() int {
	return len(t.primary) + len(t.auxiliary)
}

// Keys returns all bound keys of a section in sorted order
func (t *Table) Keys(s Section) []string {
	m := t.primary
	if s == Auxiliary {
		m = t.auxiliary
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
