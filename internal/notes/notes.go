package notes

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrInvalidNoteFormat = errors.New("invalid note format")
	ErrUnknownNoteName   = errors.New("unknown note name")
	ErrMixedNoteTypes    = errors.New("mixed note types")
	ErrNoteOutOfRange    = errors.New("note out of range")
	ErrNoNotes           = errors.New("no notes")
)

// pitchClass maps a letter plus optional accidental to its offset within the octave.
// Sharp and flat spellings of the same pitch share an entry value.
var pitchClass = map[string]int{
	"C": 0, "C#": 1, "Db": 1,
	"D": 2, "D#": 3, "Eb": 3,
	"E": 4,
	"F": 5, "F#": 6, "Gb": 6,
	"G": 7, "G#": 8, "Ab": 8,
	"A": 9, "A#": 10, "Bb": 10,
	"B": 11,
}

// MaxNote is the highest valid MIDI note number
const MaxNote = 127

// Parse converts a note name such as "C1", "F#2" or "Bb3" to a MIDI note number.
// Octave 1 is the bass register: C1 is 36.
func Parse(name string) (int, error) {
	if len(name) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNoteFormat, name)
	}

	octave, err := strconv.Atoi(name[len(name)-1:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: bad octave", ErrInvalidNoteFormat, name)
	}

	offset, ok := pitchClass[name[:len(name)-1]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNoteName, name[:len(name)-1])
	}

	note := (octave+2)*12 + offset
	if note > MaxNote {
		return 0, fmt.Errorf("%w: %q resolves to %d", ErrNoteOutOfRange, name, note)
	}
	return note, nil
}

// Kind tags the shape a note field had in the layout file
type Kind int

const (
	SingleName Kind = iota
	NameList
	SingleNumber
	NumberList
)

func (k Kind) String() string {
	switch k {
	case SingleName:
		return "name"
	case NameList:
		return "name list"
	case SingleNumber:
		return "number"
	case NumberList:
		return "number list"
	}
	return "unknown"
}

// Raw is an unresolved note field. Build it with Name, Names, Number or Numbers;
// the zero value resolves to ErrNoNotes.
type Raw struct {
	kind    Kind
	names   []string
	numbers []int
	set     bool
}

func Name(n string) Raw      { return Raw{kind: SingleName, names: []string{n}, set: true} }
func Names(ns ...string) Raw { return Raw{kind: NameList, names: ns, set: true} }
func Number(n int) Raw       { return Raw{kind: SingleNumber, numbers: []int{n}, set: true} }
func Numbers(ns ...int) Raw  { return Raw{kind: NumberList, numbers: ns, set: true} }

func (r Raw) Kind() Kind  { return r.kind }
func (r Raw) IsSet() bool { return r.set }

// FromValue classifies a decoded layout value. Strings, integers and uniform
// lists of either are accepted; a list mixing both is ErrMixedNoteTypes.
func FromValue(v any) (Raw, error) {
	switch t := v.(type) {
	case string:
		return Name(t), nil
	case int:
		return Number(t), nil
	case []string:
		return Names(t...), nil
	case []int:
		return Numbers(t...), nil
	case []any:
		return fromList(t)
	case nil:
		return Raw{}, ErrNoNotes
	}
	return Raw{}, fmt.Errorf("%w: unsupported value %T", ErrInvalidNoteFormat, v)
}

func fromList(items []any) (Raw, error) {
	var names []string
	var numbers []int
	for _, it := range items {
		switch t := it.(type) {
		case string:
			names = append(names, t)
		case int:
			numbers = append(numbers, t)
		default:
			return Raw{}, fmt.Errorf("%w: unsupported list element %T", ErrInvalidNoteFormat, it)
		}
	}

	switch {
	case len(names) > 0 && len(numbers) > 0:
		return Raw{}, fmt.Errorf("%w: %v", ErrMixedNoteTypes, items)
	case len(numbers) > 0:
		return Numbers(numbers...), nil
	default:
		return Names(names...), nil
	}
}

// Resolve normalizes a raw note field into a sequence of note numbers
func Resolve(r Raw) ([]uint8, error) {
	if !r.set {
		return nil, ErrNoNotes
	}

	var out []uint8
	switch r.kind {
	case SingleName, NameList:
		for _, n := range r.names {
			note, err := Parse(n)
			if err != nil {
				return nil, err
			}
			out = append(out, uint8(note))
		}
	case SingleNumber, NumberList:
		for _, n := range r.numbers {
			if n < 0 || n > MaxNote {
				return nil, fmt.Errorf("%w: %d", ErrNoteOutOfRange, n)
			}
			out = append(out, uint8(n))
		}
	default:
		return nil, fmt.Errorf("unsupported note kind %d", r.kind)
	}

	if len(out) == 0 {
		return nil, ErrNoNotes
	}
	return out, nil
}

// NameOf returns the conventional spelling of a note number in the same octave
// convention Parse uses, e.g. 36 -> "C1"
func NameOf(note uint8) string {
	names := [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	return fmt.Sprintf("%s%d", names[note%12], int(note)/12-2)
}
