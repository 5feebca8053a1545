package layout

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/PixPMusic/gopher-bass/internal/notes"
)

var (
	ErrMissingBassMapping = errors.New("layout has no bass_mapping")
	ErrInvalidChannel     = errors.New("MIDI channel must be between 1 and 16")
	ErrInvalidVelocity    = errors.New("velocity must be between 0 and 127")
	ErrValueOutOfBounds   = errors.New("controller number or value out of bounds")
	ErrUnknownBehavior    = errors.New("unknown controller behavior")
	ErrInvalidLayout      = errors.New("invalid layout")
	ErrLayoutNotFound     = errors.New("layout not found")
)

const (
	defaultVelocity     = 100
	defaultControlValue = 127
)

// Document is a layout as written in a layout file, before validation
type Document struct {
	MIDIChannel    *int                `yaml:"midi_channel"`
	Velocity       *int                `yaml:"velocity"`
	ChannelMapping map[string]int      `yaml:"channel_mapping"`
	BassMapping    map[string]RawEntry `yaml:"bass_mapping"`
	AuxiliaryKeys  map[string]RawEntry `yaml:"auxiliary_keys"`
	Info           Info                `yaml:"layout_info"`
	GrabKey        string              `yaml:"grab_key"`
}

// RawEntry is one key binding as written. Notes holds a note name, a MIDI
// number, or a list of one kind; CC holds a number or a list of numbers.
type RawEntry struct {
	Name     string `yaml:"name"`
	Notes    any    `yaml:"notes"`
	Type     string `yaml:"type"`
	Channel  *int   `yaml:"channel"`
	CC       any    `yaml:"cc"`
	Value    *int   `yaml:"value"`
	Behavior string `yaml:"behavior"`
}

// Build validates a document and resolves it into a Table. Warnings about
// questionable but accepted input go to logger.
func Build(doc *Document, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if doc == nil || len(doc.BassMapping) == 0 {
		return nil, ErrMissingBassMapping
	}

	def := 1
	if doc.MIDIChannel != nil {
		def = *doc.MIDIChannel
	}
	if err := checkChannel(def); err != nil {
		return nil, fmt.Errorf("midi_channel: %w", err)
	}

	vel := defaultVelocity
	if doc.Velocity != nil {
		vel = *doc.Velocity
	}
	if vel < 0 || vel > 127 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVelocity, vel)
	}

	categories := make(map[string]uint8, len(doc.ChannelMapping))
	for cat, ch := range doc.ChannelMapping {
		if err := checkChannel(ch); err != nil {
			return nil, fmt.Errorf("channel_mapping.%s: %w", cat, err)
		}
		categories[cat] = uint8(ch - 1)
	}

	b := &builder{
		logger:     logger,
		def:        uint8(def - 1),
		velocity:   uint8(vel),
		categories: categories,
	}

	t := &Table{
		primary:        make(map[string]Entry, len(doc.BassMapping)),
		auxiliary:      make(map[string]Entry, len(doc.AuxiliaryKeys)),
		DefaultChannel: b.def,
		Velocity:       b.velocity,
		GrabKey:        doc.GrabKey,
		Info:           doc.Info,
	}
	if t.GrabKey == "" {
		t.GrabKey = DefaultGrabKey
	}

	for _, key := range sortedKeys(doc.BassMapping) {
		e, err := b.primary(key, doc.BassMapping[key])
		if err != nil {
			return nil, fmt.Errorf("bass_mapping.%s: %w", key, err)
		}
		t.primary[key] = e
	}

	for _, key := range sortedKeys(doc.AuxiliaryKeys) {
		if _, dup := t.primary[key]; dup {
			logger.Warn("key bound in both bass_mapping and auxiliary_keys, ignoring auxiliary binding", "key", key)
			continue
		}
		e, err := b.auxiliary(key, doc.AuxiliaryKeys[key])
		if err != nil {
			return nil, fmt.Errorf("auxiliary_keys.%s: %w", key, err)
		}
		t.auxiliary[key] = e
	}

	if _, bound := t.Lookup(t.GrabKey); bound {
		logger.Warn("grab key is also bound in the layout; the binding will never play", "key", t.GrabKey)
	}
	return t, nil
}

type builder struct {
	logger     *slog.Logger
	def        uint8
	velocity   uint8
	categories map[string]uint8
}

func (b *builder) channel(key string, explicit *int, category string) (uint8, error) {
	if explicit != nil {
		if err := checkChannel(*explicit); err != nil {
			return 0, err
		}
		return uint8(*explicit - 1), nil
	}
	if category != "" {
		if ch, ok := b.categories[category]; ok {
			return ch, nil
		}
		b.logger.Debug("no channel_mapping for category, using default channel", "key", key, "type", category)
	}
	return b.def, nil
}

func (b *builder) primary(key string, raw RawEntry) (Entry, error) {
	r, err := notes.FromValue(raw.Notes)
	if err != nil {
		return Entry{}, err
	}
	ns, err := notes.Resolve(r)
	if err != nil {
		return Entry{}, err
	}
	if raw.CC != nil || raw.Behavior != "" || raw.Value != nil {
		b.logger.Warn("controller fields are ignored in bass_mapping", "key", key)
	}
	ch, err := b.channel(key, raw.Channel, raw.Type)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Key:      key,
		Label:    labelOr(raw.Name, key),
		Section:  Primary,
		Category: raw.Type,
		Notes:    ns,
		Channel:  ch,
		Velocity: b.velocity,
	}, nil
}

func (b *builder) auxiliary(key string, raw RawEntry) (Entry, error) {
	e := Entry{
		Key:      key,
		Label:    labelOr(raw.Name, key),
		Section:  Auxiliary,
		Category: raw.Type,
		Velocity: b.velocity,
	}

	if raw.Notes != nil {
		r, err := notes.FromValue(raw.Notes)
		if err != nil {
			return Entry{}, err
		}
		if e.Notes, err = notes.Resolve(r); err != nil {
			return Entry{}, err
		}
	}

	ch, err := b.channel(key, raw.Channel, raw.Type)
	if err != nil {
		return Entry{}, err
	}
	e.Channel = ch

	if raw.CC == nil {
		if raw.Behavior != "" || raw.Value != nil {
			b.logger.Warn("behavior and value need a cc, ignoring them", "key", key)
		}
		if !e.HasNotes() {
			b.logger.Warn("auxiliary key has neither notes nor cc", "key", key)
		}
		return e, nil
	}

	ctl, err := b.control(key, raw)
	if err != nil {
		return Entry{}, err
	}
	e.Control = ctl
	return e, nil
}

func (b *builder) control(key string, raw RawEntry) (*ControlSpec, error) {
	ints, err := intList(raw.CC)
	if err != nil {
		return nil, fmt.Errorf("cc: %w", err)
	}
	if len(ints) == 0 {
		return nil, fmt.Errorf("cc: empty list")
	}

	ctl := &ControlSpec{Numbers: make([]uint8, 0, len(ints))}
	for _, n := range ints {
		v, err := b.dataByte(key, "cc", n)
		if err != nil {
			return nil, err
		}
		ctl.Numbers = append(ctl.Numbers, v)
	}

	val := defaultControlValue
	if raw.Value != nil {
		val = *raw.Value
	}
	if ctl.Value, err = b.dataByte(key, "value", val); err != nil {
		return nil, err
	}

	switch raw.Behavior {
	case "", "momentary":
		ctl.Behavior = Momentary
	case "toggle":
		ctl.Behavior = Toggle
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBehavior, raw.Behavior)
	}
	return ctl, nil
}

// dataByte accepts 0-255. Values above 127 are not valid MIDI data bytes
// but are passed through unchanged, so they only produce a warning.
func (b *builder) dataByte(key, field string, v int) (uint8, error) {
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("%w: %s %d", ErrValueOutOfBounds, field, v)
	}
	if v > 127 {
		b.logger.Warn("controller "+field+" above 127 is sent as is", "key", key, field, v)
	}
	return uint8(v), nil
}

func checkChannel(ch int) error {
	if ch < 1 || ch > 16 {
		return fmt.Errorf("%w: got %d", ErrInvalidChannel, ch)
	}
	return nil
}

func intList(v any) ([]int, error) {
	switch t := v.(type) {
	case int:
		return []int{t}, nil
	case []int:
		return t, nil
	case []any:
		out := make([]int, 0, len(t))
		for _, item := range t {
			n, ok := item.(int)
			if !ok {
				return nil, fmt.Errorf("expected integer, got %T", item)
			}
			out = append(out, n)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected integer or list of integers, got %T", v)
	}
}

func labelOr(name, key string) string {
	if name != "" {
		return name
	}
	return key
}

func sortedKeys(m map[string]RawEntry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
