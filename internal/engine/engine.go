package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/PixPMusic/gopher-bass/internal/layout"
	"github.com/PixPMusic/gopher-bass/internal/midi"
)

var ErrClosed = errors.New("engine is shut down")

// Sink receives the MIDI messages the engine produces
type Sink interface {
	Send(msg midi.Message) error
	Close() error
}

// Engine routes key events through the layout to the handlers and forwards
// the resulting messages to the sink. It is not safe for concurrent use;
// feed it from a single goroutine, for example with Run.
type Engine struct {
	id       uuid.UUID
	table    *layout.Table
	sink     Sink
	logger   *slog.Logger
	notes    *Registry
	toggles  *ToggleStore
	grab     *GrabController
	handlers map[layout.Section]KeyHandler
	closed   bool
}

// New creates an engine. capturer may be nil when the input cannot be grabbed.
func New(table *layout.Table, sink Sink, capturer Capturer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New()
	notes := NewRegistry()
	toggles := NewToggleStore()
	return &Engine{
		id:      id,
		table:   table,
		sink:    sink,
		logger:  logger.With("session", id.String()),
		notes:   notes,
		toggles: toggles,
		grab:    NewGrabController(capturer),
		handlers: map[layout.Section]KeyHandler{
			layout.Primary:   NewBassHandler(notes),
			layout.Auxiliary: NewAuxHandler(notes, toggles),
		},
	}
}

// ID identifies this engine run in logs
func (e *Engine) ID() uuid.UUID { return e.id }

// Table returns the layout in effect
func (e *Engine) Table() *layout.Table { return e.table }

// Captured reports whether the keyboard is grabbed
func (e *Engine) Captured() bool { return e.grab.Captured() }

// Active returns the notes currently sounding
func (e *Engine) Active() []NoteKey { return e.notes.Active() }

// SetTable swaps in a new layout. Sounding notes and toggle states carry
// over; notes the new layout no longer releases are silenced at Shutdown.
func (e *Engine) SetTable(t *layout.Table) {
	if t == nil {
		return
	}
	e.table = t
	e.logger.Info("layout switched", "source", t.Source, "keys", t.Len())
}

// HandleEvent processes one key event and returns the messages it sent.
// A send failure does not stop the remaining messages of the event.
func (e *Engine) HandleEvent(ev KeyEvent) ([]midi.Message, error) {
	if e.closed {
		return nil, ErrClosed
	}
	e.logger.Debug("key event", "key", ev.Key, "state", ev.State)
	if ev.State != KeyDown && ev.State != KeyUp {
		return nil, nil
	}

	if ev.Key == e.table.GrabKey {
		if ev.State != KeyDown {
			return nil, nil
		}
		captured, err := e.grab.Toggle()
		if err != nil {
			return nil, err
		}
		if captured {
			e.logger.Info("keyboard grabbed, key events no longer reach other applications")
		} else {
			e.logger.Info("keyboard released")
		}
		return nil, nil
	}

	entry, ok := e.table.Lookup(ev.Key)
	if !ok {
		e.logger.Debug("unmapped key", "key", ev.Key)
		return nil, nil
	}

	h, ok := e.handlers[entry.Section]
	if !ok {
		return nil, fmt.Errorf("no handler for %s", entry.Section)
	}

	var msgs []midi.Message
	if ev.State == KeyDown {
		msgs = h.Press(entry)
	} else {
		msgs = h.Release(entry)
	}
	e.logger.Debug("binding", "key", ev.Key, "label", entry.Label, "section", entry.Section, "messages", len(msgs))

	var errs []error
	for _, m := range msgs {
		if err := e.sink.Send(m); err != nil {
			errs = append(errs, fmt.Errorf("send %s: %w", m, err))
		}
	}
	return msgs, errors.Join(errs...)
}

// Run feeds events to the engine until ctx is done or events is closed.
// Layouts arriving on reloads replace the current one between events;
// reloads may be nil. Per-event errors are logged and do not stop the loop.
func (e *Engine) Run(ctx context.Context, events <-chan KeyEvent, reloads <-chan *layout.Table) error {
	e.logger.Info("engine running", "layout", e.table.Source, "grab_key", e.table.GrabKey)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if _, err := e.HandleEvent(ev); err != nil {
				if errors.Is(err, ErrClosed) {
					return err
				}
				e.logger.Error("event failed", "event", ev.String(), "error", err)
			}

		case t, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			e.SetTable(t)
		}
	}
}

// Shutdown turns off every sounding note, releases the keyboard grab and
// closes the sink. Each step runs even if an earlier one failed. Calling it
// again is a no-op.
func (e *Engine) Shutdown() error {
	if e.closed {
		return nil
	}
	e.closed = true

	var errs []error
	active := e.notes.Drain()
	for _, n := range active {
		if err := e.sink.Send(midi.NoteOff(n.Channel, n.Note)); err != nil {
			errs = append(errs, fmt.Errorf("note off %d/%d: %w", n.Channel+1, n.Note, err))
		}
	}
	if len(active) > 0 {
		e.logger.Info("silenced sounding notes", "count", len(active))
	}

	if err := e.grab.Release(); err != nil {
		errs = append(errs, err)
	}

	if err := e.sink.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close output: %w", err))
	}

	err := errors.Join(errs...)
	if err != nil {
		e.logger.Warn("shutdown finished with errors", "error", err)
	} else {
		e.logger.Info("shutdown complete")
	}
	return err
}
