package layout

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a layout file whenever it changes on disk. Only layouts
// that parse and validate are delivered; a broken edit is logged and the
// previous layout stays in effect.
type Watcher struct {
	path    string
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	updates chan *Table
}

// NewWatcher starts watching the directory that holds path
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// editors often replace the file, so watch the directory rather than the file
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	return &Watcher{
		path:    path,
		logger:  logger,
		watcher: fw,
		updates: make(chan *Table),
	}, nil
}

// Updates delivers each successfully reloaded layout
func (w *Watcher) Updates() <-chan *Table {
	return w.updates
}

// Run processes file events until ctx is done or the watcher is closed.
// Updates is closed when Run returns.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.updates)

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fire = time.After(reloadDebounce)

		case <-fire:
			fire = nil
			t, err := Load(w.path, w.logger)
			if err != nil {
				w.logger.Error("layout reload failed, keeping current layout", "path", w.path, "error", err)
				continue
			}
			w.logger.Info("layout reloaded", "path", w.path, "keys", t.Len())
			select {
			case w.updates <- t:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("layout watcher error", "error", err)
		}
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
