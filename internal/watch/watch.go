// Package watch reloads the namespace table when the configuration file
// changes on disk.
//
// The file's directory is watched rather than the file itself, so editors
// that save by writing a temporary file and renaming it over the original
// are picked up. Bursts of events are debounced into a single reload.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/imfreedom/urlmap/internal/config"
	"github.com/imfreedom/urlmap/internal/logging"
	"github.com/imfreedom/urlmap/internal/urlmap"
)

// DefaultDebounce is how long the watcher waits for events to settle.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc receives each successfully rebuilt table.
type ReloadFunc func(*urlmap.Table)

// Watcher rebuilds the table from a configuration file when it changes.
type Watcher struct {
	path     string
	onReload ReloadFunc
	debounce time.Duration

	fw   *fsnotify.Watcher
	done chan struct{}

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// New creates a watcher for the configuration file at path.
// The file need not exist yet; its directory must.
func New(path string, onReload ReloadFunc) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := fw.Add(filepath.Dir(absPath)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(absPath), err)
	}

	return &Watcher{
		path:     absPath,
		onReload: onReload,
		debounce: DefaultDebounce,
		fw:       fw,
		done:     make(chan struct{}),
	}, nil
}

// SetDebounce overrides the debounce interval. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start begins delivering reloads in a background goroutine.
func (w *Watcher) Start() {
	go w.loop()
	logging.Info("Watching configuration for changes", zap.String("path", w.path))
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				logging.Debug("Configuration file event",
					zap.String("path", event.Name),
					zap.String("op", event.Op.String()),
				)
				w.schedule()
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logging.Warn("File watcher error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}

// schedule arms or re-arms the debounce timer
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

// reload rebuilds the table; an invalid file keeps the previous table
func (w *Watcher) reload() {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}

	settings, err := config.Load(w.path)
	if err != nil {
		logging.LogReload(w.path, 0, err)
		return
	}
	table, err := settings.Table()
	if err != nil {
		logging.LogReload(w.path, 0, err)
		return
	}

	logging.LogReload(w.path, table.Len(), nil)
	w.onReload(table)
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	return w.fw.Close()
}
