package catalog

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lineal/kinsim/errors"
	"github.com/lineal/kinsim/logger"
)

// Watcher watches the data directory for catalog table changes and
// triggers change callbacks. The interactive session uses it to flag
// stale tables so the user can regenerate.
type Watcher struct {
	dir           string
	watcher       *fsnotify.Watcher
	callbacks     []ChangeCallback
	mu            sync.RWMutex
	debounceTimer *time.Timer
	debounce      time.Duration
}

// ChangeCallback is called, debounced, after one or more catalog tables
// change on disk.
type ChangeCallback func()

// NewWatcher creates a watcher over the data directory.
func NewWatcher(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "failed to watch data directory %s", dir)
	}

	return &Watcher{
		dir:      dir,
		watcher:  fsw,
		debounce: 500 * time.Millisecond, // editors fire several events per save
	}, nil
}

// OnChange registers a callback to be called when catalog tables change.
func (w *Watcher) OnChange(callback ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins watching for table changes.
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop stops watching and releases the underlying watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !isCatalogFile(event.Name) {
				continue
			}

			logger.Infow("Catalog table changed on disk",
				"file", event.Name,
				"op", event.Op.String())
			w.scheduleNotify()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Catalog watcher error", "error", err)
		}
	}
}

// scheduleNotify debounces rapid file changes before notifying callbacks.
func (w *Watcher) scheduleNotify() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.debounce, w.notify)
}

func (w *Watcher) notify() {
	w.mu.RLock()
	callbacks := make([]ChangeCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, callback := range callbacks {
		callback()
	}
}

// isCatalogFile reports whether path names one of the catalog tables.
func isCatalogFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	switch base {
	case FirstNamesFile, LastNamesFile, LastNamesAltFile,
		RankProbsFile, RatesFile, LifeExpectancyFile:
		return true
	}
	return false
}
