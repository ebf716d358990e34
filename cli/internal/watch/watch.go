// Package watch re-runs a callback when a database file changes on disk.
package watch

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/satishbabariya/sqldol/internal/debug"
)

// DefaultDebounce collapses bursts of writes into one callback.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a database file and its journal files for changes
type Watcher struct {
	files    map[string]bool
	callback func() error
	watcher  *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once

	// Debounce is the quiet period before the callback runs.
	Debounce time.Duration
	// Errors receives callback and watcher errors; nil discards them.
	Errors io.Writer
}

// NewWatcher creates a watcher for file. SQLite's -wal and -journal
// siblings count as changes to file.
func NewWatcher(file string, callback func() error) (*Watcher, error) {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// watch the directory: sqlite replaces journal files rather than editing them
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return &Watcher{
		files: map[string]bool{
			absPath:              true,
			absPath + "-wal":     true,
			absPath + "-journal": true,
		},
		callback: callback,
		watcher:  watcher,
		done:     make(chan struct{}),
		Debounce: DefaultDebounce,
	}, nil
}

// Start runs the callback once, then again after every change.
func (w *Watcher) Start() error {
	if err := w.callback(); err != nil {
		return fmt.Errorf("initial callback failed: %w", err)
	}

	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	debounceTimer := time.NewTimer(w.Debounce)
	debounceTimer.Stop()
	var debounceCh <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if eventPath, err := filepath.Abs(event.Name); err == nil && w.files[eventPath] {
				debounceTimer.Reset(w.Debounce)
				debounceCh = debounceTimer.C
			}

		case <-debounceCh:
			debounceCh = nil
			debug.Debug("watched file changed")
			if err := w.callback(); err != nil {
				w.report("watch callback error: %v", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report("watch error: %v", err)

		case <-w.done:
			debounceTimer.Stop()
			return
		}
	}
}

func (w *Watcher) report(format string, args ...any) {
	if w.Errors != nil {
		fmt.Fprintf(w.Errors, format+"\n", args...)
	}
}

// Stop stops watching. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}
