// Package watch notifies the panels when their current directory changes
// behind their back (another panel, another process). It wraps fsnotify and
// reduces raw events to per-directory refresh hints.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"twc/internal/log"
)

// Event asks for a re-listing of one directory.
type Event struct {
	Dir string
}

// Watcher tracks one directory per panel side and emits refresh hints. A
// panel re-targets its watch on every cd. The watched set is reference
// counted: a directory shown by both panels stays watched until the last
// side leaves it.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	events    chan Event

	mu      sync.Mutex
	watched map[string]int
	closed  bool
}

// New creates a started watcher. Call Close when the UI shuts down.
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		events:    make(chan Event, 16),
		watched:   make(map[string]int),
	}
	go w.loop()
	return w, nil
}

// Watch replaces old with dir in the watch set. An empty old only adds.
// Errors are logged, not returned: a panel on an unwatchable directory
// still works through manual refresh.
func (w *Watcher) Watch(old, dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	if old != "" && old != dir {
		switch n := w.watched[old]; {
		case n > 1:
			w.watched[old] = n - 1
		case n == 1:
			delete(w.watched, old)
			if err := w.fsWatcher.Remove(old); err != nil {
				log.Debugf("unwatching %s: %v", old, err)
			}
		}
	}

	if w.watched[dir] > 0 {
		w.watched[dir]++
		return
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		log.Warnf("watching %s: %v", dir, err)
		return
	}
	w.watched[dir] = 1
	log.WithFields(log.F{Key: "directory", Value: dir}).Debug("watching directory")
}

// Events delivers refresh hints. The channel is buffered and lossy under
// pressure; a dropped hint only delays the refresh to the next event.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops the watcher and closes the event channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	defer close(w.events)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			hint := Event{Dir: filepath.Dir(event.Name)}
			select {
			case w.events <- hint:
			default:
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warnf("watcher error: %v", err)
		}
	}
}
