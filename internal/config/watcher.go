package config

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the burst of write events editors emit when
// saving a file.
const debounceWindow = 200 * time.Millisecond

// Watcher reports changes to the config file so preferences can be
// applied without a restart.
type Watcher struct {
	fsw    *fsnotify.Watcher
	path   string
	events chan struct{}
	done   chan struct{}
}

// Watch starts watching the config file at path. The parent directory is
// watched rather than the file itself so replace-on-save editors keep
// working.
func Watch(path string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		path:   path,
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go w.loop(logger)
	return w, nil
}

// Events signals once per (debounced) config file change.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Stop shuts the watcher down.
func (w *Watcher) Stop() {
	close(w.done)
	w.fsw.Close()
}

func (w *Watcher) loop(logger *slog.Logger) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				fire = timer.C
			} else {
				timer.Reset(debounceWindow)
			}

		case <-fire:
			timer = nil
			fire = nil
			select {
			case w.events <- struct{}{}:
			default: // a reload is already pending
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if logger != nil {
				logger.Warn("config watcher error", "err", err)
			}
		}
	}
}
