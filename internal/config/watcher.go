package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/keel/internal/event"
)

// ReloadEvent fires when a config file changes on disk. Subscribers
// rebuild whatever they derived from the file.
type ReloadEvent struct {
	Path string
}

// Watcher publishes ReloadEvents when files in the config folder change.
type Watcher struct {
	fs   *fsnotify.Watcher
	done chan struct{}
}

// Watch starts watching dir. Write and create events on the two config
// files publish a ReloadEvent on the bus.
func Watch(dir string, bus *event.Bus) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, err
	}

	w := &Watcher{fs: fs, done: make(chan struct{})}
	go w.run(bus)
	return w, nil
}

func (w *Watcher) run(bus *event.Bus) {
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			switch filepath.Base(ev.Name) {
			case KeybindingsFile, EditorFile:
				event.Publish(bus, ReloadEvent{Path: ev.Name})
			}
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}
