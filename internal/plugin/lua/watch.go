package lua

import (
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to one script file.
//
// It watches the file's directory rather than the file so that editors
// which save by rename keep triggering reloads. Changes are coalesced:
// Changed holds at most one pending notification.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string

	changed chan struct{}
	errors  atomic.Int64

	closeOnce sync.Once
	closeCh   chan struct{}
	done      chan struct{}
}

// NewWatcher starts watching path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: fsw,
		path:    abs,
		changed: make(chan struct{}, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.processLoop()
	return w, nil
}

// Changed receives a value after the file was written, created or
// renamed into place.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Errors returns the number of watcher errors seen.
func (w *Watcher) Errors() int64 {
	return w.errors.Load()
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) processLoop() {
	defer close(w.done)

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) {
				w.notify()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.errors.Add(1)
		}
	}
}

func (w *Watcher) notify() {
	select {
	case w.changed <- struct{}{}:
	default:
		// A reload is already pending.
	}
}
