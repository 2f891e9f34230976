package kv

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a File backend's data file. It watches the
// parent directory because writes replace the file through a rename.
type Watcher struct {
	path     string
	debounce time.Duration
	onError  func(error)

	fsw     *fsnotify.Watcher
	changes chan struct{}

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	mu     sync.Mutex
	closed bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides the default debounce window.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// OnWatchError registers a callback for watcher failures.
func OnWatchError(fn func(error)) WatcherOption {
	return func(w *Watcher) { w.onError = fn }
}

// NewWatcher starts watching path.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("watch path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		debounce: 100 * time.Millisecond,
		fsw:      fsw,
		changes:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.debounce <= 0 {
		w.debounce = 100 * time.Millisecond
	}
	go w.loop()
	return w, nil
}

// Changes delivers one value per debounced burst of file events. A pending
// notification is never duplicated. The channel is closed by Close.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops watching.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stop)
		<-w.done
		err = w.fsw.Close()

		w.mu.Lock()
		w.closed = true
		close(w.changes)
		w.mu.Unlock()
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	var timer *time.Timer
	schedule := func() {
		if timer == nil {
			timer = time.AfterFunc(w.debounce, w.notify)
			return
		}
		timer.Reset(w.debounce)
	}

	for {
		select {
		case <-w.stop:
			if timer != nil {
				timer.Stop()
			}
			return
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if err != nil && w.onError != nil {
				w.onError(err)
			}
		case evt, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != w.path {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				schedule()
			}
		}
	}
}

func (w *Watcher) notify() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
