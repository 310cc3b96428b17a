package config

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Errors returned by the watcher.
var (
	ErrWatcherClosed = errors.New("watcher closed")
)

// debounceDelay coalesces the bursts of write events editors emit when
// saving a file.
const debounceDelay = 100 * time.Millisecond

// ReloadFunc receives the freshly loaded configuration after the watched
// file changes. Load errors keep the previous configuration and are
// reported through the error callback instead.
type ReloadFunc func(Config)

// ErrorFunc receives watch and reload errors.
type ErrorFunc func(error)

// Watcher reloads the configuration when its file changes on disk.
type Watcher struct {
	mu sync.Mutex

	path    string
	watcher *fsnotify.Watcher
	reload  ReloadFunc
	onError ErrorFunc

	debounce *time.Timer
	closed   bool
	done     chan struct{}
}

// Watch starts watching the config file at path. The reload callback runs
// on the watcher's goroutine after each debounced change.
func Watch(path string, reload ReloadFunc, onError ErrorFunc) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: editors replace files on save,
	// which drops a watch on the file itself.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    abs,
		watcher: fsw,
		reload:  reload,
		onError: onError,
		done:    make(chan struct{}),
	}

	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(debounceDelay, w.doReload)
}

func (w *Watcher) doReload() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	path := w.path
	reload := w.reload
	w.mu.Unlock()

	cfg, err := Load(path)
	if err != nil {
		w.reportError(err)
		return
	}
	if reload != nil {
		reload(cfg)
	}
}

func (w *Watcher) reportError(err error) {
	w.mu.Lock()
	onError := w.onError
	w.mu.Unlock()
	if onError != nil {
		onError(err)
	}
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	<-w.done
	return err
}
