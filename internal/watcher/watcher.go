// Package watcher reports debounced changes to the task database file.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the burst of events a single SQLite commit produces.
const debounceDelay = 100 * time.Millisecond

// Watcher watches the directory holding a database file and invokes a
// callback when that file, or its journal or WAL siblings, change.
type Watcher struct {
	fsw      *fsnotify.Watcher
	base     string
	delay    time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
}

// New watches dbPath. The parent directory is watched so that files the
// driver recreates are still seen.
func New(dbPath string, callback func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(dbPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return &Watcher{
		fsw:      fsw,
		base:     filepath.Base(dbPath),
		delay:    debounceDelay,
		callback: callback,
	}, nil
}

// Run blocks until ctx is canceled. Watch errors go to errFn when set.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			w.debounce()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) relevant(name string) bool {
	b := filepath.Base(name)
	return b == w.base || strings.HasPrefix(b, w.base+"-")
}

func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.callback)
}
