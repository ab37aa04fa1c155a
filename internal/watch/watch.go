// Package watch implements a debounced fsnotify watcher over a corpus
// directory: on any write/create/remove under the root, it waits out a
// quiet period and then invokes a full rebuild-and-swap callback once.
//
// Grounded on the teacher's internal/indexing/watcher.go (fsnotify setup,
// recursive directory registration) and
// internal/indexing/debounced_rebuilder.go (the timer-reset debounce
// pattern, simplified here to a single pending flag rather than a per-file
// set, since a rebuild is always whole-corpus in this domain).
package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher debounces filesystem events under one root directory into a
// single rebuild callback invocation per quiet period.
type Watcher struct {
	fsw     *fsnotify.Watcher
	root    string
	debounce time.Duration
	onChange func()

	mu      sync.Mutex
	timer   *time.Timer
	pending bool

	done chan struct{}
}

// New starts watching root (recursively) for changes, invoking onChange
// after debounce has elapsed with no further events. debounce <= 0 falls
// back to 200ms.
func New(root string, debounce time.Duration, onChange func()) (*Watcher, error) {
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := addRecursive(fsw, root); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		root:     root,
		debounce: debounce,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	go w.loop()
	return w, nil
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.schedule()
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	if !w.pending {
		w.mu.Unlock()
		return
	}
	w.pending = false
	w.mu.Unlock()

	w.onChange()
}

// Close stops the watcher and releases its fsnotify handle.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
