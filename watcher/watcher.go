/*
Package watcher turns OS file-change notifications into one-shot
invalidation callbacks.

One fsnotify.Watcher is multiplexed across every watched file. fsnotify is
only reliable for directories (watching a file directly loses the watch
when the file is replaced or deleted), so we register the PARENT directory
of each file and filter events by name. That way modification, deletion,
rename and recreation of the file itself are all observed.
*/
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Subscription is the handle returned by Watch. A subscription fires at
// most once; after the first event for its file it is dead and forgotten.
type Subscription struct {
	path     string
	onChange func()
	once     sync.Once
}

func (s *Subscription) fire() {
	s.once.Do(s.onChange)
}

// Path returns the watched file path (cleaned, absolute).
func (s *Subscription) Path() string { return s.path }

// Watcher owns the fsnotify instance and the event pump goroutine.
type Watcher struct {
	fw     *fsnotify.Watcher
	logger *log.Logger

	mu     sync.Mutex
	subs   map[string][]*Subscription // file path -> pending subscriptions
	dirs   map[string]int             // watched dir -> file refcount
	closed bool

	wg sync.WaitGroup
}

// New creates a watcher and starts its event pump. Pass a nil logger to
// use the package default.
func New(logger *log.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}

	w := &Watcher{
		fw:     fw,
		logger: logger,
		subs:   make(map[string][]*Subscription),
		dirs:   make(map[string]int),
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Watch registers a one-shot callback for any change to the named file.
// The callback runs on the watcher goroutine, so it must not block.
func (w *Watcher) Watch(path string, onChange func()) (*Subscription, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, fmt.Errorf("watcher: closed")
	}

	if w.dirs[dir] == 0 {
		if err := w.fw.Add(dir); err != nil {
			return nil, fmt.Errorf("watcher: add %s: %w", dir, err)
		}
		w.logger.Debug("fsnotify watching dir", "dir", dir)
	}
	w.dirs[dir]++

	sub := &Subscription{path: abs, onChange: onChange}
	w.subs[abs] = append(w.subs[abs], sub)
	return sub, nil
}

// Unwatch drops a subscription without firing it. Unwatching a
// subscription that already fired (or was already unwatched) is a no-op.
func (w *Watcher) Unwatch(sub *Subscription) {
	if sub == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	pending := w.subs[sub.path]
	for i, other := range pending {
		if other == sub {
			w.subs[sub.path] = append(pending[:i], pending[i+1:]...)
			if len(w.subs[sub.path]) == 0 {
				delete(w.subs, sub.path)
			}
			w.releaseDirLocked(filepath.Dir(sub.path))
			return
		}
	}
}

// Close stops the event pump and releases the fsnotify watcher.
// Pending subscriptions never fire after Close returns.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	// Closing fsnotify closes its event channel, which ends the loop.
	err := w.fw.Close()
	w.wg.Wait()
	return err
}

// releaseDirLocked decrements a directory refcount and removes the
// fsnotify watch when the last file under it is gone.
func (w *Watcher) releaseDirLocked(dir string) {
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return
	}
	delete(w.dirs, dir)
	if err := w.fw.Remove(dir); err != nil {
		// The directory itself may already be gone; nothing to do.
		w.logger.Debug("fsnotify dir remove", "dir", dir, "error", err)
	} else {
		w.logger.Debug("fsnotify dir unwatched", "dir", dir)
	}
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.dispatch(event)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Error("fsnotify error", "error", err)
		}
	}
}

// dispatch fires every pending subscription for the event's file.
//
// All operation kinds count as a change: Write and Create are content
// changes, Remove and Rename make the file disappear, and Chmod can make
// it unreadable. Over-invalidating on a harmless Chmod is acceptable;
// returning stale data after a missed change is not.
func (w *Watcher) dispatch(event fsnotify.Event) {
	name := filepath.Clean(event.Name)

	w.mu.Lock()
	fired := w.subs[name]
	if len(fired) == 0 {
		w.mu.Unlock()
		return
	}
	delete(w.subs, name)
	for range fired {
		w.releaseDirLocked(filepath.Dir(name))
	}
	w.mu.Unlock()

	w.logger.Debug("fsnotify event", "file", event.Name, "event", event.Op)

	// Callbacks run outside the lock; a callback is allowed to call
	// Watch/Unwatch again.
	for _, sub := range fired {
		sub.fire()
	}
}
