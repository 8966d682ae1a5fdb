package retention

import (
	"sync/atomic"
	"time"
)

/*
FileDependency ties an entry's lifetime to the content of a file on disk.

The policy itself knows nothing about the file system. It is a latch: the
file watcher flips it once when the watched file is written, renamed,
removed, or its permissions change, and from that point on the entry is
invisible to readers even if it has not been physically purged yet.

This split matters for ordering. Invalidation arrives on the watcher
goroutine, asynchronously to in-flight reads. Flipping the latch first and
purging the store second means a reader can never observe the stale value
after the latch flipped, no matter how the purge races with the read.
*/
type FileDependency struct {
	path string

	// invalid flips exactly once, from the watcher callback.
	invalid atomic.Bool
}

// NewFileDependency builds a live dependency on the given file path.
// The caller is responsible for verifying that the file exists and for
// registering the watch that will eventually call Invalidate.
func NewFileDependency(path string) *FileDependency {
	return &FileDependency{path: path}
}

// Path returns the watched file path.
func (f *FileDependency) Path() string { return f.path }

// Invalidate marks the dependency as triggered. Safe to call more than once
// and from any goroutine.
func (f *FileDependency) Invalidate() {
	f.invalid.Store(true)
}

// Live reports whether the watched file is still unchanged.
// The instant is ignored; file dependencies do not age out by time.
func (f *FileDependency) Live(time.Time) bool {
	return !f.invalid.Load()
}
