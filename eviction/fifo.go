// This file implements FIFO eviction.

package eviction

/*
fifo evicts in pure insertion order. A queue keeps the order, a set makes
membership checks O(1). Reads are ignored entirely; only the first
insertion of a key matters.
*/
type fifo struct {
	queue []string
	set   map[string]struct{}
}

func newFIFO() *fifo {
	return &fifo{set: make(map[string]struct{})}
}

// OnGet is a no-op; FIFO does not care about reads.
func (f *fifo) OnGet(string) {}

// OnPut appends a key the first time it is seen.
func (f *fifo) OnPut(k string) {
	if _, ok := f.set[k]; ok {
		return
	}
	f.queue = append(f.queue, k)
	f.set[k] = struct{}{}
}

// Evict removes and returns the oldest inserted key.
func (f *fifo) Evict() string {
	// Entries removed via Remove leave holes in the queue; skip them.
	for len(f.queue) > 0 {
		k := f.queue[0]
		f.queue = f.queue[1:]
		if _, ok := f.set[k]; ok {
			delete(f.set, k)
			return k
		}
	}
	return ""
}

// Remove drops the key from the set. The queue slot is left in place and
// skipped lazily on eviction, which keeps Remove O(1).
func (f *fifo) Remove(k string) {
	delete(f.set, k)
}
