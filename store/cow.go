package store

import (
	"sync/atomic"

	"github.com/krisalay/cache-provider/types"
)

/*
cowMap is the storage inside one shard. It is a copy-on-write map:

- Readers always see an immutable snapshot, with no lock at all
- Writers build a NEW map, copy the old entries, and swap it in atomically

Reads dominate a cache's workload by a wide margin, so we pay on the write
path (a full map copy) to make the read path a single atomic load. The
shard's write mutex already serializes writers, so two writers can never
race on the swap.
*/
type cowMap struct {
	data atomic.Value // map[string]*types.CacheEntry
	size atomic.Int64
}

func newCOWMap() *cowMap {
	m := &cowMap{}
	m.data.Store(make(map[string]*types.CacheEntry))
	return m
}

// snapshot returns the current immutable map. Callers must not mutate it.
func (m *cowMap) snapshot() map[string]*types.CacheEntry {
	return m.data.Load().(map[string]*types.CacheEntry)
}

func (m *cowMap) get(key string) (*types.CacheEntry, bool) {
	ent, ok := m.snapshot()[key]
	return ent, ok
}

// put installs or replaces an entry. Caller holds the shard write lock.
func (m *cowMap) put(ent *types.CacheEntry) {
	old := m.snapshot()

	next := make(map[string]*types.CacheEntry, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[ent.Key] = ent

	m.data.Store(next)
	m.size.Store(int64(len(next)))
}

// delete removes an entry. Caller holds the shard write lock.
func (m *cowMap) delete(key string) {
	old := m.snapshot()
	if _, ok := old[key]; !ok {
		return
	}

	next := make(map[string]*types.CacheEntry, len(old)-1)
	for k, v := range old {
		if k != key {
			next[k] = v
		}
	}

	m.data.Store(next)
	m.size.Store(int64(len(next)))
}

func (m *cowMap) len() int64 {
	return m.size.Load()
}
