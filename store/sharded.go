package store

import (
	"hash/fnv"
	"sync"

	"github.com/krisalay/cache-provider/eviction"
	"github.com/krisalay/cache-provider/types"
)

/*
Sharded is the default Store implementation.

Instead of one big map behind one big lock, the key space is split across
independent shards selected by FNV hash. Each shard has:

- its own copy-on-write map (lock-free reads)
- its own eviction policy instance
- its own write mutex

Capacity is divided evenly across shards. When a shard is full, its
eviction policy picks a victim; the victim is reported through the OnEvict
callback and never surfaced as an error.
*/
type Sharded struct {
	shards   []*shard
	perShard int64 // <= 0 means unbounded
	onEvict  func(key string)
}

type shard struct {
	entries *cowMap
	evict   eviction.Policy

	// mu protects writes and eviction metadata. Map reads stay lock-free.
	mu sync.Mutex
}

// Option configures a Sharded store.
type Option func(*Sharded)

// OnEvict installs a callback invoked with each key removed under memory
// pressure. The callback runs while the owning shard's lock is held, so it
// must be cheap and must not call back into the store.
func OnEvict(fn func(key string)) Option {
	return func(s *Sharded) { s.onEvict = fn }
}

// NewSharded builds a store with the given shard count, total capacity and
// eviction policy. Shard counts below 1 are rounded up to 1; capacity <= 0
// means unbounded.
func NewSharded(shards, capacity int, policy eviction.PolicyType, opts ...Option) *Sharded {
	if shards < 1 {
		shards = 1
	}

	s := &Sharded{shards: make([]*shard, shards)}
	for i := range s.shards {
		s.shards[i] = &shard{
			entries: newCOWMap(),
			evict:   eviction.New(policy),
		}
	}
	if capacity > 0 {
		s.perShard = int64(capacity / shards)
		if s.perShard < 1 {
			s.perShard = 1
		}
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// shardFor routes a key to its shard by FNV-1a hash.
func (s *Sharded) shardFor(key string) *shard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return s.shards[int(h.Sum32())%len(s.shards)]
}

// Get returns the entry for key without taking any lock on the map itself.
// The recency update for the eviction policy is best-effort: under write
// contention it is skipped rather than stalling the read.
func (s *Sharded) Get(key string) (*types.CacheEntry, bool) {
	sh := s.shardFor(key)

	ent, ok := sh.entries.get(key)
	if !ok {
		return nil, false
	}

	if sh.mu.TryLock() {
		sh.evict.OnGet(key)
		sh.mu.Unlock()
	}
	return ent, true
}

// Contains reports physical presence, live or not.
func (s *Sharded) Contains(key string) bool {
	_, ok := s.shardFor(key).entries.get(key)
	return ok
}

// Put inserts or replaces an entry, evicting a victim first if the shard
// is at capacity and the key is new.
func (s *Sharded) Put(ent *types.CacheEntry) {
	sh := s.shardFor(ent.Key)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	_, replacing := sh.entries.get(ent.Key)
	if !replacing && s.perShard > 0 && sh.entries.len() >= s.perShard {
		if victim := sh.evict.Evict(); victim != "" {
			sh.entries.delete(victim)
			if s.onEvict != nil {
				s.onEvict(victim)
			}
		}
	}

	sh.entries.put(ent)
	sh.evict.OnPut(ent.Key)
}

// Delete removes an entry and its eviction bookkeeping.
func (s *Sharded) Delete(key string) {
	sh := s.shardFor(key)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	sh.entries.delete(key)
	sh.evict.Remove(key)
}

// Keys concatenates each shard's current snapshot. The result is
// point-in-time per shard, not across shards; writers running during the
// scan may or may not be included.
func (s *Sharded) Keys() []string {
	keys := make([]string, 0, s.Len())
	for _, sh := range s.shards {
		for k := range sh.entries.snapshot() {
			keys = append(keys, k)
		}
	}
	return keys
}

// Len sums the shard sizes.
func (s *Sharded) Len() int64 {
	var n int64
	for _, sh := range s.shards {
		n += sh.entries.len()
	}
	return n
}
