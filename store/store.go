package store

import "github.com/krisalay/cache-provider/types"

/*
Store is the in-process container that physically holds cache entries.

The provider treats this as an off-the-shelf collaborator: it owns entry
storage and memory-pressure eviction, and it must be safe for arbitrarily
many concurrent callers. What it does NOT do is interpret retention
policies; an expired entry can sit here until the provider (or its
background sweep) purges it, and the provider compensates by checking
liveness on every read.
*/
type Store interface {

	// Put inserts or replaces the entry for ent.Key. Replacement is atomic
	// from the reader's point of view: a concurrent Get sees either the old
	// entry or the new one.
	Put(ent *types.CacheEntry)

	// Get returns the entry for key, live or not.
	Get(key string) (*types.CacheEntry, bool)

	// Contains reports whether the key is physically present.
	Contains(key string) bool

	// Delete removes the entry. Deleting an absent key is a no-op.
	Delete(key string)

	// Keys returns a point-in-time snapshot of all physically present keys,
	// including entries whose retention has already triggered. Concurrent
	// writers may or may not be reflected; callers accept the window.
	Keys() []string

	// Len returns the number of physically present entries.
	Len() int64
}
