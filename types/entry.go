package types

import (
	"time"

	"github.com/krisalay/cache-provider/retention"
)

/*
CacheEntry is the unit the store holds: one key, one value, one retention
policy deciding when the value stops being returnable.

A key maps to at most one live entry. Replacing a key swaps the whole entry
(value AND policy) in one store write, so readers either see the old entry
or the new one, never a mix.

The value is opaque to the cache. Nothing here inspects it beyond the
emptiness check the provider performs before the entry is ever built.
*/
type CacheEntry struct {
	Key   string
	Value any

	// Retention decides when this entry becomes invisible to readers.
	// Exactly one policy per entry; it never changes after creation.
	Retention retention.Policy

	// CreatedAt is set at insertion and immutable afterwards.
	CreatedAt time.Time
}

// Live reports whether the entry may still be returned at the given instant.
func (e *CacheEntry) Live(now time.Time) bool {
	return e.Retention == nil || e.Retention.Live(now)
}
