package eviction

import "fmt"

/*
This package decides which key the store removes when a shard runs out of
space. Memory-pressure eviction is entirely the store's concern; the cache
provider above it never sees an eviction as anything other than a missing
key on the next read.

Policies only track key names and ordering metadata. They never hold entry
values, so an evicted policy node cannot pin cached data in memory.

Policies are NOT safe for concurrent use on their own. The store calls them
while holding the owning shard's write lock.
*/

// Policy is the contract every eviction strategy must satisfy.
type Policy interface {

	// OnGet records a read. Recency-based policies (LRU) and
	// frequency-based policies (LFU) care; FIFO ignores it.
	OnGet(string)

	// OnPut records an insertion so the policy can start tracking the key.
	OnPut(string)

	// Remove drops the policy's bookkeeping for a key that was removed
	// explicitly rather than evicted.
	Remove(string)

	// Evict picks the key that should be removed now that the shard is
	// full. It returns "" when the policy tracks nothing.
	Evict() string
}

// PolicyType identifies a supported eviction strategy.
type PolicyType string

const (
	// LRU evicts the key that has gone unread for the longest time.
	LRU PolicyType = "LRU"

	// LFU evicts the key with the fewest recorded reads.
	LFU PolicyType = "LFU"

	// FIFO evicts the oldest inserted key, regardless of access.
	FIFO PolicyType = "FIFO"
)

// Parse maps a config string like "lru" onto a PolicyType.
func Parse(s string) (PolicyType, error) {
	switch PolicyType(s) {
	case LRU, "lru":
		return LRU, nil
	case LFU, "lfu":
		return LFU, nil
	case FIFO, "fifo":
		return FIFO, nil
	default:
		return "", fmt.Errorf("unknown eviction policy %q", s)
	}
}

// New builds a fresh policy instance of the given type. Each shard gets its
// own instance; policies are never shared.
func New(t PolicyType) Policy {
	switch t {
	case LRU:
		return newLRU()
	case LFU:
		return newLFU()
	case FIFO:
		return newFIFO()
	default:
		panic("unknown eviction policy")
	}
}
