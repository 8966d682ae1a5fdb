// This file implements LRU eviction.

package eviction

import "container/list"

/*
lru tracks recency with the stdlib doubly-linked list plus a key index.
Front of the list = most recently used, back = eviction candidate.
All operations are O(1).
*/
type lru struct {
	index map[string]*list.Element
	order *list.List // element values are key strings
}

func newLRU() *lru {
	return &lru{
		index: make(map[string]*list.Element),
		order: list.New(),
	}
}

// OnGet marks the key as most recently used.
func (l *lru) OnGet(k string) {
	if el, ok := l.index[k]; ok {
		l.order.MoveToFront(el)
	}
}

// OnPut starts tracking a new key at the front. Re-inserting an existing
// key counts as use.
func (l *lru) OnPut(k string) {
	if el, ok := l.index[k]; ok {
		l.order.MoveToFront(el)
		return
	}
	l.index[k] = l.order.PushFront(k)
}

// Evict removes and returns the least recently used key.
func (l *lru) Evict() string {
	back := l.order.Back()
	if back == nil {
		return ""
	}
	k := back.Value.(string)
	l.order.Remove(back)
	delete(l.index, k)
	return k
}

// Remove drops bookkeeping for an explicitly removed key.
func (l *lru) Remove(k string) {
	if el, ok := l.index[k]; ok {
		l.order.Remove(el)
		delete(l.index, k)
	}
}
