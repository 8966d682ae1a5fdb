// This file implements LFU eviction.

package eviction

// lfuNode is one tracked key and its read count.
type lfuNode struct {
	key  string
	freq int
}

/*
lfu groups keys into buckets by read count and remembers the smallest
count currently present, so eviction never scans the whole key set.
When several keys share the minimum count, the victim among them is
arbitrary.
*/
type lfu struct {
	nodes   map[string]*lfuNode
	buckets map[int]map[string]*lfuNode
	minFreq int
}

func newLFU() *lfu {
	return &lfu{
		nodes:   make(map[string]*lfuNode),
		buckets: make(map[int]map[string]*lfuNode),
	}
}

// OnGet bumps the key's read count and moves it between buckets.
func (l *lfu) OnGet(k string) {
	n, ok := l.nodes[k]
	if !ok {
		return
	}

	old := n.freq
	n.freq++

	delete(l.buckets[old], k)
	if len(l.buckets[old]) == 0 {
		delete(l.buckets, old)
		if l.minFreq == old {
			l.minFreq++
		}
	}

	if l.buckets[n.freq] == nil {
		l.buckets[n.freq] = make(map[string]*lfuNode)
	}
	l.buckets[n.freq][k] = n
}

// OnPut starts tracking a new key. New keys enter bucket 1, which also
// resets the minimum frequency.
func (l *lfu) OnPut(k string) {
	if _, ok := l.nodes[k]; ok {
		return
	}

	n := &lfuNode{key: k, freq: 1}
	l.nodes[k] = n

	if l.buckets[1] == nil {
		l.buckets[1] = make(map[string]*lfuNode)
	}
	l.buckets[1][k] = n
	l.minFreq = 1
}

// Evict removes and returns some key from the minimum-frequency bucket.
func (l *lfu) Evict() string {
	l.settleMin()
	for k := range l.buckets[l.minFreq] {
		delete(l.buckets[l.minFreq], k)
		delete(l.nodes, k)
		l.settleMin()
		return k
	}
	return ""
}

// Remove drops bookkeeping for an explicitly removed key.
func (l *lfu) Remove(k string) {
	n, ok := l.nodes[k]
	if !ok {
		return
	}
	delete(l.buckets[n.freq], k)
	if len(l.buckets[n.freq]) == 0 {
		delete(l.buckets, n.freq)
	}
	delete(l.nodes, k)
	l.settleMin()
}

// settleMin recomputes minFreq after a deletion emptied its bucket. The
// number of buckets is bounded by the number of distinct read counts, so
// the scan stays short.
func (l *lfu) settleMin() {
	if len(l.buckets[l.minFreq]) > 0 {
		return
	}
	delete(l.buckets, l.minFreq)
	l.minFreq = 0
	for f := range l.buckets {
		if l.minFreq == 0 || f < l.minFreq {
			l.minFreq = f
		}
	}
}
