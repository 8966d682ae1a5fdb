package cacheprovider

import "time"

/*
Background sweep.

Lazy purge on read keeps readers honest, but a key that is written once
and never read again would sit in the store until memory pressure evicts
it. The sweep walks the key snapshot on a fixed interval and purges every
entry whose retention has triggered. It is an optimization, not a
correctness mechanism: liveness checks on the read path work with or
without it.
*/

func (p *CacheProvider) sweepLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.sweep()
		}
	}
}

func (p *CacheProvider) sweep() {
	now := time.Now()
	swept := 0

	for _, key := range p.store.Keys() {
		ent, ok := p.store.Get(key)
		if !ok || ent.Live(now) {
			continue
		}
		// lookup-style accounting: timed entries count as expirations,
		// file-dependent ones were already counted when the latch flipped.
		if _, ok := p.lookup(key); !ok {
			swept++
		}
	}

	if swept > 0 {
		p.logger.Debug("sweep purged dead entries", "count", swept)
	}
}
