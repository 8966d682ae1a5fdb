package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The provider calls
these methods whenever something happens; implementations decide where the
counts go (an in-process struct, Prometheus, nothing at all).
*/
type Metrics interface {

	// Hit is called when a read returns a live value.
	Hit()

	// Miss is called when a read finds no live entry for the key.
	Miss()

	// Expire is called when an entry is dropped because its absolute
	// expiry has passed.
	Expire()

	// Invalidate is called when an entry is dropped because its
	// dependency file changed.
	Invalidate()

	// Eviction is called when the store removes an entry under memory
	// pressure, not because of any retention policy.
	Eviction()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

We don't want to force every user of the cache to implement metrics, and we
don't want `if metrics != nil` conditions scattered through the provider.
So the default implementation simply ignores all metric events.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()        {}
func (NoopMetrics) Miss()       {}
func (NoopMetrics) Expire()     {}
func (NoopMetrics) Invalidate() {}
func (NoopMetrics) Eviction()   {}
