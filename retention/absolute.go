package retention

import "time"

/*
AbsoluteExpiry invalidates an entry at a fixed wall-clock instant.

This is the classic TTL behavior: the expiry is computed once at write time
(now + ttl) and never moves afterwards. Reads do NOT push the deadline
forward; an entry written with a 5 minute TTL is gone 5 minutes later no
matter how often it was read.
*/
type AbsoluteExpiry struct {

	// ExpireAt is the instant at and after which the entry is invalid.
	ExpireAt time.Time
}

// ExpireAfter builds an AbsoluteExpiry that triggers ttl from now.
// A zero ttl produces a policy that is already dead, which callers use
// to install entries that are immediately invisible.
func ExpireAfter(now time.Time, ttl time.Duration) *AbsoluteExpiry {
	return &AbsoluteExpiry{ExpireAt: now.Add(ttl)}
}

// Live reports whether the deadline has not been reached yet.
// The entry is invalid AT the deadline, not only after it.
func (a *AbsoluteExpiry) Live(now time.Time) bool {
	return now.Before(a.ExpireAt)
}
