// This file defines how the cache decides that an entry is no longer valid.

package retention

import "time"

/*
Policy is the rule attached to a cache entry that determines when the entry
stops being returnable.

Instead of hard-coding one invalidation rule into the provider, we define a
small interface so different rules can be attached per entry:

- AbsoluteExpiry: the entry dies at a fixed instant
- FileDependency: the entry dies when a watched file changes

The provider does not care HOW the decision is made. On every read it asks
the policy whether the entry is still live, and treats a dead entry exactly
like a missing one.
*/
type Policy interface {

	// Live reports whether an entry guarded by this policy may still be
	// returned at the given instant. Once Live returns false it must never
	// return true again for the same policy value.
	Live(now time.Time) bool
}
