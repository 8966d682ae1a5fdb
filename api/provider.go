package api

import "time"

/*
Provider defines the PUBLIC API of the cache provider.
This is a contract that guarantees certain behaviors without exposing
internals. Sharding, eviction, retention checks, file watching and
concurrency are all hidden behind this interface.

Six logical operations, each in a synchronous and an asynchronous form.
The asynchronous forms are thin scheduling conveniences: same inputs, same
error kinds, same side effects, delivered through a one-shot channel
instead of a return value.
*/
type Provider interface {

	/*
		Get retrieves the value associated with the given key.

		BEHAVIOR:
		---------
		- Empty key: ErrInvalidArgument
		- No live entry: returns (nil, nil). Absence is a normal outcome,
		  never an error.
		- Live entry: returns its value.

		An entry whose retention policy has triggered (TTL passed,
		dependency file changed) is treated exactly like a missing key,
		even if it has not been physically purged yet.
	*/
	Get(key string) (any, error)

	/*
		IsSet reports whether a live entry exists for the key.

		Same liveness rules as Get, no other side effects.
	*/
	IsSet(key string) (bool, error)

	/*
		Set installs or replaces an entry with an absolute expiry of
		now + ttl.

		BEHAVIOR:
		---------
		- Empty key, nil value, or negative ttl: ErrInvalidArgument
		- ttl == 0: the entry is installed already expired; IsSet is
		  false immediately after
		- Zero-length slice/map/array value: silent no-op. Callers may
		  pass computed-but-possibly-empty results without branching;
		  the cache simply declines to store nothing of value.

		Replacement swaps value and retention policy together; readers
		see either the old entry or the new one.
	*/
	Set(key string, value any, ttl time.Duration) error

	/*
		SetWithFile installs or replaces an entry whose lifetime is tied
		to a file on disk.

		BEHAVIOR:
		---------
		- The file must exist at call time: ErrFileNotFound otherwise,
		  and no entry is installed. There is no waiting for the file
		  to appear.
		- Any later modification, rename, removal or permission change
		  of the file invalidates the entry asynchronously. A reader may
		  briefly observe the old value while the notification is in
		  flight, but never longer than one notification latency.
		- Same empty-value no-op policy as Set.
	*/
	SetWithFile(key string, value any, dependencyFile string) error

	/*
		Remove deletes the entry and releases any file watch tied to it.

		Idempotent: removing an absent key is not an error.
	*/
	Remove(key string) error

	/*
		RemoveByPattern deletes every entry whose key matches the regular
		expression.

		BEHAVIOR:
		---------
		- Empty or non-compiling pattern: ErrInvalidArgument
		- Matching runs over a point-in-time snapshot of key NAMES,
		  liveness is not consulted: expired-but-unpurged entries are
		  removed too.
		- Entries inserted by concurrent callers during the scan may or
		  may not be included. This is a best-effort bulk operation, not
		  a linearizable snapshot.
		- Zero matches is not an error.
	*/
	RemoveByPattern(pattern string) error

	// Asynchronous forms. Argument validation still runs synchronously
	// inside the call; only the store work is deferred. Each channel is
	// buffered and delivers exactly one result.

	GetAsync(key string) <-chan Result
	IsSetAsync(key string) <-chan BoolResult
	SetAsync(key string, value any, ttl time.Duration) <-chan error
	SetWithFileAsync(key string, value any, dependencyFile string) <-chan error
	RemoveAsync(key string) <-chan error
	RemoveByPatternAsync(pattern string) <-chan error
}

// Result is the outcome of an asynchronous lookup.
type Result struct {
	Value any
	Err   error
}

// BoolResult is the outcome of an asynchronous existence check.
type BoolResult struct {
	OK  bool
	Err error
}
