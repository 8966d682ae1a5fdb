/*
Package cacheprovider is a process-local key-value cache with two retention
modes: absolute TTL expiration and invalidation tied to file changes on
disk.

The provider validates inputs, builds the retention policy for each write,
and delegates physical storage to a thread-safe Store. Memory-pressure
eviction belongs to the store; retention belongs to the provider. A dead
entry (TTL passed, dependency file changed) is invisible to readers from
the instant its policy triggers, whether or not it has been purged yet.

There is deliberately no process-wide default instance. Construct a
provider explicitly and hand it to whatever needs caching; "one shared
cache per process" is the caller's choice, not a package default.
*/
package cacheprovider

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/krisalay/cache-provider/eviction"
	"github.com/krisalay/cache-provider/retention"
	"github.com/krisalay/cache-provider/store"
	"github.com/krisalay/cache-provider/types"
	"github.com/krisalay/cache-provider/watcher"
)

/*
CacheProvider is the orchestrator that connects:
- the store (sharded, thread-safe, self-evicting)
- the file watcher (dependency invalidation)
- retention policies
- metrics

Reads never take the provider lock; the store's copy-on-write shards make
them safe on their own. The provider lock serializes WRITERS only, which
keeps "replace entry + swap file watch" atomic from any caller's point of
view.
*/
type CacheProvider struct {
	store   store.Store
	watcher *watcher.Watcher
	metrics types.Metrics
	logger  *log.Logger

	// mu guards every store mutation and the watch table.
	mu      sync.Mutex
	watches map[string]*watchRef

	// sf deduplicates concurrent Fetch loads for the same key.
	sf singleflight.Group

	sweepEvery time.Duration
	done       chan struct{}
	wg         sync.WaitGroup
	closeOnce  sync.Once

	// construction knobs, consumed by New
	shards   int
	capacity int
	policy   eviction.PolicyType
}

// watchRef ties a cache key to its active file subscription so Set,
// Remove and invalidation can release or recognize it.
type watchRef struct {
	sub *watcher.Subscription
	dep *retention.FileDependency
}

// Option configures a CacheProvider.
type Option func(*CacheProvider)

// WithShards sets the shard count of the default store.
func WithShards(n int) Option {
	return func(p *CacheProvider) { p.shards = n }
}

// WithCapacity bounds the default store; zero means unbounded.
func WithCapacity(n int) Option {
	return func(p *CacheProvider) { p.capacity = n }
}

// WithEviction selects the default store's memory-pressure policy.
func WithEviction(t eviction.PolicyType) Option {
	return func(p *CacheProvider) { p.policy = t }
}

// WithStore swaps in a different Store implementation. The store owns its
// own eviction; wire its eviction callback yourself if you want counts.
func WithStore(s store.Store) Option {
	return func(p *CacheProvider) { p.store = s }
}

// WithMetrics installs a metrics sink. Defaults to a no-op.
func WithMetrics(m types.Metrics) Option {
	return func(p *CacheProvider) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithLogger installs a logger for watch and sweep events.
func WithLogger(l *log.Logger) Option {
	return func(p *CacheProvider) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithSweepInterval enables the background sweep that purges dead entries.
// Zero (the default) disables it; lazy purge on read still applies.
func WithSweepInterval(d time.Duration) Option {
	return func(p *CacheProvider) { p.sweepEvery = d }
}

// New constructs a provider and starts its file watcher (and the sweep
// goroutine, when enabled). Call Close when done with it.
func New(opts ...Option) (*CacheProvider, error) {
	p := &CacheProvider{
		metrics: types.NoopMetrics{},
		logger:  log.Default(),
		watches: make(map[string]*watchRef),
		done:    make(chan struct{}),
		shards:  4,
		policy:  eviction.LRU,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.store == nil {
		p.store = store.NewSharded(p.shards, p.capacity, p.policy,
			store.OnEvict(func(string) { p.metrics.Eviction() }))
	}

	w, err := watcher.New(p.logger)
	if err != nil {
		return nil, err
	}
	p.watcher = w

	if p.sweepEvery > 0 {
		p.wg.Add(1)
		go p.sweepLoop()
	}
	return p, nil
}

// Close stops the sweep goroutine and the file watcher. Safe to call more
// than once. Entries remain readable after Close, but file invalidation
// stops arriving.
func (p *CacheProvider) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
		err = p.watcher.Close()
	})
	return err
}

//
// ================= READS =================
//

/*
Get returns the live value for key, or nil when there is none. Absence is
not an error; only an empty key is.

A physically present but dead entry counts as absent and is purged on the
way out (the store is allowed to purge lazily, so readers must not trust
physical presence).
*/
func (p *CacheProvider) Get(key string) (any, error) {
	if err := checkKey("get", key); err != nil {
		return nil, err
	}

	ent, ok := p.lookup(key)
	if !ok {
		p.metrics.Miss()
		return nil, nil
	}
	p.metrics.Hit()
	return ent.Value, nil
}

/*
GetAs is the typed form of Get. A missing key yields the zero value of T,
not an error; a live entry of the wrong type yields ErrTypeMismatch.

This replaces an unchecked cast with an explicit type check: the caller
always learns whether it got a value, nothing, or a shape it did not ask
for.
*/
func GetAs[T any](p *CacheProvider, key string) (T, error) {
	var zero T

	v, err := p.Get(key)
	if err != nil || v == nil {
		return zero, err
	}

	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("get %q: %w: cached %T", key, ErrTypeMismatch, v)
	}
	return t, nil
}

// IsSet reports whether a live entry exists. It shares Get's liveness
// rules but stays out of the hit/miss counters.
func (p *CacheProvider) IsSet(key string) (bool, error) {
	if err := checkKey("isset", key); err != nil {
		return false, err
	}
	_, ok := p.lookup(key)
	return ok, nil
}

// lookup fetches the entry and enforces retention. Dead entries are purged
// and reported as absent.
func (p *CacheProvider) lookup(key string) (*types.CacheEntry, bool) {
	ent, ok := p.store.Get(key)
	if !ok {
		return nil, false
	}
	if ent.Live(time.Now()) {
		return ent, true
	}

	if _, timed := ent.Retention.(*retention.AbsoluteExpiry); timed {
		p.metrics.Expire()
	}
	p.purge(key, ent)
	return nil, false
}

// purge removes the entry only if it is still the current one for its key,
// so a lazy purge can never clobber a concurrent replacement. Releases the
// key's file watch when the entry owned it.
func (p *CacheProvider) purge(key string, ent *types.CacheEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cur, ok := p.store.Get(key)
	if !ok || cur != ent {
		return
	}
	p.store.Delete(key)
	p.releaseWatchLocked(key, ent.Retention)
}

//
// ================= WRITES =================
//

/*
Set installs or replaces the entry under key with an absolute expiry of
now + ttl.

A nil value (including a typed nil pointer) is ErrInvalidArgument. A
zero-length slice, map or array is a silent no-op: callers may cache
computed-but-possibly-empty results without branching, and the provider
declines to store nothing of value. A negative ttl is ErrInvalidArgument;
a zero ttl installs an entry that is already dead.
*/
func (p *CacheProvider) Set(key string, value any, ttl time.Duration) error {
	if err := checkKey("set", key); err != nil {
		return err
	}
	if ttl < 0 {
		return fmtInvalidTTL(key)
	}
	skip, err := checkValue("set", key, value)
	if err != nil || skip {
		return err
	}

	now := time.Now()
	p.install(&types.CacheEntry{
		Key:       key,
		Value:     value,
		Retention: retention.ExpireAfter(now, ttl),
		CreatedAt: now,
	}, nil)
	return nil
}

/*
SetWithFile installs or replaces the entry under key, tying its lifetime
to the named file. The file must exist at call time; ErrFileNotFound
otherwise, and no entry is installed. Any later change to the file
(content, name, existence, permissions) invalidates the entry
asynchronously.
*/
func (p *CacheProvider) SetWithFile(key string, value any, dependencyFile string) error {
	if err := checkKey("set", key); err != nil {
		return err
	}
	if dependencyFile == "" {
		return fmt.Errorf("set %q: %w: empty dependency file", key, ErrInvalidArgument)
	}
	skip, err := checkValue("set", key, value)
	if err != nil || skip {
		return err
	}

	abs, err := filepath.Abs(dependencyFile)
	if err != nil {
		return fmt.Errorf("set %q: %w: %s", key, ErrFileNotFound, dependencyFile)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("set %q: %w: %s", key, ErrFileNotFound, dependencyFile)
	}

	dep := retention.NewFileDependency(abs)
	sub, err := p.watcher.Watch(abs, func() { p.invalidate(key, dep) })
	if err != nil {
		return fmt.Errorf("set %q: %v", key, err)
	}

	now := time.Now()
	p.install(&types.CacheEntry{
		Key:       key,
		Value:     value,
		Retention: dep,
		CreatedAt: now,
	}, &watchRef{sub: sub, dep: dep})

	p.logger.Debug("entry tied to file", "key", key, "file", abs)
	return nil
}

// install swaps in the new entry and its watch ref under the provider
// lock, releasing whatever watch the replaced entry held.
func (p *CacheProvider) install(ent *types.CacheEntry, ref *watchRef) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if old, ok := p.watches[ent.Key]; ok {
		p.watcher.Unwatch(old.sub)
		delete(p.watches, ent.Key)
	}
	if ref != nil {
		p.watches[ent.Key] = ref
	}
	p.store.Put(ent)
}

// invalidate is the watcher callback for a changed dependency file. The
// latch flips first, making the entry invisible to readers immediately;
// the physical purge follows under the provider lock.
func (p *CacheProvider) invalidate(key string, dep *retention.FileDependency) {
	dep.Invalidate()

	p.mu.Lock()
	if ref, ok := p.watches[key]; ok && ref.dep == dep {
		// The subscription already fired; just drop the ref.
		delete(p.watches, key)
	}
	if cur, ok := p.store.Get(key); ok && cur.Retention == retention.Policy(dep) {
		p.store.Delete(key)
	}
	p.mu.Unlock()

	p.metrics.Invalidate()
	p.logger.Debug("dependency changed, entry invalidated", "key", key, "file", dep.Path())
}

//
// ================= REMOVAL =================
//

// Remove deletes the entry and releases its file watch, if any.
// Idempotent: removing an absent key is not an error.
func (p *CacheProvider) Remove(key string) error {
	if err := checkKey("remove", key); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.removeLocked(key)
	return nil
}

/*
RemoveByPattern deletes every entry whose key matches the regular
expression.

Matching runs over a point-in-time snapshot of key names only; liveness is
not consulted, so expired-but-unpurged entries are removed as well (their
keys are occupied either way, and removal is what the caller asked for).
Entries written concurrently during the scan may or may not be included.
*/
func (p *CacheProvider) RemoveByPattern(pattern string) error {
	if err := validatePattern(pattern); err != nil {
		return err
	}
	re := regexp.MustCompile(pattern)

	keys := p.store.Keys()

	p.mu.Lock()
	defer p.mu.Unlock()

	removed := 0
	for _, k := range keys {
		if re.MatchString(k) {
			p.removeLocked(k)
			removed++
		}
	}
	p.logger.Debug("pattern removal", "pattern", pattern, "removed", removed)
	return nil
}

// removeLocked deletes one key and its watch ref. Caller holds p.mu.
func (p *CacheProvider) removeLocked(key string) {
	p.store.Delete(key)
	if ref, ok := p.watches[key]; ok {
		p.watcher.Unwatch(ref.sub)
		delete(p.watches, key)
	}
}

// validatePattern rejects empty and non-compiling patterns.
func validatePattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("remove-by-pattern: %w: empty pattern", ErrInvalidArgument)
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return fmt.Errorf("remove-by-pattern: %w: %v", ErrInvalidArgument, err)
	}
	return nil
}

// releaseWatchLocked drops the watch ref for key when the given policy is
// the one that owns it. Caller holds p.mu.
func (p *CacheProvider) releaseWatchLocked(key string, pol retention.Policy) {
	ref, ok := p.watches[key]
	if !ok {
		return
	}
	if dep, isFile := pol.(*retention.FileDependency); !isFile || ref.dep == dep {
		p.watcher.Unwatch(ref.sub)
		delete(p.watches, key)
	}
}

//
// ================= VALUE POLICY =================
//

/*
checkValue enforces the "meaningful data" policy:
- nil, or a typed nil pointer/map/slice, is a misuse: ErrInvalidArgument
- a zero-length slice, map or array carries no data to cache: silent
  no-op (skip=true, err=nil), deliberately not an error
Everything else is cacheable, including the empty string: a string is a
value, not a collection.
*/
func checkValue(op, key string, value any) (skip bool, err error) {
	if value == nil {
		return false, fmt.Errorf("%s %q: %w: nil value", op, key, ErrInvalidArgument)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return false, fmt.Errorf("%s %q: %w: nil value", op, key, ErrInvalidArgument)
		}
	case reflect.Slice, reflect.Map:
		if rv.IsNil() {
			return false, fmt.Errorf("%s %q: %w: nil value", op, key, ErrInvalidArgument)
		}
		if rv.Len() == 0 {
			return true, nil
		}
	case reflect.Array:
		if rv.Len() == 0 {
			return true, nil
		}
	}
	return false, nil
}
