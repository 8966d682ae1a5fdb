package cacheprovider_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cache "github.com/krisalay/cache-provider"
	"github.com/krisalay/cache-provider/api"
	"github.com/krisalay/cache-provider/eviction"
	"github.com/krisalay/cache-provider/store"
)

// The provider must satisfy the public contract.
var _ api.Provider = (*cache.CacheProvider)(nil)

func newTestProvider(t *testing.T, opts ...cache.Option) *cache.CacheProvider {
	t.Helper()
	p, err := cache.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

//
// ================= BASIC OPERATIONS =================
//

func TestSetAndGet(t *testing.T) {
	p := newTestProvider(t)

	require.NoError(t, p.Set("key1", "value1", time.Minute))

	ok, err := p.IsSet("key1")
	require.NoError(t, err)
	assert.True(t, ok)

	v, err := cache.GetAs[string](p, "key1")
	require.NoError(t, err)
	assert.Equal(t, "value1", v)
}

func TestGetMissingKey(t *testing.T) {
	p := newTestProvider(t)

	t.Run("untyped", func(t *testing.T) {
		v, err := p.Get("missing")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("typed zero value", func(t *testing.T) {
		n, err := cache.GetAs[int](p, "missing")
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		s, err := cache.GetAs[string](p, "missing")
		require.NoError(t, err)
		assert.Equal(t, "", s)
	})
}

func TestGetTypeMismatch(t *testing.T) {
	p := newTestProvider(t)

	require.NoError(t, p.Set("n", 42, time.Minute))

	_, err := cache.GetAs[string](p, "n")
	require.ErrorIs(t, err, cache.ErrTypeMismatch)

	// the untyped form does not care
	v, err := p.Get("n")
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestUpdateExistingKey(t *testing.T) {
	p := newTestProvider(t)

	require.NoError(t, p.Set("key1", "value1", time.Minute))
	require.NoError(t, p.Set("key1", "value2", time.Minute))

	v, err := cache.GetAs[string](p, "key1")
	require.NoError(t, err)
	assert.Equal(t, "value2", v)
}

//
// ================= VALIDATION =================
//

func TestEmptyKeyRejected(t *testing.T) {
	p := newTestProvider(t)

	_, err := p.Get("")
	assert.ErrorIs(t, err, cache.ErrInvalidArgument)

	_, err = p.IsSet("")
	assert.ErrorIs(t, err, cache.ErrInvalidArgument)

	assert.ErrorIs(t, p.Set("", "v", time.Minute), cache.ErrInvalidArgument)
	assert.ErrorIs(t, p.SetWithFile("", "v", "anything"), cache.ErrInvalidArgument)
	assert.ErrorIs(t, p.Remove(""), cache.ErrInvalidArgument)
}

func TestNilValueRejected(t *testing.T) {
	p := newTestProvider(t)

	assert.ErrorIs(t, p.Set("k", nil, time.Minute), cache.ErrInvalidArgument)

	var ptr *int
	assert.ErrorIs(t, p.Set("k", ptr, time.Minute), cache.ErrInvalidArgument)

	var m map[string]int
	assert.ErrorIs(t, p.Set("k", m, time.Minute), cache.ErrInvalidArgument)

	ok, err := p.IsSet("k")
	require.NoError(t, err)
	assert.False(t, ok, "rejected value must leave no entry")
}

func TestEmptyCollectionIsNoOp(t *testing.T) {
	p := newTestProvider(t)

	t.Run("empty slice", func(t *testing.T) {
		require.NoError(t, p.Set("s", []string{}, time.Minute))
		ok, err := p.IsSet("s")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty map", func(t *testing.T) {
		require.NoError(t, p.Set("m", map[string]int{}, time.Minute))
		ok, err := p.IsSet("m")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty string is a value, not a collection", func(t *testing.T) {
		require.NoError(t, p.Set("str", "", time.Minute))
		ok, err := p.IsSet("str")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no-op does not replace the live entry", func(t *testing.T) {
		require.NoError(t, p.Set("kept", []int{1}, time.Minute))
		require.NoError(t, p.Set("kept", []int{}, time.Minute))
		v, err := cache.GetAs[[]int](p, "kept")
		require.NoError(t, err)
		assert.Equal(t, []int{1}, v)
	})
}

//
// ================= TTL =================
//

func TestZeroTTLIsImmediatelyExpired(t *testing.T) {
	p := newTestProvider(t)

	require.NoError(t, p.Set("gone", "v", 0))

	ok, err := p.IsSet("gone")
	require.NoError(t, err)
	assert.False(t, ok)

	v, err := p.Get("gone")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestNegativeTTLRejected(t *testing.T) {
	p := newTestProvider(t)
	assert.ErrorIs(t, p.Set("k", "v", -time.Second), cache.ErrInvalidArgument)
}

func TestTTLExpiration(t *testing.T) {
	p := newTestProvider(t)

	require.NoError(t, p.Set("ttl", "temp", 50*time.Millisecond))

	ok, _ := p.IsSet("ttl")
	assert.True(t, ok)

	time.Sleep(80 * time.Millisecond)

	ok, err := p.IsSet("ttl")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSweepPurgesDeadEntries(t *testing.T) {
	st := store.NewSharded(2, 0, eviction.LRU)
	p := newTestProvider(t,
		cache.WithStore(st),
		cache.WithSweepInterval(20*time.Millisecond),
	)

	require.NoError(t, p.Set("dead", "v", 30*time.Millisecond))
	require.True(t, st.Contains("dead"))

	// the sweep, not a read, must purge it
	require.Eventually(t, func() bool {
		return !st.Contains("dead")
	}, time.Second, 10*time.Millisecond)
}

//
// ================= REMOVAL =================
//

func TestRemoveIsIdempotent(t *testing.T) {
	p := newTestProvider(t)

	require.NoError(t, p.Remove("absent"))

	require.NoError(t, p.Set("k", "v", time.Minute))
	require.NoError(t, p.Remove("k"))
	require.NoError(t, p.Remove("k"))

	ok, err := p.IsSet("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveByPattern(t *testing.T) {
	p := newTestProvider(t)

	require.NoError(t, p.Set("user:1", "u1", time.Minute))
	require.NoError(t, p.Set("user:2", "u2", time.Minute))
	require.NoError(t, p.Set("order:1", "o1", time.Minute))

	require.NoError(t, p.RemoveByPattern("^user:"))

	for _, k := range []string{"user:1", "user:2"} {
		ok, err := p.IsSet(k)
		require.NoError(t, err)
		assert.False(t, ok, "%s should be removed", k)
	}

	ok, err := p.IsSet("order:1")
	require.NoError(t, err)
	assert.True(t, ok, "order:1 must survive")
}

func TestRemoveByPatternValidation(t *testing.T) {
	p := newTestProvider(t)

	assert.ErrorIs(t, p.RemoveByPattern(""), cache.ErrInvalidArgument)
	assert.ErrorIs(t, p.RemoveByPattern("(unclosed"), cache.ErrInvalidArgument)

	// zero matches is fine
	require.NoError(t, p.RemoveByPattern("^nothing-matches-this$"))
}

func TestRemoveByPatternIncludesExpiredEntries(t *testing.T) {
	st := store.NewSharded(2, 0, eviction.LRU)
	p := newTestProvider(t, cache.WithStore(st))

	// already expired, but physically present until something purges it
	require.NoError(t, p.Set("user:9", "stale", 0))
	require.True(t, st.Contains("user:9"))

	require.NoError(t, p.RemoveByPattern("^user:"))
	assert.False(t, st.Contains("user:9"))
}

//
// ================= FETCH =================
//

func TestFetchLoadsOnceAndCaches(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	var calls atomic.Int64
	load := func(ctx context.Context, key string) (any, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond) // widen the dedup window
		return "loaded:" + key, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := p.Fetch(ctx, "remote", time.Minute, load)
			assert.NoError(t, err)
			assert.Equal(t, "loaded:remote", v)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(), "concurrent fetches must collapse to one load")

	// subsequent fetch hits the cache
	_, err := p.Fetch(ctx, "remote", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, int64(1), calls.Load())
}

func TestFetchValidation(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	_, err := p.Fetch(ctx, "", time.Minute, func(context.Context, string) (any, error) { return 1, nil })
	assert.ErrorIs(t, err, cache.ErrInvalidArgument)

	_, err = p.Fetch(ctx, "k", time.Minute, nil)
	assert.ErrorIs(t, err, cache.ErrInvalidArgument)
}

func TestFetchNilResultIsNotCached(t *testing.T) {
	p := newTestProvider(t)

	v, err := p.Fetch(context.Background(), "nothing", time.Minute,
		func(context.Context, string) (any, error) { return nil, nil })
	require.NoError(t, err)
	assert.Nil(t, v)

	ok, err := p.IsSet("nothing")
	require.NoError(t, err)
	assert.False(t, ok)
}

//
// ================= CONCURRENCY =================
//

func TestConcurrentReadersAndWriters(t *testing.T) {
	p := newTestProvider(t, cache.WithShards(8))

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k-%d", i%50)
				switch i % 4 {
				case 0:
					assert.NoError(t, p.Set(key, id, time.Minute))
				case 1:
					_, err := p.Get(key)
					assert.NoError(t, err)
				case 2:
					_, err := p.IsSet(key)
					assert.NoError(t, err)
				default:
					assert.NoError(t, p.Remove(key))
				}
			}
		}(g)
	}
	wg.Wait()
}
