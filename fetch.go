package cacheprovider

import (
	"context"
	"fmt"
	"time"
)

// Loader fetches a value from wherever it actually lives (a database, an
// API, a file) when the cache does not have it.
type Loader func(ctx context.Context, key string) (any, error)

/*
Fetch is the read-through convenience: return the cached value if a live
one exists, otherwise load it, cache it with the given ttl, and return it.

Concurrent Fetch calls for the same missing key are collapsed: only ONE of
them runs the loader, the rest wait for its result. A loader that returns
nil without an error is treated as "nothing to cache"; Fetch returns nil
and the miss stays a miss.
*/
func (p *CacheProvider) Fetch(ctx context.Context, key string, ttl time.Duration, load Loader) (any, error) {
	if err := checkKey("fetch", key); err != nil {
		return nil, err
	}
	if load == nil {
		return nil, fmt.Errorf("fetch %q: %w: nil loader", key, ErrInvalidArgument)
	}
	if ttl < 0 {
		return nil, fmtInvalidTTL(key)
	}

	if v, err := p.Get(key); err != nil || v != nil {
		return v, err
	}

	v, err, _ := p.sf.Do(key, func() (any, error) {
		// A concurrent flight may have filled the key while we queued.
		if v, _ := p.Get(key); v != nil {
			return v, nil
		}

		v, err := load(ctx, key)
		if err != nil || v == nil {
			return nil, err
		}
		if err := p.Set(key, v, ttl); err != nil {
			return nil, err
		}
		return v, nil
	})
	return v, err
}
