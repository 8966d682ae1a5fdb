package cacheprovider

import (
	"time"

	"github.com/krisalay/cache-provider/api"
)

/*
Asynchronous forms of the six operations.

These are thin scheduling conveniences: each one runs the synchronous
operation on its own goroutine and delivers the single outcome on a
buffered channel, so callers can fan work out without blocking their own
control flow. They add no concurrency guarantees beyond what the
synchronous forms already give, and the error kinds are identical.

Argument validation is the exception: it runs synchronously inside the
call, before any goroutine starts. A malformed call therefore never costs
a goroutine, and its channel is already resolved when it is returned.
Abandoning a returned channel is harmless; the buffer means the goroutine
never blocks on send.
*/

// GetAsync is the asynchronous form of Get.
func (p *CacheProvider) GetAsync(key string) <-chan api.Result {
	ch := make(chan api.Result, 1)
	if err := checkKey("get", key); err != nil {
		ch <- api.Result{Err: err}
		return ch
	}
	go func() {
		v, err := p.Get(key)
		ch <- api.Result{Value: v, Err: err}
	}()
	return ch
}

// IsSetAsync is the asynchronous form of IsSet.
func (p *CacheProvider) IsSetAsync(key string) <-chan api.BoolResult {
	ch := make(chan api.BoolResult, 1)
	if err := checkKey("isset", key); err != nil {
		ch <- api.BoolResult{Err: err}
		return ch
	}
	go func() {
		ok, err := p.IsSet(key)
		ch <- api.BoolResult{OK: ok, Err: err}
	}()
	return ch
}

// SetAsync is the asynchronous form of Set.
func (p *CacheProvider) SetAsync(key string, value any, ttl time.Duration) <-chan error {
	ch := make(chan error, 1)
	if err := p.validateSet(key, value, ttl); err != nil {
		ch <- err
		return ch
	}
	go func() { ch <- p.Set(key, value, ttl) }()
	return ch
}

// SetWithFileAsync is the asynchronous form of SetWithFile. The file
// existence precondition is checked inside the operation, so its error
// arrives on the channel like any other outcome.
func (p *CacheProvider) SetWithFileAsync(key string, value any, dependencyFile string) <-chan error {
	ch := make(chan error, 1)
	if err := checkKey("set", key); err != nil {
		ch <- err
		return ch
	}
	if _, err := checkValue("set", key, value); err != nil {
		ch <- err
		return ch
	}
	go func() { ch <- p.SetWithFile(key, value, dependencyFile) }()
	return ch
}

// RemoveAsync is the asynchronous form of Remove.
func (p *CacheProvider) RemoveAsync(key string) <-chan error {
	ch := make(chan error, 1)
	if err := checkKey("remove", key); err != nil {
		ch <- err
		return ch
	}
	go func() { ch <- p.Remove(key) }()
	return ch
}

// RemoveByPatternAsync is the asynchronous form of RemoveByPattern. The
// pattern is validated (including compilation) before the scan is
// scheduled; the goroutine recompiles it, which is cheap next to the scan.
func (p *CacheProvider) RemoveByPatternAsync(pattern string) <-chan error {
	ch := make(chan error, 1)
	if err := validatePattern(pattern); err != nil {
		ch <- err
		return ch
	}
	go func() { ch <- p.RemoveByPattern(pattern) }()
	return ch
}

// validateSet duplicates Set's synchronous argument checks without the
// side effects, so SetAsync can reject malformed calls before spawning.
func (p *CacheProvider) validateSet(key string, value any, ttl time.Duration) error {
	if err := checkKey("set", key); err != nil {
		return err
	}
	if ttl < 0 {
		return fmtInvalidTTL(key)
	}
	_, err := checkValue("set", key, value)
	return err
}
