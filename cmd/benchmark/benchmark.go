package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	cache "github.com/krisalay/cache-provider"
	"github.com/krisalay/cache-provider/eviction"
)

// ================= BENCHMARK =================

func main() {
	fmt.Println("\n================ CACHE LOAD BENCHMARK =================")

	const (
		shards      = 8
		capacity    = 200000
		preloadKeys = 100000
		goroutines  = 200
		opsPerG     = 5000
		ttl         = time.Minute
	)

	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Shards       :", shards)
	fmt.Println("Capacity     :", humanize.Comma(capacity))
	fmt.Println("Preload Keys :", humanize.Comma(preloadKeys))
	fmt.Println("Goroutines   :", goroutines)
	fmt.Println("Ops/Goroutine:", humanize.Comma(opsPerG))
	fmt.Println("---------------------------------")

	provider, err := cache.New(
		cache.WithShards(shards),
		cache.WithCapacity(capacity),
		cache.WithEviction(eviction.LRU),
	)
	if err != nil {
		panic(err)
	}
	defer provider.Close()

	// ---------------- Preload ----------------
	fmt.Println("Preloading cache...")
	for i := 0; i < preloadKeys; i++ {
		provider.Set(fmt.Sprintf("key-%d", i), i, ttl)
	}
	fmt.Println("Preload complete.")

	// ---------------- Warmup ----------------
	fmt.Println("Warming up cache...")
	for i := 0; i < 10000; i++ {
		provider.Get(fmt.Sprintf("key-%d", i%preloadKeys))
	}
	fmt.Println("Warmup complete.")

	// ---------------- Load Test ----------------
	fmt.Println("Running concurrency benchmark...")

	start := time.Now()

	wg := sync.WaitGroup{}
	wg.Add(goroutines)

	for g := 0; g < goroutines; g++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < opsPerG; i++ {
				n := (id*opsPerG + i) % preloadKeys
				if i%10 == 0 {
					// 10% writes keeps the shards' write path honest
					provider.Set(fmt.Sprintf("key-%d", n), n, ttl)
				} else {
					provider.Get(fmt.Sprintf("key-%d", n))
				}
			}
		}(g)
	}
	wg.Wait()

	elapsed := time.Since(start)
	totalOps := goroutines * opsPerG
	opsPerSec := int64(float64(totalOps) / elapsed.Seconds())

	fmt.Println("---------------------------------")
	fmt.Println("Total Ops    :", humanize.Comma(int64(totalOps)))
	fmt.Println("Elapsed      :", elapsed.Round(time.Millisecond))
	fmt.Println("Throughput   :", humanize.Comma(opsPerSec), "ops/sec")
}
