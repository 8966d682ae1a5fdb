package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	cache "github.com/krisalay/cache-provider"
	"github.com/krisalay/cache-provider/eviction"
)

// ================= METRICS =================

type Metrics struct {
	mu            sync.Mutex
	hits          int
	misses        int
	expired       int
	invalidations int
	evictions     int
}

func (m *Metrics) Hit()        { m.mu.Lock(); m.hits++; m.mu.Unlock() }
func (m *Metrics) Miss()       { m.mu.Lock(); m.misses++; m.mu.Unlock() }
func (m *Metrics) Expire()     { m.mu.Lock(); m.expired++; m.mu.Unlock() }
func (m *Metrics) Invalidate() { m.mu.Lock(); m.invalidations++; m.mu.Unlock() }
func (m *Metrics) Eviction()   { m.mu.Lock(); m.evictions++; m.mu.Unlock() }

func (m *Metrics) Print() {
	fmt.Println("\n==================== METRICS ====================")
	fmt.Printf("HITS          : %d\n", m.hits)
	fmt.Printf("MISSES        : %d\n", m.misses)
	fmt.Printf("EXPIRED       : %d\n", m.expired)
	fmt.Printf("INVALIDATIONS : %d\n", m.invalidations)
	fmt.Printf("EVICTIONS     : %d\n", m.evictions)
}

// ================= MAIN =================

func main() {
	logger := log.New(os.Stderr)
	logger.SetLevel(log.DebugLevel)

	fmt.Println("\n==================== SYSTEM BOOT ====================")

	cfg := cache.DefaultConfig()
	fmt.Println("SHARDS          :", cfg.Shards)
	fmt.Println("EVICTION POLICY :", cfg.Eviction)
	fmt.Println("CAPACITY        : 20 keys")

	metrics := &Metrics{}

	provider, err := cache.New(
		cache.WithShards(cfg.Shards),
		cache.WithCapacity(20),
		cache.WithEviction(eviction.LRU),
		cache.WithMetrics(metrics),
		cache.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal("boot failed", "error", err)
	}

	// ====================================================
	fmt.Println("\n==================== 1) TTL SET / GET ====================")

	provider.Set("user:42", "alice", time.Minute)
	v, _ := cache.GetAs[string](provider, "user:42")
	fmt.Println("CACHE  → GET user:42 =", v)

	// ====================================================
	fmt.Println("\n==================== 2) TTL EXPIRATION ====================")

	provider.Set("x", "temp-value", time.Second)
	fmt.Println("CACHE  → SET x (TTL = 1s)")

	time.Sleep(2 * time.Second)

	ok, _ := provider.IsSet("x")
	fmt.Println("CACHE  → IsSet x after TTL =", ok)

	// ====================================================
	fmt.Println("\n==================== 3) FILE DEPENDENCY ====================")

	dir, _ := os.MkdirTemp("", "cache-demo")
	defer os.RemoveAll(dir)
	depFile := filepath.Join(dir, "settings.conf")
	os.WriteFile(depFile, []byte("v1"), 0o644)

	provider.SetWithFile("settings", map[string]string{"mode": "fast"}, depFile)
	ok, _ = provider.IsSet("settings")
	fmt.Println("CACHE  → IsSet settings =", ok)

	fmt.Println("DISK   → rewriting", depFile)
	os.WriteFile(depFile, []byte("v2"), 0o644)

	// invalidation is asynchronous; give the notification a moment
	time.Sleep(200 * time.Millisecond)

	ok, _ = provider.IsSet("settings")
	fmt.Println("CACHE  → IsSet settings after file change =", ok)

	// ====================================================
	fmt.Println("\n==================== 4) PATTERN REMOVAL ====================")

	provider.Set("user:1", "u1", time.Minute)
	provider.Set("user:2", "u2", time.Minute)
	provider.Set("order:1", "o1", time.Minute)

	provider.RemoveByPattern("^user:")

	for _, k := range []string{"user:1", "user:2", "order:1"} {
		ok, _ := provider.IsSet(k)
		fmt.Printf("CACHE  → IsSet %s = %v\n", k, ok)
	}

	// ====================================================
	fmt.Println("\n==================== 5) ASYNC FORMS ====================")

	<-provider.SetAsync("async:1", 123, time.Minute)
	res := <-provider.GetAsync("async:1")
	fmt.Println("CACHE  → async GET async:1 =", res.Value)

	// ====================================================
	metrics.Print()

	// ====================================================
	fmt.Println("\n==================== SHUTDOWN ====================")
	provider.Close()
	fmt.Println("SYSTEM → provider closed cleanly")
}
