package eviction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/cache-provider/eviction"
)

func TestParse(t *testing.T) {
	for _, s := range []string{"lru", "LRU", "lfu", "LFU", "fifo", "FIFO"} {
		_, err := eviction.Parse(s)
		assert.NoError(t, err, s)
	}

	_, err := eviction.Parse("random")
	assert.Error(t, err)
}

func TestLRU(t *testing.T) {
	p := eviction.New(eviction.LRU)

	p.OnPut("a")
	p.OnPut("b")
	p.OnPut("c")
	p.OnGet("a") // a becomes most recent; b is now the oldest

	assert.Equal(t, "b", p.Evict())
	assert.Equal(t, "c", p.Evict())
	assert.Equal(t, "a", p.Evict())
	assert.Equal(t, "", p.Evict(), "empty policy evicts nothing")
}

func TestLRURemove(t *testing.T) {
	p := eviction.New(eviction.LRU)

	p.OnPut("a")
	p.OnPut("b")
	p.Remove("a")

	assert.Equal(t, "b", p.Evict())
	assert.Equal(t, "", p.Evict())
}

func TestLFU(t *testing.T) {
	p := eviction.New(eviction.LFU)

	p.OnPut("hot")
	p.OnPut("cold")
	p.OnGet("hot")
	p.OnGet("hot")

	assert.Equal(t, "cold", p.Evict(), "least frequently read goes first")
	assert.Equal(t, "hot", p.Evict())
}

func TestLFURemove(t *testing.T) {
	p := eviction.New(eviction.LFU)

	p.OnPut("a")
	p.OnPut("b")
	p.OnGet("a")
	p.Remove("b")

	assert.Equal(t, "a", p.Evict())
	assert.Equal(t, "", p.Evict())
}

func TestFIFO(t *testing.T) {
	p := eviction.New(eviction.FIFO)

	p.OnPut("first")
	p.OnPut("second")
	p.OnGet("first") // reads must not matter

	assert.Equal(t, "first", p.Evict())
	assert.Equal(t, "second", p.Evict())
	assert.Equal(t, "", p.Evict())
}

func TestFIFOSkipsRemovedKeys(t *testing.T) {
	p := eviction.New(eviction.FIFO)

	p.OnPut("a")
	p.OnPut("b")
	p.OnPut("c")
	p.Remove("a")
	p.Remove("b")

	require.Equal(t, "c", p.Evict(), "holes left by Remove are skipped")
	assert.Equal(t, "", p.Evict())
}
