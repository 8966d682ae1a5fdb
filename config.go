package cacheprovider

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/krisalay/cache-provider/eviction"
)

// Config is the file-loadable configuration for a provider. Everything in
// it maps onto constructor options, so embedding applications can choose
// between a YAML file and plain code.
type Config struct {
	// Shards is the shard count of the default store.
	Shards int `yaml:"shards"`

	// Capacity bounds the default store; 0 means unbounded.
	Capacity int `yaml:"capacity"`

	// Eviction picks the store's memory-pressure policy: lru, lfu, fifo.
	Eviction string `yaml:"eviction"`

	// SweepInterval enables the background purge of dead entries when
	// positive, e.g. "30s". Zero disables it.
	SweepInterval Duration `yaml:"sweep_interval"`
}

// Duration wraps time.Duration so YAML values like "30s" parse.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: bad duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// DefaultConfig returns the settings New uses when given no options.
func DefaultConfig() Config {
	return Config{
		Shards:   4,
		Eviction: string(eviction.LRU),
	}
}

// LoadConfig reads and validates a YAML config file. Missing fields fall
// back to defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings New could not honor.
func (c Config) Validate() error {
	if c.Shards < 1 {
		return fmt.Errorf("config: shards must be >= 1, got %d", c.Shards)
	}
	if c.Capacity < 0 {
		return fmt.Errorf("config: capacity must be >= 0, got %d", c.Capacity)
	}
	if _, err := eviction.Parse(c.Eviction); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.SweepInterval < 0 {
		return fmt.Errorf("config: sweep_interval must be >= 0")
	}
	return nil
}

// Options translates the config into constructor options.
func (c Config) Options() []Option {
	policy, _ := eviction.Parse(c.Eviction)
	return []Option{
		WithShards(c.Shards),
		WithCapacity(c.Capacity),
		WithEviction(policy),
		WithSweepInterval(time.Duration(c.SweepInterval)),
	}
}
