package pipeline

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/backbone/pkg/cache"
	"github.com/matzehuels/backbone/pkg/errors"
)

// Config is the optional configuration file:
//
//	[layout]
//	scale = 0.02
//	omit_empty_space = true
//
//	[layout.priorities]
//	"SO:0000167" = 1000
//
//	[cache]
//	dir = "/var/cache/backbone"
//	ttl = "24h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig holds file defaults for the layout options.
type LayoutConfig struct {
	Scale            float64        `toml:"scale"`
	MinWidth         float64        `toml:"min_width"`
	MinGap           float64        `toml:"min_gap"`
	MaxReorderPasses int            `toml:"max_reorder_passes"`
	OmitEmptySpace   bool           `toml:"omit_empty_space"`
	ForceMinWidth    bool           `toml:"force_min_width"`
	Priorities       map[string]int `toml:"priorities"`
	Formats          []string       `toml:"formats"`
}

// CacheConfig selects and configures the cache backend. A Redis address
// takes precedence over the directory.
type CacheConfig struct {
	Dir      string            `toml:"dir"`
	TTL      string            `toml:"ttl"`
	Disabled bool              `toml:"disabled"`
	Redis    cache.RedisConfig `toml:"redis"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LoadConfig reads a TOML configuration file. Unknown keys are rejected so
// typos do not silently fall back to defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if _, err := cfg.Cache.ttl(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Options returns pipeline options seeded from the file. Flags applied
// afterwards override these values.
func (c *Config) Options() Options {
	l := c.Layout
	return Options{
		OmitEmptySpace:   l.OmitEmptySpace,
		ForceMinWidth:    l.ForceMinWidth,
		Scale:            l.Scale,
		MinWidth:         l.MinWidth,
		MinGap:           l.MinGap,
		MaxReorderPasses: l.MaxReorderPasses,
		Priorities:       l.Priorities,
		Formats:          slices.Clone(l.Formats),
	}
}

func (c CacheConfig) ttl() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache ttl %q", c.TTL)
	}
	if d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "cache ttl cannot be negative, got %s", c.TTL)
	}
	return d, nil
}

// OpenCache opens the configured cache backend: none when disabled, Redis
// when an address is set, otherwise a file cache under Dir.
func OpenCache(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	switch {
	case cfg.Disabled:
		return cache.NewNullCache(), nil
	case cfg.Redis.Addr != "":
		c, err := cache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return c, nil
	case cfg.Dir != "":
		c, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "cache has neither a directory nor a redis address")
}

// NewRunnerFromConfig opens the configured cache and returns a runner
// using it. The caller closes the runner.
func NewRunnerFromConfig(ctx context.Context, cfg CacheConfig, keyer cache.Keyer, logger *log.Logger) (*Runner, error) {
	ttl, err := cfg.ttl()
	if err != nil {
		return nil, err
	}
	c, err := OpenCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	r := NewRunner(c, keyer, logger)
	r.TTL = ttl
	return r, nil
}
