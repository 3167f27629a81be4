// Package cache stores computed layouts and their encodings so repeated
// runs over an unchanged design skip the engine.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP API
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// # Keys
//
// A [Keyer] derives keys from content hashes, never from file names, so a
// renamed design still hits and an edited one never does:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.LayoutKey(cache.Hash(designJSON), cache.LayoutKeyOpts{Scale: 0.02})
//
// Wrap a keyer with [NewScopedKeyer] to give tenants separate namespaces.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per entry kind.
const (
	// LayoutTTL bounds how long a computed layout is reused.
	LayoutTTL = 7 * 24 * time.Hour

	// ArtifactTTL bounds how long an encoded layout is reused.
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// A zero ttl stores the entry without expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// =============================================================================
// Keys
// =============================================================================

// LayoutKeyOpts holds every option that changes a computed layout.
type LayoutKeyOpts struct {
	Scale            float64        `json:"scale"`
	MinWidth         float64        `json:"min_width"`
	MinGap           float64        `json:"min_gap"`
	MaxReorderPasses int            `json:"max_reorder_passes"`
	OmitEmptySpace   bool           `json:"omit_empty_space"`
	ForceMinWidth    bool           `json:"force_min_width"`
	Priorities       map[string]int `json:"priorities,omitempty"`
}

// ArtifactKeyOpts holds the options that change an encoded layout.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey keys a layout by the hash of its design and its options.
	LayoutKey(designHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys an encoded layout by the hash of the layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer. Map keys are sorted by the JSON encoder, so
// equal priority tables always hash alike.
func (DefaultKeyer) LayoutKey(designHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", designHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// =============================================================================
// NullCache
// =============================================================================

// NullCache never stores anything. Every Get is a miss.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache {
	return NullCache{}
}

func (NullCache) Get(context.Context, string) ([]byte, bool, error)         { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
