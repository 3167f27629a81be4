package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/backbone/pkg/cache"
	"github.com/matzehuels/backbone/pkg/design"
	"github.com/matzehuels/backbone/pkg/displaylist"
	"github.com/matzehuels/backbone/pkg/observability"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner may serve concurrent runs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the default entry lifetime when positive.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses the default keyer and a nil logger uses the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the layout and encode stages for opts.Design.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	snap, err := opts.Design.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	designHash, err := HashDesign(opts.Design)
	if err != nil {
		return nil, err
	}
	result := &Result{DesignHash: designHash}
	result.Stats.Children = len(snap.Children())

	layoutStart := time.Now()
	dl, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, snap, designHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = dl
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	s := dl.Stats()
	result.Stats.Groups = s.Groups
	result.Stats.Tracks = s.Tracks
	result.Stats.Units = s.Units
	result.Stats.Ungrouped = s.Ungrouped
	result.Stats.Warnings = len(dl.Warnings)

	r.Logger.Info("computed layout",
		"design", snap.URI(),
		"groups", s.Groups,
		"units", s.Units,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)
	for _, w := range dl.Warnings {
		r.Logger.Warn(w)
	}

	encodeStart := time.Now()
	artifacts, layoutHash, encodeHit, err := r.EncodeWithCacheInfo(ctx, dl, snap, opts)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	result.Artifacts = artifacts
	result.LayoutHash = layoutHash
	result.Stats.EncodeTime = time.Since(encodeStart)
	result.CacheInfo.EncodeHit = encodeHit

	r.Logger.Debug("encoded artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.EncodeTime)
	return result, nil
}

// ExecuteAll runs independent pipelines concurrently, at most limit at a
// time when limit is positive. Results are returned in input order; the
// first failure cancels the remaining runs.
func (r *Runner) ExecuteAll(ctx context.Context, batch []Options, limit int) ([]*Result, error) {
	results := make([]*Result, len(batch))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, opts := range batch {
		g.Go(func() error {
			res, err := r.Execute(ctx, opts)
			if err != nil {
				return fmt.Errorf("design %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ComputeLayoutWithCacheInfo returns the display list for snap, from the
// cache when possible, and reports whether it was a cache hit.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, snap *design.Snapshot, designHash string, opts Options) (*displaylist.DisplayList, bool, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)
	key := r.Keyer.LayoutKey(designHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit := r.cacheGet(ctx, keyTypeLayout, key); hit {
			dl, err := displaylist.Unmarshal(data, displaylist.FormatJSON)
			if err == nil {
				return dl, true, nil
			}
			r.Logger.Warn("discarding unreadable cached layout", "err", err)
		}
	}

	dl, err := GenerateLayout(ctx, snap, opts.LayoutOptions())
	if err != nil {
		return nil, false, err
	}
	if data, err := displaylist.Marshal(dl, displaylist.FormatJSON); err == nil {
		r.cacheSet(ctx, keyTypeLayout, key, data, r.ttl(cache.LayoutTTL))
	}
	return dl, false, nil
}

// EncodeWithCacheInfo produces every artifact in opts.Formats. It returns
// the artifacts, the layout hash they were keyed on, and whether all of
// them came from the cache.
func (r *Runner) EncodeWithCacheInfo(ctx context.Context, dl *displaylist.DisplayList, snap *design.Snapshot, opts Options) (map[string][]byte, string, bool, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, "", false, err
	}
	layoutData, err := displaylist.Marshal(dl, displaylist.FormatJSON)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	hashes := map[string]string{
		"layout": cache.Hash(layoutData),
		"design": cache.Hash([]byte(design.ToDOT(snap))),
	}

	hooks := observability.Pipeline()
	hooks.OnEncodeStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hashes[sourceOf(format)], cache.ArtifactKeyOpts{Format: format})
		if !opts.Refresh {
			if data, hit := r.cacheGet(ctx, keyTypeArtifact, key); hit {
				artifacts[format] = data
				continue
			}
		}
		allHit = false

		data, err := Encode(ctx, dl, snap, format)
		if err != nil {
			hooks.OnEncodeComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, "", false, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data
		r.cacheSet(ctx, keyTypeArtifact, key, data, r.ttl(cache.ArtifactTTL))
	}
	hooks.OnEncodeComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, hashes["layout"], allHit, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// cacheGet reads key, retrying transient backend failures. Read errors are
// logged and treated as misses.
func (r *Runner) cacheGet(ctx context.Context, keyType, key string) ([]byte, bool) {
	var (
		data []byte
		hit  bool
	)
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		data, hit, err = r.Cache.Get(ctx, key)
		return err
	})
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType)
	}
	return data, hit
}

// cacheSet writes key. Write errors are logged and otherwise ignored.
func (r *Runner) cacheSet(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on opts when none is set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
