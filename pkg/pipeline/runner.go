package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cfgview/pkg/cache"
	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/layout"
	"github.com/matzehuels/cfgview/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the cache lifetime of layouts and artifacts.
	// Zero uses [cache.TTLLayout] and [cache.TTLArtifact].
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedLayout is the cache entry of the layout stage.
type cachedLayout struct {
	Strategy string        `json:"strategy"`
	Blocks   int           `json:"blocks"`
	Dropped  int           `json:"dropped"`
	Layout   layout.Result `json:"layout"`
}

// Execute runs the complete normalize → layout → render pipeline with
// caching. Cancellation of ctx is checked between stages.
func (r *Runner) Execute(ctx context.Context, payload []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		PayloadHash: cache.Hash(payload),
		Artifacts:   make(map[string][]byte),
	}

	// Stages 1+2: Normalize and Layout, cached together
	layoutStart := time.Now()
	hit, err := r.layoutWithCache(ctx, payload, opts, result)
	if err != nil {
		return nil, err
	}
	result.CacheInfo.LayoutHit = hit
	result.Stats.NodeCount = len(result.Layout.Nodes)
	result.Stats.EdgeCount = len(result.Layout.Edges)
	result.Stats.LayoutTime = time.Since(layoutStart) - result.Stats.NormalizeTime

	r.Logger.Info("computed layout",
		"strategy", result.Strategy,
		"blocks", result.Stats.BlockCount,
		"edges", result.Stats.EdgeCount,
		"dropped_edges", result.Stats.DroppedEdges,
		"ranks", len(result.Layout.Ranks),
		"cached", hit,
		"duration", time.Since(layoutStart))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result.Layout, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit
	if data, err := layout.Marshal(result.Layout); err == nil {
		result.LayoutHash = cache.Hash(data)
	}

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) layoutWithCache(ctx context.Context, payload []byte, opts Options, result *Result) (bool, error) {
	key := r.Keyer.LayoutKey(result.PayloadHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var entry cachedLayout
			if err := json.Unmarshal(data, &entry); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				result.Strategy = entry.Strategy
				result.Layout = entry.Layout
				result.Stats.BlockCount = entry.Blocks
				result.Stats.DroppedEdges = entry.Dropped
				return true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Debug("cache get failed", "key", key, "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	normalizeStart := time.Now()
	strategy, blocks, err := Normalize(ctx, payload)
	result.Strategy = strategy
	result.Stats.NormalizeTime = time.Since(normalizeStart)
	if err != nil {
		return false, err
	}
	result.Blocks = blocks
	result.Stats.BlockCount = len(blocks)

	if err := ctx.Err(); err != nil {
		return false, err
	}

	var g *cfg.Graph
	g, result.Layout = GenerateLayout(ctx, blocks, opts)
	result.Graph = g
	result.Stats.DroppedEdges = g.Dropped

	data, err := json.Marshal(cachedLayout{
		Strategy: strategy,
		Blocks:   len(blocks),
		Dropped:  g.Dropped,
		Layout:   result.Layout,
	})
	if err == nil {
		r.set(ctx, key, "layout", data, r.ttl(cache.TTLLayout))
	}
	return false, nil
}

// Layout runs normalize and layout only, with caching.
func (r *Runner) Layout(ctx context.Context, payload []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		PayloadHash: cache.Hash(payload),
		Artifacts:   make(map[string][]byte),
	}
	hit, err := r.layoutWithCache(ctx, payload, opts, result)
	if err != nil {
		return nil, err
	}
	result.CacheInfo.LayoutHit = hit
	result.Stats.NodeCount = len(result.Layout.Nodes)
	result.Stats.EdgeCount = len(result.Layout.Edges)
	return result, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res layout.Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	// Compute cache key from layout data
	layoutData, err := layout.Marshal(res)
	if err != nil {
		return nil, false, err
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	// Render all formats
	rendered, err := Render(ctx, res, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.set(ctx, key, "artifact", data, r.ttl(cache.TTLArtifact))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res layout.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// set writes a cache entry. Failures are logged, never returned.
func (r *Runner) set(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache set failed", "key", key, "error", err)
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

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
