package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartwire/pkg/cache"
	"github.com/matzehuels/chartwire/pkg/observability"
	"github.com/matzehuels/chartwire/pkg/spec"
)

// Key families reported to observability hooks.
const (
	kindDocument = "doc"
	kindArtifact = "artifact"
)

// Runner runs the pipeline against a cache. The CLI and the preview server
// share it; it holds no per-run state, so one Runner may serve concurrent
// calls with different Options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner returns a Runner. A nil cache disables caching, a nil keyer
// means cache.DefaultKeyer and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	r := &Runner{Cache: c, Keyer: keyer, Logger: logger}
	if r.Cache == nil {
		r.Cache = cache.NewNullCache()
	}
	if r.Keyer == nil {
		r.Keyer = cache.NewDefaultKeyer()
	}
	if r.Logger == nil {
		r.Logger = log.Default()
	}
	return r
}

// lookup reads key and reports the outcome to the cache hooks. Backend
// errors count as misses.
func (r *Runner) lookup(ctx context.Context, kind, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "kind", kind, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, kind)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	return data, true
}

// store writes data under key. Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, kind, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "kind", kind, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

// Execute serializes every spec and renders the requested formats.
func (r *Runner) Execute(ctx context.Context, files []*spec.File, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := spec.CheckUniqueIDs(files); err != nil {
		return nil, err
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Serialize
	serializeStart := time.Now()
	for _, f := range files {
		c, hit, err := r.SerializeWithCacheInfo(ctx, f, opts)
		if err != nil {
			return nil, fmt.Errorf("serialize %s: %w", f.Name(), err)
		}
		if hit {
			result.CacheInfo.DocumentHits++
		}
		result.Charts = append(result.Charts, c)
		result.Stats.DocumentBytes += len(c.Text)
	}
	result.Stats.ChartCount = len(result.Charts)
	result.Stats.SerializeTime = time.Since(serializeStart)

	r.Logger.Info("serialized charts",
		"charts", result.Stats.ChartCount,
		"cached", result.CacheInfo.DocumentHits,
		"bytes", result.Stats.DocumentBytes,
		"duration", result.Stats.SerializeTime)

	// Stage 2: Render
	renderStart := time.Now()
	hash, err := DocumentHash(result.Charts)
	if err != nil {
		return nil, err
	}
	result.DocumentHash = hash
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result.Charts, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"artifacts", len(artifacts),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SerializeWithCacheInfo serializes one spec, consulting the cache first
// unless opts.Refresh is set. The bool reports a cache hit.
func (r *Runner) SerializeWithCacheInfo(ctx context.Context, f *spec.File, opts Options) (*Chart, bool, error) {
	r.applyLogger(&opts)

	// Generated ids depend on the path, so the id joins the content hash.
	key := r.Keyer.DocumentKey(cache.Hash([]byte(f.Hash+"\x00"+f.ID)), opts.DocumentKeyOpts())

	if !opts.Refresh {
		if data, ok := r.lookup(ctx, kindDocument, key); ok {
			var c Chart
			if json.Unmarshal(data, &c) == nil && c.ID == f.ID {
				c.Source = f.Name()
				r.Logger.Debug("document cache hit", "chart", f.ID)
				return &c, true, nil
			}
		}
	}

	c, err := Serialize(ctx, f, opts)
	if err != nil {
		return nil, false, err
	}
	if data, err := json.Marshal(c); err == nil {
		r.store(ctx, kindDocument, key, data, cache.TTLDocument)
	}
	return c, false, nil
}

// RenderWithCacheInfo renders the requested formats. Page formats are cached
// per document hash; the bool is true when every page format was a hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, charts []*Chart, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	docHash, err := DocumentHash(charts)
	if err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte)
	var todo, missing []string
	for _, format := range opts.Formats {
		name, isPage := pageFormats[format]
		if !isPage {
			todo = append(todo, format)
			continue
		}
		if !opts.Refresh {
			if data, ok := r.lookup(ctx, kindArtifact, r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))); ok {
				artifacts[name] = data
				continue
			}
		}
		missing = append(missing, format)
		todo = append(todo, format)
	}
	allCached := len(missing) == 0 && len(artifacts) > 0

	renderOpts := opts
	renderOpts.Formats = todo
	rendered, err := Render(ctx, charts, renderOpts)
	if err != nil {
		return nil, false, err
	}
	for _, format := range missing {
		r.store(ctx, kindArtifact, r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format)), rendered[pageFormats[format]], cache.TTLArtifact)
	}
	for name, data := range rendered {
		artifacts[name] = data
	}
	return artifacts, allCached, nil
}

// DocumentHash returns the content hash of the serialized charts, in order.
func DocumentHash(charts []*Chart) (string, error) {
	data, err := json.Marshal(charts)
	if err != nil {
		return "", fmt.Errorf("serialize charts for cache key: %w", err)
	}
	return cache.Hash(data), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
