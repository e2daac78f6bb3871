package layout

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/asmscope/pkg/cache"
	"github.com/matzehuels/asmscope/pkg/observability"
)

// DefaultCacheTTL is the lifetime of cached layout results.
const DefaultCacheTTL = 7 * 24 * time.Hour

// artifactKeeper is implemented by engines that write files on every run.
// [Cached] never serves such an engine from the cache while it keeps
// artifacts, so the files exist for every layout.
type artifactKeeper interface {
	KeepsArtifacts() bool
}

// Cached memoizes an engine's results. The key is derived from the engine
// name and the DOT text of the spec, so any change to sizes, labels or
// edges is a miss.
type Cached struct {
	Engine Engine
	Name   string // Engine name for cache keys
	Cache  cache.Cache
	Keyer  cache.Keyer   // Defaults to cache.DefaultKeyer
	TTL    time.Duration // Defaults to DefaultCacheTTL
	Logger *log.Logger
}

// Layout returns the cached result for spec, or runs the engine and stores
// its result. Cache failures are logged and never fail the layout.
func (c *Cached) Layout(ctx context.Context, spec *Spec) (*Result, error) {
	logger := c.Logger
	if logger == nil {
		logger = log.Default()
	}
	keyer := c.Keyer
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	key := keyer.LayoutKey(c.Name, []byte(ToDOT(spec)))

	var (
		data []byte
		hit  bool
		err  error
	)
	if ak, ok := c.Engine.(artifactKeeper); ok && ak.KeepsArtifacts() {
		logger.Debug("layout cache bypassed to keep artifacts", "spec", spec.Name)
	} else if data, hit, err = c.Cache.Get(ctx, key); err != nil {
		logger.Warn("layout cache read failed", "spec", spec.Name, "err", err)
	}
	if hit {
		var res Result
		if err := json.Unmarshal(data, &res); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return &res, nil
		}
		logger.Warn("discarding unreadable layout cache entry", "spec", spec.Name)
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	res, err := c.Engine.Layout(ctx, spec)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(res)
	if err != nil {
		return res, nil
	}
	ttl := c.TTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("layout cache write failed", "spec", spec.Name, "err", err)
		return res, nil
	}
	observability.Cache().OnCacheSet(ctx, "layout", len(data))
	return res, nil
}
