// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelrank/internal/cache"
	"github.com/tomtom215/reelrank/internal/metrics"
)

// Engine serves rankings over an immutable catalog. It is safe for
// concurrent use.
type Engine struct {
	config  *Config
	logger  zerolog.Logger
	catalog SimilarityProvider

	cache *cache.LRU[[]Recommendation]

	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	updateCount  atomic.Int64
}

// Stats is a snapshot of engine counters.
type Stats struct {
	Requests    int64 `json:"requests"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	Updates     int64 `json:"updates"`
}

// NewEngine creates an engine over catalog. A nil cfg selects DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, catalog SimilarityProvider, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if catalog == nil {
		return nil, fmt.Errorf("%w: no catalog", ErrInvalidCatalog)
	}

	e := &Engine{
		config:  cfg,
		logger:  logger.With().Str("component", "recommend").Logger(),
		catalog: catalog,
	}
	if cfg.CacheSize > 0 {
		e.cache = cache.NewLRU[[]Recommendation](cfg.CacheSize, cfg.CacheTTL)
	}
	return e, nil
}

// Params returns the value update hyperparameters.
func (e *Engine) Params() Params {
	return e.config.Params
}

// Known reports whether title resolves in the catalog.
func (e *Engine) Known(title string) bool {
	_, err := e.catalog.Resolve(title)
	return err == nil
}

// Seeds returns the seed titles for a liked list: its last SeedCount
// entries, or DefaultSeed when liked is empty.
func (e *Engine) Seeds(liked []string) []string {
	if len(liked) == 0 {
		return []string{e.config.DefaultSeed}
	}
	start := max(0, len(liked)-e.config.SeedCount)
	seeds := make([]string, len(liked)-start)
	copy(seeds, liked[start:])
	return seeds
}

// Limit clamps a requested limit: zero or negative selects DefaultLimit and
// anything above MaxLimit is capped.
func (e *Engine) Limit(requested int) int {
	if requested <= 0 {
		return e.config.DefaultLimit
	}
	return min(requested, e.config.MaxLimit)
}

// Recommend ranks the catalog for the request's liked list. The seeds
// themselves are excluded from the result.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	e.requestCount.Add(1)
	metrics.RecommendationsServed.Inc()

	seeds := e.Seeds(req.Liked)
	limit := e.Limit(req.Limit)
	key := cacheKey(seeds, limit)

	if e.cache != nil {
		if items, ok := e.cache.Get(key); ok {
			e.cacheHits.Add(1)
			metrics.RecommendCacheHits.Inc()
			return &Response{Items: items, Seeds: seeds, Cached: true, GeneratedAt: time.Now()}, nil
		}
		e.cacheMisses.Add(1)
		metrics.RecommendCacheMisses.Inc()
	}

	for _, s := range seeds {
		if _, err := e.catalog.Resolve(s); err != nil {
			metrics.UnresolvedSeeds.Inc()
			e.logger.Debug().Str("seed", s).Msg("seed not in catalog, skipped")
		}
	}

	ranked := RankScored(seeds, e.catalog, seeds, limit)
	items := make([]Recommendation, len(ranked))
	for i, r := range ranked {
		items[i] = Recommendation{
			MovieID: e.movieID(r.Position),
			Title:   r.Title,
			Score:   r.Score,
			Seed:    r.Seed,
		}
	}
	if e.cache != nil {
		e.cache.Add(key, items)
	}

	elapsed := time.Since(start)
	metrics.RecommendationDuration.Observe(elapsed.Seconds())
	e.logger.Debug().
		Strs("seeds", seeds).
		Int("limit", limit).
		Int("returned", len(items)).
		Dur("latency", elapsed).
		Msg("recommendation complete")

	return &Response{Items: items, Seeds: seeds, GeneratedAt: time.Now()}, nil
}

// Learn applies Update with the engine's parameters.
func (e *Engine) Learn(table ValueTable, state, action string, reward float64) ValueTable {
	e.updateCount.Add(1)
	metrics.RecordValueUpdate(reward)
	return Update(table, state, action, reward, e.config.Params)
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests:    e.requestCount.Load(),
		CacheHits:   e.cacheHits.Load(),
		CacheMisses: e.cacheMisses.Load(),
		Updates:     e.updateCount.Load(),
	}
}

// movieID returns the catalog id when the provider exposes movies, or the
// position otherwise.
func (e *Engine) movieID(position int) int {
	if c, ok := e.catalog.(interface{ Movie(int) Movie }); ok {
		return c.Movie(position).ID
	}
	return position
}

func cacheKey(seeds []string, limit int) string {
	return strings.Join(seeds, "\x1f") + "\x1e" + strconv.Itoa(limit)
}
