// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/reelrank/internal/artifact"
	"github.com/tomtom215/reelrank/internal/auth"
	"github.com/tomtom215/reelrank/internal/config"
	"github.com/tomtom215/reelrank/internal/logging"
	"github.com/tomtom215/reelrank/internal/recommend"
	"github.com/tomtom215/reelrank/internal/recommend/storage"
)

// loadCatalog returns the latest local snapshot, downloading one first when
// the directory is empty and a source URL is configured.
func loadCatalog(ctx context.Context, cfg *config.CatalogConfig) (*recommend.Catalog, error) {
	snapshots, err := storage.NewStore(cfg.Dir)
	if err != nil {
		return nil, err
	}

	var fetcher *artifact.Fetcher
	if cfg.SourceURL != "" {
		fetcher, err = artifact.NewFetcher(fetcherConfig(cfg), nil, logging.WithComponent("artifact"))
		if err != nil {
			return nil, err
		}
	}

	a, meta, err := artifact.Ensure(ctx, snapshots, cfg.Name, fetcher)
	if err != nil {
		return nil, err
	}
	catalog, err := a.Catalog()
	if err != nil {
		return nil, fmt.Errorf("artifact %s v%d: %w", meta.Name, meta.Version, err)
	}

	logging.Info().
		Str("name", meta.Name).
		Int("version", meta.Version).
		Int("movies", catalog.Len()).
		Msg("Similarity catalog loaded")
	return catalog, nil
}

func fetcherConfig(cfg *config.CatalogConfig) artifact.FetcherConfig {
	return artifact.FetcherConfig{
		URL:           cfg.SourceURL,
		Timeout:       cfg.FetchTimeout,
		Attempts:      cfg.FetchRetries,
		RetryInterval: 2 * time.Second,
	}
}

func engineConfig(cfg *config.RecommendConfig) *recommend.Config {
	return &recommend.Config{
		SeedCount:    cfg.SeedCount,
		DefaultSeed:  cfg.DefaultSeed,
		DefaultLimit: cfg.DefaultLimit,
		MaxLimit:     cfg.MaxLimit,
		CacheSize:    cfg.CacheSize,
		CacheTTL:     cfg.CacheTTL,
		Params:       recommend.Params{Alpha: cfg.Alpha, Gamma: cfg.Gamma},
	}
}

func newEngine(cfg *config.RecommendConfig, catalog *recommend.Catalog) (*recommend.Engine, error) {
	if !catalog.Contains(cfg.DefaultSeed) {
		logging.Warn().Str("default_seed", cfg.DefaultSeed).
			Msg("Default seed is not in the catalog; users without likes get no recommendations")
	}
	return recommend.NewEngine(engineConfig(cfg), catalog, logging.WithComponent("recommend"))
}

// authComponents groups the authentication collaborators.
type authComponents struct {
	hasher   auth.Hasher
	sessions auth.SessionStore
	manager  *auth.Manager
}

func newAuth(cfg *config.SecurityConfig) (*authComponents, error) {
	hasher, err := auth.NewHasher(cfg.PasswordHash, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokenManager(cfg)
	if err != nil {
		return nil, err
	}
	sessions, err := auth.NewSessionStore(cfg)
	if err != nil {
		return nil, err
	}
	return &authComponents{
		hasher:   hasher,
		sessions: sessions,
		manager:  auth.NewManager(tokens, sessions, cfg.SessionTimeout),
	}, nil
}

func warnInsecureSettings(cfg *config.Config) {
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	for _, origin := range cfg.Security.CORSOrigins {
		if origin == "*" {
			logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); list explicit origins in production")
			break
		}
	}
	if cfg.Security.SessionStore == "memory" {
		logging.Warn().Msg("Login sessions are kept in memory (SESSION_STORE=memory) and are lost on restart")
	}
}
