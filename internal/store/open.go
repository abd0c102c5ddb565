// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelrank/internal/config"
)

// Open creates the backend selected by cfg.Backend.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(ctx context.Context, cfg *config.StorageConfig, logger zerolog.Logger) (Store, error) {
	switch cfg.Backend {
	case "badger":
		return OpenBadger(BadgerOptions{Path: cfg.Path, SyncWrites: cfg.SyncWrites}, logger)
	case "redis":
		return OpenRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			DB:       cfg.RedisDB,
			Password: cfg.RedisPassword,
			Prefix:   cfg.RedisPrefix,
		}, logger)
	case "memory":
		logger.Warn().Msg("using in-memory store; users are lost on restart")
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
