// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelrank/internal/metrics"
)

// gcDiscardRatio rewrites value log files that are at least half garbage.
const gcDiscardRatio = 0.5

// ValueLogCollector is satisfied by *store.Badger.
type ValueLogCollector interface {
	RunGC(discardRatio float64) error
}

// SessionSweeper is satisfied by *auth.Manager.
type SessionSweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// NewValueLogGCService reclaims badger value log space every interval.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewValueLogGCService(gc ValueLogCollector, interval time.Duration, logger zerolog.Logger) *PeriodicService {
	return NewPeriodicService("value-log-gc", interval, 0, func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := gc.RunGC(gcDiscardRatio); err != nil {
			metrics.BadgerGCRuns.WithLabelValues("error").Inc()
			return err
		}
		metrics.BadgerGCRuns.WithLabelValues("success").Inc()
		return nil
	}, logger)
}

// NewSessionSweeperService deletes expired login sessions every interval.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSessionSweeperService(sweeper SessionSweeper, interval time.Duration, logger zerolog.Logger) *PeriodicService {
	return NewPeriodicService("session-sweeper", interval, 0, func(ctx context.Context) error {
		_, err := sweeper.Sweep(ctx)
		return err
	}, logger)
}
