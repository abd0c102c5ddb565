// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Task is one run of periodic work.
type Task func(ctx context.Context) error

// PeriodicService runs a Task every interval. A failing run is logged and
// retried on the next tick; it does not restart the service.
type PeriodicService struct {
	name     string
	interval time.Duration
	timeout  time.Duration
	task     Task
	logger   zerolog.Logger
}

// NewPeriodicService creates a PeriodicService. Each run gets at most
// timeout, or interval when timeout is zero.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPeriodicService(name string, interval, timeout time.Duration, task Task, logger zerolog.Logger) *PeriodicService {
	if interval <= 0 {
		interval = time.Minute
	}
	if timeout <= 0 {
		timeout = interval
	}
	return &PeriodicService{
		name:     name,
		interval: interval,
		timeout:  timeout,
		task:     task,
		logger:   logger.With().Str("service", name).Logger(),
	}
}

// Serve implements suture.Service.
func (s *PeriodicService) Serve(ctx context.Context) error {
	s.logger.Debug().Dur("interval", s.interval).Msg("periodic service starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *PeriodicService) run(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.task(runCtx); err != nil {
		s.logger.Warn().Err(err).Dur("duration", time.Since(start)).Msg("periodic task failed")
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("periodic task complete")
}

func (s *PeriodicService) String() string {
	return s.name
}
