// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config controls the Engine.
type Config struct {
	// SeedCount is how many of the most recent likes seed a ranking.
	SeedCount int

	// DefaultSeed is used when the user has no likes.
	DefaultSeed string

	// DefaultLimit applies when a request does not set one.
	DefaultLimit int

	// MaxLimit caps any requested limit.
	MaxLimit int

	// CacheSize is the result cache capacity; zero disables caching.
	CacheSize int

	// CacheTTL is how long cached results are served.
	CacheTTL time.Duration

	// Params are the value update hyperparameters.
	Params Params
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		SeedCount:    3,
		DefaultSeed:  "The Matrix",
		DefaultLimit: 50,
		MaxLimit:     200,
		CacheSize:    10000,
		CacheTTL:     5 * time.Minute,
		Params:       DefaultParams(),
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	var errs []error
	if c.SeedCount < 1 {
		errs = append(errs, fmt.Errorf("seed count must be at least 1, got %d", c.SeedCount))
	}
	if strings.TrimSpace(c.DefaultSeed) == "" {
		errs = append(errs, errors.New("default seed is required"))
	}
	if c.DefaultLimit < 1 {
		errs = append(errs, fmt.Errorf("default limit must be at least 1, got %d", c.DefaultLimit))
	}
	if c.MaxLimit < c.DefaultLimit {
		errs = append(errs, fmt.Errorf("max limit %d is below default limit %d", c.MaxLimit, c.DefaultLimit))
	}
	if c.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("cache size must not be negative, got %d", c.CacheSize))
	}
	if c.Params.Alpha <= 0 || c.Params.Alpha > 1 {
		errs = append(errs, fmt.Errorf("alpha must be in (0, 1], got %v", c.Params.Alpha))
	}
	if c.Params.Gamma < 0 || c.Params.Gamma > 1 {
		errs = append(errs, fmt.Errorf("gamma must be in [0, 1], got %v", c.Params.Gamma))
	}
	return errors.Join(errs...)
}
