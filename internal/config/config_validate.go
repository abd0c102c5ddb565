// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package config

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"
)

const (
	minJWTSecretLength = 32

	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour

	minBcryptCost = 10
	maxBcryptCost = 16
)

var (
	validLogLevels = map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	validLogFormats = map[string]bool{
		"json": true, "console": true,
	}
	validStorageBackends = map[string]bool{
		"badger": true, "redis": true, "memory": true,
	}
	validSessionStores = map[string]bool{
		"memory": true, "badger": true,
	}
	validPasswordHashes = map[string]bool{
		"sha256": true, "bcrypt": true,
	}
)

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateStorage() error {
	if !validStorageBackends[c.Storage.Backend] {
		return fmt.Errorf("STORAGE_BACKEND must be one of: badger, redis, memory")
	}
	switch c.Storage.Backend {
	case "badger":
		if c.Storage.Path == "" {
			return fmt.Errorf("STORAGE_PATH is required when STORAGE_BACKEND=badger")
		}
		if c.Storage.GCInterval < time.Minute {
			return fmt.Errorf("STORAGE_GC_INTERVAL must be at least 1m")
		}
	case "redis":
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when STORAGE_BACKEND=redis")
		}
		if c.Storage.RedisDB < 0 {
			return fmt.Errorf("REDIS_DB must not be negative")
		}
	}
	if c.IsProduction() && c.Storage.Backend == "memory" {
		return fmt.Errorf("STORAGE_BACKEND=memory loses all users on restart and is not allowed in production")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.Dir == "" {
		return fmt.Errorf("CATALOG_DIR is required")
	}
	if c.Catalog.Name == "" || strings.ContainsAny(c.Catalog.Name, `/\_`) {
		return fmt.Errorf("CATALOG_NAME must be non-empty and must not contain path separators or underscores")
	}
	if c.Catalog.SourceURL != "" {
		if err := validateArtifactURL(c.Catalog.SourceURL, "CATALOG_SOURCE_URL"); err != nil {
			return err
		}
	}
	if c.Catalog.FetchTimeout <= 0 {
		return fmt.Errorf("CATALOG_FETCH_TIMEOUT must be positive")
	}
	if c.Catalog.FetchRetries < 1 {
		return fmt.Errorf("CATALOG_FETCH_RETRIES must be at least 1")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if math.IsNaN(r.Alpha) || r.Alpha <= 0 || r.Alpha > 1 {
		return fmt.Errorf("RECOMMEND_ALPHA must be in (0, 1]")
	}
	if math.IsNaN(r.Gamma) || r.Gamma < 0 || r.Gamma > 1 {
		return fmt.Errorf("RECOMMEND_GAMMA must be in [0, 1]")
	}
	if r.SeedCount < 1 {
		return fmt.Errorf("RECOMMEND_SEED_COUNT must be at least 1")
	}
	if strings.TrimSpace(r.DefaultSeed) == "" {
		return fmt.Errorf("RECOMMEND_DEFAULT_SEED is required")
	}
	if r.DefaultLimit < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be at least 1")
	}
	if r.MaxLimit < r.DefaultLimit {
		return fmt.Errorf("RECOMMEND_MAX_LIMIT (%d) must not be below RECOMMEND_DEFAULT_LIMIT (%d)", r.MaxLimit, r.DefaultLimit)
	}
	if r.CacheSize < 0 {
		return fmt.Errorf("RECOMMEND_CACHE_SIZE must not be negative")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if err := c.validateJWTSecret(); err != nil {
		return err
	}
	if c.Security.SessionTimeout < time.Minute {
		return fmt.Errorf("SESSION_TIMEOUT must be at least 1m")
	}
	if !validSessionStores[c.Security.SessionStore] {
		return fmt.Errorf("SESSION_STORE must be one of: memory, badger")
	}
	if c.Security.SessionStore == "badger" && c.Security.SessionStorePath == "" {
		return fmt.Errorf("SESSION_STORE_PATH is required when SESSION_STORE=badger")
	}
	if c.Security.SessionStore == "badger" && c.Storage.Backend == "badger" &&
		samePath(c.Security.SessionStorePath, c.Storage.Path) {
		return fmt.Errorf("SESSION_STORE_PATH must differ from STORAGE_PATH: each badger database locks its directory")
	}
	if err := c.validatePasswordHash(); err != nil {
		return err
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// samePath reports whether a and b name the same directory after cleaning.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	return nil
}

func (c *Config) validatePasswordHash() error {
	if !validPasswordHashes[c.Security.PasswordHash] {
		return fmt.Errorf("PASSWORD_HASH must be one of: sha256, bcrypt")
	}
	if c.Security.PasswordHash == "bcrypt" &&
		(c.Security.BcryptCost < minBcryptCost || c.Security.BcryptCost > maxBcryptCost) {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", minBcryptCost, maxBcryptCost)
	}
	return nil
}

// validateCORS rejects wildcard origins in production.
func (c *Config) validateCORS() error {
	if c.IsProduction() && c.hasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS=* is not allowed in production; list explicit origins")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.AuthRateLimitReqs < minRateLimitRequests || c.Security.AuthRateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("AUTH_RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
