// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package config

import (
	"fmt"
	"time"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Storage   StorageConfig   `koanf:"storage"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT, HTTP_HOST, HTTP_TIMEOUT
//   - ENVIRONMENT: development or production
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig selects and tunes the credential, profile and value-table store.
//
// Environment Variables:
//   - STORAGE_BACKEND: badger (default), redis or memory
//   - STORAGE_PATH: badger directory
//   - STORAGE_SYNC_WRITES: fsync every badger commit (default: true)
//   - STORAGE_GC_INTERVAL: badger value log GC interval (default: 10m)
//   - REDIS_ADDR, REDIS_DB, REDIS_PASSWORD, REDIS_KEY_PREFIX
type StorageConfig struct {
	Backend    string        `koanf:"backend"`
	Path       string        `koanf:"path"`
	SyncWrites bool          `koanf:"sync_writes"`
	GCInterval time.Duration `koanf:"gc_interval"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisDB       int    `koanf:"redis_db"`
	RedisPassword string `koanf:"redis_password"`
	RedisPrefix   string `koanf:"redis_prefix"`
}

// CatalogConfig locates the similarity artifact (movie list plus matrix).
//
// Environment Variables:
//   - CATALOG_DIR: directory holding artifact snapshots
//   - CATALOG_NAME: artifact name (default: similarity)
//   - CATALOG_SOURCE_URL: where to download the artifact when none is present locally
//   - CATALOG_FETCH_TIMEOUT: per attempt download timeout (default: 2m)
//   - CATALOG_FETCH_RETRIES: download attempts (default: 3)
type CatalogConfig struct {
	Dir          string        `koanf:"dir"`
	Name         string        `koanf:"name"`
	SourceURL    string        `koanf:"source_url"`
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
	FetchRetries int           `koanf:"fetch_retries"`
}

// RecommendConfig holds ranking and value-update parameters.
//
// Environment Variables:
//   - RECOMMEND_ALPHA, RECOMMEND_GAMMA: value update learning rate and discount
//   - RECOMMEND_SEED_COUNT: how many recent likes seed the ranking (default: 3)
//   - RECOMMEND_DEFAULT_SEED: seed used when a user has no likes (default: The Matrix)
//   - RECOMMEND_DEFAULT_LIMIT, RECOMMEND_MAX_LIMIT
//   - RECOMMEND_CACHE_SIZE, RECOMMEND_CACHE_TTL
type RecommendConfig struct {
	Alpha        float64       `koanf:"alpha"`
	Gamma        float64       `koanf:"gamma"`
	SeedCount    int           `koanf:"seed_count"`
	DefaultSeed  string        `koanf:"default_seed"`
	DefaultLimit int           `koanf:"default_limit"`
	MaxLimit     int           `koanf:"max_limit"`
	CacheSize    int           `koanf:"cache_size"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
}

// SecurityConfig holds authentication and HTTP protection settings.
//
// Environment Variables:
//   - JWT_SECRET: HMAC key for bearer tokens (required, 32+ chars)
//   - SESSION_TIMEOUT: login session lifetime (default: 24h)
//   - SESSION_STORE: memory or badger (default: memory)
//   - SESSION_STORE_PATH: badger directory when SESSION_STORE=badger
//   - PASSWORD_HASH: sha256 (default) or bcrypt for newly registered users
//   - BCRYPT_COST
//   - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
//   - AUTH_RATE_LIMIT_REQUESTS: per IP limit on register and login
//   - CORS_ORIGINS: comma-separated origins
type SecurityConfig struct {
	JWTSecret        string        `koanf:"jwt_secret"`
	SessionTimeout   time.Duration `koanf:"session_timeout"`
	SessionStore     string        `koanf:"session_store"`
	SessionStorePath string        `koanf:"session_store_path"`

	PasswordHash string `koanf:"password_hash"`
	BcryptCost   int    `koanf:"bcrypt_cost"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	AuthRateLimitReqs int           `koanf:"auth_rate_limit_reqs"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the service runs with production checks.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads configuration from defaults, config file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
