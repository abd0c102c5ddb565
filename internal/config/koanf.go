// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelrank/config.yaml",
	"/etc/reelrank/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Storage: StorageConfig{
			Backend:     "badger",
			Path:        "/data/reelrank",
			SyncWrites:  true,
			GCInterval:  10 * time.Minute,
			RedisAddr:   "127.0.0.1:6379",
			RedisDB:     0,
			RedisPrefix: "reelrank:",
		},
		Catalog: CatalogConfig{
			Dir:          "/data/artifacts",
			Name:         "similarity",
			FetchTimeout: 2 * time.Minute,
			FetchRetries: 3,
		},
		Recommend: RecommendConfig{
			Alpha:        0.1,
			Gamma:        0.9,
			SeedCount:    3,
			DefaultSeed:  "The Matrix",
			DefaultLimit: 50,
			MaxLimit:     200,
			CacheSize:    10000,
			CacheTTL:     5 * time.Minute,
		},
		Security: SecurityConfig{
			SessionTimeout:    24 * time.Hour,
			SessionStore:      "memory",
			SessionStorePath:  "/data/sessions",
			PasswordHash:      "sha256",
			BcryptCost:        12,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			AuthRateLimitReqs: 10,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf layers defaults, the optional config file and environment
// variables, then validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	"storage_backend":     "storage.backend",
	"storage_path":        "storage.path",
	"storage_sync_writes": "storage.sync_writes",
	"storage_gc_interval": "storage.gc_interval",
	"redis_addr":          "storage.redis_addr",
	"redis_db":            "storage.redis_db",
	"redis_password":      "storage.redis_password",
	"redis_key_prefix":    "storage.redis_prefix",

	"catalog_dir":           "catalog.dir",
	"catalog_name":          "catalog.name",
	"catalog_source_url":    "catalog.source_url",
	"catalog_fetch_timeout": "catalog.fetch_timeout",
	"catalog_fetch_retries": "catalog.fetch_retries",

	"recommend_alpha":         "recommend.alpha",
	"recommend_gamma":         "recommend.gamma",
	"recommend_seed_count":    "recommend.seed_count",
	"recommend_default_seed":  "recommend.default_seed",
	"recommend_default_limit": "recommend.default_limit",
	"recommend_max_limit":     "recommend.max_limit",
	"recommend_cache_size":    "recommend.cache_size",
	"recommend_cache_ttl":     "recommend.cache_ttl",

	"jwt_secret":               "security.jwt_secret",
	"session_timeout":          "security.session_timeout",
	"session_store":            "security.session_store",
	"session_store_path":       "security.session_store_path",
	"password_hash":            "security.password_hash",
	"bcrypt_cost":              "security.bcrypt_cost",
	"rate_limit_requests":      "security.rate_limit_reqs",
	"rate_limit_window":        "security.rate_limit_window",
	"disable_rate_limit":       "security.rate_limit_disabled",
	"auth_rate_limit_requests": "security.auth_rate_limit_reqs",
	"cors_origins":             "security.cors_origins",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps known environment variables to koanf paths and
// drops everything else.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
