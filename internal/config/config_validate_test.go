// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = testSecret
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "sqlite" }, "STORAGE_BACKEND"},
		{"badger without path", func(c *Config) { c.Storage.Path = "" }, "STORAGE_PATH"},
		{"redis without addr", func(c *Config) {
			c.Storage.Backend = "redis"
			c.Storage.RedisAddr = ""
		}, "REDIS_ADDR"},
		{"memory in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Storage.Backend = "memory"
			c.Security.CORSOrigins = []string{"https://app.example"}
		}, "STORAGE_BACKEND=memory"},
		{"catalog name with underscore", func(c *Config) { c.Catalog.Name = "sim_v1" }, "CATALOG_NAME"},
		{"bad source url", func(c *Config) { c.Catalog.SourceURL = "ftp://host/file" }, "CATALOG_SOURCE_URL"},
		{"alpha zero", func(c *Config) { c.Recommend.Alpha = 0 }, "RECOMMEND_ALPHA"},
		{"gamma above one", func(c *Config) { c.Recommend.Gamma = 1.5 }, "RECOMMEND_GAMMA"},
		{"blank default seed", func(c *Config) { c.Recommend.DefaultSeed = "  " }, "RECOMMEND_DEFAULT_SEED"},
		{"max below default", func(c *Config) { c.Recommend.MaxLimit = 10 }, "RECOMMEND_MAX_LIMIT"},
		{"short secret", func(c *Config) { c.Security.JWTSecret = "short" }, "JWT_SECRET"},
		{"bcrypt cost", func(c *Config) {
			c.Security.PasswordHash = "bcrypt"
			c.Security.BcryptCost = 4
		}, "BCRYPT_COST"},
		{"wildcard cors in production", func(c *Config) {
			c.Server.Environment = "production"
		}, "CORS_ORIGINS"},
		{"rate limit window", func(c *Config) { c.Security.RateLimitWindow = time.Millisecond }, "RATE_LIMIT_WINDOW"},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"session store shares storage dir", func(c *Config) {
			c.Security.SessionStore = "badger"
			c.Security.SessionStorePath = c.Storage.Path + "/"
		}, "SESSION_STORE_PATH must differ"},
		{"session store in its own dir", func(c *Config) {
			c.Security.SessionStore = "badger"
			c.Security.SessionStorePath = c.Storage.Path + "-sessions"
		}, ""},
		{"shared dir is fine with redis storage", func(c *Config) {
			c.Storage.Backend = "redis"
			c.Storage.RedisAddr = "localhost:6379"
			c.Security.SessionStore = "badger"
			c.Security.SessionStorePath = c.Storage.Path
		}, ""},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %s", err, tt.wantErr)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := s.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8080", got)
	}
}
