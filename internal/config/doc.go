// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package config loads service configuration with Koanf v2.
//
// Sources are layered, later ones winning:
//
//  1. Built-in defaults (defaultConfig)
//  2. An optional YAML file (CONFIG_PATH, or config.yaml / /etc/reelrank/config.yaml)
//  3. Explicitly mapped environment variables
//
// Unmapped environment variables are ignored. The resulting Config is
// validated before it is returned and is read-only afterwards.
//
// Example config.yaml:
//
//	server:
//	  port: 8080
//	storage:
//	  backend: badger
//	  path: /data/reelrank
//	catalog:
//	  dir: /data/artifacts
//	  source_url: https://example.com/artifacts/similarity_v1.gob.gz
//	recommend:
//	  default_seed: The Matrix
//	  default_limit: 50
//	security:
//	  jwt_secret: change-me-to-a-long-random-string
package config
