// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package cache provides a generic, thread-safe LRU cache with TTL.
//
// It backs the recommendation result cache and the in-process registry of
// authenticated sessions. Expiry is lazy (checked on read) plus an explicit
// CleanupExpired sweep.
package cache
