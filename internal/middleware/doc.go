// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package middleware provides chi-compatible HTTP middleware for request ids
// and Prometheus instrumentation.
package middleware
