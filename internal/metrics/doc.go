// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package metrics declares the Prometheus collectors for the service and
// small Record* helpers that keep label handling in one place.
//
// Collectors are registered on the default registry through promauto and are
// exposed by the API router at /metrics.
package metrics
