// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package artifact obtains the similarity artifact the service ranks with.
//
// Ensure loads the newest local snapshot and, when none exists and a source
// URL is configured, downloads one first. Downloads run through a circuit
// breaker, each attempt has its own timeout and retries are paced by a token
// bucket. Import builds a snapshot from JSON exports of the movie list and
// the similarity matrix.
package artifact
