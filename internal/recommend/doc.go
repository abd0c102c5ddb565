// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package recommend ranks movies by precomputed similarity and maintains the
// per-user value table learned from likes and dislikes.
//
// # Ranking
//
// Rank resolves each seed title to its catalog position, concatenates the
// full similarity rows of all resolved seeds in seed order, stable-sorts the
// concatenation by score (descending) and walks it, skipping excluded and
// already selected titles until the limit is reached. Duplicate candidates
// from different seeds are not merged: the first (highest scored) occurrence
// wins and later ones are skipped. Unknown seeds are skipped silently.
//
// # Value updates
//
// Update applies a one-step tabular update to table[state][action]:
//
//	new = old + alpha * (reward + gamma*0 - old)
//
// The successor state value is always taken as zero, so gamma has no effect
// on the result. Missing entries read as zero and are created on write.
//
// # Engine
//
// Engine wraps Rank with seed selection (the most recent likes, or a
// configured default seed), limit clamping, a TTL result cache and metrics.
//
// The catalog and similarity matrix are immutable after construction and are
// shared by all goroutines without locking.
package recommend
