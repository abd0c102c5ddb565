// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import "errors"

var (
	// ErrNotFound is returned when a title is not in the catalog.
	ErrNotFound = errors.New("movie not found in catalog")

	// ErrInvalidCatalog is returned when the movie list and matrix disagree.
	ErrInvalidCatalog = errors.New("invalid catalog")
)
