// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package storage persists similarity artifacts (movie list plus matrix) as
// versioned snapshot files.
//
// # File Format
//
// Each snapshot is {name}_v{version}.gob.gz: a gob-encoded envelope holding
// metadata and the gzip-compressed gob encoding of the Artifact. The
// metadata carries a SHA-256 checksum of the uncompressed payload, verified
// on Load.
//
// Writes go to a temporary file that is renamed into place, so a reader
// never observes a partially written snapshot.
package storage
