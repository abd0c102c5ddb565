// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package main is reelctl, the offline maintenance tool for reelrank data.
//
//	reelctl import --movies movies.json --matrix similarity.json --dir /data/catalog
//	reelctl fetch --url https://example.org/similarity_v1.gob.gz --dir /data/catalog
//	reelctl inspect --dir /data/catalog
//	reelctl values ana --store-path /data/store
//
// The values command opens the badger store directly, so the server must
// not be running against the same directory.
package main

import (
	"os"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
