// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

/*
Package main is the reelrank HTTP server.

Startup order:

 1. Configuration: koanf v2 (defaults, optional YAML file, environment)
 2. Logging: zerolog, level and format from LOG_LEVEL and LOG_FORMAT
 3. Catalog: load the latest similarity artifact from CATALOG_DIR, downloading
    it from CATALOG_SOURCE_URL first when no local snapshot exists
 4. Engines: ranking and value update over the catalog
 5. Store: credentials, profiles and value tables (badger, redis or memory)
 6. Auth: password hasher, JWT tokens and the login session store
 7. Supervisor tree: HTTP server, badger value log GC, login session sweeper

The process tree:

	reelrank
	├── data-layer
	│   ├── value-log-gc     (STORAGE_BACKEND=badger)
	│   └── session-sweeper
	└── api-layer
	    └── http-server

SIGINT or SIGTERM cancels the tree; every service gets the supervisor
shutdown timeout to stop before the stores are closed.
*/
package main
