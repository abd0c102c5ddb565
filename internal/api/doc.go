// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

/*
Package api exposes the session controller over HTTP with the chi router.

Every response uses one JSON envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "DUPLICATE_USER", "message": "..."}, "meta": {...}}

Routes:

	POST /api/v1/auth/register   create an account
	POST /api/v1/auth/login      exchange credentials for a bearer token
	POST /api/v1/auth/logout     end the login session
	GET  /api/v1/me              username and liked titles
	GET  /api/v1/me/values       learned value table
	GET  /api/v1/recommendations ranked movies, ?limit=
	POST /api/v1/feedback        {"movie": "...", "signal": "like|dislike"}
	GET  /api/v1/movies          catalog search, ?q=&limit=
	GET  /health                 liveness and catalog size
	GET  /metrics                Prometheus exposition

Authenticated routes take "Authorization: Bearer <token>". The token names a
login session; the in-memory controller session for it is kept in a
bounded registry and rebuilt from the stores after eviction or restart.
*/
package api
