// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package store persists user credentials, profiles and learned value tables.
//
// Three backends implement Store:
//
//   - Badger: embedded, the default. Each write is one badger transaction.
//   - Redis: shared server. User creation uses WATCH, feedback uses MULTI.
//   - Memory: process-local, for tests and development.
//
// Every record is stored as a JSON document under a key prefix:
//
//	user:{username}     -> {"username", "password_hash", "created_at"}
//	profile:{username}  -> {"username", "liked": [...]}
//	values:{username}   -> {state: {action: value}}
//
// A user's value table is absent until the first learning update, and reads
// return an empty table in that case. SaveFeedback writes the profile and the
// table together: both land or neither does.
package store
