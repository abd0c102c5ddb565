// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package session runs the user-facing workflow: registration, login,
// feedback and recommendations.
//
// A Controller owns no per-user globals. Login returns a *Session that the
// caller passes back into every later call; a nil session is rejected with
// ErrNotAuthenticated.
//
// Feedback for one username is serialized in arrival order, because the
// "previous like" used as the learning state depends on strict append order.
// Each feedback call re-reads the persisted profile and value table under
// that lock, applies the change to copies and writes them back in one store
// call. The session snapshot is replaced only after the write succeeds, so a
// store failure leaves both the persisted state and the snapshot unchanged.
package session
