// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package session

import "errors"

var (
	// ErrInvalidInput is returned for blank credentials, unknown movies and
	// unknown feedback signals.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateUser is returned by Register when the username is taken.
	ErrDuplicateUser = errors.New("username already registered")

	// ErrAuthenticationFailed is returned by Login for an unknown user or a
	// wrong password. The two cases are indistinguishable to the caller.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrNotAuthenticated is returned when an operation needs a session.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrStoreIO wraps persistence failures.
	ErrStoreIO = errors.New("store failure")
)
