// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/reelrank/internal/auth"
	"github.com/tomtom215/reelrank/internal/logging"
	"github.com/tomtom215/reelrank/internal/session"
)

// errorMapping pairs an error kind with its HTTP rendering.
type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{session.ErrInvalidInput, http.StatusBadRequest, ErrCodeInvalidInput, ""},
	{session.ErrDuplicateUser, http.StatusConflict, ErrCodeDuplicateUser, "username is already taken"},
	{session.ErrAuthenticationFailed, http.StatusUnauthorized, ErrCodeAuthenticationFailed, "invalid username or password"},
	{session.ErrNotAuthenticated, http.StatusUnauthorized, ErrCodeUnauthenticated, "authentication required"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, ErrCodeUnauthenticated, "authentication required"},
	{auth.ErrSessionNotFound, http.StatusUnauthorized, ErrCodeUnauthenticated, "authentication required"},
	{auth.ErrSessionExpired, http.StatusUnauthorized, ErrCodeUnauthenticated, "session expired"},
	{session.ErrStoreIO, http.StatusInternalServerError, ErrCodeStoreFailure, "storage is unavailable"},
}

// respondErr renders err using the first matching mapping. Empty messages
// reuse err's text, which is safe for input errors only. Unmapped and
// server-side errors are logged with the request id.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = err.Error()
		}
		if m.status >= http.StatusInternalServerError {
			logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		}
		respondError(w, r, m.status, m.code, msg, nil)
		return
	}

	logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("unexpected error")
	respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "internal server error", nil)
}
