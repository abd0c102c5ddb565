// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/reelrank/internal/auth"
	"github.com/tomtom215/reelrank/internal/logging"
)

// CredentialsRequest is the register body.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,max=256"`
}

// LoginRequest is the login body. The username charset is not checked here:
// a name that cannot exist fails authentication like any unknown user.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=256"`
	Password string `json:"password" validate:"required,max=256"`
}

// LoginResponse carries the bearer token.
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Liked     []string  `json:"liked"`
}

// Register handles POST /api/v1/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.controller.Register(r.Context(), req.Username, req.Password); err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, r, http.StatusCreated, map[string]string{"username": req.Username})
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sess, err := h.controller.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	token, login, err := h.auth.Issue(r.Context(), sess.ID, sess.Username)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	h.registry.add(sess)

	liked, _ := h.controller.Liked(sess) //nolint:errcheck // sess is non-nil
	respondData(w, r, http.StatusOK, &LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: login.ExpiresAt,
		Username:  sess.Username,
		Liked:     liked,
	})
}

// Logout handles POST /api/v1/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthenticated, "authentication required", nil)
		return
	}

	if err := h.auth.Revoke(r.Context(), claims.SessionID); err != nil {
		respondErr(w, r, err)
		return
	}
	h.registry.remove(claims.SessionID)

	logging.Ctx(r.Context()).Info().Str("username", claims.Username).Msg("user logged out")
	respondData(w, r, http.StatusOK, map[string]bool{"logged_out": true})
}
