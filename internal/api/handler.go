// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelrank/internal/auth"
	"github.com/tomtom215/reelrank/internal/recommend"
	"github.com/tomtom215/reelrank/internal/session"
	"github.com/tomtom215/reelrank/internal/validation"
)

const maxBodyBytes = 64 << 10

// MovieSearcher lists catalog titles.
type MovieSearcher interface {
	Search(query string, limit int) []recommend.Movie
	Len() int
}

// Dependencies are the collaborators a Handler serves.
type Dependencies struct {
	Controller *session.Controller
	Auth       *auth.Manager
	Catalog    MovieSearcher

	// StoreBackend names the persistence backend in /health.
	StoreBackend string
	Version      string

	// SessionTTL bounds how long an idle session stays in memory.
	SessionTTL   time.Duration
	RegistrySize int
}

// Handler implements the HTTP endpoints.
type Handler struct {
	controller *session.Controller
	auth       *auth.Manager
	catalog    MovieSearcher
	registry   *registry
	backend    string
	version    string
	startTime  time.Time
}

// NewHandler creates a Handler.
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		controller: deps.Controller,
		auth:       deps.Auth,
		catalog:    deps.Catalog,
		registry:   newRegistry(deps.Controller, deps.RegistrySize, deps.SessionTTL),
		backend:    deps.StoreBackend,
		version:    deps.Version,
		startTime:  time.Now(),
	}
}

// decodeAndValidate reads a JSON body into dst and validates it. On failure
// it writes the response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidInput, "request body must be a JSON object", nil)
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidInput, verr.Error(), verr.Fields)
		return false
	}
	return true
}

// currentSession resolves the controller session for the authenticated
// request.
func (h *Handler) currentSession(r *http.Request) (*session.Session, error) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return nil, session.ErrNotAuthenticated
	}
	return h.registry.get(r.Context(), claims)
}
