// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package api

import (
	"net/http"
	"time"
)

// HealthResponse reports liveness.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version,omitempty"`
	Store         string  `json:"store"`
	Movies        int     `json:"movies"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	movies := 0
	if h.catalog != nil {
		movies = h.catalog.Len()
	}
	if movies == 0 {
		status = "degraded"
	}
	respondData(w, r, http.StatusOK, &HealthResponse{
		Status:        status,
		Version:       h.version,
		Store:         h.backend,
		Movies:        movies,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}
