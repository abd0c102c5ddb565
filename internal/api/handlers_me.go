// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package api

import (
	"net/http"

	"github.com/tomtom215/reelrank/internal/recommend"
)

// ProfileResponse describes the logged in user.
type ProfileResponse struct {
	Username string   `json:"username"`
	Liked    []string `json:"liked"`
}

// ValuesResponse is the user's learned value table.
type ValuesResponse struct {
	Pairs  int                  `json:"pairs"`
	Values recommend.ValueTable `json:"values"`
}

// Me handles GET /api/v1/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sess, err := h.currentSession(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if err := h.controller.Refresh(r.Context(), sess); err != nil {
		respondErr(w, r, err)
		return
	}
	liked, err := h.controller.Liked(sess)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, &ProfileResponse{Username: sess.Username, Liked: liked})
}

// Values handles GET /api/v1/me/values.
func (h *Handler) Values(w http.ResponseWriter, r *http.Request) {
	sess, err := h.currentSession(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if err := h.controller.Refresh(r.Context(), sess); err != nil {
		respondErr(w, r, err)
		return
	}
	table, err := h.controller.Values(sess)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, &ValuesResponse{Pairs: table.Len(), Values: table})
}
