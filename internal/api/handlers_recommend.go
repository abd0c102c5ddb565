// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/tomtom215/reelrank/internal/session"
)

// FeedbackRequest is the POST /api/v1/feedback body.
type FeedbackRequest struct {
	Movie  string `json:"movie" validate:"required,title"`
	Signal string `json:"signal" validate:"required,oneof=like dislike"`
}

// FeedbackResponse echoes the applied feedback and the updated likes.
type FeedbackResponse struct {
	Movie  string   `json:"movie"`
	Signal string   `json:"signal"`
	Liked  []string `json:"liked"`
}

// Recommendations handles GET /api/v1/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondErr(w, r, err)
		return
	}

	sess, err := h.currentSession(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	resp, err := h.controller.Recommend(r.Context(), sess, limit)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, resp)
}

// Feedback handles POST /api/v1/feedback.
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	signal, err := session.ParseSignal(req.Signal)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	sess, err := h.currentSession(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	if err := h.controller.RecordFeedback(r.Context(), sess, req.Movie, signal); err != nil {
		respondErr(w, r, err)
		return
	}

	liked, _ := h.controller.Liked(sess) //nolint:errcheck // sess is non-nil
	respondData(w, r, http.StatusOK, &FeedbackResponse{Movie: req.Movie, Signal: signal.String(), Liked: liked})
}

// queryInt parses a non-negative integer query parameter; absent is zero.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", session.ErrInvalidInput, name)
	}
	return n, nil
}
