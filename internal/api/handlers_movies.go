// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package api

import (
	"net/http"

	"github.com/tomtom215/reelrank/internal/recommend"
	"github.com/tomtom215/reelrank/internal/validation"
)

const defaultMovieLimit = 20

// movieQuery holds the GET /api/v1/movies parameters.
type movieQuery struct {
	Query string `json:"q" validate:"max=100"`
	Limit int    `json:"limit" validate:"gte=0,lte=200"`
}

// MoviesResponse lists matching catalog entries.
type MoviesResponse struct {
	Movies []recommend.Movie `json:"movies"`
	Count  int               `json:"count"`
	Total  int               `json:"total"`
}

// Movies handles GET /api/v1/movies.
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondErr(w, r, err)
		return
	}
	q := movieQuery{Query: r.URL.Query().Get("q"), Limit: limit}
	if verr := validation.ValidateStruct(&q); verr != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidInput, verr.Error(), verr.Fields)
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultMovieLimit
	}

	movies := h.catalog.Search(q.Query, q.Limit)
	respondData(w, r, http.StatusOK, &MoviesResponse{Movies: movies, Count: len(movies), Total: h.catalog.Len()})
}
