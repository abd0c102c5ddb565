// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/reelrank/internal/middleware"
)

// NewRouter wires every route.
func NewRouter(h *Handler, mw *Middleware) http.Handler {
	if mw == nil {
		mw = NewMiddleware(nil)
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "no such route", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed", nil)
	})

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SecurityHeaders)

		r.Route("/auth", func(r chi.Router) {
			r.With(mw.RateLimitAuth()).Post("/register", h.Register)
			r.With(mw.RateLimitAuth()).Post("/login", h.Login)
			r.With(Authenticate(h.auth)).Post("/logout", h.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit())
			r.Get("/movies", h.Movies)

			r.Group(func(r chi.Router) {
				r.Use(Authenticate(h.auth))
				r.Get("/me", h.Me)
				r.Get("/me/values", h.Values)
				r.Get("/recommendations", h.Recommendations)
				r.Post("/feedback", h.Feedback)
			})
		})
	})

	return r
}
