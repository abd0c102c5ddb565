// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelrank_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelrank_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelrank_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Ranking Metrics
	RecommendationsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelrank_recommendations_served_total",
			Help: "Total number of ranking requests answered",
		},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelrank_recommendation_duration_seconds",
			Help:    "Time spent ranking candidates",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	RecommendCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelrank_recommend_cache_hits_total",
			Help: "Ranking results served from cache",
		},
	)

	RecommendCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelrank_recommend_cache_misses_total",
			Help: "Ranking results computed because no cached result existed",
		},
	)

	UnresolvedSeeds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelrank_unresolved_seeds_total",
			Help: "Seed titles skipped because they are not in the catalog",
		},
	)

	// Feedback Metrics
	FeedbackEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelrank_feedback_events_total",
			Help: "Like and dislike events by outcome",
		},
		[]string{"signal", "outcome"}, // outcome: applied, noop, rejected, failed
	)

	ValueUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelrank_value_updates_total",
			Help: "Value table updates by reward sign",
		},
		[]string{"reward"},
	)

	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelrank_store_operation_duration_seconds",
			Help:    "Duration of store operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelrank_store_operation_errors_total",
			Help: "Store operations that returned an I/O error",
		},
		[]string{"backend", "operation"},
	)

	// Authentication Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelrank_auth_attempts_total",
			Help: "Registration and login attempts by result",
		},
		[]string{"operation", "result"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelrank_active_sessions",
			Help: "Authenticated sessions held in memory",
		},
	)

	// Artifact Metrics
	ArtifactFetchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelrank_artifact_fetch_attempts_total",
			Help: "Similarity artifact download attempts by result",
		},
		[]string{"result"},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelrank_catalog_movies",
			Help: "Number of movies in the loaded catalog",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reelrank_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelrank_circuit_breaker_requests_total",
			Help: "Requests through a circuit breaker by result",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelrank_circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Background Jobs
	BadgerGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelrank_badger_gc_runs_total",
			Help: "Badger value log GC passes by result",
		},
		[]string{"result"}, // success, error
	)

	SessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelrank_sessions_expired_total",
			Help: "Login sessions removed by the sweeper",
		},
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reelrank_app_info",
			Help: "Build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records one finished HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordStoreOperation records the latency of a store call and counts it as
// an error when err is non-nil.
func RecordStoreOperation(backend, operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(backend, operation).Inc()
	}
}

// RecordFeedback counts a like or dislike by outcome.
func RecordFeedback(signal, outcome string) {
	FeedbackEvents.WithLabelValues(signal, outcome).Inc()
}

// RecordValueUpdate counts a value table update by reward sign.
func RecordValueUpdate(reward float64) {
	label := "zero"
	switch {
	case reward > 0:
		label = "positive"
	case reward < 0:
		label = "negative"
	}
	ValueUpdates.WithLabelValues(label).Inc()
}

// RecordAuthAttempt counts a register or login attempt.
func RecordAuthAttempt(operation, result string) {
	AuthAttempts.WithLabelValues(operation, result).Inc()
}
