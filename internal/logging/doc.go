// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package logging wraps zerolog for the whole service.
//
// A single global logger is configured once from main via Init and read
// everywhere else through the package-level helpers. Request-scoped fields
// (request_id, correlation_id) travel on the context and are attached by Ctx:
//
//	logging.Ctx(r.Context()).Info().Str("user", username).Msg("feedback recorded")
//
// Long-lived components take a child logger with a component field:
//
//	logger := logging.WithComponent("session")
//
// Libraries that require a *slog.Logger (sutureslog) receive NewSlogLogger,
// which forwards records to the same zerolog output.
package logging
