// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package validation validates decoded request bodies with
// go-playground/validator v10.
//
// One validator instance is shared process-wide. Field names in messages are
// taken from json tags, so errors name the field the client actually sent.
//
// Custom tags:
//   - username: 1 to 64 characters of letters, digits, '.', '_' or '-'
//   - title: non-blank, at most 512 bytes, no control characters
//
// Example:
//
//	type FeedbackRequest struct {
//	    Movie  string `json:"movie" validate:"required,title"`
//	    Signal string `json:"signal" validate:"required,oneof=like dislike"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    // verr.Error() reads "signal must be one of: like dislike"
//	}
package validation
