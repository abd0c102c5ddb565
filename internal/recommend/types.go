// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import "time"

// Movie is a catalog entry. ID is assigned by the catalog builder; lookups
// are by Title.
type Movie struct {
	ID    int    `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// Scored is one cell of a similarity row: the candidate's catalog position
// and its similarity to the row's movie.
type Scored struct {
	Position int
	Score    float64
}

// Ranked is a ranking result with the context it was selected in.
type Ranked struct {
	Position int
	Title    string
	Score    float64
	Seed     string
}

// Recommendation is the presentation form of a ranked movie.
type Recommendation struct {
	MovieID int     `json:"movie_id"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
	Seed    string  `json:"seed"`
}

// Request asks the engine for recommendations.
type Request struct {
	// Liked is the user's liked titles, most recent last.
	Liked []string

	// Limit is the maximum number of results; zero selects the default.
	Limit int
}

// Response holds engine output. Items may be shared with the result cache
// and must not be modified.
type Response struct {
	Items       []Recommendation `json:"items"`
	Seeds       []string         `json:"seeds"`
	Cached      bool             `json:"cached"`
	GeneratedAt time.Time        `json:"generated_at"`
}
