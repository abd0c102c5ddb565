// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package session

import (
	"fmt"
	"strings"
)

// Signal is user feedback on a movie.
type Signal int

const (
	// Like appends the movie to the liked list.
	Like Signal = iota + 1

	// Dislike only teaches the value table.
	Dislike
)

func (s Signal) String() string {
	switch s {
	case Like:
		return "like"
	case Dislike:
		return "dislike"
	default:
		return fmt.Sprintf("Signal(%d)", int(s))
	}
}

// ParseSignal parses "like" or "dislike", case-insensitively.
func ParseSignal(s string) (Signal, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "like":
		return Like, nil
	case "dislike":
		return Dislike, nil
	default:
		return 0, fmt.Errorf("%w: unknown signal %q", ErrInvalidInput, s)
	}
}
