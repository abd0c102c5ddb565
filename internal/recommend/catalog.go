// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import (
	"fmt"
	"math"
	"strings"
)

// SimilarityProvider is the read-only view of the catalog used by ranking.
type SimilarityProvider interface {
	// Resolve returns the catalog position of title, or ErrNotFound.
	Resolve(title string) (int, error)

	// Row returns the full similarity row of the movie at position.
	Row(position int) []Scored

	// Title returns the title at position.
	Title(position int) string
}

// Catalog is the ordered movie list with its square similarity matrix.
// It is immutable and safe for concurrent use.
type Catalog struct {
	movies []Movie
	matrix [][]float64
	index  map[string]int
}

// NewCatalog validates that matrix is len(movies) x len(movies) with finite
// scores. Duplicate titles resolve to their first position.
func NewCatalog(movies []Movie, matrix [][]float64) (*Catalog, error) {
	if len(matrix) != len(movies) {
		return nil, fmt.Errorf("%w: %d movies but %d matrix rows", ErrInvalidCatalog, len(movies), len(matrix))
	}
	for i, row := range matrix {
		if len(row) != len(movies) {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidCatalog, i, len(row), len(movies))
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: score at [%d][%d] is not finite", ErrInvalidCatalog, i, j)
			}
		}
	}

	index := make(map[string]int, len(movies))
	for pos, m := range movies {
		if _, seen := index[m.Title]; !seen {
			index[m.Title] = pos
		}
	}

	return &Catalog{movies: movies, matrix: matrix, index: index}, nil
}

// Resolve implements SimilarityProvider.
func (c *Catalog) Resolve(title string) (int, error) {
	if pos, ok := c.index[title]; ok {
		return pos, nil
	}
	return -1, fmt.Errorf("%w: %q", ErrNotFound, title)
}

// Contains reports whether title is in the catalog.
func (c *Catalog) Contains(title string) bool {
	_, ok := c.index[title]
	return ok
}

// Row implements SimilarityProvider.
func (c *Catalog) Row(position int) []Scored {
	src := c.matrix[position]
	row := make([]Scored, len(src))
	for j, score := range src {
		row[j] = Scored{Position: j, Score: score}
	}
	return row
}

// Title implements SimilarityProvider.
func (c *Catalog) Title(position int) string {
	return c.movies[position].Title
}

// Movie returns the movie at position.
func (c *Catalog) Movie(position int) Movie {
	return c.movies[position]
}

// Len returns the number of movies.
func (c *Catalog) Len() int {
	return len(c.movies)
}

// Search returns up to limit movies whose title contains query
// (case-insensitive), in catalog order. An empty query lists the catalog.
func (c *Catalog) Search(query string, limit int) []Movie {
	if limit <= 0 {
		return nil
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Movie, 0, min(limit, len(c.movies)))
	for _, m := range c.movies {
		if q != "" && !strings.Contains(strings.ToLower(m.Title), q) {
			continue
		}
		out = append(out, m)
		if len(out) == limit {
			break
		}
	}
	return out
}
