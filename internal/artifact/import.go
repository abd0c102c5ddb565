// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package artifact

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/reelrank/internal/recommend"
	"github.com/tomtom215/reelrank/internal/recommend/storage"
)

// movieRecord is one element of the movies export.
type movieRecord struct {
	MovieID int    `json:"movie_id"`
	Title   string `json:"title"`
}

// Import reads a movies export ([{"movie_id":..,"title":..}, ...]) and a
// similarity export ([[...], ...]) concurrently and returns a validated
// artifact.
func Import(ctx context.Context, moviesPath, matrixPath string) (*storage.Artifact, error) {
	var (
		records []movieRecord
		matrix  [][]float64
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return decodeFile(ctx, moviesPath, &records)
	})
	g.Go(func() error {
		return decodeFile(ctx, matrixPath, &matrix)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	movies := make([]recommend.Movie, len(records))
	for i, r := range records {
		movies[i] = recommend.Movie{ID: r.MovieID, Title: r.Title}
	}
	a := &storage.Artifact{Movies: movies, Matrix: matrix}
	if _, err := a.Catalog(); err != nil {
		return nil, err
	}
	return a, nil
}

func decodeFile(ctx context.Context, path string, dst any) error {
	f, err := os.Open(path) //nolint:gosec // operator supplied path
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	if err := json.NewDecoder(f).DecodeContext(ctx, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func removeQuietly(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
