// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import (
	"reflect"
	"testing"
)

func TestRank(t *testing.T) {
	t.Parallel()

	c := testCatalog(t)
	tests := []struct {
		name    string
		seeds   []string
		exclude []string
		limit   int
		want    []string
	}{
		{"single seed excludes itself", []string{"A"}, []string{"A"}, 2, []string{"B", "C"}},
		{"limit truncates", []string{"A"}, []string{"A"}, 1, []string{"B"}},
		{"no seeds", nil, nil, 5, []string{}},
		{"unknown seed only", []string{"Z"}, nil, 5, []string{}},
		{"unknown seed is skipped", []string{"Z", "C"}, []string{"C"}, 5, []string{"B", "A"}},
		{"zero limit", []string{"A"}, nil, 0, []string{}},
		{"seed may rank itself without exclude", []string{"A"}, nil, 3, []string{"A", "B", "C"}},
		// Sorted concatenation of rows A and B is A1 B1 B.9 A.9 C.5 C.2; only C survives the exclude.
		{"duplicates across seeds", []string{"A", "B"}, []string{"A", "B"}, 5, []string{"C"}},
		{"limit larger than catalog", []string{"B"}, nil, 99, []string{"B", "A", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Rank(tt.seeds, c, tt.exclude, tt.limit)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Rank(%v, exclude %v, %d) = %v, want %v", tt.seeds, tt.exclude, tt.limit, got, tt.want)
			}
		})
	}
}

func TestRankNeverReturnsExcluded(t *testing.T) {
	t.Parallel()

	c := testCatalog(t)
	for limit := 0; limit <= 4; limit++ {
		for _, title := range Rank([]string{"B", "C"}, c, []string{"B"}, limit) {
			if title == "B" {
				t.Fatalf("excluded title returned with limit %d", limit)
			}
		}
	}
}

func TestRankTiesKeepConcatenationOrder(t *testing.T) {
	t.Parallel()

	c, err := NewCatalog(
		[]Movie{{1, "S"}, {2, "T"}, {3, "X"}, {4, "Y"}},
		[][]float64{
			{1, 0, 0.4, 0.4},
			{0, 1, 0.4, 0.4},
			{0.4, 0.4, 1, 0},
			{0.4, 0.4, 0, 1},
		},
	)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	got := RankScored([]string{"T", "S"}, c, []string{"S", "T"}, 2)
	if len(got) != 2 {
		t.Fatalf("RankScored returned %d results, want 2", len(got))
	}
	if got[0].Title != "X" || got[1].Title != "Y" {
		t.Errorf("tie order = %s, %s; want X, Y", got[0].Title, got[1].Title)
	}
	// Both ties come from the first seed in seed order.
	if got[0].Seed != "T" || got[1].Seed != "T" {
		t.Errorf("seeds = %s, %s; want T, T", got[0].Seed, got[1].Seed)
	}
}

func TestRankScoredCarriesScores(t *testing.T) {
	t.Parallel()

	got := RankScored([]string{"A"}, testCatalog(t), []string{"A"}, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Score != 0.9 || got[0].Position != 1 || got[0].Seed != "A" {
		t.Errorf("first = %+v, want B at 0.9 from A", got[0])
	}
	if got[1].Score != 0.2 {
		t.Errorf("second score = %v, want 0.2", got[1].Score)
	}
}
