// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import "sort"

// candidate is one entry of the concatenated seed rows.
type candidate struct {
	Scored
	seed int
}

// Rank returns up to limit titles similar to seeds, skipping every title in
// exclude. Unresolved seeds are ignored; no seeds (or limit <= 0) yields an
// empty, non-nil result.
func Rank(seeds []string, p SimilarityProvider, exclude []string, limit int) []string {
	ranked := RankScored(seeds, p, exclude, limit)
	titles := make([]string, len(ranked))
	for i, r := range ranked {
		titles[i] = r.Title
	}
	return titles
}

// RankScored is Rank with the score and originating seed of every result.
func RankScored(seeds []string, p SimilarityProvider, exclude []string, limit int) []Ranked {
	if limit <= 0 {
		return []Ranked{}
	}

	var candidates []candidate
	resolved := make([]string, 0, len(seeds))
	for _, title := range seeds {
		pos, err := p.Resolve(title)
		if err != nil {
			// ErrNotFound: the seed is skipped, ranking continues.
			continue
		}
		seedIdx := len(resolved)
		resolved = append(resolved, title)
		for _, s := range p.Row(pos) {
			candidates = append(candidates, candidate{Scored: s, seed: seedIdx})
		}
	}
	if len(candidates) == 0 {
		return []Ranked{}
	}

	// Stable: equal scores keep seed order, then matrix order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	skip := make(map[string]struct{}, len(exclude)+limit)
	for _, title := range exclude {
		skip[title] = struct{}{}
	}

	out := make([]Ranked, 0, min(limit, len(candidates)))
	for _, c := range candidates {
		title := p.Title(c.Position)
		if _, ok := skip[title]; ok {
			continue
		}
		skip[title] = struct{}{}
		out = append(out, Ranked{
			Position: c.Position,
			Title:    title,
			Score:    c.Score,
			Seed:     resolved[c.seed],
		})
		if len(out) == limit {
			break
		}
	}
	return out
}
