// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package store

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelrank/internal/metrics"
	"github.com/tomtom215/reelrank/internal/recommend"
)

func encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

func decodeCredential(data []byte) (*Credential, error) {
	var c Credential
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode credential: %w", err)
	}
	return &c, nil
}

func decodeProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if p.Liked == nil {
		p.Liked = []string{}
	}
	return &p, nil
}

func decodeValueTable(data []byte) (recommend.ValueTable, error) {
	table := recommend.NewValueTable()
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("decode value table: %w", err)
	}
	if table == nil {
		table = recommend.NewValueTable()
	}
	return table, nil
}

func emptyProfile(username string) Profile {
	return Profile{Username: username, Liked: []string{}}
}

// timed starts a store operation timer. Call the result with a pointer to the
// named error return:
//
//	defer timed("badger", "get_profile")(&err)
func timed(backend, op string) func(*error) {
	start := time.Now()
	return func(errp *error) {
		metrics.RecordStoreOperation(backend, op, time.Since(start), *errp)
	}
}
