// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package session

import (
	"sync"
	"time"

	"github.com/tomtom215/reelrank/internal/recommend"
)

// Session is an authenticated user's view of their state. It is safe for
// concurrent use; readers get copies.
type Session struct {
	// ID identifies the login; the API binds tokens to it.
	ID string

	Username  string
	StartedAt time.Time

	mu     sync.RWMutex
	liked  []string
	values recommend.ValueTable
}

func newSession(id, username string, liked []string, values recommend.ValueTable) *Session {
	s := &Session{ID: id, Username: username, StartedAt: time.Now()}
	s.replace(liked, values)
	return s
}

// replace swaps in a new snapshot. Callers hand over ownership.
func (s *Session) replace(liked []string, values recommend.ValueTable) {
	if liked == nil {
		liked = []string{}
	}
	if values == nil {
		values = recommend.NewValueTable()
	}
	s.mu.Lock()
	s.liked = liked
	s.values = values
	s.mu.Unlock()
}

func (s *Session) snapshotLiked() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.liked))
	copy(out, s.liked)
	return out
}

func (s *Session) snapshotValues() recommend.ValueTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Clone()
}
