// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package api

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/reelrank/internal/auth"
	"github.com/tomtom215/reelrank/internal/cache"
	"github.com/tomtom215/reelrank/internal/session"
)

const defaultRegistrySize = 10000

// sessionResumer rebuilds a controller session from the stores.
type sessionResumer interface {
	Resume(ctx context.Context, sessionID, username string) (*session.Session, error)
}

// registry maps login session ids to live controller sessions. Misses are
// resumed from the stores once per id, however many requests race.
type registry struct {
	sessions *cache.LRU[*session.Session]
	resumer  sessionResumer
	group    singleflight.Group
}

func newRegistry(resumer sessionResumer, size int, ttl time.Duration) *registry {
	if size <= 0 {
		size = defaultRegistrySize
	}
	return &registry{
		sessions: cache.NewLRU[*session.Session](size, ttl),
		resumer:  resumer,
	}
}

func (r *registry) add(sess *session.Session) {
	r.sessions.Add(sess.ID, sess)
}

func (r *registry) remove(id string) {
	r.sessions.Remove(id)
}

// get returns the session named by claims.
func (r *registry) get(ctx context.Context, claims *auth.Claims) (*session.Session, error) {
	if sess, ok := r.sessions.Get(claims.SessionID); ok && sess.Username == claims.Username {
		return sess, nil
	}

	v, err, _ := r.group.Do(claims.SessionID, func() (interface{}, error) {
		sess, err := r.resumer.Resume(ctx, claims.SessionID, claims.Username)
		if err != nil {
			return nil, err
		}
		r.sessions.Add(sess.ID, sess)
		return sess, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*session.Session), nil
}
