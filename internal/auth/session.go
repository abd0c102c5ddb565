// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/reelrank/internal/config"
)

var (
	// ErrSessionNotFound is returned when a login session is absent.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when a login session has expired.
	ErrSessionExpired = errors.New("session expired")
)

// LoginSession records one successful login.
type LoginSession struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session has expired.
func (s *LoginSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// NewLoginSession starts a session for username lasting duration. An empty
// id is replaced by a random UUID.
func NewLoginSession(id, username string, duration time.Duration) *LoginSession {
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now()
	return &LoginSession{
		ID:        id,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(duration),
	}
}

// SessionStore persists login sessions.
type SessionStore interface {
	// Create stores a new session.
	Create(ctx context.Context, session *LoginSession) error

	// Get returns ErrSessionNotFound or ErrSessionExpired when the session
	// cannot be used.
	Get(ctx context.Context, id string) (*LoginSession, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// CleanupExpired removes expired sessions and returns how many.
	CleanupExpired(ctx context.Context) (int, error)

	// Count returns the number of stored sessions.
	Count(ctx context.Context) (int, error)

	Close() error
}

// NewSessionStore creates the store named by cfg.SessionStore.
func NewSessionStore(cfg *config.SecurityConfig) (SessionStore, error) {
	switch cfg.SessionStore {
	case "", "memory":
		return NewMemorySessionStore(), nil
	case "badger":
		return OpenBadgerSessionStore(cfg.SessionStorePath)
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}

// MemorySessionStore keeps sessions in a map.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]LoginSession
}

// NewMemorySessionStore creates an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]LoginSession)}
}

// Create implements SessionStore.
func (s *MemorySessionStore) Create(_ context.Context, session *LoginSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

// Get implements SessionStore.
func (s *MemorySessionStore) Get(_ context.Context, id string) (*LoginSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}
	return &session, nil
}

// Delete implements SessionStore.
func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// CleanupExpired implements SessionStore.
func (s *MemorySessionStore) CleanupExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, session := range s.sessions {
		if session.IsExpired() {
			delete(s.sessions, id)
			count++
		}
	}
	return count, nil
}

// Count implements SessionStore.
func (s *MemorySessionStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

// Close implements SessionStore.
func (s *MemorySessionStore) Close() error {
	return nil
}
