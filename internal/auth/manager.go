// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/reelrank/internal/logging"
	"github.com/tomtom215/reelrank/internal/metrics"
)

// Manager issues tokens bound to stored login sessions.
type Manager struct {
	tokens   *TokenManager
	sessions SessionStore
	timeout  time.Duration
}

// NewManager creates a Manager. Sessions last timeout.
func NewManager(tokens *TokenManager, sessions SessionStore, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = tokens.Timeout()
	}
	return &Manager{tokens: tokens, sessions: sessions, timeout: timeout}
}

// Issue starts login session sessionID for username and signs a token for
// it. An empty sessionID gets a random one.
func (m *Manager) Issue(ctx context.Context, sessionID, username string) (string, *LoginSession, error) {
	session := NewLoginSession(sessionID, username, m.timeout)
	if err := m.sessions.Create(ctx, session); err != nil {
		return "", nil, fmt.Errorf("create login session: %w", err)
	}

	token, err := m.tokens.GenerateToken(username, session.ID)
	if err != nil {
		_ = m.sessions.Delete(ctx, session.ID) //nolint:errcheck // signing error is reported
		return "", nil, err
	}

	m.refreshGauge(ctx)
	return token, session, nil
}

// Authenticate validates token and confirms its login session is still
// live. It returns ErrInvalidToken, ErrSessionNotFound or ErrSessionExpired.
func (m *Manager) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	session, err := m.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session.Username != claims.Username {
		return nil, fmt.Errorf("%w: session belongs to another user", ErrInvalidToken)
	}
	return claims, nil
}

// Revoke ends a login session.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if err := m.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete login session: %w", err)
	}
	m.refreshGauge(ctx)
	return nil
}

// Sweep removes expired login sessions.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	n, err := m.sessions.CleanupExpired(ctx)
	if err != nil {
		return n, err
	}
	if n > 0 {
		metrics.SessionsExpired.Add(float64(n))
		logging.Debug().Int("removed", n).Msg("expired login sessions removed")
	}
	m.refreshGauge(ctx)
	return n, nil
}

func (m *Manager) refreshGauge(ctx context.Context) {
	if n, err := m.sessions.Count(ctx); err == nil {
		metrics.ActiveSessions.Set(float64(n))
	}
}

type contextKey string

const claimsContextKey contextKey = "claims"

// ContextWithClaims stores authenticated claims in ctx.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext returns the claims stored by ContextWithClaims.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}
