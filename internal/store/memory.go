// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomtom215/reelrank/internal/recommend"
)

// Memory is a map-backed Store. Values are copied in and out.
type Memory struct {
	mu          sync.RWMutex
	credentials map[string]Credential
	profiles    map[string]Profile
	values      map[string]recommend.ValueTable
	closed      bool
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		credentials: make(map[string]Credential),
		profiles:    make(map[string]Profile),
		values:      make(map[string]recommend.ValueTable),
	}
}

// Name implements Store.
func (m *Memory) Name() string { return "memory" }

// CreateUser implements Store.
func (m *Memory) CreateUser(ctx context.Context, cred Credential) (err error) {
	defer timed("memory", "create_user")(&err)
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if _, exists := m.credentials[cred.Username]; exists {
		return fmt.Errorf("%w: %s", ErrUserExists, cred.Username)
	}
	m.credentials[cred.Username] = cred
	m.profiles[cred.Username] = emptyProfile(cred.Username)
	return nil
}

// GetCredential implements Store.
func (m *Memory) GetCredential(ctx context.Context, username string) (*Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	cred, ok := m.credentials[username]
	if !ok {
		return nil, fmt.Errorf("%w: credential %s", ErrNotFound, username)
	}
	return &cred, nil
}

// GetProfile implements Store.
func (m *Memory) GetProfile(ctx context.Context, username string) (*Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	p, ok := m.profiles[username]
	if !ok {
		return nil, fmt.Errorf("%w: profile %s", ErrNotFound, username)
	}
	c := p.Clone()
	return &c, nil
}

// GetValueTable implements Store.
func (m *Memory) GetValueTable(ctx context.Context, username string) (recommend.ValueTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	if t, ok := m.values[username]; ok {
		return t.Clone(), nil
	}
	return recommend.NewValueTable(), nil
}

// SaveValueTable implements Store.
func (m *Memory) SaveValueTable(ctx context.Context, username string, table recommend.ValueTable) (err error) {
	defer timed("memory", "save_values")(&err)
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.values[username] = table.Clone()
	return nil
}

// SaveFeedback implements Store.
func (m *Memory) SaveFeedback(ctx context.Context, profile Profile, table recommend.ValueTable) (err error) {
	defer timed("memory", "save_feedback")(&err)
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.profiles[profile.Username] = profile.Clone()
	m.values[profile.Username] = table.Clone()
	return nil
}

// UpdateFeedback implements Store. The write lock is held across fn.
func (m *Memory) UpdateFeedback(ctx context.Context, username string, fn FeedbackFunc) (err error) {
	defer timed("memory", "update_feedback")(&err)
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	p, ok := m.profiles[username]
	if !ok {
		return fmt.Errorf("%w: profile %s", ErrNotFound, username)
	}
	table := recommend.NewValueTable()
	if t, ok := m.values[username]; ok {
		table = t.Clone()
	}

	upd, err := fn(p.Clone(), table)
	if err != nil {
		return err
	}
	if upd.Profile != nil {
		m.profiles[username] = upd.Profile.Clone()
	}
	if upd.Table != nil {
		m.values[username] = upd.Table.Clone()
	}
	return nil
}

// Close implements Store.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
