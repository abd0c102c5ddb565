// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package store

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/reelrank/internal/recommend"
)

var (
	// ErrUserExists is returned by CreateUser when the username is taken.
	ErrUserExists = errors.New("user already exists")

	// ErrNotFound is returned when a credential or profile is absent.
	ErrNotFound = errors.New("not found")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("store closed")

	// ErrConflict is returned by UpdateFeedback when concurrent writers kept
	// invalidating the read set.
	ErrConflict = errors.New("concurrent update conflict")
)

// maxUpdateAttempts bounds optimistic retries in UpdateFeedback.
const maxUpdateAttempts = 10

const (
	userPrefix    = "user:"
	profilePrefix = "profile:"
	valuesPrefix  = "values:"
)

// Credential is a registered user's login record.
type Credential struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the ordered list of titles a user liked, oldest first.
type Profile struct {
	Username string   `json:"username"`
	Liked    []string `json:"liked"`
}

// Clone returns a deep copy.
func (p Profile) Clone() Profile {
	liked := make([]string, len(p.Liked))
	copy(liked, p.Liked)
	return Profile{Username: p.Username, Liked: liked}
}

// FeedbackUpdate is what a FeedbackFunc asks UpdateFeedback to persist. A nil
// Profile leaves the stored profile as is; a nil Table leaves the table. The
// zero value writes nothing.
type FeedbackUpdate struct {
	Profile *Profile
	Table   recommend.ValueTable
}

// FeedbackFunc derives the records to write from the current ones. It may be
// called more than once and must not keep references to its arguments.
type FeedbackFunc func(profile Profile, table recommend.ValueTable) (FeedbackUpdate, error)

// Store is the persistence contract the session controller depends on.
type Store interface {
	// CreateUser writes the credential and an empty profile together.
	CreateUser(ctx context.Context, cred Credential) error

	GetCredential(ctx context.Context, username string) (*Credential, error)
	GetProfile(ctx context.Context, username string) (*Profile, error)

	// GetValueTable returns an empty table when none was saved.
	GetValueTable(ctx context.Context, username string) (recommend.ValueTable, error)
	SaveValueTable(ctx context.Context, username string, table recommend.ValueTable) error

	// SaveFeedback writes profile and table atomically.
	SaveFeedback(ctx context.Context, profile Profile, table recommend.ValueTable) error

	// UpdateFeedback reads the user's profile and table, applies fn and
	// writes the result as one unit. A concurrent write to either record by
	// another client makes the update retry against the new values, so no
	// write is lost. ErrNotFound when the user has no profile.
	UpdateFeedback(ctx context.Context, username string, fn FeedbackFunc) error

	// Name identifies the backend in logs and metrics.
	Name() string

	Close() error
}

func userKey(username string) string    { return userPrefix + username }
func profileKey(username string) string { return profilePrefix + username }
func valuesKey(username string) string  { return valuesPrefix + username }
