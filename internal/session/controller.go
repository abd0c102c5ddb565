// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelrank/internal/auth"
	"github.com/tomtom215/reelrank/internal/metrics"
	"github.com/tomtom215/reelrank/internal/recommend"
	"github.com/tomtom215/reelrank/internal/store"
)

// Controller coordinates the stores with the ranking and value engines.
type Controller struct {
	store  store.Store
	engine *recommend.Engine
	hasher auth.Hasher
	logger zerolog.Logger
	locks  *keyedMutex
}

// NewController creates a Controller. A nil hasher selects SHA-256.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewController(st store.Store, engine *recommend.Engine, hasher auth.Hasher, logger zerolog.Logger) *Controller {
	if hasher == nil {
		hasher = auth.SHA256Hasher{}
	}
	return &Controller{
		store:  st,
		engine: engine,
		hasher: hasher,
		logger: logger.With().Str("component", "session").Logger(),
		locks:  newKeyedMutex(),
	}
}

// Register creates a user with an empty profile. It does not log in. An
// existing username is reported as ErrDuplicateUser even when the password
// is blank.
func (c *Controller) Register(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" {
		metrics.RecordAuthAttempt("register", "invalid")
		return fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if strings.TrimSpace(password) == "" {
		_, err := c.store.GetCredential(ctx, username)
		switch {
		case err == nil:
			metrics.RecordAuthAttempt("register", "duplicate")
			return fmt.Errorf("%w: %s", ErrDuplicateUser, username)
		case !errors.Is(err, store.ErrNotFound):
			metrics.RecordAuthAttempt("register", "error")
			return fmt.Errorf("%w: get credential: %w", ErrStoreIO, err)
		}
		metrics.RecordAuthAttempt("register", "invalid")
		return fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	hash, err := c.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = c.store.CreateUser(ctx, store.Credential{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	switch {
	case errors.Is(err, store.ErrUserExists):
		metrics.RecordAuthAttempt("register", "duplicate")
		return fmt.Errorf("%w: %s", ErrDuplicateUser, username)
	case err != nil:
		metrics.RecordAuthAttempt("register", "error")
		return fmt.Errorf("%w: create user: %w", ErrStoreIO, err)
	}

	metrics.RecordAuthAttempt("register", "success")
	c.logger.Info().Str("username", username).Msg("user registered")
	return nil
}

// Login verifies the password and loads the user's profile and value table.
// Nothing beyond the credential is read when verification fails.
func (c *Controller) Login(ctx context.Context, username, password string) (*Session, error) {
	cred, err := c.store.GetCredential(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		metrics.RecordAuthAttempt("login", "failure")
		return nil, ErrAuthenticationFailed
	}
	if err != nil {
		metrics.RecordAuthAttempt("login", "error")
		return nil, fmt.Errorf("%w: get credential: %w", ErrStoreIO, err)
	}
	if !auth.VerifyPassword(cred.PasswordHash, password) {
		metrics.RecordAuthAttempt("login", "failure")
		c.logger.Info().Str("username", username).Msg("login rejected")
		return nil, ErrAuthenticationFailed
	}

	sess, err := c.load(ctx, uuid.NewString(), username)
	if err != nil {
		metrics.RecordAuthAttempt("login", "error")
		return nil, err
	}
	metrics.RecordAuthAttempt("login", "success")
	c.logger.Info().Str("username", username).Str("session_id", sess.ID).Msg("user logged in")
	return sess, nil
}

// Resume rebuilds session sessionID for an already authenticated username
// from the stores.
func (c *Controller) Resume(ctx context.Context, sessionID, username string) (*Session, error) {
	if sessionID == "" || username == "" {
		return nil, ErrNotAuthenticated
	}
	sess, err := c.load(ctx, sessionID, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotAuthenticated, username)
	}
	return sess, err
}

func (c *Controller) load(ctx context.Context, id, username string) (*Session, error) {
	liked, table, err := c.loadState(ctx, username)
	if err != nil {
		return nil, err
	}
	return newSession(id, username, liked, table), nil
}

func (c *Controller) loadState(ctx context.Context, username string) ([]string, recommend.ValueTable, error) {
	profile, err := c.store.GetProfile(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		// CreateUser writes both records; a missing profile reads as empty.
		profile = &store.Profile{Username: username, Liked: []string{}}
	} else if err != nil {
		return nil, nil, fmt.Errorf("%w: get profile: %w", ErrStoreIO, err)
	}

	table, err := c.store.GetValueTable(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: get value table: %w", ErrStoreIO, err)
	}
	return profile.Liked, table, nil
}

// Refresh reloads the session's likes and value table from the store so it
// sees feedback recorded through the user's other sessions.
func (c *Controller) Refresh(ctx context.Context, sess *Session) error {
	if sess == nil {
		return ErrNotAuthenticated
	}
	liked, table, err := c.loadState(ctx, sess.Username)
	if err != nil {
		return err
	}
	sess.replace(liked, table)
	return nil
}

// RecordFeedback applies a like or dislike of movie.
//
// Like appends movie when it is not already liked and, if there was a
// previous like, rewards the (previous, movie) pair; profile and table are
// persisted together. Liking an already liked movie changes nothing.
// Dislike penalizes (last like, movie) when the user has likes and persists
// only the table. The read-modify-write goes through Store.UpdateFeedback,
// so writers in other processes sharing the store cannot lose updates.
func (c *Controller) RecordFeedback(ctx context.Context, sess *Session, movie string, signal Signal) error {
	if sess == nil {
		return ErrNotAuthenticated
	}
	if signal != Like && signal != Dislike {
		metrics.RecordFeedback(signal.String(), "invalid")
		return fmt.Errorf("%w: unknown signal %d", ErrInvalidInput, int(signal))
	}
	if movie == "" || !c.engine.Known(movie) {
		metrics.RecordFeedback(signal.String(), "invalid")
		return fmt.Errorf("%w: movie %q is not in the catalog", ErrInvalidInput, movie)
	}

	unlock := c.locks.Lock(sess.Username)
	defer unlock()

	var (
		liked   []string
		table   recommend.ValueTable
		outcome string
	)
	err := c.store.UpdateFeedback(ctx, sess.Username, func(p store.Profile, current recommend.ValueTable) (store.FeedbackUpdate, error) {
		liked, table, outcome = p.Liked, current, "applied"

		if signal == Like {
			if slices.Contains(liked, movie) {
				outcome = "noop"
				return store.FeedbackUpdate{}, nil
			}
			if len(liked) > 0 {
				table = c.engine.Learn(table, liked[len(liked)-1], movie, recommend.RewardLike)
			}
			liked = append(slices.Clone(liked), movie)
			return store.FeedbackUpdate{
				Profile: &store.Profile{Username: sess.Username, Liked: liked},
				Table:   table,
			}, nil
		}

		if len(liked) == 0 {
			outcome = "noop"
			return store.FeedbackUpdate{}, nil
		}
		table = c.engine.Learn(table, liked[len(liked)-1], movie, recommend.RewardDislike)
		return store.FeedbackUpdate{Table: table}, nil
	})
	if err != nil {
		metrics.RecordFeedback(signal.String(), "error")
		c.logger.Error().Err(err).
			Str("username", sess.Username).
			Str("movie", movie).
			Str("signal", signal.String()).
			Msg("feedback not persisted")
		return fmt.Errorf("%w: update feedback: %w", ErrStoreIO, err)
	}

	sess.replace(liked, table)
	metrics.RecordFeedback(signal.String(), outcome)
	c.logger.Debug().
		Str("username", sess.Username).
		Str("movie", movie).
		Str("signal", signal.String()).
		Str("outcome", outcome).
		Int("liked", len(liked)).
		Msg("feedback recorded")
	return nil
}

// Recommend ranks movies for the session's likes, refreshed from the store.
// limit <= 0 selects the engine default.
func (c *Controller) Recommend(ctx context.Context, sess *Session, limit int) (*recommend.Response, error) {
	if err := c.Refresh(ctx, sess); err != nil {
		return nil, err
	}
	return c.engine.Recommend(ctx, recommend.Request{Liked: sess.snapshotLiked(), Limit: limit})
}

// Values returns a copy of the session's value table.
func (c *Controller) Values(sess *Session) (recommend.ValueTable, error) {
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	return sess.snapshotValues(), nil
}

// Liked returns a copy of the session's liked titles, oldest first.
func (c *Controller) Liked(sess *Session) ([]string, error) {
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	return sess.snapshotLiked(), nil
}
