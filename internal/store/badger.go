// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelrank/internal/recommend"
)

// BadgerOptions configures the embedded store.
type BadgerOptions struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// InMemory keeps everything in RAM (tests).
	InMemory bool
}

// Badger is a Store on an embedded BadgerDB.
type Badger struct {
	db     *badger.DB
	logger zerolog.Logger
}

// OpenBadger opens or creates the database.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func OpenBadger(opts BadgerOptions, logger zerolog.Logger) (*Badger, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.SyncWrites = opts.SyncWrites
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}

	logger = logger.With().Str("component", "store").Str("backend", "badger").Logger()
	logger.Info().Str("path", opts.Path).Bool("in_memory", opts.InMemory).Bool("sync_writes", opts.SyncWrites).Msg("badger store opened")

	return &Badger{db: db, logger: logger}, nil
}

// Name implements Store.
func (b *Badger) Name() string { return "badger" }

// CreateUser implements Store.
func (b *Badger) CreateUser(ctx context.Context, cred Credential) (err error) {
	defer timed("badger", "create_user")(&err)
	if err := ctx.Err(); err != nil {
		return err
	}

	credData, err := encode(cred)
	if err != nil {
		return err
	}
	profileData, err := encode(emptyProfile(cred.Username))
	if err != nil {
		return err
	}

	// Badger transactions are serializable: a concurrent create of the same
	// key fails the later commit with ErrConflict.
	err = b.db.Update(func(txn *badger.Txn) error {
		_, getErr := txn.Get([]byte(userKey(cred.Username)))
		if getErr == nil {
			return fmt.Errorf("%w: %s", ErrUserExists, cred.Username)
		}
		if !errors.Is(getErr, badger.ErrKeyNotFound) {
			return fmt.Errorf("get credential: %w", getErr)
		}
		if err := txn.Set([]byte(userKey(cred.Username)), credData); err != nil {
			return fmt.Errorf("set credential: %w", err)
		}
		if err := txn.Set([]byte(profileKey(cred.Username)), profileData); err != nil {
			return fmt.Errorf("set profile: %w", err)
		}
		return nil
	})
	if errors.Is(err, badger.ErrConflict) {
		return fmt.Errorf("%w: %s", ErrUserExists, cred.Username)
	}
	return err
}

// GetCredential implements Store.
func (b *Badger) GetCredential(ctx context.Context, username string) (cred *Credential, err error) {
	defer timed("badger", "get_credential")(&err)

	data, err := b.get(ctx, userKey(username))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: credential %s", ErrNotFound, username)
	}
	return decodeCredential(data)
}

// GetProfile implements Store.
func (b *Badger) GetProfile(ctx context.Context, username string) (p *Profile, err error) {
	defer timed("badger", "get_profile")(&err)

	data, err := b.get(ctx, profileKey(username))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: profile %s", ErrNotFound, username)
	}
	return decodeProfile(data)
}

// GetValueTable implements Store.
func (b *Badger) GetValueTable(ctx context.Context, username string) (t recommend.ValueTable, err error) {
	defer timed("badger", "get_values")(&err)

	data, err := b.get(ctx, valuesKey(username))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return recommend.NewValueTable(), nil
	}
	return decodeValueTable(data)
}

// SaveValueTable implements Store.
func (b *Badger) SaveValueTable(ctx context.Context, username string, table recommend.ValueTable) (err error) {
	defer timed("badger", "save_values")(&err)
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encode(table)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(valuesKey(username)), data)
	})
}

// SaveFeedback implements Store.
func (b *Badger) SaveFeedback(ctx context.Context, profile Profile, table recommend.ValueTable) (err error) {
	defer timed("badger", "save_feedback")(&err)
	if err := ctx.Err(); err != nil {
		return err
	}

	profileData, err := encode(profile)
	if err != nil {
		return err
	}
	tableData, err := encode(table)
	if err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(profileKey(profile.Username)), profileData); err != nil {
			return fmt.Errorf("set profile: %w", err)
		}
		if err := txn.Set([]byte(valuesKey(profile.Username)), tableData); err != nil {
			return fmt.Errorf("set value table: %w", err)
		}
		return nil
	})
}

// UpdateFeedback implements Store. Reads and writes share one transaction;
// a commit that loses to a concurrent writer fails with badger.ErrConflict
// and is retried.
func (b *Badger) UpdateFeedback(ctx context.Context, username string, fn FeedbackFunc) (err error) {
	defer timed("badger", "update_feedback")(&err)

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err = b.db.Update(func(txn *badger.Txn) error {
			return b.applyFeedback(txn, username, fn)
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		b.logger.Debug().Str("username", username).Int("attempt", attempt).Msg("feedback update conflict, retrying")
	}
	return fmt.Errorf("%w: feedback for %s", ErrConflict, username)
}

func (b *Badger) applyFeedback(txn *badger.Txn, username string, fn FeedbackFunc) error {
	profileData, err := txnGet(txn, profileKey(username))
	if err != nil {
		return err
	}
	if profileData == nil {
		return fmt.Errorf("%w: profile %s", ErrNotFound, username)
	}
	profile, err := decodeProfile(profileData)
	if err != nil {
		return err
	}
	table := recommend.NewValueTable()
	tableData, err := txnGet(txn, valuesKey(username))
	if err != nil {
		return err
	}
	if tableData != nil {
		if table, err = decodeValueTable(tableData); err != nil {
			return err
		}
	}

	upd, err := fn(*profile, table)
	if err != nil {
		return err
	}
	if upd.Profile != nil {
		data, err := encode(upd.Profile)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(profileKey(username)), data); err != nil {
			return fmt.Errorf("set profile: %w", err)
		}
	}
	if upd.Table != nil {
		data, err := encode(upd.Table)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(valuesKey(username)), data); err != nil {
			return fmt.Errorf("set value table: %w", err)
		}
	}
	return nil
}

// RunGC reclaims value log space until badger reports nothing to rewrite.
func (b *Badger) RunGC(discardRatio float64) error {
	for {
		err := b.db.RunValueLogGC(discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run value log gc: %w", err)
		}
	}
}

// Close implements Store.
func (b *Badger) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("close badger store: %w", err)
	}
	b.logger.Info().Msg("badger store closed")
	return nil
}

// get returns nil, nil when key is absent.
func (b *Badger) get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = txnGet(txn, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// txnGet returns nil, nil when key is absent.
func txnGet(txn *badger.Txn, key string) ([]byte, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return item.ValueCopy(nil)
}
