// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelrank/internal/recommend"
)

// RedisOptions configures the redis backend.
type RedisOptions struct {
	Addr     string
	DB       int
	Password string

	// Prefix namespaces every key, e.g. "reelrank:".
	Prefix string
}

// Redis is a Store on a redis server.
type Redis struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

// OpenRedis connects and pings the server.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func OpenRedis(ctx context.Context, opts RedisOptions, logger zerolog.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		DB:       opts.DB,
		Password: opts.Password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // connect error is reported
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}

	logger = logger.With().Str("component", "store").Str("backend", "redis").Logger()
	logger.Info().Str("addr", opts.Addr).Int("db", opts.DB).Str("prefix", opts.Prefix).Msg("redis store connected")

	return &Redis{client: client, prefix: opts.Prefix, logger: logger}, nil
}

// Name implements Store.
func (r *Redis) Name() string { return "redis" }

func (r *Redis) key(k string) string { return r.prefix + k }

// CreateUser implements Store. The credential key is watched so two
// concurrent registrations of one name cannot both succeed.
func (r *Redis) CreateUser(ctx context.Context, cred Credential) (err error) {
	defer timed("redis", "create_user")(&err)

	credData, err := encode(cred)
	if err != nil {
		return err
	}
	profileData, err := encode(emptyProfile(cred.Username))
	if err != nil {
		return err
	}

	ukey := r.key(userKey(cred.Username))
	pkey := r.key(profileKey(cred.Username))

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, ukey).Result()
		if err != nil {
			return fmt.Errorf("check credential: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("%w: %s", ErrUserExists, cred.Username)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, ukey, credData, 0)
			pipe.Set(ctx, pkey, profileData, 0)
			return nil
		})
		return err
	}, ukey)
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("%w: %s", ErrUserExists, cred.Username)
	}
	return err
}

// GetCredential implements Store.
func (r *Redis) GetCredential(ctx context.Context, username string) (cred *Credential, err error) {
	defer timed("redis", "get_credential")(&err)

	data, err := r.get(ctx, userKey(username))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: credential %s", ErrNotFound, username)
	}
	return decodeCredential(data)
}

// GetProfile implements Store.
func (r *Redis) GetProfile(ctx context.Context, username string) (p *Profile, err error) {
	defer timed("redis", "get_profile")(&err)

	data, err := r.get(ctx, profileKey(username))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: profile %s", ErrNotFound, username)
	}
	return decodeProfile(data)
}

// GetValueTable implements Store.
func (r *Redis) GetValueTable(ctx context.Context, username string) (t recommend.ValueTable, err error) {
	defer timed("redis", "get_values")(&err)

	data, err := r.get(ctx, valuesKey(username))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return recommend.NewValueTable(), nil
	}
	return decodeValueTable(data)
}

// SaveValueTable implements Store.
func (r *Redis) SaveValueTable(ctx context.Context, username string, table recommend.ValueTable) (err error) {
	defer timed("redis", "save_values")(&err)

	data, err := encode(table)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(valuesKey(username)), data, 0).Err()
}

// SaveFeedback implements Store.
func (r *Redis) SaveFeedback(ctx context.Context, profile Profile, table recommend.ValueTable) (err error) {
	defer timed("redis", "save_feedback")(&err)

	profileData, err := encode(profile)
	if err != nil {
		return err
	}
	tableData, err := encode(table)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(profileKey(profile.Username)), profileData, 0)
		pipe.Set(ctx, r.key(valuesKey(profile.Username)), tableData, 0)
		return nil
	})
	return err
}

// UpdateFeedback implements Store. Both keys are watched while fn runs; the
// MULTI/EXEC fails with redis.TxFailedErr when another client wrote either
// one in between, and the update is retried against the new values.
func (r *Redis) UpdateFeedback(ctx context.Context, username string, fn FeedbackFunc) (err error) {
	defer timed("redis", "update_feedback")(&err)

	pkey := r.key(profileKey(username))
	vkey := r.key(valuesKey(username))

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err = r.client.Watch(ctx, func(tx *redis.Tx) error {
			return r.applyFeedback(ctx, tx, username, pkey, vkey, fn)
		}, pkey, vkey)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		r.logger.Debug().Str("username", username).Int("attempt", attempt).Msg("feedback update conflict, retrying")
	}
	return fmt.Errorf("%w: feedback for %s", ErrConflict, username)
}

func (r *Redis) applyFeedback(ctx context.Context, tx *redis.Tx, username, pkey, vkey string, fn FeedbackFunc) error {
	profileData, err := tx.Get(ctx, pkey).Bytes()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: profile %s", ErrNotFound, username)
	}
	if err != nil {
		return fmt.Errorf("get profile: %w", err)
	}
	profile, err := decodeProfile(profileData)
	if err != nil {
		return err
	}
	table := recommend.NewValueTable()
	tableData, err := tx.Get(ctx, vkey).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return fmt.Errorf("get value table: %w", err)
	default:
		if table, err = decodeValueTable(tableData); err != nil {
			return err
		}
	}

	upd, err := fn(*profile, table)
	if err != nil {
		return err
	}
	var newProfile, newTable []byte
	if upd.Profile != nil {
		if newProfile, err = encode(upd.Profile); err != nil {
			return err
		}
	}
	if upd.Table != nil {
		if newTable, err = encode(upd.Table); err != nil {
			return err
		}
	}

	if newProfile == nil && newTable == nil {
		return nil
	}
	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if newProfile != nil {
			pipe.Set(ctx, pkey, newProfile, 0)
		}
		if newTable != nil {
			pipe.Set(ctx, vkey, newTable, 0)
		}
		return nil
	})
	return err
}

// Close implements Store.
func (r *Redis) Close() error {
	return r.client.Close()
}

// get returns nil, nil when key is absent.
func (r *Redis) get(ctx context.Context, k string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", k, err)
	}
	return val, nil
}
