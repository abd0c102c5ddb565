// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

//go:build integration

package store

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelrank/internal/testinfra"
)

func TestRedis(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	container, err := testinfra.NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("NewRedisContainer() error = %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, container)

	// Each subtest gets its own key prefix on the shared server.
	var n atomic.Int32
	runConformance(t, func(t *testing.T) Store {
		s, err := OpenRedis(ctx, RedisOptions{
			Addr:   container.Addr,
			Prefix: fmt.Sprintf("test%d:", n.Add(1)),
		}, zerolog.Nop())
		if err != nil {
			t.Fatalf("OpenRedis() error = %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestRedis_UpdateFeedbackAcrossClients(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	container, err := testinfra.NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("NewRedisContainer() error = %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, container)

	// Separate clients behave like separate server processes.
	stores := make([]Store, 2)
	for i := range stores {
		s, err := OpenRedis(ctx, RedisOptions{Addr: container.Addr, Prefix: "shared:"}, zerolog.Nop())
		if err != nil {
			t.Fatalf("OpenRedis() error = %v", err)
		}
		defer func() { _ = s.Close() }()
		stores[i] = s
	}

	if err := stores[0].CreateUser(ctx, Credential{Username: "ana", PasswordHash: "h"}); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	appendConcurrently(t, stores, "ana", 8)
}
