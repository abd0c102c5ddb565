// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/reelrank/internal/metrics"
	"github.com/tomtom215/reelrank/internal/recommend/storage"
)

// ErrNoSource is returned when no snapshot exists locally and no source URL
// is configured.
var ErrNoSource = errors.New("no local artifact and no source URL configured")

// FetcherConfig configures artifact downloads.
type FetcherConfig struct {
	// URL is the snapshot to download.
	URL string

	// Timeout bounds a single attempt, including the body transfer.
	Timeout time.Duration

	// Attempts is the total number of tries.
	Attempts int

	// RetryInterval is the minimum spacing between attempts.
	RetryInterval time.Duration
}

// Fetcher downloads snapshot files.
type Fetcher struct {
	cfg     FetcherConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[int64]
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewFetcher creates a Fetcher. A nil client selects a default one.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFetcher(cfg FetcherConfig, client *http.Client, logger zerolog.Logger) (*Fetcher, error) {
	if cfg.URL == "" {
		return nil, ErrNoSource
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 2 * time.Second
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{
		cfg:     cfg,
		client:  client,
		breaker: newBreaker(),
		limiter: rate.NewLimiter(rate.Every(cfg.RetryInterval), 1),
		logger:  logger.With().Str("component", "artifact").Logger(),
	}, nil
}

// Fetch downloads the configured URL to dest, retrying failed attempts.
// dest is replaced atomically; it is never left partially written.
func (f *Fetcher) Fetch(ctx context.Context, dest string) (int64, error) {
	var lastErr error
	for attempt := 1; attempt <= f.cfg.Attempts; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("waiting to retry download: %w", err)
		}

		n, err := f.breaker.Execute(func() (int64, error) {
			return f.download(ctx, dest)
		})
		recordBreakerResult(err)
		if err == nil {
			metrics.ArtifactFetchAttempts.WithLabelValues("success").Inc()
			f.logger.Info().
				Str("url", f.cfg.URL).
				Int64("bytes", n).
				Int("attempt", attempt).
				Msg("artifact downloaded")
			return n, nil
		}

		metrics.ArtifactFetchAttempts.WithLabelValues("failure").Inc()
		lastErr = err
		f.logger.Warn().Err(err).Int("attempt", attempt).Int("attempts", f.cfg.Attempts).Msg("artifact download failed")

		if ctx.Err() != nil {
			break
		}
	}
	return 0, fmt.Errorf("download %s: %w", f.cfg.URL, lastErr)
}

func (f *Fetcher) download(ctx context.Context, dest string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.URL, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // body fully consumed or abandoned

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	cr := &countingReader{r: resp.Body}
	if err := storage.WriteFileAtomic(dest, cr); err != nil {
		return 0, err
	}
	return cr.n, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Ensure returns the newest snapshot of name from store. When none exists
// and fetcher is non-nil it downloads version 1 first. A downloaded file
// that fails verification is removed.
func Ensure(ctx context.Context, store *storage.Store, name string, fetcher *Fetcher) (*storage.Artifact, *storage.Metadata, error) {
	if _, ok := store.LatestVersion(name); !ok {
		if fetcher == nil {
			return nil, nil, fmt.Errorf("%w: %s in %s", ErrNoSource, name, store.Dir())
		}
		dest := store.Path(name, 1)
		if _, err := fetcher.Fetch(ctx, dest); err != nil {
			return nil, nil, err
		}
		if err := store.Rescan(); err != nil {
			return nil, nil, fmt.Errorf("rescan artifacts: %w", err)
		}
		a, meta, err := store.Load(ctx, name, 1)
		if err != nil {
			_ = removeQuietly(dest) //nolint:errcheck // verification error is reported
			_ = store.Rescan()      //nolint:errcheck // verification error is reported
			return nil, nil, fmt.Errorf("verify downloaded artifact: %w", err)
		}
		return a, meta, nil
	}
	return store.Load(ctx, name, 0)
}
