// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package artifact

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelrank/internal/recommend"
	"github.com/tomtom215/reelrank/internal/recommend/storage"
)

// snapshotBytes saves a small artifact in a scratch store and returns the file.
func snapshotBytes(t *testing.T) []byte {
	t.Helper()

	src, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	a := &storage.Artifact{
		Movies: []recommend.Movie{{ID: 1, Title: "Heat"}, {ID: 2, Title: "Ronin"}},
		Matrix: [][]float64{{1, 0.4}, {0.4, 1}},
	}
	if _, err := src.Save(context.Background(), "similarity", 1, a, storage.Metadata{Source: "fixture"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(src.Path("similarity", 1))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	return data
}

func testFetcher(t *testing.T, url string, attempts int) *Fetcher {
	t.Helper()

	f, err := NewFetcher(FetcherConfig{
		URL:           url,
		Timeout:       5 * time.Second,
		Attempts:      attempts,
		RetryInterval: time.Millisecond,
	}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFetcher() error = %v", err)
	}
	return f
}

func TestNewFetcher_RequiresURL(t *testing.T) {
	t.Parallel()

	if _, err := NewFetcher(FetcherConfig{}, nil, zerolog.Nop()); !errors.Is(err, ErrNoSource) {
		t.Errorf("NewFetcher() error = %v, want ErrNoSource", err)
	}
}

func TestEnsure_DownloadsWhenMissing(t *testing.T) {
	t.Parallel()

	data := snapshotBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	a, meta, err := Ensure(context.Background(), store, "similarity", testFetcher(t, srv.URL, 1))
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if len(a.Movies) != 2 || meta.Source != "fixture" {
		t.Errorf("Ensure() = %d movies, source %q", len(a.Movies), meta.Source)
	}
	if v, ok := store.LatestVersion("similarity"); !ok || v != 1 {
		t.Errorf("LatestVersion() = %d, %v; want 1, true", v, ok)
	}
}

func TestEnsure_UsesLocalSnapshot(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "similarity_v2.gob.gz"), snapshotBytes(t), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	store, err := storage.NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	if _, _, err := Ensure(context.Background(), store, "similarity", testFetcher(t, srv.URL, 1)); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server was contacted %d times, want 0", hits.Load())
	}
}

func TestEnsure_NoSource(t *testing.T) {
	t.Parallel()

	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, _, err := Ensure(context.Background(), store, "similarity", nil); !errors.Is(err, ErrNoSource) {
		t.Errorf("Ensure() error = %v, want ErrNoSource", err)
	}
}

func TestFetch_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	data := snapshotBytes(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "similarity_v1.gob.gz")
	n, err := testFetcher(t, srv.URL, 3).Fetch(context.Background(), dest)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if n != int64(len(data)) {
		t.Errorf("Fetch() = %d bytes, want %d", n, len(data))
	}
	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2", hits.Load())
	}
}

func TestFetch_GivesUp(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "similarity_v1.gob.gz")
	if _, err := testFetcher(t, srv.URL, 2).Fetch(context.Background(), dest); err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("destination should not exist after failed download, stat err = %v", err)
	}
}

func TestEnsure_RemovesCorruptDownload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not a snapshot"))
	}))
	defer srv.Close()

	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, _, err := Ensure(context.Background(), store, "similarity", testFetcher(t, srv.URL, 1)); err == nil {
		t.Fatal("expected verification error")
	}
	if _, err := os.Stat(store.Path("similarity", 1)); !os.IsNotExist(err) {
		t.Errorf("corrupt download should be removed, stat err = %v", err)
	}
}

func TestImport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	movies := filepath.Join(dir, "movies.json")
	matrix := filepath.Join(dir, "similarity.json")
	if err := os.WriteFile(movies, []byte(`[{"movie_id":603,"title":"The Matrix"},{"movie_id":949,"title":"Heat"}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(matrix, []byte(`[[1,0.3],[0.3,1]]`), 0o600); err != nil {
		t.Fatal(err)
	}

	a, err := Import(context.Background(), movies, matrix)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(a.Movies) != 2 || a.Movies[0].ID != 603 || a.Movies[1].Title != "Heat" {
		t.Errorf("Import() movies = %+v", a.Movies)
	}
	if a.Matrix[0][1] != 0.3 {
		t.Errorf("Import() matrix = %v", a.Matrix)
	}
}

func TestImport_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	movies := filepath.Join(dir, "movies.json")
	matrix := filepath.Join(dir, "similarity.json")
	if err := os.WriteFile(movies, []byte(`[{"movie_id":1,"title":"Heat"}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(matrix, []byte(`[[1,0.5]]`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Import(context.Background(), movies, matrix); !errors.Is(err, recommend.ErrInvalidCatalog) {
		t.Errorf("Import() ragged matrix error = %v, want ErrInvalidCatalog", err)
	}
	if _, err := Import(context.Background(), movies, filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Import() expected error for missing file")
	}
}
