// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/reelrank/internal/recommend"
)

const fileSuffix = ".gob.gz"

// ErrNoArtifact is returned when no snapshot exists for a name.
var ErrNoArtifact = errors.New("no artifact stored")

// Artifact is the catalog payload: movies in matrix order and the square
// similarity matrix.
type Artifact struct {
	Movies []recommend.Movie
	Matrix [][]float64
}

// Catalog builds a validated recommend.Catalog from the artifact.
func (a *Artifact) Catalog() (*recommend.Catalog, error) {
	return recommend.NewCatalog(a.Movies, a.Matrix)
}

// Metadata describes a stored snapshot.
type Metadata struct {
	Name       string    `json:"name" yaml:"name"`
	Version    int       `json:"version" yaml:"version"`
	Source     string    `json:"source" yaml:"source"`
	BuiltAt    time.Time `json:"built_at" yaml:"built_at"`
	SavedAt    time.Time `json:"saved_at" yaml:"saved_at"`
	MovieCount int       `json:"movie_count" yaml:"movie_count"`
	Checksum   string    `json:"checksum" yaml:"checksum"`
	SizeBytes  int64     `json:"size_bytes" yaml:"size_bytes"`
}

// storedFile is the on-disk envelope.
type storedFile struct {
	Metadata       Metadata
	CompressedData []byte
}

// Store manages snapshot files in one directory.
type Store struct {
	baseDir  string
	mu       sync.RWMutex
	versions map[string]int
}

// NewStore opens (creating if needed) a snapshot directory.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	s := &Store{baseDir: baseDir, versions: make(map[string]int)}
	if err := s.scan(); err != nil {
		return nil, fmt.Errorf("scan existing artifacts: %w", err)
	}
	return s, nil
}

// Rescan reloads the version index from disk, picking up files written by
// other processes or by WriteFileAtomic.
func (s *Store) Rescan() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions = make(map[string]int)
	return s.scan()
}

// Dir returns the snapshot directory.
func (s *Store) Dir() string {
	return s.baseDir
}

func (s *Store) scan() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name, version, ok := parseFilename(entry.Name())
		if entry.IsDir() || !ok {
			continue
		}
		if current, seen := s.versions[name]; !seen || version > current {
			s.versions[name] = version
		}
	}
	return nil
}

// parseFilename splits "similarity_v3.gob.gz" into ("similarity", 3).
func parseFilename(filename string) (name string, version int, ok bool) {
	base, found := strings.CutSuffix(filename, fileSuffix)
	if !found {
		return "", 0, false
	}
	idx := strings.LastIndex(base, "_v")
	if idx <= 0 {
		return "", 0, false
	}
	if _, err := fmt.Sscanf(base[idx+2:], "%d", &version); err != nil || version < 1 {
		return "", 0, false
	}
	return base[:idx], version, true
}

// Path returns the file path of a snapshot.
func (s *Store) Path(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, fileSuffix))
}

// Save writes artifact as the given version (zero means next version) and
// returns the final metadata.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, version int, a *Artifact, meta Metadata) (Metadata, error) {
	if err := ctx.Err(); err != nil {
		return Metadata{}, err
	}
	if _, err := a.Catalog(); err != nil {
		return Metadata{}, fmt.Errorf("refusing to save invalid artifact: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if version == 0 {
		version = s.versions[name] + 1
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(a); err != nil {
		return Metadata{}, fmt.Errorf("encode artifact: %w", err)
	}
	sum := sha256.Sum256(raw.Bytes())

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return Metadata{}, fmt.Errorf("compress artifact: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return Metadata{}, fmt.Errorf("finalize compression: %w", err)
	}

	meta.Name = name
	meta.Version = version
	meta.Checksum = hex.EncodeToString(sum[:])
	meta.SizeBytes = int64(compressed.Len())
	meta.MovieCount = len(a.Movies)
	meta.SavedAt = time.Now().UTC()

	var file bytes.Buffer
	if err := gob.NewEncoder(&file).Encode(storedFile{Metadata: meta, CompressedData: compressed.Bytes()}); err != nil {
		return Metadata{}, fmt.Errorf("encode artifact file: %w", err)
	}
	if err := WriteFileAtomic(s.Path(name, version), &file); err != nil {
		return Metadata{}, err
	}

	if version > s.versions[name] {
		s.versions[name] = version
	}
	return meta, nil
}

// Load reads a snapshot, verifying its checksum. Version zero loads the
// latest one.
func (s *Store) Load(ctx context.Context, name string, version int) (*Artifact, *Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		latest, ok := s.versions[name]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrNoArtifact, name)
		}
		version = latest
	}

	sf, err := readEnvelope(s.Path(name, version))
	if err != nil {
		return nil, nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, nil, fmt.Errorf("decompress artifact: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // close after full read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, nil, fmt.Errorf("read decompressed data: %w", err)
	}

	sum := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(sum[:]); checksum != sf.Metadata.Checksum {
		return nil, nil, fmt.Errorf("checksum mismatch: expected %s, got %s", sf.Metadata.Checksum, checksum)
	}

	var a Artifact
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&a); err != nil {
		return nil, nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &a, &sf.Metadata, nil
}

// LatestVersion returns the newest version stored for name.
func (s *Store) LatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.versions[name]
	return v, ok
}

// Inspect reads only the metadata of a snapshot file.
func Inspect(path string) (*Metadata, error) {
	sf, err := readEnvelope(path)
	if err != nil {
		return nil, err
	}
	return &sf.Metadata, nil
}

// List returns metadata for the latest snapshot of every stored name,
// sorted by name.
func (s *Store) List(ctx context.Context) ([]Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.versions))
	for name := range s.versions {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Metadata, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sf, err := readEnvelope(s.Path(name, s.versions[name]))
		if err != nil {
			continue
		}
		out = append(out, sf.Metadata)
	}
	return out, nil
}

// Prune keeps the newest keep versions of name and removes older ones.
func (s *Store) Prune(ctx context.Context, name string, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return 0, fmt.Errorf("read directory: %w", err)
	}
	var versions []int
	for _, entry := range entries {
		if n, v, ok := parseFilename(entry.Name()); ok && n == name {
			versions = append(versions, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(versions)))

	removed := 0
	for _, v := range versions[min(keep, len(versions)):] {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := os.Remove(s.Path(name, v)); err != nil {
			return removed, fmt.Errorf("remove version %d: %w", v, err)
		}
		removed++
	}
	return removed, nil
}

func readEnvelope(path string) (*storedFile, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from the configured directory
	if err != nil {
		return nil, fmt.Errorf("open artifact file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read artifact file: %w", err)
	}
	return &sf, nil
}

// WriteFileAtomic writes r to path through a temporary file in the same
// directory followed by a rename.
func WriteFileAtomic(path string, r io.Reader) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) } //nolint:errcheck // best-effort cleanup

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close() //nolint:errcheck // already failing
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // already failing
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
