// Package imagecache provides a TTL'd key→value store for resolved cover
// URLs, persisted as a single JSON file.
//
// An entry with an empty value is a valid hit: it records that the remote
// service confirmed no image exists, so the next run within the TTL
// window performs no network call. Lookup therefore returns an explicit
// presence flag instead of relying on string emptiness.
package imagecache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"gamedex/internal/logging"
	"gamedex/internal/metrics"
)

// Entry is one persisted cache record.
type Entry struct {
	Value    string    `json:"value"`
	StoredAt time.Time `json:"stored_at"`
}

// Store is a file-backed cache safe for concurrent use within a process
// (mutex) and across processes (flock around the rewrite).
type Store struct {
	path string
	ttl  time.Duration

	mu      sync.Mutex
	entries map[string]Entry

	// now is replaceable in tests.
	now func() time.Time
}

// Key builds a cache key from the platform kind, the origin-specific id,
// and the requested image category.
func Key(kind, id, category string) string {
	return strings.Join([]string{kind, id, category}, ":")
}

// Open loads the store at path. A missing file is a fresh start; an
// unreadable or corrupt file is logged and treated as empty, never fatal.
// If path is empty every operation is a no-op miss.
func Open(path string, ttl time.Duration) *Store {
	s := &Store{
		path:    path,
		ttl:     ttl,
		entries: make(map[string]Entry),
		now:     time.Now,
	}

	if path == "" {
		return s
	}

	if err := s.load(); err != nil {
		logging.Warn("failed to load cover cache, starting empty", "path", path, "error", err)
		s.entries = make(map[string]Entry)
	}

	return s
}

// Lookup returns the cached value for key and whether it was present.
// Entries older than the TTL count as absent and are evicted in passing.
// The returned value may be "" with ok=true: a remembered negative result.
func (s *Store) Lookup(key string) (string, bool) {
	if key == "" || s.path == "" {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return "", false
	}

	if s.expired(entry) {
		delete(s.entries, key)
		metrics.CacheLookups.WithLabelValues("expired").Inc()
		return "", false
	}

	if entry.Value == "" {
		metrics.CacheLookups.WithLabelValues("negative_hit").Inc()
	} else {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
	}
	return entry.Value, true
}

// Store records value under key and synchronously rewrites the backing
// file. An empty value is stored as a negative result. Persistence
// failures are returned but leave the in-memory entry in place, so the
// current run still benefits.
func (s *Store) Store(key, value string) error {
	if key == "" {
		return errors.New("cache key cannot be empty")
	}
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = Entry{Value: value, StoredAt: s.now()}

	if err := s.save(); err != nil {
		return fmt.Errorf("persist cover cache: %w", err)
	}
	return nil
}

// SweepExpired removes every entry older than the TTL and persists the
// result when anything was dropped. Returns the number of evictions.
func (s *Store) SweepExpired() int {
	if s.path == "" {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if s.expired(entry) {
			delete(s.entries, key)
			removed++
		}
	}

	if removed > 0 {
		if err := s.save(); err != nil {
			logging.Warn("failed to persist cache sweep", "error", err)
		}
	}

	return removed
}

// Clear drops every entry and persists the empty store.
func (s *Store) Clear() error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]Entry)
	if err := s.save(); err != nil {
		return fmt.Errorf("persist cover cache: %w", err)
	}
	return nil
}

// Len returns the number of entries, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// TTL returns the configured time-to-live.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) expired(entry Entry) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(entry.StoredAt) > s.ttl
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // fresh start
		}
		return fmt.Errorf("read cache file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	s.entries = entries
	if s.entries == nil {
		s.entries = make(map[string]Entry)
	}
	return nil
}

// save rewrites the whole backing file under an advisory file lock so
// that a second gamedex process cannot interleave a partial write.
// Caller holds s.mu.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock cache file: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	// Write atomically via temp file
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
