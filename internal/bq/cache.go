package bq

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mwhsu/dataferry/internal/frame"
)

// cacheFileExtension is the file extension used for cache entries.
const cacheFileExtension = ".json"

// Common cache errors.
var (
	ErrCacheNotFound = errors.New("cache entry not found")
	ErrCacheExpired  = errors.New("cache entry expired")
	ErrCacheDisabled = errors.New("cache is disabled")
)

// cacheEntry is the on-disk form of a cached query result.
type cacheEntry struct {
	Key       string     `json:"key"`
	Header    []string   `json:"header"`
	Rows      [][]string `json:"rows"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// GenerateKey derives a stable cache key from a query and its parameters.
// The SQL is whitespace-normalized so formatting changes do not bust the
// cache; parameters are sorted by name so ordering does not matter.
func GenerateKey(sql string, params []Param) string {
	normalized := strings.Join(strings.Fields(sql), " ")

	sorted := make([]Param, len(params))
	copy(sorted, params)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	h := sha256.New()
	h.Write([]byte(normalized))
	for _, p := range sorted {
		fmt.Fprintf(h, "\x00%s=%s", p.Name, p.Value)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// FileStore caches query results as JSON files with TTL expiration.
// Thread-safe for concurrent access.
type FileStore struct {
	directory string
	enabled   bool
	ttl       time.Duration

	// mu protects concurrent access to file operations.
	mu sync.RWMutex
}

// NewFileStore creates a file-backed result cache. A disabled store is
// valid and rejects all operations with ErrCacheDisabled.
func NewFileStore(directory string, enabled bool, ttl time.Duration) (*FileStore, error) {
	if !enabled {
		return &FileStore{enabled: false}, nil
	}

	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return &FileStore{directory: directory, enabled: true, ttl: ttl}, nil
}

// Enabled reports whether the store accepts reads and writes. Callers can
// skip Set entirely on a disabled store instead of handling
// ErrCacheDisabled.
func (s *FileStore) Enabled() bool {
	return s.enabled
}

// Get returns the cached table for the key, or ErrCacheNotFound /
// ErrCacheExpired.
func (s *FileStore) Get(key string) (*frame.Table, error) {
	if !s.enabled {
		return nil, ErrCacheDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.keyToFilePath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheNotFound
		}
		return nil, fmt.Errorf("reading cache file: %w", err)
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshalling cache entry: %w", err)
	}

	if time.Now().After(entry.ExpiresAt) {
		// Expired entries are removed on next Set; returning the error is
		// enough here.
		return nil, ErrCacheExpired
	}

	return frame.NewWithRows(entry.Header, entry.Rows)
}

// Set stores a table under the key, overwriting any previous entry. The
// write is atomic (temp file plus rename) so concurrent readers never see a
// partial entry.
func (s *FileStore) Set(key string, table *frame.Table) error {
	if !s.enabled {
		return ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	entry := cacheEntry{
		Key:       key,
		Header:    table.Header(),
		Rows:      table.Rows(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling cache entry: %w", err)
	}

	path := s.keyToFilePath(key)
	tmp, err := os.CreateTemp(s.directory, "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("committing cache file: %w", err)
	}
	return nil
}

func (s *FileStore) keyToFilePath(key string) string {
	return filepath.Join(s.directory, key+cacheFileExtension)
}
