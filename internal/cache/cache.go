// Package cache stores package index release listings on disk.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/spiffcs/maintkit/internal/constants"
	"github.com/spiffcs/maintkit/internal/log"
	"go.etcd.io/bbolt"
)

// Version should be incremented when the entry format changes.
const Version = 1

var bucketName = []byte("releases")

// Entry is a cached release listing.
type Entry struct {
	Versions []string  `json:"versions"`
	CachedAt time.Time `json:"cachedAt"`
	Version  int       `json:"version"`
}

// Cacher defines the interface for caching operations.
// This interface enables mocking the cache in unit tests.
type Cacher interface {
	Get(key string) ([]string, bool)
	Set(key string, versions []string) error
	Clear() error
	Stats() (total int, validCount int, err error)
}

// Ensure Cache implements Cacher interface.
var _ Cacher = (*Cache)(nil)

// Cache is a bbolt database of release listings fronted by an in-memory LRU.
type Cache struct {
	db   *bbolt.DB
	memo *lru.Cache
	ttl  time.Duration
	now  func() time.Time
}

// DefaultPath returns the database location under the user cache directory.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "maintkit", "index.db"), nil
}

// Open opens or creates the cache database at path.
func Open(path string, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = constants.IndexCacheTTL
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating database bucket: %w", err)
	}

	memo, err := lru.New(constants.IndexMemoSize)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating lru cache: %w", err)
	}

	return &Cache{db: db, memo: memo, ttl: ttl, now: time.Now}, nil
}

// Get returns the cached versions for key if present and fresh.
func (c *Cache) Get(key string) ([]string, bool) {
	if v, ok := c.memo.Get(key); ok {
		entry := v.(Entry)
		if c.valid(entry) {
			return entry.Versions, true
		}
		c.memo.Remove(key)
	}

	var data []byte
	if err := c.db.View(func(tx *bbolt.Tx) error {
		if raw := tx.Bucket(bucketName).Get([]byte(key)); raw != nil {
			data = append([]byte(nil), raw...)
		}
		return nil
	}); err != nil || data == nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Debug("discarding unreadable cache entry", "key", key, "error", err)
		return nil, false
	}
	if entry.Version != Version {
		log.Debug("cache version mismatch", "cached", entry.Version, "current", Version, "key", key)
		return nil, false
	}
	if !c.valid(entry) {
		return nil, false
	}

	c.memo.Add(key, entry)
	return entry.Versions, true
}

// Set stores versions under key.
func (c *Cache) Set(key string, versions []string) error {
	entry := Entry{
		Versions: versions,
		CachedAt: c.now(),
		Version:  Version,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), data)
	}); err != nil {
		return fmt.Errorf("writing to db: %w", err)
	}
	c.memo.Add(key, entry)
	return nil
}

// Clear removes all cached entries.
func (c *Cache) Clear() error {
	c.memo.Purge()
	return c.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketName); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucketName)
		return err
	})
}

// Stats returns the number of stored entries and how many are still fresh.
func (c *Cache) Stats() (total int, validCount int, err error) {
	err = c.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(_, v []byte) error {
			total++
			var entry Entry
			if json.Unmarshal(v, &entry) == nil && entry.Version == Version && c.valid(entry) {
				validCount++
			}
			return nil
		})
	})
	return total, validCount, err
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) valid(entry Entry) bool {
	return c.now().Sub(entry.CachedAt) <= c.ttl
}
