package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/teambrief/teambrief/core"
	"github.com/teambrief/teambrief/storage/badger"
)

// DefaultTTL is the entry lifetime used when Set receives a zero TTL.
const DefaultTTL = 7 * 24 * time.Hour

// keyPrefix namespaces cache entries within the shared database.
const keyPrefix = "cache:"

// ErrNilBackend is returned when no storage backend is provided.
var ErrNilBackend = errors.New("storage backend is required")

// entry is the stored record. The logical key is kept inside the value
// because the stored key is a hash.
type entry struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (e *entry) expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Stats describes cache contents at a point in time.
type Stats struct {
	TotalEntries   int   `json:"total_entries"`
	ValidEntries   int   `json:"valid_entries"`
	ExpiredEntries int   `json:"expired_entries"`
	SizeBytes      int64 `json:"size_bytes"`
}

// Cache stores JSON-serializable values under hashed logical keys.
type Cache struct {
	backend *badger.Backend
	ttl     time.Duration
	logger  *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithDefaultTTL sets the lifetime applied when Set receives a zero TTL.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a cache over the given backend.
func New(backend *badger.Backend, opts ...Option) (*Cache, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}

	c := &Cache{
		backend: backend,
		ttl:     DefaultTTL,
		logger:  slog.Default().With("component", "cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// hashKey maps a logical key to its fixed-length stored key.
func hashKey(key string) []byte {
	return []byte(fmt.Sprintf("%s%016x", keyPrefix, core.IDFromContent(key)))
}

// Set stores value under key. A zero ttl applies the cache's default.
func (c *Cache) Set(key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}

	now := time.Now().UTC()
	data, err := json.Marshal(entry{
		Key:       key,
		Value:     raw,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	return c.backend.WithTx(func(tx *badgerdb.Txn) error {
		return tx.Set(hashKey(key), data)
	}, true)
}

// Get loads the value stored under key into dest. A hit on an expired
// entry deletes it and reports a miss; the TTL is never refreshed by
// reads.
func (c *Cache) Get(key string, dest any) (bool, error) {
	var ent entry
	found := false

	err := c.backend.WithTx(func(tx *badgerdb.Txn) error {
		item, err := tx.Get(hashKey(key))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ent)
		})
	}, false)
	if err != nil || !found {
		return false, err
	}

	if ent.expired(time.Now().UTC()) {
		c.logger.Debug("cache entry expired", "key", key)
		if err := c.Delete(key); err != nil {
			return false, err
		}
		return false, nil
	}

	if dest != nil {
		if err := json.Unmarshal(ent.Value, dest); err != nil {
			return false, fmt.Errorf("unmarshal cache value: %w", err)
		}
	}
	return true, nil
}

// Delete removes the entry stored under key. Missing keys are not an
// error.
func (c *Cache) Delete(key string) error {
	return c.backend.WithTx(func(tx *badgerdb.Txn) error {
		return tx.Delete(hashKey(key))
	}, true)
}

// ClearExpired sweeps the cache and removes every expired entry. Returns
// the number removed.
func (c *Cache) ClearExpired() (int, error) {
	now := time.Now().UTC()
	var stale [][]byte

	err := c.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			var ent entry
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &ent)
			})
			if err != nil {
				return err
			}
			if ent.expired(now) {
				stale = append(stale, item.KeyCopy(nil))
			}
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}

	if len(stale) == 0 {
		return 0, nil
	}

	err = c.backend.WithTx(func(tx *badgerdb.Txn) error {
		for _, key := range stale {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return nil
	}, true)
	if err != nil {
		return 0, err
	}

	c.logger.Info("expired cache entries cleared", "count", len(stale))
	return len(stale), nil
}

// Stats reports entry counts and stored size.
func (c *Cache) Stats() (*Stats, error) {
	now := time.Now().UTC()
	stats := &Stats{}

	err := c.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			var ent entry
			err := item.Value(func(val []byte) error {
				stats.SizeBytes += int64(len(val))
				return json.Unmarshal(val, &ent)
			})
			if err != nil {
				return err
			}

			stats.TotalEntries++
			if ent.expired(now) {
				stats.ExpiredEntries++
			} else {
				stats.ValidEntries++
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
