// Package rulecache persists a compiled rule catalog so that repeated
// runs against an unchanged rule set skip clause-tree compilation
// entirely. It is adapted from the teacher's BadgerDB-backed long-term
// memory store: same Open/Get/Put/Close shape and background value-log
// GC, repurposed to cache []*compiler.ConvertedRule instead of memory
// entries.
package rulecache

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/patternforge/patternforge/internal/compiler"
	"github.com/patternforge/patternforge/internal/rules"
)

// Options configures the cache.
type Options struct {
	Dir        string
	MaxSizeMB  int
	GCInterval time.Duration
}

// Cache is a persistent store of compiled rule catalogs, keyed by a hash
// of the raw rule source bytes that produced them.
type Cache struct {
	db         *badger.DB
	instanceID string
	gcInterval time.Duration
	gcStop     chan struct{}

	hits   int64
	misses int64
}

// entry is the value stored under a cache key: the compiled catalog plus
// enough bookkeeping to honor a TTL on retrieval.
type entry struct {
	Clauses    []*compiler.ConvertedRule `json:"clauses"`
	Violations []rules.Violation         `json:"violations"`
	StoredAt   time.Time                 `json:"stored_at"`
}

// Open opens (creating if absent) a cache rooted at opts.Dir.
func Open(opts Options) (*Cache, error) {
	badgerOpts := badger.DefaultOptions(opts.Dir)
	badgerOpts.Logger = nil

	if opts.MaxSizeMB > 0 {
		badgerOpts.ValueLogFileSize = int64(opts.MaxSizeMB) * 1024 * 1024 / 10
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("rulecache: opening badger db: %w", err)
	}

	c := &Cache{
		db:         db,
		instanceID: uuid.New().String(),
		gcInterval: opts.GCInterval,
		gcStop:     make(chan struct{}),
	}

	if opts.GCInterval > 0 {
		go c.runGC()
	}

	return c, nil
}

// Key derives a cache key from the raw, concatenated rule source bytes
// that will be compiled. Any change to rule content, ordering, or count
// changes the key.
func Key(sourceBytes []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(sourceBytes))
}

// Get looks up a previously cached compiled catalog. ok is false on a
// miss or when the stored entry has exceeded ttl (ttl <= 0 disables
// expiry).
func (c *Cache) Get(key string, ttl time.Duration) (clauses []*compiler.ConvertedRule, violations []rules.Violation, ok bool) {
	var e entry
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	if err != nil {
		atomic.AddInt64(&c.misses, 1)
		return nil, nil, false
	}
	if ttl > 0 && time.Since(e.StoredAt) > ttl {
		atomic.AddInt64(&c.misses, 1)
		return nil, nil, false
	}

	atomic.AddInt64(&c.hits, 1)
	return e.Clauses, e.Violations, true
}

// Put stores a compiled catalog under key, overwriting any prior entry.
func (c *Cache) Put(key string, clauses []*compiler.ConvertedRule, violations []rules.Violation) error {
	e := entry{Clauses: clauses, Violations: violations, StoredAt: time.Now()}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("rulecache: marshaling entry: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// Stats summarizes cache usage for logging.
type Stats struct {
	InstanceID string
	Entries    int64
	SizeBytes  int64
	Hits       int64
	Misses     int64
}

// Stats returns a snapshot of cache size and hit/miss counters.
func (c *Cache) Stats() Stats {
	var entries int64
	_ = c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			entries++
		}
		return nil
	})

	lsm, vlog := c.db.Size()
	return Stats{
		InstanceID: c.instanceID,
		Entries:    entries,
		SizeBytes:  lsm + vlog,
		Hits:       atomic.LoadInt64(&c.hits),
		Misses:     atomic.LoadInt64(&c.misses),
	}
}

// Close stops the background GC loop and closes the underlying store.
func (c *Cache) Close() error {
	close(c.gcStop)
	return c.db.Close()
}

func (c *Cache) runGC() {
	ticker := time.NewTicker(c.gcInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = c.db.RunValueLogGC(0.5)
		case <-c.gcStop:
			return
		}
	}
}
