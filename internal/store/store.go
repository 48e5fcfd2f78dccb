package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Entity is implemented by every record type kept in a Collection.
type Entity[T any] interface {
	EntityID() string
	WithID(id string) T
}

// MetricsRecorder receives store instrumentation events. All methods must be
// safe to call on a nil implementation guard; the collection checks for nil.
type MetricsRecorder interface {
	ObserveStoreOp(collection, op string)
	RecordPersistFailure(collection string)
}

// Collection is a durable ordered collection of one entity type. It owns its
// in-memory slice and its on-disk copy exclusively. Mutations follow the
// read-all / mutate-in-memory / write-all discipline, so every write is O(n)
// over the collection size.
//
// Persistence is best effort: a failed disk write is logged and the in-memory
// state stays authoritative for the rest of the session. A failed or corrupt
// read falls back to the seed fixtures and never surfaces an error.
type Collection[T Entity[T]] struct {
	key      string
	path     string
	seed     []T
	defaults func(T) T

	logger  *zap.Logger
	metrics MetricsRecorder

	mu            sync.RWMutex
	records       []T
	loaded        bool
	lastPersisted []byte
}

// NewCollection builds a collection persisted under dataDir using the given
// versioned key. The defaults function is applied to every record passed to
// Add before it is appended; it is responsible for identifier generation and
// entity-specific field defaults.
func NewCollection[T Entity[T]](dataDir, key string, seed []T, defaults func(T) T, logger *zap.Logger, metrics MetricsRecorder) *Collection[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults == nil {
		defaults = func(r T) T { return r }
	}
	return &Collection[T]{
		key:      key,
		path:     filepath.Join(dataDir, key+".json"),
		seed:     seed,
		defaults: defaults,
		logger:   logger,
		metrics:  metrics,
	}
}

// Key returns the versioned storage key.
func (c *Collection[T]) Key() string { return c.key }

// Filename returns the base name of the backing file, used by the watcher to
// route change events.
func (c *Collection[T]) Filename() string { return filepath.Base(c.path) }

// List returns a copy of the full collection, loading it on first access.
func (c *Collection[T]) List() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	c.observe("list")
	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

// Find returns the record with the given id.
func (c *Collection[T]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	c.observe("find")
	for _, r := range c.records {
		if r.EntityID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Len reports the number of records.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	return len(c.records)
}

// Add applies the collection defaults to the record, appends it and persists.
// The returned error covers encoding failures only; a failed disk write is
// logged and the session continues on the in-memory copy.
func (c *Collection[T]) Add(record T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	c.observe("add")
	record = c.defaults(record)
	c.records = append(c.records, record)
	if err := c.persist(); err != nil {
		c.records = c.records[:len(c.records)-1]
		var zero T
		return zero, err
	}
	return record, nil
}

// Update applies mutate to the record matching id and persists. It is a no-op
// when no record matches.
func (c *Collection[T]) Update(id string, mutate func(*T)) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	c.observe("update")
	for i := range c.records {
		if c.records[i].EntityID() == id {
			mutate(&c.records[i])
			if err := c.persist(); err != nil {
				c.logger.Error("failed to encode collection after update",
					zap.String("collection", c.key), zap.Error(err))
			}
			return c.records[i], true
		}
	}
	var zero T
	return zero, false
}

// Remove filters out the record matching id and persists. It reports whether
// a record was removed.
func (c *Collection[T]) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	c.observe("remove")
	for i := range c.records {
		if c.records[i].EntityID() == id {
			c.records = append(c.records[:i], c.records[i+1:]...)
			if err := c.persist(); err != nil {
				c.logger.Error("failed to encode collection after remove",
					zap.String("collection", c.key), zap.Error(err))
			}
			return true
		}
	}
	return false
}

// Replace adopts the given records wholesale as the new in-memory state
// without writing to disk. It is used by the cross-process watcher: a change
// observed on the shared medium replaces the entire collection, it is never
// merged (last writer wins).
func (c *Collection[T]) Replace(records []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observe("replace")
	c.records = make([]T, len(records))
	copy(c.records, records)
	c.loaded = true
}

// SyncFromDisk re-reads the backing file and adopts its content. Events
// caused by this process's own last write are skipped. A missing file re-seeds
// the collection; malformed content is logged and ignored, keeping the current
// in-memory state.
func (c *Collection[T]) SyncFromDisk() {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			c.records = cloneSlice(c.seed)
			c.loaded = true
			return
		}
		c.logger.Warn("failed to re-read shared collection", zap.String("collection", c.key), zap.Error(err))
		return
	}
	if bytes.Equal(raw, c.lastPersisted) {
		return
	}
	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		c.logger.Warn("ignoring malformed shared collection update",
			zap.String("collection", c.key), zap.Error(err))
		return
	}
	c.observe("sync")
	c.records = records
	c.loaded = true
	c.lastPersisted = raw
}

// load reads the backing file into memory on first access, falling back to
// the seed fixtures when the file is absent or structurally invalid. The
// caller must hold the write lock.
func (c *Collection[T]) load() {
	if c.loaded {
		return
	}
	c.records = c.readDisk()
	c.loaded = true
}

func (c *Collection[T]) readDisk() []T {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("failed to read stored collection, using seed",
				zap.String("collection", c.key), zap.Error(err))
		}
		return cloneSlice(c.seed)
	}
	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		c.logger.Warn("stored collection is malformed, using seed",
			zap.String("collection", c.key), zap.Error(err))
		return cloneSlice(c.seed)
	}
	if records == nil {
		records = []T{}
	}
	return records
}

// persist serialises the full collection and writes it to the backing file
// via a temp file and rename. Encoding failures are returned; disk write
// failures are logged only and leave the in-memory state authoritative.
// The caller must hold the write lock.
func (c *Collection[T]) persist() error {
	data, err := json.MarshalIndent(c.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", c.key, err)
	}
	c.lastPersisted = data
	if err := c.writeFile(data); err != nil {
		c.logger.Error("failed to persist collection, continuing in memory",
			zap.String("collection", c.key), zap.Error(err))
		if c.metrics != nil {
			c.metrics.RecordPersistFailure(c.key)
		}
	}
	return nil
}

func (c *Collection[T]) writeFile(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("prepare data directory: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write collection file: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace collection file: %w", err)
	}
	return nil
}

func (c *Collection[T]) observe(op string) {
	if c.metrics != nil {
		c.metrics.ObserveStoreOp(c.key, op)
	}
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
