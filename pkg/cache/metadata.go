package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound indicates the requested id does not exist in the backing
// store. Stores return errors wrapping this sentinel from Load so that
// callers can test with errors.Is.
var ErrNotFound = errors.New("record not found")

// Source is the backing store view the metadata cache needs: id
// enumeration and full-record loads. Load must return an error wrapping
// ErrNotFound for unknown ids; all other errors pass through the cache
// unchanged.
type Source[R any] interface {
	EnumerateIDs(ctx context.Context) ([]string, error)
	Load(ctx context.Context, id string) (R, error)
}

// Derive computes a lightweight summary from a full record. It must be
// pure: same record in, same metadata out, no side effects.
type Derive[R, M any] func(record R) M

// MetadataCache memoizes summaries derived from full records, keyed by
// record id. Entries are populated lazily on first read and removed by
// Invalidate whenever the underlying record is mutated.
//
// Generation counters fence in-flight loads against invalidation: a
// load that started before an Invalidate may have read the pre-write
// record, so its result must not land in the cache after the write
// completed.
type MetadataCache[R, M any] struct {
	source Source[R]
	derive Derive[R, M]

	mu      sync.RWMutex
	entries map[string]M
	gens    map[string]uint64
	allGen  uint64
}

// NewMetadataCache creates a metadata cache over the given source.
func NewMetadataCache[R, M any](source Source[R], derive Derive[R, M]) *MetadataCache[R, M] {
	if source == nil {
		panic("metadata cache source cannot be nil")
	}
	if derive == nil {
		panic("metadata cache derive function cannot be nil")
	}
	return &MetadataCache[R, M]{
		source:  source,
		derive:  derive,
		entries: make(map[string]M),
		gens:    make(map[string]uint64),
	}
}

// Get returns the summary for id, loading and deriving it from the
// backing store on first access. Unknown ids fail with the store's
// not-found error.
func (c *MetadataCache[R, M]) Get(ctx context.Context, id string) (M, error) {
	c.mu.RLock()
	meta, ok := c.entries[id]
	gen, allGen := c.gens[id], c.allGen
	c.mu.RUnlock()
	if ok {
		MetadataHits.Inc()
		return meta, nil
	}

	MetadataMisses.Inc()
	record, err := c.source.Load(ctx, id)
	if err != nil {
		var zero M
		return zero, err
	}

	meta = c.derive(record)

	// Only insert if no invalidation ran while the load was in flight;
	// the loaded record may predate that write. The caller still gets
	// the summary it loaded, the next Get reloads.
	c.mu.Lock()
	if c.gens[id] == gen && c.allGen == allGen {
		c.entries[id] = meta
	}
	c.mu.Unlock()

	return meta, nil
}

// List returns summaries for every id the store currently enumerates,
// in enumeration order. Cached entries are served as-is; misses are
// loaded and derived. Ids that vanish between enumeration and load are
// skipped rather than failing the whole listing.
func (c *MetadataCache[R, M]) List(ctx context.Context) ([]M, error) {
	ids, err := c.source.EnumerateIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate ids: %w", err)
	}

	out := make([]M, 0, len(ids))
	for _, id := range ids {
		meta, err := c.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %q: %w", id, err)
		}
		out = append(out, meta)
	}

	return out, nil
}

// Invalidate removes the cached summary for id. Mutating paths call this
// synchronously before their operation returns, so a read after a
// completed save or delete never observes stale metadata.
func (c *MetadataCache[R, M]) Invalidate(id string) {
	c.mu.Lock()
	delete(c.entries, id)
	c.gens[id]++
	c.mu.Unlock()

	MetadataInvalidations.WithLabelValues("key").Inc()
}

// InvalidateAll drops every cached summary. Used when the backing store
// may have changed out-of-band.
func (c *MetadataCache[R, M]) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]M)
	c.gens = make(map[string]uint64)
	c.allGen++
	c.mu.Unlock()

	MetadataInvalidations.WithLabelValues("all").Inc()
}

// Len returns the number of cached summaries.
func (c *MetadataCache[R, M]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
