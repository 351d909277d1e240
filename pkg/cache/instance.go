package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Keyer is implemented by configuration types that can derive a
// deterministic identity key. Two field-wise equal configurations must
// yield the same key; configurations that differ in any identity field
// must yield distinct keys.
type Keyer interface {
	Key() string
}

// Factory constructs a fresh instance for a configuration on cache miss.
// Construction may be expensive (connection setup, credential exchange);
// errors are propagated to the caller and nothing is cached.
type Factory[C Keyer, T any] func(ctx context.Context, cfg C) (T, error)

// InstanceCache memoizes expensive-to-construct instances by the key
// derived from their configuration.
//
// Concurrent GetOrCreate calls for the same key invoke the factory at
// most once; all callers receive the same instance. There is no TTL and
// no eviction: entries live until Clear.
type InstanceCache[C Keyer, T any] struct {
	factory Factory[C, T]

	mu        sync.RWMutex
	instances map[string]T

	group singleflight.Group
}

// NewInstanceCache creates an instance cache backed by the given factory.
func NewInstanceCache[C Keyer, T any](factory Factory[C, T]) *InstanceCache[C, T] {
	if factory == nil {
		panic("instance cache factory cannot be nil")
	}
	return &InstanceCache[C, T]{
		factory:   factory,
		instances: make(map[string]T),
	}
}

// GetOrCreate returns the cached instance for cfg's key, constructing it
// via the factory on first use. A factory error leaves no entry behind;
// the next call retries construction.
func (c *InstanceCache[C, T]) GetOrCreate(ctx context.Context, cfg C) (T, error) {
	key := cfg.Key()

	c.mu.RLock()
	inst, ok := c.instances[key]
	c.mu.RUnlock()
	if ok {
		InstanceHits.Inc()
		return inst, nil
	}

	// Serialize construction per key. Concurrent misses for the same key
	// share a single factory call; losers of the race receive the winner's
	// instance. The factory runs outside the map lock.
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A flight that completed between the read above and Do may have
		// already stored the instance.
		c.mu.RLock()
		inst, ok := c.instances[key]
		c.mu.RUnlock()
		if ok {
			InstanceHits.Inc()
			return inst, nil
		}

		InstanceMisses.Inc()
		created, err := c.factory(ctx, cfg)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.instances[key] = created
		InstanceEntries.Set(float64(len(c.instances)))
		c.mu.Unlock()

		return created, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return v.(T), nil
}

// Get returns the cached instance for cfg's key without constructing one.
func (c *InstanceCache[C, T]) Get(cfg C) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	inst, ok := c.instances[cfg.Key()]
	return inst, ok
}

// Len returns the number of cached instances.
func (c *InstanceCache[C, T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.instances)
}

// Clear removes all entries. Used at shutdown or explicit reset; a
// subsequent GetOrCreate constructs fresh instances. Idempotent.
func (c *InstanceCache[C, T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.instances = make(map[string]T)
	InstanceEntries.Set(0)
}
