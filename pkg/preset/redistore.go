package preset

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

// Redis keys for preset storage.
const (
	redisKeyPrefix = "musegen:preset:"
	redisKeyIndex  = "musegen:presets"
)

// RedisStore persists presets in Redis, for deployments where service
// instances do not share a filesystem. Records are stored as YAML payloads
// under one key per preset, with a set index for enumeration.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a Redis-backed preset store.
func NewRedisStore(redisClient *redis.Client) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{redis: redisClient}
}

// EnumerateIDs returns all preset ids in sorted order. The index set is
// unordered; sorting keeps enumeration stable across calls.
func (s *RedisStore) EnumerateIDs(ctx context.Context) ([]string, error) {
	ids, err := s.redis.SMembers(ctx, redisKeyIndex).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Load returns the preset stored under id.
func (s *RedisStore) Load(ctx context.Context, id string) (Preset, error) {
	data, err := s.redis.Get(ctx, redisKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return Preset{}, fmt.Errorf("preset %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return Preset{}, fmt.Errorf("redis get: %w", err)
	}

	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("parse preset %q: %w", id, err)
	}

	return p, nil
}

// Save stores the preset and adds it to the index atomically.
func (s *RedisStore) Save(ctx context.Context, p Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal preset %q: %w", p.Name, err)
	}

	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, redisKeyPrefix+p.Name, data, 0)
	pipe.SAdd(ctx, redisKeyIndex, p.Name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save preset %q: %w", p.Name, err)
	}

	return nil
}

// Delete removes the preset and its index entry atomically.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	// Existence check first so deletes of unknown ids surface ErrNotFound.
	exists, err := s.redis.Exists(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("redis exists: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("preset %q: %w", id, ErrNotFound)
	}

	pipe := s.redis.TxPipeline()
	pipe.Del(ctx, redisKeyPrefix+id)
	pipe.SRem(ctx, redisKeyIndex, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis delete preset %q: %w", id, err)
	}

	return nil
}
