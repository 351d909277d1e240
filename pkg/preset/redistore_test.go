package preset

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
)

// setupTestRedis creates a test Redis client. Tests are skipped when no
// local Redis is available; tests/integration covers the Redis store
// against a containerized instance.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestRedisStore_SaveLoad(t *testing.T) {
	store := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	p := Preset{Name: "ambient-pad", Genre: "ambient", BPM: 70}
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, "ambient-pad")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Genre != "ambient" || loaded.BPM != 70 {
		t.Errorf("loaded preset = %+v", loaded)
	}
}

func TestRedisStore_Load_NotFound(t *testing.T) {
	store := NewRedisStore(setupTestRedis(t))

	_, err := store.Load(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load error = %v, want ErrNotFound", err)
	}
}

func TestRedisStore_Delete(t *testing.T) {
	store := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	if err := store.Save(ctx, Preset{Name: "x"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, "x"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := store.Load(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after Delete error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}

	ids, err := store.EnumerateIDs(ctx)
	if err != nil {
		t.Fatalf("EnumerateIDs failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("index still lists %v after delete", ids)
	}
}

func TestRedisStore_EnumerateIDs_Sorted(t *testing.T) {
	store := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	for _, name := range []string{"zulu", "alpha", "mike"} {
		if err := store.Save(ctx, Preset{Name: name}); err != nil {
			t.Fatalf("Save(%q) failed: %v", name, err)
		}
	}

	ids, err := store.EnumerateIDs(ctx)
	if err != nil {
		t.Fatalf("EnumerateIDs failed: %v", err)
	}

	want := []string{"alpha", "mike", "zulu"}
	if len(ids) != len(want) {
		t.Fatalf("EnumerateIDs = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestRedisStore_SeedBuiltins(t *testing.T) {
	store := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	seeded, err := SeedBuiltins(ctx, store)
	if err != nil {
		t.Fatalf("SeedBuiltins failed: %v", err)
	}
	if len(seeded) != len(Builtins()) {
		t.Errorf("seeded %d, want %d", len(seeded), len(Builtins()))
	}

	again, err := SeedBuiltins(ctx, store)
	if err != nil {
		t.Fatalf("reseed failed: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("reseed created %v, want nothing", again)
	}
}
