package preset

import (
	"context"

	"github.com/klangwerk/musegen/pkg/cache"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Manager composes a Store with a metadata cache and keeps the two
// consistent: every mutating operation invalidates the affected cache
// entry before it returns, so a read issued after a completed Save or
// Delete always reflects the new store state.
type Manager struct {
	store  Store
	meta   *cache.MetadataCache[Preset, Metadata]
	logger zerolog.Logger
}

// NewManager creates a manager over the given store.
func NewManager(store Store) *Manager {
	return &Manager{
		store:  store,
		meta:   cache.NewMetadataCache(store, MetadataOf),
		logger: log.With().Str("component", "preset-manager").Logger(),
	}
}

// Get returns the full preset record. Full records are always read from
// the store; only the derived summaries are cached.
func (m *Manager) Get(ctx context.Context, id string) (Preset, error) {
	return m.store.Load(ctx, id)
}

// Metadata returns the cached summary for id.
func (m *Manager) Metadata(ctx context.Context, id string) (Metadata, error) {
	return m.meta.Get(ctx, id)
}

// List returns summaries for every stored preset in enumeration order.
func (m *Manager) List(ctx context.Context) ([]Metadata, error) {
	return m.meta.List(ctx)
}

// Save persists the preset and invalidates its cached summary. The
// invalidation happens before Save returns: no caller can observe stale
// metadata after a completed write.
func (m *Manager) Save(ctx context.Context, p Preset) error {
	if err := m.store.Save(ctx, p); err != nil {
		return err
	}
	m.meta.Invalidate(p.Name)

	m.logger.Debug().Str("preset", p.Name).Msg("Preset saved")
	return nil
}

// Delete removes the preset and invalidates its cached summary.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.meta.Invalidate(id)

	m.logger.Debug().Str("preset", id).Msg("Preset deleted")
	return nil
}

// Refresh drops all cached summaries. Used when the backing store may
// have changed out-of-band (another process writing the directory).
func (m *Manager) Refresh() {
	m.meta.InvalidateAll()
}

// Seed ensures the builtin presets exist, without overwriting
// user-modified records. Returns the ids that were created.
func (m *Manager) Seed(ctx context.Context) ([]string, error) {
	return SeedBuiltins(ctx, m.store)
}
