package preset

import (
	"context"

	"github.com/klangwerk/musegen/pkg/cache"
)

// ErrNotFound indicates the requested preset does not exist. It is the
// same sentinel the metadata cache passes through, so callers can test
// a single error regardless of which layer produced it.
var ErrNotFound = cache.ErrNotFound

// Store is the persistence contract for presets. Implementations must
// return errors wrapping ErrNotFound from Load and Delete for unknown
// ids, and must be safe for concurrent use.
type Store interface {
	// EnumerateIDs returns the ids of all stored presets. Order is
	// implementation-defined but stable within a call.
	EnumerateIDs(ctx context.Context) ([]string, error)

	// Load returns the full preset record for id.
	Load(ctx context.Context, id string) (Preset, error)

	// Save persists the preset under its name, overwriting any existing
	// record.
	Save(ctx context.Context, p Preset) error

	// Delete removes the preset with the given id.
	Delete(ctx context.Context, id string) error
}
