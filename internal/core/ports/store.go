package ports

import (
	"context"

	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
)

// SolidStore memoizes built solids across recursive calls and re-runs. The
// store exclusively owns cached solids for the duration of the process;
// callers only ever hold transient references returned from it.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type SolidStore interface {
	// GetOrBuild returns the cached solid for key, loading it from the
	// persistent tier or invoking build exactly once on a miss. Build
	// failures are wrapped with the part kind and order of key.
	GetOrBuild(ctx context.Context, key domain.PartKey, build func() (Solid, error)) (Solid, error)

	// Flush lazily mirrors in-memory entries to the persistent tier. It is
	// called once after a run rather than on every build to avoid write
	// amplification during deep recursion.
	Flush() error

	// SetPersistent toggles the persistent tier for this run.
	SetPersistent(enabled bool)

	// Clean removes all durable artifacts.
	Clean() error
}
