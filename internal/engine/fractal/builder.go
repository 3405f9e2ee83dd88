// Package fractal implements the recursive octahedroflake assembly: the
// pyramid, rib, and gap primitives, the order-N fractal pyramid, and the
// composition of the final printable solid. All expensive parts are built
// through the memoization store; the engine only ever holds transient
// references returned from it.
package fractal

import (
	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/ports"
)

// logoAsset is the kernel asset name of the stamped branding solid.
const logoAsset = "logo_stamp"

// Builder assembles solids for one resolved configuration. The pipeline is
// single-threaded and recursion-bound: geometric complexity roughly doubles
// per order, which is exactly why the store and the balanced unions exist.
type Builder struct {
	cfg    domain.Configuration
	kernel ports.Kernel
	store  ports.SolidStore
	logger ports.Logger
	tracer ports.Tracer
}

// NewBuilder creates a Builder for the given configuration.
func NewBuilder(
	cfg domain.Configuration,
	kernel ports.Kernel,
	store ports.SolidStore,
	logger ports.Logger,
	tracer ports.Tracer,
) *Builder {
	return &Builder{
		cfg:    cfg,
		kernel: kernel,
		store:  store,
		logger: logger,
		tracer: tracer,
	}
}

// key derives the cache key for a part of this builder's configuration.
func (b *Builder) key(kind domain.PartKind, order int) domain.PartKey {
	return domain.NewPartKey(b.cfg, kind, order)
}

// rect is a centered rectangle profile.
func rect(w, h float64) []domain.Vec2 {
	return []domain.Vec2{
		{X: -w / 2, Y: -h / 2},
		{X: w / 2, Y: -h / 2},
		{X: w / 2, Y: h / 2},
		{X: -w / 2, Y: h / 2},
	}
}
