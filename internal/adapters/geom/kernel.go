package geom

import (
	"sync"
	"sync/atomic"

	"go.trai.ch/zerr"

	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/ports"
)

// LogoAssetName is the name the builtin stamped-logo solid is registered
// under, matching what the fractal engine imports.
const LogoAssetName = "logo_stamp"

// Kernel constructs primitive solids and tracks cumulative kernel work.
// All methods are safe for concurrent use; counters are atomic because the
// store may single-flight builds onto other goroutines.
type Kernel struct {
	mu     sync.RWMutex
	assets map[string]*solid

	primitives atomic.Uint64
	booleans   atomic.Uint64
	transforms atomic.Uint64
}

var _ ports.Kernel = (*Kernel)(nil)

// NewKernel creates a kernel with the builtin logo stamp registered.
func NewKernel() *Kernel {
	k := &Kernel{assets: make(map[string]*solid)}
	k.assets[LogoAssetName] = k.builtinLogoStamp()
	return k
}

// Extrude sketches a closed convex profile on the given workplane at offset
// along the plane normal and extrudes it by depth.
func (k *Kernel) Extrude(plane domain.Plane, offset float64, profile []domain.Vec2, depth float64) ports.Solid {
	if len(profile) < 3 {
		return errSolid(k, zerr.With(zerr.Wrap(domain.ErrKernel, "profile needs at least 3 points"), "points", len(profile)))
	}
	if depth <= 0 {
		return errSolid(k, zerr.With(zerr.Wrap(domain.ErrKernel, "non-positive extrusion depth"), "depth", depth))
	}
	if plane != domain.PlaneXY && plane != domain.PlaneXZ {
		return errSolid(k, zerr.With(zerr.Wrap(domain.ErrKernel, "unsupported sketch plane"), "plane", plane.String()))
	}
	k.primitives.Add(1)
	return k.newExtrude(plane, offset, profile, depth)
}

// newExtrude builds the node without counting, for decode and builtins.
func (k *Kernel) newExtrude(plane domain.Plane, offset float64, profile []domain.Vec2, depth float64) *solid {
	pts := make([]domain.Vec2, len(profile))
	copy(pts, profile)
	return (&solid{k: k, kind: opExtrude, plane: plane, offset: offset, profile: pts, depth: depth}).finish()
}

// Box builds an axis-aligned box centered on the origin.
func (k *Kernel) Box(x, y, z float64) ports.Solid {
	if x <= 0 || y <= 0 || z <= 0 {
		return errSolid(k, zerr.Wrap(domain.ErrKernel, "non-positive box dimension"))
	}
	k.primitives.Add(1)
	return (&solid{k: k, kind: opBox, dims: domain.Vec3{X: x, Y: y, Z: z}}).finish()
}

// RegisterAsset makes a named solid available to ImportAsset. The solid
// must have been produced by this kernel.
func (k *Kernel) RegisterAsset(name string, s ports.Solid) error {
	node, ok := s.(*solid)
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrKernel, "asset from a foreign kernel"), "asset", name)
	}
	if node.err != nil {
		return node.err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.assets[name] = node
	return nil
}

// ImportAsset returns the registered solid with the given name.
func (k *Kernel) ImportAsset(name string) ports.Solid {
	k.mu.RLock()
	asset, ok := k.assets[name]
	k.mu.RUnlock()
	if !ok {
		return errSolid(k, zerr.With(zerr.Wrap(domain.ErrAssetNotFound, "no registered asset"), "asset", name))
	}
	k.primitives.Add(1)
	return (&solid{k: k, kind: opImport, asset: name, children: []*solid{asset}}).finish()
}

// Counters reports cumulative kernel work.
func (k *Kernel) Counters() ports.KernelCounters {
	return ports.KernelCounters{
		Primitives: k.primitives.Load(),
		Booleans:   k.booleans.Load(),
		Transforms: k.transforms.Load(),
	}
}

// ResetCounters zeroes the counters.
func (k *Kernel) ResetCounters() {
	k.primitives.Store(0)
	k.booleans.Store(0)
	k.transforms.Store(0)
}

// builtinLogoStamp is the fallback branding solid: a 2 mm wide, 0.4 mm tall
// extruded diamond. A richer stamp can be registered over it.
func (k *Kernel) builtinLogoStamp() *solid {
	diamond := []domain.Vec2{
		{X: 0, Y: -1},
		{X: 1, Y: 0},
		{X: 0, Y: 1},
		{X: -1, Y: 0},
	}
	return k.newExtrude(domain.PlaneXY, 0, diamond, 0.4)
}
