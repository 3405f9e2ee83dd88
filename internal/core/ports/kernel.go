// Package ports defines the interfaces between the fractal engine and its
// collaborators: the geometry kernel, the memoization store, the exporter,
// and the observability surfaces.
package ports

import "github.com/nat-a-cyborg/octahedroflake/internal/core/domain"

// Solid is an opaque immutable 3D body. Every combinator returns a new
// Solid and never mutates its operands, so cached values stay valid for the
// lifetime of the store that owns them.
//
// A failed operation poisons the returned value instead of panicking: the
// poisoned Solid answers Err with the underlying kernel error and every
// further combinator propagates it. Callers check Err at cache boundaries.
type Solid interface {
	// Union returns the boolean union of the receiver and other.
	Union(other Solid) Solid
	// Intersect returns the boolean intersection of the receiver and other.
	Intersect(other Solid) Solid
	// Cut subtracts tool from the receiver.
	Cut(tool Solid) Solid
	// Translate shifts the solid by offset.
	Translate(offset domain.Vec3) Solid
	// RotateZ rotates the solid about the vertical axis through the center
	// of its bounding box.
	RotateZ(degrees float64) Solid
	// RotateAxis rotates the solid about the axis from start to end.
	RotateAxis(start, end domain.Vec3, degrees float64) Solid
	// Mirror reflects the solid across the given plane through the origin.
	Mirror(plane domain.Plane) Solid
	// Scale scales the solid uniformly about the origin.
	Scale(factor float64) Solid
	// SplitZ cuts the solid at the horizontal plane z, keeping the bottom
	// half when keepBottom is set and the top half otherwise.
	SplitZ(z float64, keepBottom bool) Solid

	// BoundingBox returns the exact axis-aligned bounds of the solid.
	BoundingBox() domain.Box
	// Hash returns a structural identity: two solids built from the same
	// operations on the same parameters hash equal.
	Hash() uint64
	// Mesh tessellates the solid into an oriented triangle soup.
	Mesh() ([]domain.Triangle, error)
	// Err reports the first operation failure in the solid's history.
	Err() error
}

// KernelCounters exposes how much work the kernel has performed, for cache
// efficiency diagnostics and tests.
type KernelCounters struct {
	Primitives uint64
	Booleans   uint64
	Transforms uint64
}

// Kernel is the consumed geometry capability: primitive construction plus
// solid persistence. Boolean and transform combinators live on Solid.
//
//go:generate mockgen -source=kernel.go -destination=mocks/mock_kernel.go -package=mocks
type Kernel interface {
	// Extrude sketches a closed convex profile on the given workplane at
	// the given offset along the plane normal and extrudes it by depth.
	Extrude(plane domain.Plane, offset float64, profile []domain.Vec2, depth float64) Solid
	// Box builds an axis-aligned box of the given dimensions centered on
	// the origin.
	Box(x, y, z float64) Solid
	// ImportAsset returns a previously registered named solid, such as the
	// stamped logo. Unknown names yield a poisoned Solid.
	ImportAsset(name string) Solid

	// Encode serializes a solid into its exact-geometry representation.
	Encode(s Solid) ([]byte, error)
	// Decode reconstructs a solid from Encode output. Decoding performs no
	// countable kernel work.
	Decode(data []byte) (Solid, error)

	// Counters reports cumulative kernel work since construction or the
	// last reset.
	Counters() KernelCounters
	// ResetCounters zeroes the counters.
	ResetCounters()
}
