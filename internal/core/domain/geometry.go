// Package domain contains the core domain model for the octahedroflake
// generator: the resolved print configuration, cache part keys, and the
// geometry value types shared between the kernel boundary and the engine.
package domain

import "math"

// Vec2 is a point in a 2D sketch profile.
type Vec2 struct {
	X float64
	Y float64
}

// Vec3 is a point or direction in model space. Units are millimeters.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by f.
func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product of v and o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Normalize() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// Triangle is a single oriented facet of a tessellated solid.
type Triangle struct {
	A Vec3
	B Vec3
	C Vec3
}

// Normal returns the (non-normalized) face normal of t following the
// right-hand winding rule.
func (t Triangle) Normal() Vec3 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A))
}

// Flip returns t with reversed winding.
func (t Triangle) Flip() Triangle {
	return Triangle{A: t.A, B: t.C, C: t.B}
}

// Plane identifies one of the canonical workplanes and mirror planes.
type Plane uint8

const (
	// PlaneXY is the horizontal plane; mirroring across it negates Z.
	PlaneXY Plane = iota
	// PlaneXZ is the front plane; mirroring across it negates Y.
	PlaneXZ
	// PlaneZY is the side plane; mirroring across it negates X.
	PlaneZY
	// PlaneZX is an alias orientation of the front plane used by rib
	// mirroring; mirroring across it negates Y.
	PlaneZX
)

// String returns the conventional two-letter name of the plane.
func (p Plane) String() string {
	switch p {
	case PlaneXY:
		return "XY"
	case PlaneXZ:
		return "XZ"
	case PlaneZY:
		return "ZY"
	case PlaneZX:
		return "ZX"
	default:
		return "??"
	}
}

// PlaneFromString parses the two-letter plane name produced by String.
func PlaneFromString(s string) (Plane, bool) {
	switch s {
	case "XY":
		return PlaneXY, true
	case "XZ":
		return PlaneXZ, true
	case "ZY":
		return PlaneZY, true
	case "ZX":
		return PlaneZX, true
	default:
		return PlaneXY, false
	}
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min Vec3
	Max Vec3
}

// Size returns the extent of the box along each axis.
func (b Box) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the geometric center of the box.
func (b Box) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Translate returns the box shifted by offset.
func (b Box) Translate(offset Vec3) Box {
	return Box{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	return Box{
		Min: Vec3{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)},
		Max: Vec3{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)},
	}
}

// Intersect returns the overlap of b and o. A degenerate (empty) box is
// returned when the operands do not overlap.
func (b Box) Intersect(o Box) Box {
	out := Box{
		Min: Vec3{math.Max(b.Min.X, o.Min.X), math.Max(b.Min.Y, o.Min.Y), math.Max(b.Min.Z, o.Min.Z)},
		Max: Vec3{math.Min(b.Max.X, o.Max.X), math.Min(b.Max.Y, o.Max.Y), math.Min(b.Max.Z, o.Max.Z)},
	}
	if out.Max.X < out.Min.X || out.Max.Y < out.Min.Y || out.Max.Z < out.Min.Z {
		c := out.Center()
		return Box{Min: c, Max: c}
	}
	return out
}

// Corners returns the eight corner points of the box.
func (b Box) Corners() [8]Vec3 {
	return [8]Vec3{
		{b.Min.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z},
		{b.Max.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z},
		{b.Max.X, b.Max.Y, b.Max.Z},
	}
}

// BoxOf returns the tightest box containing all points.
func BoxOf(points ...Vec3) Box {
	if len(points) == 0 {
		return Box{}
	}
	b := Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Min.Z = math.Min(b.Min.Z, p.Z)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
		b.Max.Z = math.Max(b.Max.Z, p.Z)
	}
	return b
}
