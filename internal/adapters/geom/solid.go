// Package geom implements the geometry kernel boundary as an immutable CSG
// expression kernel: solids are persistent operation trees carrying exact
// bounding boxes, structural hashes, and deferred tessellation. Booleans on
// the convex operand shapes this pipeline produces tessellate exactly; the
// expression itself is always exact and is what the persistent cache stores.
package geom

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"

	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/ports"
)

type opKind uint8

const (
	opExtrude opKind = iota
	opBox
	opImport
	opUnion
	opIntersect
	opCut
	opTranslate
	opRotateZ
	opRotateAxis
	opMirror
	opScale
	opSplit
	opError
)

var opNames = map[opKind]string{
	opExtrude:    "extrude",
	opBox:        "box",
	opImport:     "import",
	opUnion:      "union",
	opIntersect:  "intersect",
	opCut:        "cut",
	opTranslate:  "translate",
	opRotateZ:    "rotate_z",
	opRotateAxis: "rotate_axis",
	opMirror:     "mirror",
	opScale:      "scale",
	opSplit:      "split",
}

// solid is one node of the expression tree. Nodes are immutable after
// construction; the tessellated mesh is memoized per node so shared
// sub-fractals transform one mesh instead of re-tessellating it.
type solid struct {
	k    *Kernel
	kind opKind

	// extrude
	plane   domain.Plane
	offset  float64
	profile []domain.Vec2
	depth   float64

	// box
	dims domain.Vec3

	// import
	asset string

	// transforms
	move       domain.Vec3
	angle      float64
	axisStart  domain.Vec3
	axisEnd    domain.Vec3
	mirror     domain.Plane
	factor     float64
	z          float64
	keepBottom bool

	children []*solid

	bbox domain.Box
	hash uint64
	err  error

	meshOnce sync.Once
	mesh     []domain.Triangle
	meshErr  error
}

var _ ports.Solid = (*solid)(nil)

// finish computes the derived identity of a freshly constructed node.
func (s *solid) finish() *solid {
	for _, c := range s.children {
		if s.err == nil && c.err != nil {
			s.err = c.err
		}
	}
	s.bbox = s.computeBounds()
	s.hash = s.computeHash()
	return s
}

func errSolid(k *Kernel, err error) *solid {
	s := &solid{k: k, kind: opError, err: err}
	s.hash = xxhash.Sum64String(err.Error())
	return s
}

func (s *solid) computeHash() uint64 {
	d := xxhash.New()
	writeB := func(b byte) {
		_, _ = d.Write([]byte{b})
	}
	writeF := func(vs ...float64) {
		for _, v := range vs {
			_ = binary.Write(d, binary.LittleEndian, math.Float64bits(v))
		}
	}
	writeB(byte(s.kind))
	switch s.kind {
	case opExtrude:
		writeB(byte(s.plane))
		writeF(s.offset, s.depth)
		for _, p := range s.profile {
			writeF(p.X, p.Y)
		}
	case opBox:
		writeF(s.dims.X, s.dims.Y, s.dims.Z)
	case opImport:
		_, _ = d.WriteString(s.asset)
	case opTranslate:
		writeF(s.move.X, s.move.Y, s.move.Z)
	case opRotateZ:
		writeF(s.angle)
	case opRotateAxis:
		writeF(s.axisStart.X, s.axisStart.Y, s.axisStart.Z)
		writeF(s.axisEnd.X, s.axisEnd.Y, s.axisEnd.Z)
		writeF(s.angle)
	case opMirror:
		writeB(byte(s.mirror))
	case opScale:
		writeF(s.factor)
	case opSplit:
		writeF(s.z)
		if s.keepBottom {
			writeB(1)
		} else {
			writeB(0)
		}
	}
	for _, c := range s.children {
		_ = binary.Write(d, binary.LittleEndian, c.hash)
	}
	return d.Sum64()
}

func (s *solid) computeBounds() domain.Box {
	switch s.kind {
	case opExtrude:
		pts := make([]domain.Vec3, 0, len(s.profile)*2)
		for _, p := range s.profile {
			pts = append(pts,
				mapProfilePoint(s.plane, p, s.offset),
				mapProfilePoint(s.plane, p, s.offset+s.depth))
		}
		return domain.BoxOf(pts...)
	case opBox:
		h := s.dims.Scale(0.5)
		return domain.Box{Min: h.Scale(-1), Max: h}
	case opImport, opUnion, opIntersect, opCut, opTranslate, opRotateZ,
		opRotateAxis, opMirror, opScale, opSplit:
		return s.childBounds()
	default:
		return domain.Box{}
	}
}

func (s *solid) childBounds() domain.Box {
	if len(s.children) == 0 {
		return domain.Box{}
	}
	b := s.children[0].bbox
	switch s.kind {
	case opUnion:
		for _, c := range s.children[1:] {
			b = b.Union(c.bbox)
		}
		return b
	case opIntersect:
		for _, c := range s.children[1:] {
			b = b.Intersect(c.bbox)
		}
		return b
	case opCut:
		// The cut result is bounded by the positive operand.
		return b
	case opTranslate, opRotateZ, opRotateAxis, opMirror, opScale:
		corners := b.Corners()
		mapped := make([]domain.Vec3, len(corners))
		for i, c := range corners {
			mapped[i] = s.transformPoint(c)
		}
		return domain.BoxOf(mapped...)
	case opSplit:
		if s.keepBottom {
			b.Max.Z = math.Min(b.Max.Z, s.z)
		} else {
			b.Min.Z = math.Max(b.Min.Z, s.z)
		}
		if b.Max.Z < b.Min.Z {
			b.Max.Z = b.Min.Z
		}
		return b
	default:
		return b
	}
}

// transformPoint applies a transform node's mapping to a point. Only valid
// for transform kinds.
func (s *solid) transformPoint(p domain.Vec3) domain.Vec3 {
	switch s.kind {
	case opTranslate:
		return p.Add(s.move)
	case opRotateZ:
		c := s.children[0].bbox.Center()
		rad := s.angle * math.Pi / 180
		sin, cos := math.Sincos(rad)
		x, y := p.X-c.X, p.Y-c.Y
		return domain.Vec3{X: c.X + x*cos - y*sin, Y: c.Y + x*sin + y*cos, Z: p.Z}
	case opRotateAxis:
		axis := s.axisEnd.Sub(s.axisStart).Normalize()
		rad := s.angle * math.Pi / 180
		sin, cos := math.Sincos(rad)
		v := p.Sub(s.axisStart)
		// Rodrigues rotation.
		rot := v.Scale(cos).
			Add(axis.Cross(v).Scale(sin)).
			Add(axis.Scale(axis.Dot(v) * (1 - cos)))
		return rot.Add(s.axisStart)
	case opMirror:
		switch s.mirror {
		case domain.PlaneXY:
			return domain.Vec3{X: p.X, Y: p.Y, Z: -p.Z}
		case domain.PlaneZY:
			return domain.Vec3{X: -p.X, Y: p.Y, Z: p.Z}
		default: // PlaneZX, PlaneXZ
			return domain.Vec3{X: p.X, Y: -p.Y, Z: p.Z}
		}
	case opScale:
		return p.Scale(s.factor)
	default:
		return p
	}
}

// transformPlane maps a material half space through a transform node: the
// normal follows the linear part, the offset follows a point on the plane.
func (s *solid) transformPlane(h halfSpace) halfSpace {
	origin := s.transformPoint(domain.Vec3{})
	n := s.transformPoint(h.n).Sub(origin).Normalize()
	onPlane := s.transformPoint(h.n.Scale(h.d))
	return halfSpace{n: n, d: n.Dot(onPlane)}
}

// mapProfilePoint maps a 2D sketch point to model space for the supported
// workplanes. XY profiles extrude along +Z, XZ profiles along +Y.
func mapProfilePoint(plane domain.Plane, p domain.Vec2, along float64) domain.Vec3 {
	if plane == domain.PlaneXZ {
		return domain.Vec3{X: p.X, Y: along, Z: p.Y}
	}
	return domain.Vec3{X: p.X, Y: p.Y, Z: along}
}

func (s *solid) combine(kind opKind, other ports.Solid) ports.Solid {
	o, ok := other.(*solid)
	if !ok {
		return errSolid(s.k, zerr.Wrap(domain.ErrKernel, "operand from a foreign kernel"))
	}
	if s.err != nil {
		return s
	}
	if o.err != nil {
		return o
	}
	s.k.booleans.Add(1)
	return (&solid{k: s.k, kind: kind, children: []*solid{s, o}}).finish()
}

// Union returns the boolean union of s and other.
func (s *solid) Union(other ports.Solid) ports.Solid {
	return s.combine(opUnion, other)
}

// Intersect returns the boolean intersection of s and other.
func (s *solid) Intersect(other ports.Solid) ports.Solid {
	return s.combine(opIntersect, other)
}

// Cut subtracts tool from s.
func (s *solid) Cut(tool ports.Solid) ports.Solid {
	return s.combine(opCut, tool)
}

func (s *solid) transform(node *solid) ports.Solid {
	if s.err != nil {
		return s
	}
	s.k.transforms.Add(1)
	node.k = s.k
	node.children = []*solid{s}
	return node.finish()
}

// Translate shifts s by offset.
func (s *solid) Translate(offset domain.Vec3) ports.Solid {
	return s.transform(&solid{kind: opTranslate, move: offset})
}

// RotateZ rotates s about the vertical axis through its bounding box center.
func (s *solid) RotateZ(degrees float64) ports.Solid {
	return s.transform(&solid{kind: opRotateZ, angle: degrees})
}

// RotateAxis rotates s about the axis from start to end.
func (s *solid) RotateAxis(start, end domain.Vec3, degrees float64) ports.Solid {
	if end.Sub(start).Norm() == 0 {
		return errSolid(s.k, zerr.Wrap(domain.ErrKernel, "degenerate rotation axis"))
	}
	return s.transform(&solid{kind: opRotateAxis, axisStart: start, axisEnd: end, angle: degrees})
}

// Mirror reflects s across the given plane through the origin.
func (s *solid) Mirror(plane domain.Plane) ports.Solid {
	return s.transform(&solid{kind: opMirror, mirror: plane})
}

// Scale scales s uniformly about the origin. The factor must be positive.
func (s *solid) Scale(factor float64) ports.Solid {
	if factor <= 0 {
		return errSolid(s.k, zerr.With(zerr.Wrap(domain.ErrKernel, "non-positive scale factor"), "factor", factor))
	}
	return s.transform(&solid{kind: opScale, factor: factor})
}

// SplitZ cuts s at the horizontal plane z, keeping one half.
func (s *solid) SplitZ(z float64, keepBottom bool) ports.Solid {
	if s.err != nil {
		return s
	}
	s.k.booleans.Add(1)
	return (&solid{k: s.k, kind: opSplit, z: z, keepBottom: keepBottom, children: []*solid{s}}).finish()
}

// BoundingBox returns the exact axis-aligned bounds of s.
func (s *solid) BoundingBox() domain.Box {
	return s.bbox
}

// Hash returns the structural identity of s.
func (s *solid) Hash() uint64 {
	return s.hash
}

// Err reports the first operation failure in s's history.
func (s *solid) Err() error {
	return s.err
}
