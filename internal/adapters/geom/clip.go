package geom

import (
	"math"

	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
)

const clipEps = 1e-9

// halfSpace is the region n·p <= d.
type halfSpace struct {
	n domain.Vec3
	d float64
}

func (h halfSpace) dist(p domain.Vec3) float64 {
	return h.n.Dot(p) - h.d
}

func (h halfSpace) flip() halfSpace {
	return halfSpace{n: h.n.Scale(-1), d: -h.d}
}

// facePlanes extracts the deduplicated outward face planes of a mesh. For a
// convex, consistently wound mesh the intersection of the returned half
// spaces is exactly the solid.
func facePlanes(mesh []domain.Triangle) []halfSpace {
	seen := make(map[[4]int64]struct{}, len(mesh))
	planes := make([]halfSpace, 0, 8)
	for _, t := range mesh {
		n := t.Normal().Normalize()
		if n.Norm() == 0 {
			continue
		}
		h := halfSpace{n: n, d: n.Dot(t.A)}
		key := [4]int64{quantKey(n.X), quantKey(n.Y), quantKey(n.Z), quantKey(h.d)}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		planes = append(planes, h)
	}
	return planes
}

func quantKey(v float64) int64 {
	return int64(math.Round(v * 1e6))
}

// clipPolygon keeps the part of a convex polygon inside the half space
// (Sutherland-Hodgman step).
func clipPolygon(poly []domain.Vec3, h halfSpace) []domain.Vec3 {
	if len(poly) < 3 {
		return nil
	}
	out := make([]domain.Vec3, 0, len(poly)+1)
	for i := range poly {
		cur := poly[i]
		next := poly[(i+1)%len(poly)]
		dc := h.dist(cur)
		dn := h.dist(next)
		if dc <= clipEps {
			out = append(out, cur)
		}
		if (dc < -clipEps && dn > clipEps) || (dc > clipEps && dn < -clipEps) {
			t := dc / (dc - dn)
			out = append(out, cur.Add(next.Sub(cur).Scale(t)))
		}
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

// fanTriangles triangulates a convex polygon.
func fanTriangles(poly []domain.Vec3, out []domain.Triangle) []domain.Triangle {
	for i := 1; i+1 < len(poly); i++ {
		out = append(out, domain.Triangle{A: poly[0], B: poly[i], C: poly[i+1]})
	}
	return out
}

// dropCoplanar removes triangles whose oriented face plane coincides with
// one of the given half spaces.
func dropCoplanar(mesh []domain.Triangle, planes []halfSpace) []domain.Triangle {
	seen := make(map[[4]int64]struct{}, len(planes))
	for _, h := range planes {
		seen[[4]int64{quantKey(h.n.X), quantKey(h.n.Y), quantKey(h.n.Z), quantKey(h.d)}] = struct{}{}
	}
	out := make([]domain.Triangle, 0, len(mesh))
	for _, t := range mesh {
		n := t.Normal().Normalize()
		key := [4]int64{quantKey(n.X), quantKey(n.Y), quantKey(n.Z), quantKey(n.Dot(t.A))}
		if _, ok := seen[key]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

// clipInside keeps the parts of the triangles inside every half space.
func clipInside(mesh []domain.Triangle, planes []halfSpace) []domain.Triangle {
	out := make([]domain.Triangle, 0, len(mesh))
	for _, t := range mesh {
		poly := []domain.Vec3{t.A, t.B, t.C}
		for _, h := range planes {
			poly = clipPolygon(poly, h)
			if poly == nil {
				break
			}
		}
		if poly != nil {
			out = fanTriangles(poly, out)
		}
	}
	return out
}

// clipOutside keeps the parts of the triangles outside the convex region
// described by the half spaces. A fragment survives as soon as it is
// strictly outside any one plane; only fragments inside every plane are
// discarded. Fragments lying exactly on a boundary plane are kept when
// keepOnPlane is set and treated as inside otherwise, so a shared plane is
// owned by exactly one side.
func clipOutside(mesh []domain.Triangle, planes []halfSpace, keepOnPlane bool) []domain.Triangle {
	out := make([]domain.Triangle, 0, len(mesh))
	for _, t := range mesh {
		out = splitOutside([]domain.Vec3{t.A, t.B, t.C}, planes, keepOnPlane, out)
	}
	return out
}

func splitOutside(poly []domain.Vec3, planes []halfSpace, keepOnPlane bool, out []domain.Triangle) []domain.Triangle {
	if len(poly) < 3 {
		return out
	}
	if len(planes) == 0 {
		// Inside every plane of the tool: swallowed by the cut.
		return out
	}
	h := planes[0]
	lo, hi := distRange(poly, h)
	if lo >= -clipEps && hi <= clipEps {
		// The whole fragment lies on this plane.
		if keepOnPlane {
			return fanTriangles(poly, out)
		}
		return splitOutside(poly, planes[1:], keepOnPlane, out)
	}
	if hi > clipEps {
		if outside := clipPolygon(poly, h.flip()); outside != nil {
			out = fanTriangles(outside, out)
		}
	}
	return splitOutside(clipPolygon(poly, h), planes[1:], keepOnPlane, out)
}

// distRange returns the extreme signed distances of the polygon's vertices
// from the plane.
func distRange(poly []domain.Vec3, h halfSpace) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range poly {
		d := h.dist(p)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

// signedVolume computes six times the signed volume enclosed by the mesh.
// Consistently outward-wound meshes yield a positive value.
func signedVolume(mesh []domain.Triangle) float64 {
	var v float64
	for _, t := range mesh {
		v += t.A.Dot(t.B.Cross(t.C))
	}
	return v
}
