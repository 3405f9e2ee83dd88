package geom

import (
	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
)

// Mesh tessellates the solid into an oriented triangle soup. The result is
// memoized per node, so the six clones of a sub-fractal transform one mesh
// instead of re-tessellating the whole subtree each time.
//
// Tessellation is exact for primitives, rigid transforms, unions, and the
// convex boolean forms the pipeline produces (wedge intersections, convex
// tool cuts). Cuts decompose both sides into convex leaves, and tool walls
// are clipped to the target leaves' half spaces.
func (s *solid) Mesh() ([]domain.Triangle, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.meshOnce.Do(func() {
		s.mesh, s.meshErr = s.tessellate()
	})
	return s.mesh, s.meshErr
}

func (s *solid) tessellate() ([]domain.Triangle, error) {
	switch s.kind {
	case opExtrude:
		return prism(s.plane, s.offset, s.profile, s.depth), nil
	case opBox:
		half := s.dims.Scale(0.5)
		rect := []domain.Vec2{
			{X: -half.X, Y: -half.Y},
			{X: half.X, Y: -half.Y},
			{X: half.X, Y: half.Y},
			{X: -half.X, Y: half.Y},
		}
		return prism(domain.PlaneXY, -half.Z, rect, s.dims.Z), nil
	case opImport:
		return s.children[0].Mesh()
	case opUnion:
		return s.meshUnion()
	case opIntersect:
		return s.meshIntersect()
	case opCut:
		return s.meshCut()
	case opTranslate, opRotateZ, opRotateAxis, opMirror, opScale:
		return s.meshTransform()
	case opSplit:
		return s.meshSplit()
	default:
		return nil, s.err
	}
}

func (s *solid) meshUnion() ([]domain.Triangle, error) {
	var out []domain.Triangle
	for _, c := range s.children {
		m, err := c.Mesh()
		if err != nil {
			return nil, err
		}
		out = append(out, m...)
	}
	return out, nil
}

func (s *solid) meshIntersect() ([]domain.Triangle, error) {
	a, err := s.children[0].Mesh()
	if err != nil {
		return nil, err
	}
	b, err := s.children[1].Mesh()
	if err != nil {
		return nil, err
	}
	aPlanes := facePlanes(a)
	bPlanes := facePlanes(b)
	out := clipInside(a, bPlanes)

	// A face of b lying on a plane of a would duplicate the face a already
	// contributed there, so b only contributes faces on its own planes.
	return append(out, clipInside(dropCoplanar(b, aPlanes), aPlanes)...), nil
}

// meshCut subtracts the tool from the target. The tool decomposes into
// convex union leaves, so cutting by a union is cutting by each leaf in
// turn. The target decomposes into material regions (a convex bound minus
// previously cut holes), which bound the walls the tool leaves grow.
func (s *solid) meshCut() ([]domain.Triangle, error) {
	a, err := s.children[0].Mesh()
	if err != nil {
		return nil, err
	}
	regions, err := s.children[0].cutRegions()
	if err != nil {
		return nil, err
	}

	toolMeshes, err := s.children[1].convexLeafMeshes()
	if err != nil {
		return nil, err
	}
	toolPlanes := make([][]halfSpace, len(toolMeshes))
	for i, m := range toolMeshes {
		toolPlanes[i] = facePlanes(m)
	}

	// Target faces survive where they are strictly outside every tool leaf.
	out := a
	for _, planes := range toolPlanes {
		out = clipOutside(out, planes, false)
	}

	// Each tool leaf's faces become the walls of the slot, wound inward,
	// where they pass through target material. A tool face on a region's
	// bounding plane is the target's to keep, and a face on a plane shared
	// between two tool leaves is contributed by the lower indexed leaf.
	for i, m := range toolMeshes {
		for _, r := range regions {
			frag := clipInside(dropCoplanar(m, r.inside), r.inside)
			for _, hole := range r.holes {
				if len(frag) == 0 {
					break
				}
				frag = clipOutside(frag, hole, false)
			}
			for j, planes := range toolPlanes {
				if j != i {
					frag = clipOutside(frag, planes, j > i)
				}
			}
			for _, t := range frag {
				out = append(out, t.Flip())
			}
		}
	}
	return out, nil
}

// clipRegion is one convex piece of a solid's material: the intersection of
// the inside half spaces minus the union of the hole regions.
type clipRegion struct {
	inside []halfSpace
	holes  [][]halfSpace
}

// cutRegions decomposes the solid into material regions: unions flatten,
// transforms map the planes, splits tighten the bound, and cuts record
// their tool leaves as holes. Anything else is one convex region.
func (s *solid) cutRegions() ([]clipRegion, error) {
	switch s.kind {
	case opUnion:
		var out []clipRegion
		for _, c := range s.children {
			rs, err := c.cutRegions()
			if err != nil {
				return nil, err
			}
			out = append(out, rs...)
		}
		return out, nil
	case opImport:
		return s.children[0].cutRegions()
	case opTranslate, opRotateZ, opRotateAxis, opMirror, opScale:
		rs, err := s.children[0].cutRegions()
		if err != nil {
			return nil, err
		}
		out := make([]clipRegion, len(rs))
		for i, r := range rs {
			nr := clipRegion{inside: make([]halfSpace, len(r.inside))}
			for j, h := range r.inside {
				nr.inside[j] = s.transformPlane(h)
			}
			for _, hole := range r.holes {
				nh := make([]halfSpace, len(hole))
				for j, h := range hole {
					nh[j] = s.transformPlane(h)
				}
				nr.holes = append(nr.holes, nh)
			}
			out[i] = nr
		}
		return out, nil
	case opSplit:
		rs, err := s.children[0].cutRegions()
		if err != nil {
			return nil, err
		}
		h := halfSpace{n: domain.Vec3{Z: 1}, d: s.z}
		if !s.keepBottom {
			h = h.flip()
		}
		for i := range rs {
			rs[i].inside = append(rs[i].inside, h)
		}
		return rs, nil
	case opCut:
		rs, err := s.children[0].cutRegions()
		if err != nil {
			return nil, err
		}
		toolMeshes, err := s.children[1].convexLeafMeshes()
		if err != nil {
			return nil, err
		}
		holes := make([][]halfSpace, len(toolMeshes))
		for i, m := range toolMeshes {
			holes[i] = facePlanes(m)
		}
		for i := range rs {
			rs[i].holes = append(rs[i].holes, holes...)
		}
		return rs, nil
	default:
		m, err := s.Mesh()
		if err != nil {
			return nil, err
		}
		return []clipRegion{{inside: facePlanes(m)}}, nil
	}
}

// convexLeafMeshes decomposes the solid into the meshes of its convex
// leaves: unions flatten, transforms and splits distribute over their
// child's leaves, anything else is one leaf.
func (s *solid) convexLeafMeshes() ([][]domain.Triangle, error) {
	switch s.kind {
	case opUnion:
		var out [][]domain.Triangle
		for _, c := range s.children {
			ms, err := c.convexLeafMeshes()
			if err != nil {
				return nil, err
			}
			out = append(out, ms...)
		}
		return out, nil
	case opImport:
		return s.children[0].convexLeafMeshes()
	case opTranslate, opRotateZ, opRotateAxis, opMirror, opScale:
		ms, err := s.children[0].convexLeafMeshes()
		if err != nil {
			return nil, err
		}
		flip := s.kind == opMirror
		out := make([][]domain.Triangle, len(ms))
		for i, m := range ms {
			tm := make([]domain.Triangle, len(m))
			for j, t := range m {
				nt := domain.Triangle{
					A: s.transformPoint(t.A),
					B: s.transformPoint(t.B),
					C: s.transformPoint(t.C),
				}
				if flip {
					nt = nt.Flip()
				}
				tm[j] = nt
			}
			out[i] = tm
		}
		return out, nil
	case opSplit:
		ms, err := s.children[0].convexLeafMeshes()
		if err != nil {
			return nil, err
		}
		h := halfSpace{n: domain.Vec3{Z: 1}, d: s.z}
		if !s.keepBottom {
			h = h.flip()
		}
		out := make([][]domain.Triangle, len(ms))
		for i, m := range ms {
			out[i] = clipInside(m, []halfSpace{h})
		}
		return out, nil
	default:
		m, err := s.Mesh()
		if err != nil {
			return nil, err
		}
		return [][]domain.Triangle{m}, nil
	}
}

func (s *solid) meshTransform() ([]domain.Triangle, error) {
	m, err := s.children[0].Mesh()
	if err != nil {
		return nil, err
	}
	flip := s.kind == opMirror
	out := make([]domain.Triangle, len(m))
	for i, t := range m {
		nt := domain.Triangle{
			A: s.transformPoint(t.A),
			B: s.transformPoint(t.B),
			C: s.transformPoint(t.C),
		}
		if flip {
			nt = nt.Flip()
		}
		out[i] = nt
	}
	return out, nil
}

func (s *solid) meshSplit() ([]domain.Triangle, error) {
	m, err := s.children[0].Mesh()
	if err != nil {
		return nil, err
	}
	h := halfSpace{n: domain.Vec3{Z: 1}, d: s.z}
	if !s.keepBottom {
		h = h.flip()
	}
	return clipInside(m, []halfSpace{h}), nil
}

// prism tessellates an extruded convex profile: two fan caps plus side
// quads, normalized to outward winding via the signed volume.
func prism(plane domain.Plane, offset float64, profile []domain.Vec2, depth float64) []domain.Triangle {
	n := len(profile)
	ring0 := make([]domain.Vec3, n)
	ring1 := make([]domain.Vec3, n)
	for i, p := range profile {
		ring0[i] = mapProfilePoint(plane, p, offset)
		ring1[i] = mapProfilePoint(plane, p, offset+depth)
	}

	out := make([]domain.Triangle, 0, 4*n-4)
	// Caps.
	for i := 1; i+1 < n; i++ {
		out = append(out,
			domain.Triangle{A: ring0[0], B: ring0[i+1], C: ring0[i]},
			domain.Triangle{A: ring1[0], B: ring1[i], C: ring1[i+1]})
	}
	// Sides.
	for i := range profile {
		j := (i + 1) % n
		out = append(out,
			domain.Triangle{A: ring0[i], B: ring0[j], C: ring1[j]},
			domain.Triangle{A: ring0[i], B: ring1[j], C: ring1[i]})
	}

	if signedVolume(out) < 0 {
		for i := range out {
			out[i] = out[i].Flip()
		}
	}
	return out
}
