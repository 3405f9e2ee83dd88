package geom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/geom"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
)

// meshVolume sums the signed tetrahedron volumes of a closed oriented mesh.
func meshVolume(mesh []domain.Triangle) float64 {
	var v float64
	for _, t := range mesh {
		v += t.A.Dot(t.B.Cross(t.C)) / 6
	}
	return v
}

func TestMesh_BoxVolume(t *testing.T) {
	k := geom.NewKernel()

	mesh, err := k.Box(2, 3, 4).Mesh()
	require.NoError(t, err)

	assert.Len(t, mesh, 12)
	assert.InDelta(t, 24, meshVolume(mesh), 1e-9)
}

func TestMesh_IntersectionVolume(t *testing.T) {
	k := geom.NewKernel()

	a := k.Box(2, 2, 2)
	b := k.Box(2, 2, 2).Translate(domain.Vec3{X: 1})

	mesh, err := a.Intersect(b).Mesh()
	require.NoError(t, err)
	assert.InDelta(t, 4, meshVolume(mesh), 1e-9)
}

func TestMesh_CutVolume(t *testing.T) {
	k := geom.NewKernel()

	a := k.Box(2, 2, 2)
	tool := k.Box(2, 2, 2).Translate(domain.Vec3{X: 1})

	mesh, err := a.Cut(tool).Mesh()
	require.NoError(t, err)
	assert.InDelta(t, 4, meshVolume(mesh), 1e-9)
}

func TestMesh_CutWithUnionToolVolume(t *testing.T) {
	k := geom.NewKernel()

	// Two crossed slabs cut a through slot in both directions:
	// 100 - (5 + 5 - 0.25) = 90.25.
	plate := k.Box(10, 10, 1)
	slots := k.Box(10, 0.5, 1).Union(k.Box(0.5, 10, 1))

	mesh, err := plate.Cut(slots).Mesh()
	require.NoError(t, err)
	assert.InDelta(t, 90.25, meshVolume(mesh), 1e-9)
}

func TestMesh_CutWithTranslatedUnionTargetVolume(t *testing.T) {
	k := geom.NewKernel()

	// The cut target is itself a translated union, the shape the assembler
	// produces before cutting clearance gaps.
	row := k.Box(2, 2, 2).
		Union(k.Box(2, 2, 2).Translate(domain.Vec3{X: 2})).
		Translate(domain.Vec3{Z: 1})
	slot := k.Box(0.5, 2, 2).Translate(domain.Vec3{Z: 1})

	mesh, err := row.Cut(slot).Mesh()
	require.NoError(t, err)
	assert.InDelta(t, 14, meshVolume(mesh), 1e-9)
}

func TestMesh_CutTangentToolLeavesVolume(t *testing.T) {
	k := geom.NewKernel()

	// A tool that only touches the top face removes nothing.
	a := k.Box(2, 2, 2)
	tool := k.Box(2, 2, 2).Translate(domain.Vec3{Z: 2})

	mesh, err := a.Cut(tool).Mesh()
	require.NoError(t, err)
	assert.InDelta(t, 8, meshVolume(mesh), 1e-9)
}

func TestMesh_SplitVolume(t *testing.T) {
	k := geom.NewKernel()

	mesh, err := k.Box(2, 2, 2).SplitZ(0, true).Mesh()
	require.NoError(t, err)
	assert.InDelta(t, 4, meshVolume(mesh), 1e-9)
}

func TestMesh_WedgeIntersectionMakesPyramid(t *testing.T) {
	k := geom.NewKernel()

	// A triangular wedge intersected with its own 90 degree rotation is a
	// square pyramid: base 2 x 2, height 1, volume 4/3.
	profile := []domain.Vec2{{X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	wedge := k.Extrude(domain.PlaneXZ, -1, profile, 2)
	pyramid := wedge.Intersect(wedge.RotateZ(90))

	mesh, err := pyramid.Mesh()
	require.NoError(t, err)
	assert.InDelta(t, 4.0/3.0, meshVolume(mesh), 1e-9)

	box := pyramid.BoundingBox()
	assert.InDelta(t, 2, box.Size().X, 1e-12)
	assert.InDelta(t, 2, box.Size().Y, 1e-12)
	assert.InDelta(t, 1, box.Size().Z, 1e-12)
}

func TestMesh_TransformPreservesVolume(t *testing.T) {
	k := geom.NewKernel()
	s := k.Box(1, 2, 3).
		Translate(domain.Vec3{X: 4, Y: -1}).
		RotateAxis(domain.Vec3{}, domain.Vec3{X: 1, Y: 1}, 45).
		Mirror(domain.PlaneZY)

	mesh, err := s.Mesh()
	require.NoError(t, err)
	assert.InDelta(t, 6, meshVolume(mesh), 1e-9)
}

func TestMesh_Memoized(t *testing.T) {
	k := geom.NewKernel()
	s := k.Box(1, 1, 1).Union(k.Box(2, 2, 2))

	first, err := s.Mesh()
	require.NoError(t, err)
	second, err := s.Mesh()
	require.NoError(t, err)
	assert.Equal(t, &first[0], &second[0])
}
