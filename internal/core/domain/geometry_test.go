package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
)

func TestBox_UnionAndIntersect(t *testing.T) {
	a := domain.Box{Min: domain.Vec3{X: -1, Y: -1, Z: 0}, Max: domain.Vec3{X: 1, Y: 1, Z: 2}}
	b := a.Translate(domain.Vec3{X: 1})

	u := a.Union(b)
	assert.InDelta(t, -1, u.Min.X, 1e-12)
	assert.InDelta(t, 2, u.Max.X, 1e-12)

	i := a.Intersect(b)
	assert.InDelta(t, 0, i.Min.X, 1e-12)
	assert.InDelta(t, 1, i.Max.X, 1e-12)
	assert.InDelta(t, 2, i.Size().Y, 1e-12)
}

func TestBoxOf(t *testing.T) {
	box := domain.BoxOf(
		domain.Vec3{X: 1, Y: -2, Z: 3},
		domain.Vec3{X: -4, Y: 5, Z: 0},
	)
	assert.Equal(t, domain.Vec3{X: -4, Y: -2, Z: 0}, box.Min)
	assert.Equal(t, domain.Vec3{X: 1, Y: 5, Z: 3}, box.Max)
}

func TestTriangleNormalAndFlip(t *testing.T) {
	tri := domain.Triangle{
		A: domain.Vec3{},
		B: domain.Vec3{X: 1},
		C: domain.Vec3{Y: 1},
	}
	n := tri.Normal()
	assert.InDelta(t, 1, n.Z, 1e-12)

	flipped := tri.Flip().Normal()
	assert.InDelta(t, -1, flipped.Z, 1e-12)
}

func TestPlaneFromString(t *testing.T) {
	for _, name := range []string{"XY", "XZ", "ZY", "ZX"} {
		plane, ok := domain.PlaneFromString(name)
		assert.True(t, ok)
		assert.Equal(t, name, plane.String())
	}
	_, ok := domain.PlaneFromString("YY")
	assert.False(t, ok)
}
