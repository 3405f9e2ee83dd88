package geom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/geom"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
)

func TestCodec_Roundtrip(t *testing.T) {
	k := geom.NewKernel()

	s := k.Extrude(domain.PlaneXZ, -1, square(2), 2).
		Intersect(k.Box(3, 3, 3)).
		Cut(k.Extrude(domain.PlaneXY, 0, square(0.5), 1)).
		Union(k.ImportAsset(geom.LogoAssetName).Scale(0.5)).
		RotateAxis(domain.Vec3{}, domain.Vec3{X: 1, Y: 1}, 45).
		Mirror(domain.PlaneXY).
		SplitZ(0.25, false).
		Translate(domain.Vec3{X: 1, Y: 2, Z: 3})
	require.NoError(t, s.Err())

	data, err := k.Encode(s)
	require.NoError(t, err)

	decoded, err := k.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, s.Hash(), decoded.Hash())
	assert.Equal(t, s.BoundingBox(), decoded.BoundingBox())
}

func TestCodec_DecodePerformsNoKernelWork(t *testing.T) {
	k := geom.NewKernel()

	s := k.Box(1, 1, 1).Union(k.Box(2, 2, 2)).Translate(domain.Vec3{Z: 1})
	data, err := k.Encode(s)
	require.NoError(t, err)

	k.ResetCounters()
	_, err = k.Decode(data)
	require.NoError(t, err)

	counters := k.Counters()
	assert.Zero(t, counters.Primitives)
	assert.Zero(t, counters.Booleans)
	assert.Zero(t, counters.Transforms)
}

func TestCodec_RejectsPoisonedSolid(t *testing.T) {
	k := geom.NewKernel()
	bad := k.Box(-1, 1, 1)

	_, err := k.Encode(bad)
	require.ErrorIs(t, err, domain.ErrKernel)
}

func TestCodec_CorruptData(t *testing.T) {
	k := geom.NewKernel()

	_, err := k.Decode([]byte("{not json"))
	require.Error(t, err)

	_, err = k.Decode([]byte(`{"kind":"frobnicate"}`))
	require.ErrorIs(t, err, domain.ErrCorruptArtifact)

	_, err = k.Decode([]byte(`{"kind":"import","asset":"missing"}`))
	require.ErrorIs(t, err, domain.ErrAssetNotFound)
}
