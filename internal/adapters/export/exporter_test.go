package export_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/export"
	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/geom"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string) {}
func (nopLogger) Warn(string) {}
func (nopLogger) Error(error) {}

func testConfig(t *testing.T) domain.Configuration {
	t.Helper()
	cfg, err := domain.Resolve(domain.Params{
		Order:          3,
		LayerHeight:    0.2,
		NozzleDiameter: 0.4,
		SizeMultiplier: 1,
	})
	require.NoError(t, err)
	return cfg
}

func TestArtifactNames(t *testing.T) {
	cfg := testConfig(t)

	// edge 1.6, full size 12.8, full height ceil(12.8 * 0.7071 * 2) = 19.
	// The standalone half rounds 9.5 up to 10 rather than truncating.
	assert.Equal(t,
		"Octahedroflake-3_19mm_for_0.2mm_layer_height_and_0.4mm_nozzle",
		export.FlakeName(cfg))
	assert.Equal(t,
		"Sierpinski-Pyramid-3_10mm_for_0.2mm_layer_height_and_0.4mm_nozzle",
		export.PyramidName(cfg))
}

func TestExporterDir_NamespacedByProfile(t *testing.T) {
	cfg := testConfig(t)
	e := export.NewExporter(cfg, geom.NewKernel(), nopLogger{}, "out")

	assert.Equal(t, filepath.Join("out", "0.4mm_nozzle", "0.2mm_layer_height"), e.Dir())
}

func TestExportMesh_WritesBinarySTL(t *testing.T) {
	cfg := testConfig(t)
	kernel := geom.NewKernel()
	root := t.TempDir()
	e := export.NewExporter(cfg, kernel, nopLogger{}, root)

	solid := kernel.Box(2, 2, 2)
	path, err := e.ExportMesh(solid, "cube")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// 80 byte header, facet count, 50 bytes per facet. A box is 12 facets.
	require.Len(t, data, 84+12*50)
	count := uint32(data[80]) | uint32(data[81])<<8 | uint32(data[82])<<16 | uint32(data[83])<<24
	assert.Equal(t, uint32(12), count)
}

func TestExportGeometry_Roundtrips(t *testing.T) {
	cfg := testConfig(t)
	kernel := geom.NewKernel()
	e := export.NewExporter(cfg, kernel, nopLogger{}, t.TempDir())

	solid := kernel.Box(1, 2, 3).Union(kernel.Box(3, 2, 1)).Translate(domain.Vec3{Z: 5})
	path, err := e.ExportGeometry(solid, "flake")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	decoded, err := kernel.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, solid.Hash(), decoded.Hash())
}

func TestExportMesh_PoisonedSolidFails(t *testing.T) {
	cfg := testConfig(t)
	kernel := geom.NewKernel()
	e := export.NewExporter(cfg, kernel, nopLogger{}, t.TempDir())

	_, err := e.ExportMesh(kernel.Box(-1, 1, 1), "bad")
	require.ErrorIs(t, err, domain.ErrKernel)
}

func TestClean(t *testing.T) {
	cfg := testConfig(t)
	kernel := geom.NewKernel()
	root := filepath.Join(t.TempDir(), "out")
	e := export.NewExporter(cfg, kernel, nopLogger{}, root)

	_, err := e.ExportMesh(kernel.Box(1, 1, 1), "cube")
	require.NoError(t, err)
	require.NoError(t, e.Clean())

	_, err = os.Stat(root)
	assert.True(t, os.IsNotExist(err))
}
