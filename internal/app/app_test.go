package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/cache"
	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/geom"
	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/telemetry"
	"github.com/nat-a-cyborg/octahedroflake/internal/app"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string) {}
func (nopLogger) Warn(string) {}
func (nopLogger) Error(error) {}

func newTestApp(t *testing.T) (*app.App, string) {
	t.Helper()
	kernel := geom.NewKernel()
	store := cache.NewStore(kernel, nopLogger{}, telemetry.NewNoOpTracer(), filepath.Join(t.TempDir(), "parts"))
	a := app.New(kernel, store, nopLogger{}, telemetry.NewNoOpTracer())
	out := filepath.Join(t.TempDir(), "out")
	a.SetOutputRoot(out)
	return a, out
}

func testConfig(t *testing.T, order int) domain.Configuration {
	t.Helper()
	cfg, err := domain.Resolve(domain.Params{
		Order:          order,
		LayerHeight:    0.2,
		NozzleDiameter: 0.4,
		SizeMultiplier: 1,
		DiskCache:      true,
	})
	require.NoError(t, err)
	return cfg
}

func TestGenerate_ProducesArtifacts(t *testing.T) {
	a, _ := newTestApp(t)

	result, err := a.Generate(context.Background(), testConfig(t, 1))
	require.NoError(t, err)

	for _, path := range []string{result.FlakePath, result.PyramidPath, result.GeometryPath} {
		info, err := os.Stat(path)
		require.NoError(t, err, "missing artifact %s", path)
		assert.Positive(t, info.Size())
	}
	assert.Contains(t, result.FlakePath, "0.4mm_nozzle")
	assert.Contains(t, result.FlakePath, "0.2mm_layer_height")
}

func TestGenerate_InvalidConfig(t *testing.T) {
	a, _ := newTestApp(t)

	cfg := testConfig(t, 1)
	cfg.LayerHeight = 0
	_, err := a.Generate(context.Background(), cfg)
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestClean_RemovesOutput(t *testing.T) {
	a, out := newTestApp(t)
	cfg := testConfig(t, 1)

	_, err := a.Generate(context.Background(), cfg)
	require.NoError(t, err)

	require.NoError(t, a.Clean(cfg, app.CleanOptions{Cache: true, Output: true}))
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}
