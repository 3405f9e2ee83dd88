package cache_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/cache"
	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/geom"
	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/telemetry"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/ports"
)

type nopLogger struct{}

func (nopLogger) Info(string) {}
func (nopLogger) Warn(string) {}
func (nopLogger) Error(error) {}

func newTestStore(t *testing.T, kernel ports.Kernel) (*cache.Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "parts")
	return cache.NewStore(kernel, nopLogger{}, telemetry.NewNoOpTracer(), dir), dir
}

func testKey(t *testing.T, kind domain.PartKind, order int) domain.PartKey {
	t.Helper()
	cfg, err := domain.Resolve(domain.Params{
		Order:          3,
		LayerHeight:    0.2,
		NozzleDiameter: 0.4,
		SizeMultiplier: 1,
	})
	require.NoError(t, err)
	return domain.NewPartKey(cfg, kind, order)
}

func TestGetOrBuild_BuildsOnce(t *testing.T) {
	kernel := geom.NewKernel()
	store, _ := newTestStore(t, kernel)
	key := testKey(t, domain.PartSinglePyramid, 0)

	var builds atomic.Int32
	build := func() (ports.Solid, error) {
		builds.Add(1)
		return kernel.Box(1, 1, 1), nil
	}

	first, err := store.GetOrBuild(context.Background(), key, build)
	require.NoError(t, err)
	second, err := store.GetOrBuild(context.Background(), key, build)
	require.NoError(t, err)

	assert.Equal(t, int32(1), builds.Load())
	assert.Equal(t, first.Hash(), second.Hash())
	assert.Equal(t, 1, store.Len())
}

func TestGetOrBuild_SingleFlight(t *testing.T) {
	kernel := geom.NewKernel()
	store, _ := newTestStore(t, kernel)
	key := testKey(t, domain.PartRibs, 1)

	var builds atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.GetOrBuild(context.Background(), key, func() (ports.Solid, error) {
				builds.Add(1)
				return kernel.Box(2, 2, 2), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), builds.Load())
}

func TestGetOrBuild_BuildErrorCarriesPartMetadata(t *testing.T) {
	kernel := geom.NewKernel()
	store, _ := newTestStore(t, kernel)
	key := testKey(t, domain.PartGaps, 2)

	wantErr := domain.ErrKernel
	_, err := store.GetOrBuild(context.Background(), key, func() (ports.Solid, error) {
		return nil, wantErr
	})
	require.ErrorIs(t, err, wantErr)

	// Failures are not cached; the next call retries the build.
	solid, err := store.GetOrBuild(context.Background(), key, func() (ports.Solid, error) {
		return kernel.Box(1, 1, 1), nil
	})
	require.NoError(t, err)
	require.NoError(t, solid.Err())
}

func TestGetOrBuild_RejectsPoisonedSolid(t *testing.T) {
	kernel := geom.NewKernel()
	store, _ := newTestStore(t, kernel)
	key := testKey(t, domain.PartLogo, domain.NoOrder)

	_, err := store.GetOrBuild(context.Background(), key, func() (ports.Solid, error) {
		return kernel.Box(-1, 1, 1), nil
	})
	require.ErrorIs(t, err, domain.ErrKernel)
	assert.Equal(t, 0, store.Len())
}

func TestFlushAndReload(t *testing.T) {
	kernel := geom.NewKernel()
	store, dir := newTestStore(t, kernel)
	key := testKey(t, domain.PartFractalPyramid, 2)

	built, err := store.GetOrBuild(context.Background(), key, func() (ports.Solid, error) {
		return kernel.Box(1, 2, 3).Union(kernel.Box(3, 2, 1)), nil
	})
	require.NoError(t, err)
	require.NoError(t, store.Flush())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// A fresh kernel and store must serve the artifact from disk without
	// performing any countable kernel work.
	kernel2 := geom.NewKernel()
	store2 := cache.NewStore(kernel2, nopLogger{}, telemetry.NewNoOpTracer(), dir)

	loaded, err := store2.GetOrBuild(context.Background(), key, func() (ports.Solid, error) {
		t.Fatal("build must not run on a warm cache")
		return nil, nil
	})
	require.NoError(t, err)

	assert.Equal(t, built.Hash(), loaded.Hash())
	counters := kernel2.Counters()
	assert.Zero(t, counters.Booleans)
	assert.Zero(t, counters.Primitives)
}

func TestCorruptArtifactIsRebuilt(t *testing.T) {
	kernel := geom.NewKernel()
	store, dir := newTestStore(t, kernel)
	key := testKey(t, domain.PartStand, 1)

	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, key.FileName()), []byte("garbage"), 0o600))

	var builds atomic.Int32
	solid, err := store.GetOrBuild(context.Background(), key, func() (ports.Solid, error) {
		builds.Add(1)
		return kernel.Box(1, 1, 1), nil
	})
	require.NoError(t, err)
	require.NoError(t, solid.Err())
	assert.Equal(t, int32(1), builds.Load())
}

func TestSetPersistent_DisablesDiskTier(t *testing.T) {
	kernel := geom.NewKernel()
	store, dir := newTestStore(t, kernel)
	store.SetPersistent(false)
	key := testKey(t, domain.PartOctahedron, 3)

	_, err := store.GetOrBuild(context.Background(), key, func() (ports.Solid, error) {
		return kernel.Box(1, 1, 1), nil
	})
	require.NoError(t, err)
	require.NoError(t, store.Flush())

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestClean(t *testing.T) {
	kernel := geom.NewKernel()
	store, dir := newTestStore(t, kernel)
	key := testKey(t, domain.PartMirrorPyramid, 3)

	_, err := store.GetOrBuild(context.Background(), key, func() (ports.Solid, error) {
		return kernel.Box(1, 1, 1), nil
	})
	require.NoError(t, err)
	require.NoError(t, store.Flush())
	require.NoError(t, store.Clean())

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
