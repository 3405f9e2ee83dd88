package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/config"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	params, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultParams(), params)
}

func TestLoad_PartialOverride(t *testing.T) {
	path := writeProfile(t, "iterations: 5\nlayer_height: 0.3\n")

	params, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, params.Order)
	assert.InDelta(t, 0.3, params.LayerHeight, 1e-12)
	// Untouched knobs keep their defaults.
	assert.InDelta(t, 0.4, params.NozzleDiameter, 1e-12)
	assert.True(t, params.Branded)
}

func TestLoad_SizeMultiplierClearsHeightTarget(t *testing.T) {
	path := writeProfile(t, "size_multiplier: 0.975\n")

	params, err := config.Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.975, params.SizeMultiplier, 1e-12)
	assert.Zero(t, params.ModelHeight)
}

func TestLoad_ExplicitHeightWins(t *testing.T) {
	path := writeProfile(t, "size_multiplier: 0.975\nmodel_height: 80\n")

	params, err := config.Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 80, params.ModelHeight, 1e-12)
}

func TestLoad_Flags(t *testing.T) {
	path := writeProfile(t, "branded: false\ndisk_cache: false\n")

	params, err := config.Load(path)
	require.NoError(t, err)
	assert.False(t, params.Branded)
	assert.False(t, params.DiskCache)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeProfile(t, "iterations: [not a number\n")

	_, err := config.Load(path)
	require.Error(t, err)
}
