package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nat-a-cyborg/octahedroflake/cmd/octahedroflake/commands"
	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/cache"
	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/geom"
	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/telemetry"
	"github.com/nat-a-cyborg/octahedroflake/internal/app"
)

type nopLogger struct{}

func (nopLogger) Info(string) {}
func (nopLogger) Warn(string) {}
func (nopLogger) Error(error) {}

func newTestCLI(t *testing.T) *commands.CLI {
	t.Helper()
	kernel := geom.NewKernel()
	store := cache.NewStore(kernel, nopLogger{}, telemetry.NewNoOpTracer(), filepath.Join(t.TempDir(), "parts"))
	a := app.New(kernel, store, nopLogger{}, telemetry.NewNoOpTracer())
	a.SetOutputRoot(filepath.Join(t.TempDir(), "out"))
	return commands.New(a)
}

func TestVersionCommand(t *testing.T) {
	cli := newTestCLI(t)
	cli.SetArgs([]string{"version"})
	require.NoError(t, cli.Execute(context.Background()))
}

func TestUnknownCommand(t *testing.T) {
	cli := newTestCLI(t)
	cli.SetArgs([]string{"frobnicate"})
	require.Error(t, cli.Execute(context.Background()))
}

func TestGenerateCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	cli := newTestCLI(t)
	cli.SetArgs([]string{
		"generate",
		"--iterations", "1",
		"--size-multiplier", "1",
		"--no-branding",
		"--no-disk-cache",
		"--output", out,
		"--profile", filepath.Join(t.TempDir(), "absent.yaml"),
	})
	require.NoError(t, cli.Execute(context.Background()))

	entries, err := os.ReadDir(filepath.Join(out, "0.4mm_nozzle", "0.2mm_layer_height"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestGenerateCommand_InvalidProfile(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "flake.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("iterations: [oops\n"), 0o600))

	cli := newTestCLI(t)
	cli.SetArgs([]string{"generate", "--profile", bad})
	require.Error(t, cli.Execute(context.Background()))
}
