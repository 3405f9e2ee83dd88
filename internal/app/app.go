// Package app implements the application layer: it orchestrates one
// generation run from resolved configuration to exported artifacts.
package app

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/zerr"

	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/export"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/ports"
	"github.com/nat-a-cyborg/octahedroflake/internal/engine/fractal"
)

// App represents the main application logic.
type App struct {
	kernel     ports.Kernel
	store      ports.SolidStore
	logger     ports.Logger
	tracer     ports.Tracer
	outputRoot string
}

// New creates a new App instance.
func New(kernel ports.Kernel, store ports.SolidStore, logger ports.Logger, tracer ports.Tracer) *App {
	return &App{
		kernel:     kernel,
		store:      store,
		logger:     logger,
		tracer:     tracer,
		outputRoot: export.DefaultRoot,
	}
}

// SetOutputRoot overrides the artifact directory root.
func (a *App) SetOutputRoot(root string) {
	a.outputRoot = root
}

// Result reports what one generation run produced.
type Result struct {
	FlakePath    string
	GeometryPath string
	PyramidPath  string
	Elapsed      time.Duration
}

// Generate builds the octahedroflake for cfg and exports the printable
// mesh, the standalone pyramid, and the exact-geometry artifact.
func (a *App) Generate(ctx context.Context, cfg domain.Configuration) (*Result, error) {
	ctx, span := a.tracer.Start(ctx, "app.generate")
	defer span.End()
	span.SetAttribute("order", cfg.Order)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a.store.SetPersistent(cfg.DiskCache)
	start := time.Now()

	a.logger.Info(fmt.Sprintf("generating order %d octahedroflake: %.2f mm wide, %d mm tall, %.2f mm edge",
		cfg.Order, cfg.FullSize(), cfg.FullHeight(), cfg.EdgeSize))

	builder := fractal.NewBuilder(cfg, a.kernel, a.store, a.logger, a.tracer)
	exporter := export.NewExporter(cfg, a.kernel, a.logger, a.outputRoot)
	result := &Result{}

	pyramid, err := builder.PyramidArtifact(ctx)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to build pyramid")
	}
	result.PyramidPath, err = exporter.ExportMesh(pyramid, export.PyramidName(cfg))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to export pyramid")
	}

	flake, err := builder.OctahedronFractal(ctx)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to build octahedroflake")
	}
	result.FlakePath, err = exporter.ExportMesh(flake, export.FlakeName(cfg))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to export octahedroflake")
	}
	result.GeometryPath, err = exporter.ExportGeometry(flake, export.FlakeName(cfg))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to export exact geometry")
	}

	if err := a.store.Flush(); err != nil {
		return nil, zerr.Wrap(err, "failed to flush part cache")
	}

	result.Elapsed = time.Since(start)
	a.logger.Info(fmt.Sprintf("run complete in %s", formatElapsed(result.Elapsed)))
	return result, nil
}

// CleanOptions selects which generated state Clean removes.
type CleanOptions struct {
	Cache  bool
	Output bool
}

// Clean removes cached parts and/or exported artifacts.
func (a *App) Clean(cfg domain.Configuration, opts CleanOptions) error {
	if opts.Cache {
		if err := a.store.Clean(); err != nil {
			return err
		}
		a.logger.Info("removed part cache")
	}
	if opts.Output {
		exporter := export.NewExporter(cfg, a.kernel, a.logger, a.outputRoot)
		if err := exporter.Clean(); err != nil {
			return err
		}
		a.logger.Info("removed output directory")
	}
	return nil
}

// formatElapsed renders a duration in the largest sensible unit.
func formatElapsed(d time.Duration) string {
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%.1f hours", d.Hours())
	case d >= time.Minute:
		return fmt.Sprintf("%.1f minutes", d.Minutes())
	default:
		return fmt.Sprintf("%.2f seconds", d.Seconds())
	}
}
