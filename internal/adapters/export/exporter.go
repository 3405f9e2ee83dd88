// Package export implements the output artifact writer: binary STL for
// slicers plus the exact-geometry representation for downstream tooling.
// Artifacts are namespaced by nozzle and layer height so profiles never
// overwrite each other.
package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/zerr"

	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/ports"
)

// DefaultRoot is the output directory relative to the working directory.
const DefaultRoot = "output"

// Exporter implements ports.Exporter for one resolved configuration.
type Exporter struct {
	cfg    domain.Configuration
	kernel ports.Kernel
	logger ports.Logger
	root   string
}

var _ ports.Exporter = (*Exporter)(nil)

// NewExporter creates an exporter rooted at root.
func NewExporter(cfg domain.Configuration, kernel ports.Kernel, logger ports.Logger, root string) *Exporter {
	return &Exporter{cfg: cfg, kernel: kernel, logger: logger, root: root}
}

// Dir is the profile-specific artifact directory.
func (e *Exporter) Dir() string {
	return filepath.Join(e.root,
		fmt.Sprintf("%smm_nozzle", formatMM(e.cfg.NozzleDiameter)),
		fmt.Sprintf("%smm_layer_height", formatMM(e.cfg.LayerHeight)),
	)
}

// ExportMesh tessellates the solid and writes it as binary STL.
func (e *Exporter) ExportMesh(s ports.Solid, name string) (string, error) {
	mesh, err := s.Mesh()
	if err != nil {
		return "", zerr.Wrap(err, "failed to tessellate solid")
	}

	path := filepath.Join(e.Dir(), name+".stl")
	if err := os.MkdirAll(e.Dir(), 0o750); err != nil {
		return "", wrapExportErr(err, path)
	}
	f, err := os.Create(path) //nolint:gosec // Path derives from the numeric profile
	if err != nil {
		return "", wrapExportErr(err, path)
	}
	defer func() { _ = f.Close() }()

	if err := writeSTL(f, name, mesh); err != nil {
		return "", wrapExportErr(err, path)
	}
	if err := f.Close(); err != nil {
		return "", wrapExportErr(err, path)
	}
	e.logger.Info(fmt.Sprintf("exported %d facets to %s", len(mesh), path))
	return path, nil
}

// ExportGeometry writes the exact-geometry artifact next to the mesh.
func (e *Exporter) ExportGeometry(s ports.Solid, name string) (string, error) {
	data, err := e.kernel.Encode(s)
	if err != nil {
		return "", zerr.Wrap(err, "failed to encode solid")
	}

	path := filepath.Join(e.Dir(), name+".json")
	if err := os.MkdirAll(e.Dir(), 0o750); err != nil {
		return "", wrapExportErr(err, path)
	}
	//nolint:gosec // Path derives from the numeric profile
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", wrapExportErr(err, path)
	}
	e.logger.Info(fmt.Sprintf("exported exact geometry to %s", path))
	return path, nil
}

// Clean removes the whole output tree, every profile included.
func (e *Exporter) Clean() error {
	if err := os.RemoveAll(e.root); err != nil {
		return zerr.Wrap(err, "failed to remove output directory")
	}
	return nil
}

func wrapExportErr(err error, path string) error {
	return zerr.With(zerr.Wrap(domain.ErrExport, err.Error()), "path", path)
}

// FlakeName is the artifact base name of the full flake for cfg.
func FlakeName(cfg domain.Configuration) string {
	return removeBlanks(fmt.Sprintf("Octahedroflake-%d_%dmm_for_%smm_layer_height_and_%smm_nozzle",
		cfg.Order, cfg.FullHeight(), formatMM(cfg.LayerHeight), formatMM(cfg.NozzleDiameter)))
}

// PyramidName is the artifact base name of the standalone half model. The
// half height rounds to the nearest millimeter, so odd full heights round up.
func PyramidName(cfg domain.Configuration) string {
	half := int(math.Round(float64(cfg.FullHeight()) / 2))
	return removeBlanks(fmt.Sprintf("Sierpinski-Pyramid-%d_%dmm_for_%smm_layer_height_and_%smm_nozzle",
		cfg.Order, half, formatMM(cfg.LayerHeight), formatMM(cfg.NozzleDiameter)))
}

func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func removeBlanks(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
