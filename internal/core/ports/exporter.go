package ports

// Exporter serializes finished solids to output artifacts. It is a thin I/O
// wrapper: export failures are I/O errors, separable from geometry errors.
//
//go:generate mockgen -source=exporter.go -destination=mocks/mock_exporter.go -package=mocks
type Exporter interface {
	// ExportMesh writes a printable binary STL and returns its path.
	ExportMesh(s Solid, name string) (string, error)
	// ExportGeometry writes the exact-geometry artifact and returns its
	// path.
	ExportGeometry(s Solid, name string) (string, error)
}
