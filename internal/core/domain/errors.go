package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidConfig is returned when the resolved configuration fails
	// validation before any geometry work starts.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrKernel is returned when a geometry kernel operation produced
	// degenerate or otherwise unusable geometry.
	ErrKernel = zerr.New("kernel operation failed")

	// ErrCorruptArtifact is reported (never returned to the caller) when a
	// persistent cache artifact cannot be decoded and is rebuilt instead.
	ErrCorruptArtifact = zerr.New("corrupt cache artifact")

	// ErrAssetNotFound is returned when a named kernel asset (such as the
	// logo stamp) has not been registered.
	ErrAssetNotFound = zerr.New("asset not found")

	// ErrExport is returned when writing an output artifact failed. This is
	// an I/O error, distinct from geometry errors: the solid itself is done.
	ErrExport = zerr.New("export failed")
)
