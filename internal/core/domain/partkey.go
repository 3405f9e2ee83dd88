package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// PartKind tags the kind of solid a cache entry holds.
type PartKind string

const (
	PartSinglePyramid    PartKind = "single_pyramid"
	PartRibs             PartKind = "ribs"
	PartGaps             PartKind = "gaps"
	PartLogo             PartKind = "logo"
	PartFractalPyramid   PartKind = "fractal_pyramid"
	PartMirrorPyramid    PartKind = "mirror_pyramid"
	PartBrandedPyramid   PartKind = "branded_pyramid"
	PartUnbrandedPyramid PartKind = "unbranded_pyramid"
	PartPyramidWithBase  PartKind = "pyramid_with_base"
	PartStand            PartKind = "stand"
	PartOctahedron       PartKind = "octahedron_fractal"
)

// NoOrder marks keys for parts that are not bound to a recursion order.
const NoOrder = -1

// PartKey is the sole cache identity: the part kind, its recursion order,
// and every configuration value that affects geometry, quantized so that
// equal geometry always derives an equal key. Omitting any geometry-affecting
// value here would cause silent cross-configuration collisions.
type PartKey struct {
	Kind         PartKind
	Order        int
	EdgeSize     float64
	LayerHeight  float64
	GapSize      float64
	HeightFactor float64
	Nozzle       float64
	RibWidth     float64
	Branded      bool
}

// NewPartKey derives the cache key for a part under the given configuration.
// Pass NoOrder for parts that exist once per configuration.
func NewPartKey(cfg Configuration, kind PartKind, order int) PartKey {
	return PartKey{
		Kind:         kind,
		Order:        order,
		EdgeSize:     quantize(cfg.EdgeSize),
		LayerHeight:  quantize(cfg.LayerHeight),
		GapSize:      quantize(cfg.GapSize),
		HeightFactor: quantize(cfg.HeightFactor),
		Nozzle:       quantize(cfg.NozzleDiameter),
		RibWidth:     quantize(cfg.RibWidth),
		Branded:      cfg.Branded,
	}
}

// Encode renders the key as a readable, filesystem-safe string: the
// quantized fields in order, the branding flag, then the kind and order.
func (k PartKey) Encode() string {
	var sb strings.Builder
	for _, v := range []float64{k.EdgeSize, k.LayerHeight, k.GapSize, k.HeightFactor, k.Nozzle, k.RibWidth} {
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		sb.WriteByte('-')
	}
	sb.WriteString(strconv.FormatBool(k.Branded))
	sb.WriteByte('-')
	sb.WriteString(string(k.Kind))
	if k.Order != NoOrder {
		fmt.Fprintf(&sb, "[%d]", k.Order)
	}
	return sb.String()
}

// Digest returns the xxhash of the encoded key as a fixed-width hex string.
func (k PartKey) Digest() string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(k.Encode()))
}

// FileName is the durable artifact name for this key: readable prefix for
// traceability, digest suffix for exactness.
func (k PartKey) FileName() string {
	name := strings.NewReplacer("[", "_", "]", "").Replace(k.Encode())
	return fmt.Sprintf("%s-%s.json", name, k.Digest())
}

// quantize snaps a parameter to 1e-4 so float noise cannot split the cache.
func quantize(v float64) float64 {
	return math.Round(v*10000) / 10000
}
