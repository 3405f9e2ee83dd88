package domain

import (
	"math"

	"go.trai.ch/zerr"
)

// Geometry constants shared by every build. HeightFactor relates the edge
// length of a square-base right pyramid to its height.
const (
	DefaultGapSize      = 0.01
	DefaultHeightFactor = 0.7071
	BaseSlabThickness   = 0.2
)

// Params carries the raw user-supplied knobs before resolution. Exactly one
// of SizeMultiplier or ModelHeight drives the edge size; when both are set,
// ModelHeight wins.
type Params struct {
	Order          int     `yaml:"iterations"`
	LayerHeight    float64 `yaml:"layer_height"`
	NozzleDiameter float64 `yaml:"nozzle_diameter"`
	SizeMultiplier float64 `yaml:"size_multiplier"`
	ModelHeight    float64 `yaml:"model_height"`
	Branded        bool    `yaml:"branded"`
	DiskCache      bool    `yaml:"disk_cache"`
}

// DefaultParams returns the stock print profile: a 60 mm flake at three
// recursion orders for a 0.4 mm nozzle and 0.2 mm layers.
func DefaultParams() Params {
	return Params{
		Order:          3,
		LayerHeight:    0.2,
		NozzleDiameter: 0.4,
		ModelHeight:    60,
		Branded:        true,
		DiskCache:      true,
	}
}

// Configuration is the immutable set of numeric parameters resolved once at
// startup. Every geometry-affecting value lives here and participates in
// cache key derivation.
type Configuration struct {
	Order          int
	LayerHeight    float64
	NozzleDiameter float64
	EdgeSize       float64
	GapSize        float64
	RibWidth       float64
	HeightFactor   float64
	Branded        bool
	DiskCache      bool
}

// Resolve derives the full Configuration from raw parameters and validates
// it. The edge size comes from the size multiplier (edge = 4·nozzle·mult);
// a requested model height is converted to the multiplier that makes the
// full bipyramid that tall.
func Resolve(p Params) (Configuration, error) {
	mult := p.SizeMultiplier
	if p.ModelHeight > 0 {
		baseline := math.Pow(2, float64(p.Order)) * p.NozzleDiameter * 4 * DefaultHeightFactor * 2
		if baseline > 0 {
			mult = p.ModelHeight / baseline
		}
	}
	if mult == 0 {
		mult = 1
	}

	cfg := Configuration{
		Order:          p.Order,
		LayerHeight:    p.LayerHeight,
		NozzleDiameter: p.NozzleDiameter,
		EdgeSize:       p.NozzleDiameter * 4 * mult,
		GapSize:        DefaultGapSize,
		RibWidth:       p.NozzleDiameter * 2,
		HeightFactor:   DefaultHeightFactor,
		Branded:        p.Branded,
		DiskCache:      p.DiskCache,
	}
	if err := cfg.Validate(); err != nil {
		return Configuration{}, err
	}
	return cfg, nil
}

// Validate fails fast on parameters that would produce degenerate geometry.
func (c Configuration) Validate() error {
	switch {
	case c.Order < 0:
		return invalidConfig("order", c.Order)
	case c.LayerHeight <= 0:
		return invalidConfig("layer_height", c.LayerHeight)
	case c.NozzleDiameter <= 0:
		return invalidConfig("nozzle_diameter", c.NozzleDiameter)
	case c.EdgeSize <= 0:
		return invalidConfig("edge_size", c.EdgeSize)
	case c.GapSize <= 0:
		return invalidConfig("gap_size", c.GapSize)
	case c.HeightFactor <= 0:
		return invalidConfig("height_factor", c.HeightFactor)
	}
	return nil
}

// invalidConfig wraps the sentinel so errors.Is still matches it, then
// attaches the offending field and value as metadata.
func invalidConfig(field string, value any) error {
	err := zerr.With(zerr.Wrap(ErrInvalidConfig, "invalid "+field), "field", field)
	return zerr.With(err, "value", value)
}

// PyramidHeight is the height of the order-0 pyramid body above its fusing
// lip, rounded to hundredths so cache keys stay stable across platforms.
func (c Configuration) PyramidHeight() float64 {
	return Round2(c.EdgeSize * c.HeightFactor)
}

// CombinedHeight is the pyramid height plus the one-layer fusing lip.
func (c Configuration) CombinedHeight() float64 {
	return c.PyramidHeight() + c.LayerHeight
}

// GapHeight is the extrusion height of the clearance cut between clones.
func (c Configuration) GapHeight() float64 {
	return c.LayerHeight + c.GapSize*c.HeightFactor
}

// FullSize is the horizontal extent of the final-order fractal pyramid.
func (c Configuration) FullSize() float64 {
	return math.Pow(2, float64(c.Order)) * c.EdgeSize
}

// FullHeight is the overall height of the assembled bipyramid in whole
// millimeters, used in artifact names.
func (c Configuration) FullHeight() int {
	return int(math.Ceil(c.FullSize() * c.HeightFactor * 2))
}

// ScaleFactor returns 2^order as a float.
func ScaleFactor(order int) float64 {
	return math.Pow(2, float64(order))
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
