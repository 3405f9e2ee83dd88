// Package config provides the print-profile loader for octahedroflake.
package config

import (
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
)

// DefaultFilename is the profile file looked up in the working directory.
const DefaultFilename = "flake.yaml"

// Profile represents the structure of the flake.yaml profile file. Absent
// fields fall back to the stock print profile, so a file overriding a single
// knob stays a single line.
type Profile struct {
	Iterations     *int     `yaml:"iterations"`
	LayerHeight    *float64 `yaml:"layer_height"`
	NozzleDiameter *float64 `yaml:"nozzle_diameter"`
	SizeMultiplier *float64 `yaml:"size_multiplier"`
	ModelHeight    *float64 `yaml:"model_height"`
	Branded        *bool    `yaml:"branded"`
	DiskCache      *bool    `yaml:"disk_cache"`
}

// Load reads a profile file and merges it over the default parameters. A
// missing file is not an error: the defaults describe a complete print.
func Load(path string) (domain.Params, error) {
	params := domain.DefaultParams()

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return params, nil
		}
		return domain.Params{}, zerr.Wrap(err, "failed to read profile file")
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return domain.Params{}, zerr.With(zerr.Wrap(err, "failed to parse profile file"), "path", path)
	}
	return merge(params, profile), nil
}

func merge(params domain.Params, p Profile) domain.Params {
	if p.Iterations != nil {
		params.Order = *p.Iterations
	}
	if p.LayerHeight != nil {
		params.LayerHeight = *p.LayerHeight
	}
	if p.NozzleDiameter != nil {
		params.NozzleDiameter = *p.NozzleDiameter
	}
	if p.SizeMultiplier != nil {
		params.SizeMultiplier = *p.SizeMultiplier
		// An explicit multiplier replaces the default height target instead
		// of fighting it during resolution.
		if p.ModelHeight == nil {
			params.ModelHeight = 0
		}
	}
	if p.ModelHeight != nil {
		params.ModelHeight = *p.ModelHeight
	}
	if p.Branded != nil {
		params.Branded = *p.Branded
	}
	if p.DiskCache != nil {
		params.DiskCache = *p.DiskCache
	}
	return params
}
