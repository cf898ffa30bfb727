// Package config loads render presets from TOML files.
package config

import (
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
)

// Preset holds optional render settings. Keys left out of the file keep the
// value of the configuration the preset is applied to.
//
//	width = 800
//	height = 450
//	samples_per_pixel = 64
//	max_depth = 12
//	workers = 8
//	seed = 7
//	gamma = 2.2
//	accumulate_emission = true
//	scene = "cornell"
//	output = "renders/cornell.png"
type Preset struct {
	Width              *int     `toml:"width"`
	Height             *int     `toml:"height"`
	SamplesPerPixel    *int     `toml:"samples_per_pixel"`
	MaxDepth           *int     `toml:"max_depth"`
	Workers            *int     `toml:"workers"`
	Seed               *int64   `toml:"seed"`
	Gamma              *float64 `toml:"gamma"`
	TMin               *float64 `toml:"t_min"`
	AccumulateEmission *bool    `toml:"accumulate_emission"`

	Scene  string `toml:"scene,omitempty"`
	Output string `toml:"output,omitempty"`
}

// Parse decodes a preset. Unknown keys are rejected.
func Parse(reader io.Reader) (*Preset, error) {
	var preset Preset
	decoder := toml.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&preset); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return nil, errors.Errorf("unknown preset keys:\n%s", strictErr.String())
		}
		return nil, errors.Wrap(err, "failed to decode preset")
	}
	return &preset, nil
}

// Load reads a preset file
func Load(filename string) (*Preset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open preset")
	}
	defer file.Close()

	preset, err := Parse(file)
	return preset, errors.Wrapf(err, "%s", filename)
}

// Apply returns config with every value set in the preset replaced. The
// result is validated.
func (p *Preset) Apply(config renderer.Config) (renderer.Config, error) {
	setInt(&config.Width, p.Width)
	setInt(&config.Height, p.Height)
	setInt(&config.SamplesPerPixel, p.SamplesPerPixel)
	setInt(&config.MaxDepth, p.MaxDepth)
	setInt(&config.NumWorkers, p.Workers)
	if p.Seed != nil {
		config.Seed = *p.Seed
	}
	if p.Gamma != nil {
		config.Gamma = *p.Gamma
	}
	if p.TMin != nil {
		config.TMin = *p.TMin
	}
	if p.AccumulateEmission != nil {
		config.AccumulateEmission = *p.AccumulateEmission
	}

	return config, config.Validate()
}

// Encode writes the full configuration as a preset
func Encode(w io.Writer, config renderer.Config) error {
	preset := Preset{
		Width:              &config.Width,
		Height:             &config.Height,
		SamplesPerPixel:    &config.SamplesPerPixel,
		MaxDepth:           &config.MaxDepth,
		Workers:            &config.NumWorkers,
		Seed:               &config.Seed,
		Gamma:              &config.Gamma,
		TMin:               &config.TMin,
		AccumulateEmission: &config.AccumulateEmission,
	}
	return errors.Wrap(toml.NewEncoder(w).Encode(preset), "failed to encode preset")
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
