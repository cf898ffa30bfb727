package renderer

import (
	"math"
	"runtime"

	"github.com/pkg/errors"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// Config contains rendering configuration
type Config struct {
	Width           int     // Image width in pixels
	Height          int     // Image height in pixels
	SamplesPerPixel int     // Number of rays per pixel
	MaxDepth        int     // Maximum number of bounces before a path returns black
	NumWorkers      int     // Number of row bands rendered in parallel, 0 = runtime.NumCPU()
	Gamma           float64 // Output encoding exponent, pixels are raised to 1/Gamma
	Seed            int64   // Master seed; each band derives its own stream from it
	TMin            float64 // Minimum hit distance, avoids self-intersection
	TMax            float64 // Maximum hit distance

	// AccumulateEmission adds the light emitted by hit surfaces to the path.
	// When false, emitters act as black absorbers and only the sky lights the scene.
	AccumulateEmission bool
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:           1920,
		Height:          1080,
		SamplesPerPixel: 32,
		MaxDepth:        10,
		NumWorkers:      0,
		Gamma:           2.2,
		Seed:            42,
		TMin:            0.001,
		TMax:            math.Inf(1),
	}
}

// Aspect returns width / height
func (c Config) Aspect() float64 {
	return float64(c.Width) / float64(c.Height)
}

// Workers returns the effective number of parallel bands
func (c Config) Workers() int {
	n := c.NumWorkers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return n
}

// Validate checks every field
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return errors.Wrapf(core.ErrInvalidArgument, "image size %dx%d", c.Width, c.Height)
	case c.SamplesPerPixel <= 0:
		return errors.Wrapf(core.ErrInvalidArgument, "samples per pixel %d", c.SamplesPerPixel)
	case c.MaxDepth <= 0:
		return errors.Wrapf(core.ErrInvalidArgument, "max depth %d", c.MaxDepth)
	case c.NumWorkers < 0:
		return errors.Wrapf(core.ErrInvalidArgument, "worker count %d", c.NumWorkers)
	case !(c.Gamma > 0) || math.IsInf(c.Gamma, 0):
		return errors.Wrapf(core.ErrInvalidArgument, "gamma %v", c.Gamma)
	case !(c.TMin >= 0) || !(c.TMax > c.TMin):
		return errors.Wrapf(core.ErrInvalidArgument, "hit interval [%v, %v]", c.TMin, c.TMax)
	}
	return nil
}
