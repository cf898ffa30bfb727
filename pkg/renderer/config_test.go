package renderer

import (
	"math"
	"runtime"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.NoError(t, config.Validate())
	assert.Equal(t, 10, config.MaxDepth)
	assert.Equal(t, 2.2, config.Gamma)
	assert.False(t, config.AccumulateEmission)
	assert.Equal(t, runtime.NumCPU(), config.Workers())
	assert.InDelta(t, 16.0/9.0, config.Aspect(), 1e-12)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"no samples", func(c *Config) { c.SamplesPerPixel = 0 }},
		{"no bounces", func(c *Config) { c.MaxDepth = 0 }},
		{"negative workers", func(c *Config) { c.NumWorkers = -1 }},
		{"zero gamma", func(c *Config) { c.Gamma = 0 }},
		{"nan gamma", func(c *Config) { c.Gamma = math.NaN() }},
		{"negative tmin", func(c *Config) { c.TMin = -1 }},
		{"empty interval", func(c *Config) { c.TMax = c.TMin }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)
			err := config.Validate()
			assert.True(t, errors.Is(err, core.ErrInvalidArgument), "got %v", err)
		})
	}
}
