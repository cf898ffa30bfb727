package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

func TestNewMetal_FuzzClamp(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"mirror", 0.0, 0.0},
		{"half", 0.5, 0.5},
		{"rough", 1.0, 1.0},
		{"clamp above", 1.5, 1.0},
		{"clamp below", -0.5, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metal := NewMetal(core.NewVec3(0.8, 0.8, 0.8), tt.input)
			defer metal.Release()
			assert.Equal(t, tt.expected, metal.Fuzz())
			assert.Equal(t, Metal, metal.Kind())
		})
	}
}

func TestMetal_PerfectReflection(t *testing.T) {
	albedo := core.NewVec3(0.9, 0.8, 0.7)
	metal := NewMetal(albedo, 0)
	defer metal.Release()

	rayIn := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0, -1, -1))
	hit := &HitRecord{Point: core.Vec3{}, Normal: core.NewVec3(0, 1, 0), FrontFace: true}

	scatter, ok := metal.Scatter(rayIn, hit, core.NewSeededSampler(42))
	require.True(t, ok)

	expected := core.NewVec3(0, 1, -1).Normalize()
	assert.InDelta(t, 0, scatter.Scattered.Direction.Subtract(expected).Length(), 1e-12)
	assert.Equal(t, hit.Point, scatter.Scattered.Origin)
	assert.Equal(t, albedo, scatter.Attenuation)
}

func TestMetal_FuzzyReflectionStaysAboveSurface(t *testing.T) {
	metal := NewMetal(core.NewVec3(1, 1, 1), 0.3)
	defer metal.Release()
	sampler := core.NewSeededSampler(3)

	rayIn := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0, -1, -1))
	hit := &HitRecord{Normal: core.NewVec3(0, 1, 0), FrontFace: true}
	mirror := core.NewVec3(0, 1, -1).Normalize()

	for i := 0; i < 500; i++ {
		scatter, ok := metal.Scatter(rayIn, hit, sampler)
		if !ok {
			continue
		}
		dir := scatter.Scattered.Direction
		require.InDelta(t, 1.0, dir.Length(), 1e-9)
		require.Greater(t, dir.Dot(hit.Normal), 0.0)
		require.Less(t, dir.Subtract(mirror).Length(), 0.31)
	}
}

func TestMetal_GrazingFuzzAbsorbs(t *testing.T) {
	// A grazing ray with full fuzz is often perturbed below the surface
	metal := NewMetal(core.NewVec3(1, 1, 1), 1)
	defer metal.Release()
	sampler := core.NewSeededSampler(5)

	rayIn := core.NewRay(core.NewVec3(-1, 0.01, 0), core.NewVec3(1, -0.01, 0))
	hit := &HitRecord{Normal: core.NewVec3(0, 1, 0), FrontFace: true}

	absorbed := 0
	for i := 0; i < 200; i++ {
		if _, ok := metal.Scatter(rayIn, hit, sampler); !ok {
			absorbed++
		}
	}
	assert.Greater(t, absorbed, 0)
	assert.Less(t, absorbed, 200)
}

func TestReflect(t *testing.T) {
	tests := []struct {
		name     string
		v, n     core.Vec3
		expected core.Vec3
	}{
		{"straight down", core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0)},
		{"45 degrees", core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 0)},
		{"parallel", core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Reflect(tt.v, tt.n))
		})
	}
}
