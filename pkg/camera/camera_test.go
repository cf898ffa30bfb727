package camera

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

func assertVecInDelta(t *testing.T, expected, actual core.Vec3, delta float64) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, delta, "X of %v", actual)
	assert.InDelta(t, expected.Y, actual.Y, delta, "Y of %v", actual)
	assert.InDelta(t, expected.Z, actual.Z, delta, "Z of %v", actual)
}

func TestNew_DefaultBasis(t *testing.T) {
	c := New(core.Vec3{}, math.Pi/4, 1, 100, 1.5, 0)

	assertVecInDelta(t, core.NewVec3(0, 0, -1), c.Forward, 1e-12)
	assertVecInDelta(t, core.NewVec3(1, 0, 0), c.Right, 1e-12)
	assertVecInDelta(t, core.NewVec3(0, 1, 0), c.Up, 1e-12)
	assert.Equal(t, 0.0, c.DefocusRadius)
	require.NoError(t, c.Validate())
}

func TestSetForward_Orthonormal(t *testing.T) {
	tests := []struct {
		name    string
		forward core.Vec3
	}{
		{"oblique", core.NewVec3(1, -0.5, -2)},
		{"along +x", core.NewVec3(3, 0, 0)},
		{"looking slightly up", core.NewVec3(0, 0.9, 0.1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(core.NewVec3(1, 2, 3), 0.5, 1, 100, 1, 0)
			c.SetForward(tt.forward)

			assert.InDelta(t, 1, c.Forward.Length(), 1e-12)
			assert.InDelta(t, 1, c.Right.Length(), 1e-12)
			assert.InDelta(t, 1, c.Up.Length(), 1e-12)
			assert.InDelta(t, 0, c.Forward.Dot(c.Right), 1e-12)
			assert.InDelta(t, 0, c.Forward.Dot(c.Up), 1e-12)
			assert.InDelta(t, 0, c.Right.Dot(c.Up), 1e-12)
			assert.InDelta(t, 0, c.Right.Y, 1e-12, "right stays horizontal")
			assert.Greater(t, c.Up.Y, 0.0)
		})
	}
}

func TestWorldToView_RoundTrip(t *testing.T) {
	c := New(core.NewVec3(-2, 1, 4), 0.6, 0.5, 100, 1.6, 0)
	c.LookAt(core.NewVec3(3, 0, -1))

	sampler := core.NewSeededSampler(11)
	for i := 0; i < 100; i++ {
		p := sampler.Get3D().Multiply(20).Subtract(core.NewVec3(10, 10, 10))
		assertVecInDelta(t, p, c.ViewToWorld(c.WorldToView(p)), 1e-9)
	}

	// The look-at target is straight ahead
	view := c.WorldToView(core.NewVec3(3, 0, -1))
	assert.InDelta(t, 0, view.X, 1e-9)
	assert.InDelta(t, 0, view.Y, 1e-9)
	assert.Greater(t, view.Z, 0.0)
}

func TestViewportHalfExtents(t *testing.T) {
	c := New(core.Vec3{}, math.Pi/4, 2, 100, 2, 0)
	halfWidth, halfHeight := c.ViewportHalfExtents()
	assert.InDelta(t, 2.0, halfHeight, 1e-12)
	assert.InDelta(t, 4.0, halfWidth, 1e-12)
}

func TestGetRay_Corners(t *testing.T) {
	c := New(core.Vec3{}, math.Pi/4, 1, 100, 1, 0)
	sampler := core.NewSeededSampler(1)

	center := c.GetRay(0, 0, sampler)
	assertVecInDelta(t, core.NewVec3(0, 0, -1), center.Direction, 1e-12)

	// tan(pi/4) = 1, so the top-right corner is 45 degrees off axis on both axes
	corner := c.GetRay(1, 1, sampler)
	assertVecInDelta(t, core.NewVec3(1, 1, -1).Normalize(), corner.Direction, 1e-12)
	assert.Equal(t, core.Vec3{}, corner.Origin)
}

func TestDefocus(t *testing.T) {
	c := New(core.NewVec3(0, 0, 5), math.Pi/6, 2, 100, 1, math.Pi/8)
	require.InDelta(t, 2*math.Tan(math.Pi/16), c.DefocusRadius, 1e-12)

	sampler := core.NewSeededSampler(5)
	for i := 0; i < 500; i++ {
		p := c.SampleDefocusPoint(sampler)
		offset := p.Subtract(c.Position)
		assert.Less(t, offset.Length(), c.DefocusRadius)
		assert.InDelta(t, 0, offset.Dot(c.Forward), 1e-12, "lens lies in the camera plane")
	}

	// All rays for the same pixel converge at the near plane
	focus := c.ViewToWorld(core.NewVec3(0, 0, c.Near))
	for i := 0; i < 50; i++ {
		ray := c.GetRay(0, 0, sampler)
		toFocus := focus.Subtract(ray.Origin).Normalize()
		assertVecInDelta(t, toFocus, ray.Direction, 1e-9)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Camera)
	}{
		{"zero fov", func(c *Camera) { c.FOV = 0 }},
		{"fov at right angle", func(c *Camera) { c.FOV = math.Pi / 2 }},
		{"zero near", func(c *Camera) { c.Near = 0 }},
		{"far before near", func(c *Camera) { c.Far = 0.5 }},
		{"negative aspect", func(c *Camera) { c.Aspect = -1 }},
		{"nan aspect", func(c *Camera) { c.Aspect = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(core.Vec3{}, math.Pi/4, 1, 100, 1, 0)
			tt.mutate(c)
			assert.True(t, errors.Is(c.Validate(), core.ErrInvalidArgument))
		})
	}
}
