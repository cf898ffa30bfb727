package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	assert.Equal(t, NewVec3(5, -3, 9), a.Add(b))
	assert.Equal(t, NewVec3(-3, 7, -3), a.Subtract(b))
	assert.Equal(t, NewVec3(2, 4, 6), a.Multiply(2))
	assert.Equal(t, NewVec3(0.5, 1, 1.5), a.Divide(2))
	assert.Equal(t, NewVec3(4, -10, 18), a.MultiplyVec(b))
	assert.Equal(t, 12.0, a.Dot(b))
	assert.Equal(t, NewVec3(27, 6, -13), a.Cross(b))
	assert.Equal(t, NewVec3(-1, -2, -3), a.Negate())
	assert.Equal(t, 14.0, a.LengthSquared())
	assert.Equal(t, 6.0, b.MaxComponent())
}

func TestVec3_CrossIsOrthogonal(t *testing.T) {
	a := NewVec3(0.3, -1.2, 2)
	b := NewVec3(-4, 0.5, 0.25)
	c := a.Cross(b)
	assert.InDelta(t, 0, c.Dot(a), 1e-12)
	assert.InDelta(t, 0, c.Dot(b), 1e-12)
	assert.Equal(t, NewVec3(0, 0, 1), NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)))
}

func TestVec3_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		input    Vec3
		expected Vec3
	}{
		{"axis", NewVec3(0, 0, -5), NewVec3(0, 0, -1)},
		{"diagonal", NewVec3(3, 4, 0), NewVec3(0.6, 0.8, 0)},
		{"zero stays zero", Vec3{}, Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.input.Normalize()
			assert.InDelta(t, tt.expected.X, n.X, 1e-12)
			assert.InDelta(t, tt.expected.Y, n.Y, 1e-12)
			assert.InDelta(t, tt.expected.Z, n.Z, 1e-12)
		})
	}
}

func TestVec3_IsNearZero(t *testing.T) {
	assert.True(t, NewVec3(1e-9, -1e-9, 0).IsNearZero())
	assert.False(t, NewVec3(1e-9, 1e-7, 0).IsNearZero())
}

func TestVec3_ClampAndGamma(t *testing.T) {
	assert.Equal(t, NewVec3(0, 0.5, 1), NewVec3(-2, 0.5, 3).Clamp(0, 1))

	g := NewVec3(0.25, 1, 0).GammaCorrect(2)
	assert.InDelta(t, 0.5, g.X, 1e-12)
	assert.Equal(t, 1.0, g.Y)
	assert.Equal(t, 0.0, g.Z)
}

func TestVec3_AxisAndLerp(t *testing.T) {
	v := NewVec3(7, 8, 9)
	assert.Equal(t, 7.0, v.Axis(0))
	assert.Equal(t, 8.0, v.Axis(1))
	assert.Equal(t, 9.0, v.Axis(2))
	assert.Equal(t, NewVec3(3.5, 4, 4.5), Vec3{}.Lerp(v, 0.5))
	assert.Equal(t, NewVec3(1, -1, 2), NewVec3(1.5, -0.5, 2.99).Floor())
}

func TestRay_AtAndInvDirection(t *testing.T) {
	r := NewRay(NewVec3(1, 1, 1), NewVec3(0, -2, 4))
	assert.Equal(t, NewVec3(1, 0, 3), r.At(0.5))

	inv := r.InvDirection()
	assert.True(t, math.IsInf(inv.X, 1))
	assert.Equal(t, -0.5, inv.Y)
	assert.Equal(t, 0.25, inv.Z)

	neg := NewRay(Vec3{}, NewVec3(math.Copysign(0, -1), 1, 1)).InvDirection()
	assert.True(t, math.IsInf(neg.X, -1))
}
