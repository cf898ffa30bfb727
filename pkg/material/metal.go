package material

import (
	"math"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// NewMetal creates a new metal material. Fuzz is clamped to [0, 1]:
// 0 is a perfect mirror, 1 is very rough.
func NewMetal(albedo core.Vec3, fuzz float64) *Material {
	m := newMaterial(Metal)
	m.albedo = albedo
	m.fuzz = math.Max(0, math.Min(1, fuzz))
	return m
}

// scatterMetal reflects about the normal and perturbs by the fuzz radius.
// Rays perturbed below the surface are absorbed.
func (m *Material) scatterMetal(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	reflected := Reflect(rayIn.Direction.Normalize(), hit.Normal)
	reflected = reflected.Add(core.RandomUnitVector(sampler).Multiply(m.fuzz)).Normalize()

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, reflected),
		Attenuation: m.albedo,
	}, reflected.Dot(hit.Normal) > 0
}

// Reflect calculates the reflection of a vector v off a surface with normal n
func Reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}
