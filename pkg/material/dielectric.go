package material

import (
	"math"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// NewDielectric creates a clear refractive material such as glass (1.5) or water (1.33)
func NewDielectric(refractiveIndex float64) *Material {
	m := newMaterial(Dielectric)
	m.refractiveIndex = refractiveIndex
	return m
}

// scatterDielectric either reflects or refracts. Total internal reflection
// always reflects; otherwise the choice is made stochastically with Schlick's
// reflectance. Clear glass never absorbs.
func (m *Material) scatterDielectric(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	eta := m.refractiveIndex
	if hit.FrontFace {
		eta = 1.0 / m.refractiveIndex // entering from air
	}

	unitDirection := rayIn.Direction.Normalize()
	cosTheta := math.Min(-hit.Normal.Dot(unitDirection), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

	var direction core.Vec3
	if CannotRefract(sinTheta, eta) || sampler.Get1D() < Schlick(cosTheta, m.refractiveIndex) {
		direction = Reflect(unitDirection, hit.Normal)
	} else {
		direction = Refract(unitDirection, hit.Normal, eta)
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: core.NewVec3(1.0, 1.0, 1.0),
	}, true
}

// CannotRefract reports total internal reflection for the given incidence sine and eta
func CannotRefract(sinTheta, eta float64) bool {
	return eta*sinTheta > 1.0
}

// Refract calculates the refraction of unit vector uv using Snell's law.
// eta is the ratio of the incident to the transmitted refractive index.
func Refract(uv, n core.Vec3, eta float64) core.Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(eta)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// Schlick calculates the Fresnel reflectance using Schlick's approximation
func Schlick(cosine, refractiveIndex float64) float64 {
	r0 := (1 - refractiveIndex) / (1 + refractiveIndex)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
