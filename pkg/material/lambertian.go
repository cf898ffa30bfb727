package material

import (
	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// NewLambertian creates a diffuse material colored by tex. The texture is acquired.
func NewLambertian(tex *Texture) *Material {
	m := newMaterial(Lambertian)
	m.texture = tex.Acquire()
	return m
}

// NewSolidLambertian creates a diffuse material with a uniform albedo
func NewSolidLambertian(albedo core.Vec3) *Material {
	m := newMaterial(Lambertian)
	m.texture = NewSolidTexture(albedo)
	return m
}

// scatterLambertian bounces the ray around the normal offset by a random unit vector
func (m *Material) scatterLambertian(hit *HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	direction := hit.Normal.Add(core.RandomUnitVector(sampler))

	// A unit vector almost opposite the normal cancels it out
	if direction.IsNearZero() {
		direction = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction.Normalize()),
		Attenuation: m.texture.Sample(hit.U, hit.V, hit.Point),
	}, true
}
