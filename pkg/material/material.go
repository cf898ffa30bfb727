package material

import (
	"fmt"
	"sync/atomic"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// Kind tags the variant stored in a Material
type Kind uint8

const (
	Lambertian Kind = iota
	Metal
	Dielectric
	PointLight
)

func (k Kind) String() string {
	switch k {
	case Lambertian:
		return "lambertian"
	case Metal:
		return "metal"
	case Dielectric:
		return "dielectric"
	case PointLight:
		return "point_light"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Material describes how a surface scatters or emits light. It is a closed
// set of variants dispatched with a switch on Kind.
//
// Materials are shared between scene objects and reference counted. The
// constructor's reference belongs to the caller; every scene object that
// stores the material holds one more.
type Material struct {
	kind Kind

	texture         *Texture  // Lambertian
	albedo          core.Vec3 // Metal
	fuzz            float64   // Metal, in [0, 1]
	refractiveIndex float64   // Dielectric
	emitted         core.Vec3 // PointLight

	refs     atomic.Int32
	released atomic.Bool
}

func newMaterial(kind Kind) *Material {
	m := &Material{kind: kind}
	m.refs.Store(1)
	return m
}

// Kind returns the material variant
func (m *Material) Kind() Kind {
	return m.kind
}

// Texture returns the albedo texture of a Lambertian material, nil otherwise
func (m *Material) Texture() *Texture {
	return m.texture
}

// Albedo returns the metal albedo
func (m *Material) Albedo() core.Vec3 {
	return m.albedo
}

// Fuzz returns the metal roughness
func (m *Material) Fuzz() float64 {
	return m.fuzz
}

// RefractiveIndex returns the dielectric index of refraction
func (m *Material) RefractiveIndex() float64 {
	return m.refractiveIndex
}

// Scatter computes the ray leaving the surface. The second result is false
// when the ray is absorbed.
func (m *Material) Scatter(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	switch m.kind {
	case Lambertian:
		return m.scatterLambertian(hit, sampler)
	case Metal:
		return m.scatterMetal(rayIn, hit, sampler)
	case Dielectric:
		return m.scatterDielectric(rayIn, hit, sampler)
	case PointLight:
		return ScatterResult{}, false
	default:
		panic(fmt.Sprintf("material: unknown kind %v", m.kind))
	}
}

// Acquire adds a reference and returns the same material
func (m *Material) Acquire() *Material {
	if m.released.Load() {
		panic("material: acquire of released material")
	}
	m.refs.Add(1)
	return m
}

// Release drops a reference. The last release frees the material's texture reference.
func (m *Material) Release() {
	n := m.refs.Add(-1)
	switch {
	case n < 0:
		panic("material: reference count underflow")
	case n == 0:
		m.released.Store(true)
		if m.texture != nil {
			m.texture.Release()
		}
	}
}

// RefCount returns the current number of references
func (m *Material) RefCount() int {
	return int(m.refs.Load())
}

// Released reports whether the last reference has been dropped
func (m *Material) Released() bool {
	return m.released.Load()
}
