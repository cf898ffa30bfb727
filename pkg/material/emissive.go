package material

import (
	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// NewPointLight creates a light-emitting material. Lights never scatter.
func NewPointLight(color core.Vec3) *Material {
	m := newMaterial(PointLight)
	m.emitted = color
	return m
}

// Emit returns the emitted light. Only point lights emit; every other kind
// returns the zero color and false.
func (m *Material) Emit(hit *HitRecord) (core.Vec3, bool) {
	if m.kind == PointLight {
		return m.emitted, true
	}
	return core.Vec3{}, false
}
