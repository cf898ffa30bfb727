package material

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

func TestMaterial_RefCounting(t *testing.T) {
	tex := NewSolidTexture(core.NewVec3(0.5, 0.5, 0.5))
	mat := NewLambertian(tex)
	assert.Equal(t, 2, tex.RefCount())
	tex.Release()

	assert.Same(t, mat, mat.Acquire())
	assert.Equal(t, 2, mat.RefCount())

	mat.Release()
	assert.False(t, mat.Released())
	assert.False(t, tex.Released())

	mat.Release()
	assert.True(t, mat.Released())
	assert.True(t, tex.Released(), "last material reference frees the texture")

	assert.Panics(t, func() { mat.Acquire() })
	assert.Panics(t, func() { mat.Release() })
}

func TestMaterial_Accessors(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.1, 0.2, 0.3), 0.4)
	defer metal.Release()
	assert.Equal(t, core.NewVec3(0.1, 0.2, 0.3), metal.Albedo())
	assert.Nil(t, metal.Texture())

	glass := NewDielectric(1.33)
	defer glass.Release()
	assert.Equal(t, 1.33, glass.RefractiveIndex())
	assert.Equal(t, "dielectric", glass.Kind().String())

	diffuse := NewSolidLambertian(core.NewVec3(1, 0, 0))
	defer diffuse.Release()
	assert.Equal(t, SolidTexture, diffuse.Texture().Kind())
}

func TestHitRecord_SetFaceNormal(t *testing.T) {
	outward := core.NewVec3(0, 0, 1)

	var front HitRecord
	front.SetFaceNormal(core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1)), outward)
	assert.True(t, front.FrontFace)
	assert.Equal(t, outward, front.Normal)

	var back HitRecord
	back.SetFaceNormal(core.NewRay(core.NewVec3(0, 0, -2), core.NewVec3(0, 0, 1)), outward)
	assert.False(t, back.FrontFace)
	assert.Equal(t, core.NewVec3(0, 0, -1), back.Normal)
}
