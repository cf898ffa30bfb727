package scene

import (
	"math"

	"github.com/df07/go-tiled-pathtracer/pkg/camera"
	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// cornellWall is one quad of the box
type cornellWall struct {
	name         string
	corner, u, v core.Vec3
	mat          *material.Material
}

// NewCornellScene creates the classic Cornell box built from quads, lit by an
// emissive ceiling panel. The sky is black, so the image is only lit when
// emission accumulation is enabled.
func NewCornellScene(aspect float64) (*Scene, error) {
	cam := camera.New(core.NewVec3(278, 278, -800), 20*math.Pi/180, 1, 5000, aspect, 0)
	cam.LookAt(core.NewVec3(278, 278, 0))

	s := New(cam)
	s.SkyTop = core.Vec3{}
	s.SkyBottom = core.Vec3{}

	red := material.NewSolidLambertian(core.NewVec3(0.65, 0.05, 0.05))
	white := material.NewSolidLambertian(core.NewVec3(0.73, 0.73, 0.73))
	green := material.NewSolidLambertian(core.NewVec3(0.12, 0.45, 0.15))
	light := material.NewPointLight(core.NewVec3(15, 15, 15))
	mirror := material.NewMetal(core.NewVec3(0.8, 0.85, 0.88), 0.0)
	glass := material.NewDielectric(1.5)
	for _, m := range []*material.Material{red, white, green, light, mirror, glass} {
		defer m.Release()
	}

	walls := []cornellWall{
		{"left", core.NewVec3(555, 0, 0), core.NewVec3(0, 555, 0), core.NewVec3(0, 0, 555), green},
		{"right", core.NewVec3(0, 0, 0), core.NewVec3(0, 555, 0), core.NewVec3(0, 0, 555), red},
		{"floor", core.NewVec3(0, 0, 0), core.NewVec3(555, 0, 0), core.NewVec3(0, 0, 555), white},
		{"ceiling", core.NewVec3(555, 555, 555), core.NewVec3(-555, 0, 0), core.NewVec3(0, 0, -555), white},
		{"back", core.NewVec3(0, 0, 555), core.NewVec3(555, 0, 0), core.NewVec3(0, 555, 0), white},
		{"light", core.NewVec3(343, 554, 332), core.NewVec3(-130, 0, 0), core.NewVec3(0, 0, -105), light},
	}

	var err error
	for _, w := range walls {
		if err = s.AddQuad(w.corner, w.u, w.v, false, w.mat); err != nil {
			break
		}
	}
	if err == nil {
		err = s.AddSphere(core.NewVec3(190, 90, 190), 90, glass)
	}
	if err == nil {
		err = s.AddSphere(core.NewVec3(370, 120, 380), 120, mirror)
	}
	return finish(s, err)
}
