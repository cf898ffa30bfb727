package scene

import (
	"math"

	"github.com/df07/go-tiled-pathtracer/pkg/camera"
	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// NewSphereGridScene creates a field of small random spheres on a checkered
// ground with three large feature spheres. The layout is derived from seed.
func NewSphereGridScene(aspect float64, seed int64) (*Scene, error) {
	cam := camera.New(core.NewVec3(13, 2, 3), 10*math.Pi/180, 10, 1000, aspect, 0.6*math.Pi/180)
	cam.LookAt(core.NewVec3(0, 0, 0))

	s := New(cam)
	return finish(s, addSphereGrid(s, core.NewSeededSampler(seed)))
}

func addSphereGrid(s *Scene, sampler core.Sampler) error {
	checker, err := material.NewCheckeredSolidTexture(
		core.NewVec3(0.2, 0.3, 0.1),
		core.NewVec3(0.9, 0.9, 0.9),
		0.32,
	)
	if err != nil {
		return err
	}
	ground := material.NewLambertian(checker)
	checker.Release()
	defer ground.Release()

	if err := s.AddSphere(core.NewVec3(0, -1000, 0), 1000, ground); err != nil {
		return err
	}

	// Small spheres too close to the steel sphere are skipped
	keepOut := core.NewVec3(4, 0.2, 0)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			center := core.NewVec3(
				float64(a)+0.9*sampler.Get1D(),
				0.2,
				float64(b)+0.9*sampler.Get1D(),
			)
			if center.Subtract(keepOut).Length() <= 0.9 {
				continue
			}

			mat := randomSphereMaterial(sampler)
			err := s.AddSphere(center, 0.2, mat)
			mat.Release()
			if err != nil {
				return err
			}
		}
	}

	glass := material.NewDielectric(1.5)
	brown := material.NewSolidLambertian(core.NewVec3(0.4, 0.2, 0.1))
	steel := material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)
	for _, m := range []*material.Material{glass, brown, steel} {
		defer m.Release()
	}

	if err := s.AddSphere(core.NewVec3(0, 1, 0), 1, glass); err != nil {
		return err
	}
	if err := s.AddSphere(core.NewVec3(-4, 1, 0), 1, brown); err != nil {
		return err
	}
	return s.AddSphere(core.NewVec3(4, 1, 0), 1, steel)
}

// randomSphereMaterial picks mostly diffuse, some metal and a little glass
func randomSphereMaterial(sampler core.Sampler) *material.Material {
	choose := sampler.Get1D()
	switch {
	case choose < 0.8:
		albedo := sampler.Get3D().MultiplyVec(sampler.Get3D())
		return material.NewSolidLambertian(albedo)
	case choose < 0.95:
		albedo := sampler.Get3D().Multiply(0.5).Add(core.NewVec3(0.5, 0.5, 0.5))
		return material.NewMetal(albedo, 0.5*sampler.Get1D())
	default:
		return material.NewDielectric(1.5)
	}
}
