package scene

import (
	"math"

	"github.com/df07/go-tiled-pathtracer/pkg/camera"
	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// NewDefaultScene creates a small diffuse sphere resting on a huge ground sphere
func NewDefaultScene(aspect float64) (*Scene, error) {
	cam := camera.New(core.NewVec3(0, 0, 0), 45*math.Pi/180, 0.1, 100, aspect, 0)
	s := New(cam)

	grey := material.NewSolidLambertian(core.NewVec3(0.5, 0.5, 0.5))
	defer grey.Release()

	err := s.AddSphere(core.NewVec3(0, 0, -1), 0.5, grey)
	if err == nil {
		err = s.AddSphere(core.NewVec3(0, -100.5, -1), 100, grey)
	}
	return finish(s, err)
}
