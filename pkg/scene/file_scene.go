package scene

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-tiled-pathtracer/pkg/camera"
	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/loaders"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// NewFileScene loads a YAML scene description and builds it
func NewFileScene(filename string, aspect float64) (*Scene, error) {
	file, err := loaders.LoadSceneFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load scene file")
	}
	return NewSceneFromFile(file, aspect)
}

// NewSceneFromFile converts a parsed scene description into a built scene.
// Named textures and materials are shared by every object that references them.
func NewSceneFromFile(file *loaders.SceneFile, aspect float64) (*Scene, error) {
	spec := file.Camera
	cam := camera.New(spec.Position.Vec(), degreesToRadians(spec.FOV), spec.Near, spec.Far, aspect,
		degreesToRadians(spec.DefocusAngle))
	if spec.LookAt != nil {
		cam.LookAt(spec.LookAt.Vec())
	}

	capacity := file.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	s, err := NewWithCapacity(cam, capacity)
	if err != nil {
		return nil, err
	}
	if file.Sky != nil {
		s.SkyTop = file.Sky.Top.Vec()
		s.SkyBottom = file.Sky.Bottom.Vec()
	}

	c := newFileConverter()
	defer c.release()
	return finish(s, c.populate(s, file))
}

// fileConverter owns one reference to every named texture and material
// until the scene has acquired its own
type fileConverter struct {
	textures  map[string]*material.Texture
	materials map[string]*material.Material
}

func newFileConverter() *fileConverter {
	return &fileConverter{
		textures:  make(map[string]*material.Texture),
		materials: make(map[string]*material.Material),
	}
}

func (c *fileConverter) populate(s *Scene, file *loaders.SceneFile) error {
	for _, spec := range file.Textures {
		tex, err := c.convertTexture(spec)
		if err != nil {
			return errors.Wrapf(err, "texture %q", spec.Name)
		}
		c.textures[spec.Name] = tex
	}

	for _, spec := range file.Materials {
		c.materials[spec.Name] = c.convertMaterial(spec)
	}

	for i, spec := range file.Spheres {
		if err := s.AddSphere(spec.Center.Vec(), spec.Radius, c.materials[spec.Material]); err != nil {
			return errors.Wrapf(err, "sphere %d", i)
		}
	}
	for i, spec := range file.Quads {
		if err := s.AddQuad(spec.Corner.Vec(), spec.U.Vec(), spec.V.Vec(), spec.CullBackFace, c.materials[spec.Material]); err != nil {
			return errors.Wrapf(err, "quad %d", i)
		}
	}
	for i, spec := range file.Boxes {
		if err := s.AddBox(spec.Center.Vec(), spec.HalfSize.Vec(), degreesToRadians(spec.Rotation), c.materials[spec.Material]); err != nil {
			return errors.Wrapf(err, "box %d", i)
		}
	}
	return nil
}

func (c *fileConverter) convertTexture(spec loaders.TextureSpec) (*material.Texture, error) {
	switch spec.Type {
	case loaders.TextureSolid:
		return material.NewSolidTexture(spec.Color.Vec()), nil
	case loaders.TextureCheckered:
		return material.NewCheckeredTexture(c.textures[spec.Even], c.textures[spec.Odd], spec.CellWidth)
	default:
		return nil, errors.Wrapf(core.ErrInvalidArgument, "unknown texture type %q", spec.Type)
	}
}

// convertMaterial assumes the file has been validated
func (c *fileConverter) convertMaterial(spec loaders.MaterialSpec) *material.Material {
	switch spec.Type {
	case loaders.MaterialMetal:
		return material.NewMetal(spec.Albedo.Vec(), spec.Fuzz)
	case loaders.MaterialDielectric:
		return material.NewDielectric(spec.RefractiveIndex)
	case loaders.MaterialLight:
		return material.NewPointLight(spec.Emission.Vec())
	default:
		if tex, ok := c.textures[spec.Texture]; ok {
			return material.NewLambertian(tex)
		}
		return material.NewSolidLambertian(spec.Albedo.Vec())
	}
}

func (c *fileConverter) release() {
	for _, m := range c.materials {
		m.Release()
	}
	for _, t := range c.textures {
		t.Release()
	}
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
