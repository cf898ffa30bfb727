// Package loaders parses scene description files.
package loaders

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// Texture and material type names accepted in scene files
const (
	TextureSolid     = "solid"
	TextureCheckered = "checkered"

	MaterialLambertian = "lambertian"
	MaterialMetal      = "metal"
	MaterialDielectric = "dielectric"
	MaterialLight      = "light"
)

// Vec3 is a three element YAML sequence, e.g. [0, 1, -2]
type Vec3 [3]float64

// Vec converts to a core vector
func (v Vec3) Vec() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// SceneFile is the parsed form of a YAML scene description
type SceneFile struct {
	Capacity  int            `yaml:"capacity"`
	Camera    CameraSpec     `yaml:"camera"`
	Sky       *SkySpec       `yaml:"sky"`
	Textures  []TextureSpec  `yaml:"textures"`
	Materials []MaterialSpec `yaml:"materials"`
	Spheres   []SphereSpec   `yaml:"spheres"`
	Quads     []QuadSpec     `yaml:"quads"`
	Boxes     []BoxSpec      `yaml:"boxes"`
}

// CameraSpec describes the camera. FOV and DefocusAngle are in degrees.
type CameraSpec struct {
	Position     Vec3    `yaml:"position"`
	LookAt       *Vec3   `yaml:"look_at"`
	FOV          float64 `yaml:"fov"`
	Near         float64 `yaml:"near"`
	Far          float64 `yaml:"far"`
	DefocusAngle float64 `yaml:"defocus_angle"`
}

// SkySpec overrides the background gradient
type SkySpec struct {
	Top    Vec3 `yaml:"top"`
	Bottom Vec3 `yaml:"bottom"`
}

// TextureSpec is a named texture. Checkered textures reference two textures
// declared earlier in the list.
type TextureSpec struct {
	Name      string  `yaml:"name"`
	Type      string  `yaml:"type"`
	Color     Vec3    `yaml:"color"`
	Even      string  `yaml:"even"`
	Odd       string  `yaml:"odd"`
	CellWidth float64 `yaml:"cell_width"`
}

// MaterialSpec is a named material. Lambertian materials use either a named
// texture or a solid albedo.
type MaterialSpec struct {
	Name            string  `yaml:"name"`
	Type            string  `yaml:"type"`
	Texture         string  `yaml:"texture"`
	Albedo          Vec3    `yaml:"albedo"`
	Fuzz            float64 `yaml:"fuzz"`
	RefractiveIndex float64 `yaml:"refractive_index"`
	Emission        Vec3    `yaml:"emission"`
}

// SphereSpec places a sphere
type SphereSpec struct {
	Center   Vec3    `yaml:"center"`
	Radius   float64 `yaml:"radius"`
	Material string  `yaml:"material"`
}

// QuadSpec places a parallelogram spanned by U and V from Corner
type QuadSpec struct {
	Corner       Vec3   `yaml:"corner"`
	U            Vec3   `yaml:"u"`
	V            Vec3   `yaml:"v"`
	CullBackFace bool   `yaml:"cull_back_face"`
	Material     string `yaml:"material"`
}

// BoxSpec places a box of six quads. Rotation is in degrees about the
// vertical axis through the center.
type BoxSpec struct {
	Center   Vec3    `yaml:"center"`
	HalfSize Vec3    `yaml:"half_size"`
	Rotation float64 `yaml:"rotation"`
	Material string  `yaml:"material"`
}

// Default camera settings for scene files that leave them out
const (
	DefaultFOV  = 45.0
	DefaultNear = 0.1
	DefaultFar  = 100.0
)

// ParseSceneFile decodes and validates a scene description. Unknown keys are rejected.
func ParseSceneFile(reader io.Reader) (*SceneFile, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	var file SceneFile
	if err := decoder.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, errors.Wrap(core.ErrInvalidArgument, "scene file is empty")
		}
		return nil, errors.Wrap(err, "failed to decode scene file")
	}

	file.applyDefaults()
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

// LoadSceneFile loads and parses a YAML scene file
func LoadSceneFile(filename string) (*SceneFile, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open scene file")
	}
	defer file.Close()

	scene, err := ParseSceneFile(file)
	return scene, errors.Wrapf(err, "%s", filename)
}

func (f *SceneFile) applyDefaults() {
	if f.Camera.FOV == 0 {
		f.Camera.FOV = DefaultFOV
	}
	if f.Camera.Near == 0 {
		f.Camera.Near = DefaultNear
	}
	if f.Camera.Far == 0 {
		f.Camera.Far = DefaultFar
	}
}

// Validate checks types and that every reference names an earlier declaration
func (f *SceneFile) Validate() error {
	if f.Capacity < 0 {
		return errors.Wrapf(core.ErrInvalidArgument, "capacity %d", f.Capacity)
	}

	textures := make(map[string]bool, len(f.Textures))
	for i, tex := range f.Textures {
		if tex.Name == "" {
			return errors.Wrapf(core.ErrInvalidArgument, "texture %d has no name", i)
		}
		if textures[tex.Name] {
			return errors.Wrapf(core.ErrInvalidArgument, "duplicate texture %q", tex.Name)
		}
		switch tex.Type {
		case TextureSolid:
		case TextureCheckered:
			for _, ref := range []string{tex.Even, tex.Odd} {
				if !textures[ref] {
					return errors.Wrapf(core.ErrInvalidArgument, "texture %q references unknown texture %q", tex.Name, ref)
				}
			}
		default:
			return errors.Wrapf(core.ErrInvalidArgument, "texture %q has unknown type %q", tex.Name, tex.Type)
		}
		textures[tex.Name] = true
	}

	materials := make(map[string]bool, len(f.Materials))
	for i, mat := range f.Materials {
		if mat.Name == "" {
			return errors.Wrapf(core.ErrInvalidArgument, "material %d has no name", i)
		}
		if materials[mat.Name] {
			return errors.Wrapf(core.ErrInvalidArgument, "duplicate material %q", mat.Name)
		}
		switch mat.Type {
		case MaterialLambertian:
			if mat.Texture != "" && !textures[mat.Texture] {
				return errors.Wrapf(core.ErrInvalidArgument, "material %q references unknown texture %q", mat.Name, mat.Texture)
			}
		case MaterialDielectric:
			if !(mat.RefractiveIndex > 0) {
				return errors.Wrapf(core.ErrInvalidArgument, "material %q refractive index %v", mat.Name, mat.RefractiveIndex)
			}
		case MaterialMetal, MaterialLight:
		default:
			return errors.Wrapf(core.ErrInvalidArgument, "material %q has unknown type %q", mat.Name, mat.Type)
		}
		materials[mat.Name] = true
	}

	for i, sphere := range f.Spheres {
		if !materials[sphere.Material] {
			return errors.Wrapf(core.ErrInvalidArgument, "sphere %d references unknown material %q", i, sphere.Material)
		}
	}
	for i, quad := range f.Quads {
		if !materials[quad.Material] {
			return errors.Wrapf(core.ErrInvalidArgument, "quad %d references unknown material %q", i, quad.Material)
		}
	}
	for i, box := range f.Boxes {
		if !materials[box.Material] {
			return errors.Wrapf(core.ErrInvalidArgument, "box %d references unknown material %q", i, box.Material)
		}
	}
	return nil
}

// ObjectCount returns the number of primitives the file places
func (f *SceneFile) ObjectCount() int {
	return len(f.Spheres) + len(f.Quads) + 6*len(f.Boxes)
}

// validateFilePath rejects paths that cannot be scene files
func validateFilePath(filename string) error {
	if filename == "" {
		return errors.Wrap(core.ErrInvalidArgument, "filename cannot be empty")
	}
	if strings.Contains(filename, "\x00") {
		return errors.Wrap(core.ErrInvalidArgument, "invalid file path: null bytes not allowed")
	}

	cleanPath := filepath.Clean(filename)
	if len(cleanPath) > 512 {
		return errors.Wrap(core.ErrInvalidArgument, "file path too long: maximum 512 characters allowed")
	}

	switch strings.ToLower(filepath.Ext(cleanPath)) {
	case ".yaml", ".yml":
		return nil
	default:
		return errors.Wrap(core.ErrInvalidArgument, "invalid file type: only .yaml and .yml files are allowed")
	}
}
