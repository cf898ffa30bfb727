package scene

import (
	"github.com/pkg/errors"

	"github.com/df07/go-tiled-pathtracer/pkg/camera"
	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/geometry"
	"github.com/df07/go-tiled-pathtracer/pkg/log"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// DefaultCapacity is the object capacity of scenes created with New
const DefaultCapacity = 1 << 20

// Sky gradient endpoints: rays pointing straight up see SkyTop, rays
// pointing straight down see SkyBottom.
var (
	DefaultSkyTop    = core.NewVec3(0.5, 0.7, 1.0)
	DefaultSkyBottom = core.NewVec3(1.0, 1.0, 1.0)
)

// Scene contains all the elements needed for rendering.
//
// Objects are appended until Build is called; after that the scene is sealed
// and read-only, so any number of goroutines may intersect it concurrently.
type Scene struct {
	Camera    *camera.Camera
	SkyTop    core.Vec3
	SkyBottom core.Vec3

	logger log.Logger

	objects  []geometry.Object
	nodes    []BVHNode
	capacity int
	stats    BVHStats

	built     bool
	destroyed bool
}

// New creates an empty scene with the default capacity
func New(cam *camera.Camera) *Scene {
	s, _ := NewWithCapacity(cam, DefaultCapacity)
	return s
}

// NewWithCapacity creates an empty scene that holds at most capacity objects
func NewWithCapacity(cam *camera.Camera, capacity int) (*Scene, error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(core.ErrInvalidArgument, "scene capacity %d", capacity)
	}
	return &Scene{
		Camera:    cam,
		SkyTop:    DefaultSkyTop,
		SkyBottom: DefaultSkyBottom,
		logger:    log.New("scene"),
		objects:   make([]geometry.Object, 0, min(capacity, 1024)),
		capacity:  capacity,
	}, nil
}

// SetLogger replaces the scene logger
func (s *Scene) SetLogger(logger log.Logger) {
	s.logger = logger
}

// Add appends an object and acquires a reference to its material
func (s *Scene) Add(obj geometry.Object) error {
	switch {
	case s.destroyed:
		return errors.Wrap(core.ErrInvariantViolation, "scene destroyed")
	case s.built:
		return errors.Wrap(core.ErrInvariantViolation, "cannot add objects after Build")
	case len(s.objects) >= s.capacity:
		return errors.Wrapf(core.ErrResourceExhausted, "scene capacity of %d objects reached", s.capacity)
	case obj.Material() == nil:
		return errors.Wrapf(core.ErrInvalidArgument, "%v without material", obj.Kind())
	}

	obj.Material().Acquire()
	s.objects = append(s.objects, obj)
	return nil
}

// AddSphere creates and adds a sphere
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat *material.Material) error {
	obj, err := geometry.NewSphereObject(center, radius, mat)
	if err != nil {
		return err
	}
	return s.Add(obj)
}

// AddQuad creates and adds a quad
func (s *Scene) AddQuad(corner, u, v core.Vec3, cullBackFace bool, mat *material.Material) error {
	obj, err := geometry.NewQuadObject(corner, u, v, cullBackFace, mat)
	if err != nil {
		return err
	}
	return s.Add(obj)
}

// AddBox adds the six faces of a box rotated by rotationY radians about its
// vertical axis. Either every face is added or none is.
func (s *Scene) AddBox(center, halfSize core.Vec3, rotationY float64, mat *material.Material) error {
	faces, err := geometry.NewBox(center, halfSize, rotationY)
	if err != nil {
		return err
	}
	if !s.built && !s.destroyed && len(s.objects)+len(faces) > s.capacity {
		return errors.Wrapf(core.ErrResourceExhausted, "scene capacity of %d objects reached", s.capacity)
	}
	for _, q := range faces {
		if err := s.Add(geometry.NewObjectFromQuad(q, mat)); err != nil {
			return err
		}
	}
	return nil
}

// Build constructs the BVH and seals the scene. It may only be called once.
func (s *Scene) Build() error {
	if s.destroyed {
		return errors.Wrap(core.ErrInvariantViolation, "scene destroyed")
	}
	if s.built {
		return errors.Wrap(core.ErrInvariantViolation, "scene already built")
	}

	nodes, stats, err := buildBVH(s.objects, s.logger)
	if err != nil {
		return err
	}

	s.nodes = nodes
	s.stats = stats
	s.built = true
	return nil
}

// Built reports whether Build has completed
func (s *Scene) Built() bool {
	return s.built
}

// Intersect returns the closest hit along ray within [tMin, tMax]
func (s *Scene) Intersect(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	return intersectBVH(s.nodes, s.objects, ray, tMin, tMax)
}

// IntersectLinear is Intersect without the BVH. It is used to validate the hierarchy.
func (s *Scene) IntersectLinear(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	return intersectLinear(s.objects, ray, tMin, tMax)
}

// Sky returns the background color seen along direction
func (s *Scene) Sky(direction core.Vec3) core.Vec3 {
	a := (direction.Normalize().Y + 1.0) / 2.0
	return s.SkyBottom.Lerp(s.SkyTop, a)
}

// Objects returns the scene objects. The slice must not be modified.
func (s *Scene) Objects() []geometry.Object {
	return s.objects
}

// Nodes returns the BVH nodes. The slice must not be modified.
func (s *Scene) Nodes() []BVHNode {
	return s.nodes
}

// Len returns the number of objects
func (s *Scene) Len() int {
	return len(s.objects)
}

// Capacity returns the maximum number of objects
func (s *Scene) Capacity() int {
	return s.capacity
}

// Stats returns statistics for the built BVH
func (s *Scene) Stats() BVHStats {
	return s.stats
}

// Bounds returns the box around every object, or EmptyAABB for an empty scene
func (s *Scene) Bounds() core.AABB {
	if len(s.nodes) > 0 {
		return s.nodes[0].Box
	}
	box := core.EmptyAABB()
	for i := range s.objects {
		box = box.Union(s.objects[i].Box())
	}
	return box
}

// Destroy releases every object's material reference and drops the object
// and node storage. Calling it again has no effect.
func (s *Scene) Destroy() {
	if s.destroyed {
		return
	}
	for i := range s.objects {
		s.objects[i].Material().Release()
	}
	s.objects = nil
	s.nodes = nil
	s.destroyed = true
	s.logger.Debugf("scene destroyed")
}
