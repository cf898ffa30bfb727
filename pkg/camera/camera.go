package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// WorldUp is the reference up direction used to build the camera basis
var WorldUp = core.NewVec3(0, 1, 0)

// Camera is a pinhole camera with an optional thin-lens defocus disk.
//
// FOV is the angle between the view axis and the top edge of the viewport,
// so the viewport spans 2·tan(FOV)·Near vertically.
type Camera struct {
	Position core.Vec3
	Forward  core.Vec3
	Right    core.Vec3
	Up       core.Vec3

	FOV    float64 // radians
	Near   float64
	Far    float64
	Aspect float64 // width / height

	DefocusRadius float64

	// basis holds Right, Up, Forward as columns
	basis mgl64.Mat3
}

// New creates a camera at position looking down -Z. defocusAngle is the
// cone angle in radians subtended by the lens at the near plane; 0 disables
// depth of field.
func New(position core.Vec3, fov, near, far, aspect, defocusAngle float64) *Camera {
	c := &Camera{
		Position:      position,
		FOV:           fov,
		Near:          near,
		Far:           far,
		Aspect:        aspect,
		DefocusRadius: near * math.Tan(defocusAngle/2),
	}
	c.SetForward(core.NewVec3(0, 0, -1))
	return c
}

// SetForward points the camera along f and rebuilds the orthonormal basis.
// f must not be parallel to WorldUp.
func (c *Camera) SetForward(f core.Vec3) {
	c.Forward = f.Normalize()
	c.Right = c.Forward.Cross(WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Forward).Normalize()
	c.basis = mgl64.Mat3FromCols(toMgl(c.Right), toMgl(c.Up), toMgl(c.Forward))
}

// LookAt points the camera at target
func (c *Camera) LookAt(target core.Vec3) {
	c.SetForward(target.Subtract(c.Position))
}

// Validate checks the projection parameters
func (c *Camera) Validate() error {
	if !(c.FOV > 0 && c.FOV < math.Pi/2) {
		return errors.Wrapf(core.ErrInvalidArgument, "camera fov %v outside (0, pi/2)", c.FOV)
	}
	if !(c.Near > 0) {
		return errors.Wrapf(core.ErrInvalidArgument, "camera near plane %v", c.Near)
	}
	if !(c.Far > c.Near) {
		return errors.Wrapf(core.ErrInvalidArgument, "camera far plane %v not beyond near %v", c.Far, c.Near)
	}
	if !(c.Aspect > 0) {
		return errors.Wrapf(core.ErrInvalidArgument, "camera aspect %v", c.Aspect)
	}
	if c.DefocusRadius < 0 || math.IsNaN(c.DefocusRadius) {
		return errors.Wrapf(core.ErrInvalidArgument, "camera defocus radius %v", c.DefocusRadius)
	}
	return nil
}

// WorldToView expresses a world-space point in camera coordinates (right, up, forward)
func (c *Camera) WorldToView(p core.Vec3) core.Vec3 {
	return fromMgl(c.basis.Transpose().Mul3x1(toMgl(p.Subtract(c.Position))))
}

// ViewToWorld maps camera coordinates back to world space
func (c *Camera) ViewToWorld(p core.Vec3) core.Vec3 {
	return c.Position.Add(fromMgl(c.basis.Mul3x1(toMgl(p))))
}

// ViewportHalfExtents returns the half width and half height of the viewport at the near plane
func (c *Camera) ViewportHalfExtents() (float64, float64) {
	halfHeight := math.Tan(c.FOV) * c.Near
	return halfHeight * c.Aspect, halfHeight
}

// SampleDefocusPoint returns a world-space point on the lens disk
func (c *Camera) SampleDefocusPoint(sampler core.Sampler) core.Vec3 {
	p := core.RandomInUnitDisk(sampler)
	return c.Position.
		Add(c.Right.Multiply(p.X * c.DefocusRadius)).
		Add(c.Up.Multiply(p.Y * c.DefocusRadius))
}

// GetRay generates the primary ray through normalized device coordinates
// (ndcX, ndcY) in [-1, 1], with +Y at the top of the image. With a non-zero
// defocus radius the origin is jittered across the lens and the ray still
// passes through the same point on the near plane.
func (c *Camera) GetRay(ndcX, ndcY float64, sampler core.Sampler) core.Ray {
	halfWidth, halfHeight := c.ViewportHalfExtents()
	target := c.ViewToWorld(core.NewVec3(ndcX*halfWidth, ndcY*halfHeight, c.Near))

	origin := c.Position
	if c.DefocusRadius > 0 {
		origin = c.SampleDefocusPoint(sampler)
	}

	return core.NewRay(origin, target.Subtract(origin).Normalize())
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
