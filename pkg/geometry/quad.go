package geometry

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

const (
	// parallelEpsilon rejects rays running parallel to the quad plane
	parallelEpsilon = 1e-8

	// quadPadding is the minimum thickness of a quad's bounding box
	quadPadding = 1e-4
)

// Quad represents a parallelogram defined by a corner and two edge vectors
type Quad struct {
	Corner core.Vec3 // One corner of the quad
	U      core.Vec3 // First edge vector
	V      core.Vec3 // Second edge vector
	Normal core.Vec3 // Unit normal, U × V normalized
	D      float64   // Plane equation constant: Normal · p = D
	W      core.Vec3 // n / (n·n) with n = U × V, used for the planar coordinates

	// CullBackFace makes rays traveling along the normal pass through
	CullBackFace bool
}

// NewQuad creates a new quad from a corner point and two edge vectors.
// Parallel or zero-length edges are rejected.
func NewQuad(corner, u, v core.Vec3, cullBackFace bool) (Quad, error) {
	n := u.Cross(v)
	nn := n.LengthSquared()
	if !(nn > 0) || math.IsInf(nn, 0) {
		return Quad{}, errors.Wrapf(core.ErrDegenerateGeometry, "quad edges %v and %v span no area", u, v)
	}

	normal := n.Normalize()
	return Quad{
		Corner:       corner,
		U:            u,
		V:            v,
		Normal:       normal,
		D:            normal.Dot(corner),
		W:            n.Divide(nn),
		CullBackFace: cullBackFace,
	}, nil
}

// Hit tests if a ray intersects with the quad within [tMin, tMax]
func (q Quad) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	denominator := q.Normal.Dot(ray.Direction)

	// Parallel to the plane
	if math.Abs(denominator) < parallelEpsilon {
		return material.HitRecord{}, false
	}
	if q.CullBackFace && denominator > 0 {
		return material.HitRecord{}, false
	}

	t := (q.D - q.Normal.Dot(ray.Origin)) / denominator
	if t < tMin || t > tMax {
		return material.HitRecord{}, false
	}

	hitPoint := ray.At(t)
	planar := hitPoint.Subtract(q.Corner)

	// Planar coordinates of the hit along U and V
	alpha := q.W.Dot(planar.Cross(q.V))
	beta := q.W.Dot(q.U.Cross(planar))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return material.HitRecord{}, false
	}

	hit := material.HitRecord{
		T:     t,
		Point: hitPoint,
		U:     alpha,
		V:     beta,
	}
	hit.SetFaceNormal(ray, q.Normal)

	return hit, true
}

// BoundingBox returns the box around all four corners, padded on flat axes
func (q Quad) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	).Pad(quadPadding)
}
