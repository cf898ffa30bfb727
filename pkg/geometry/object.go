package geometry

import (
	"fmt"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// Kind tags the primitive stored in an Object
type Kind uint8

const (
	SphereKind Kind = iota
	QuadKind
)

func (k Kind) String() string {
	switch k {
	case SphereKind:
		return "sphere"
	case QuadKind:
		return "quad"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Object is a scene primitive with its bounding box and material.
//
// The material pointer is not acquired here; the scene that stores the
// object takes the reference when the object is added.
type Object struct {
	kind     Kind
	sphere   Sphere
	quad     Quad
	box      core.AABB
	material *material.Material
}

// NewSphereObject creates a sphere primitive
func NewSphereObject(center core.Vec3, radius float64, mat *material.Material) (Object, error) {
	s, err := NewSphere(center, radius)
	if err != nil {
		return Object{}, err
	}
	return Object{kind: SphereKind, sphere: s, box: s.BoundingBox(), material: mat}, nil
}

// NewQuadObject creates a quad primitive
func NewQuadObject(corner, u, v core.Vec3, cullBackFace bool, mat *material.Material) (Object, error) {
	q, err := NewQuad(corner, u, v, cullBackFace)
	if err != nil {
		return Object{}, err
	}
	return NewObjectFromQuad(q, mat), nil
}

// NewObjectFromQuad wraps an already validated quad
func NewObjectFromQuad(q Quad, mat *material.Material) Object {
	return Object{kind: QuadKind, quad: q, box: q.BoundingBox(), material: mat}
}

// Kind returns the primitive variant
func (o *Object) Kind() Kind { return o.kind }

// Sphere returns the sphere data; only meaningful for SphereKind
func (o *Object) Sphere() Sphere { return o.sphere }

// Quad returns the quad data; only meaningful for QuadKind
func (o *Object) Quad() Quad { return o.quad }

// Box returns the object's bounding box
func (o *Object) Box() core.AABB { return o.box }

// Material returns the object's material
func (o *Object) Material() *material.Material { return o.material }

// Hit intersects the primitive and fills in the material on success
func (o *Object) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	var (
		hit material.HitRecord
		ok  bool
	)

	switch o.kind {
	case SphereKind:
		hit, ok = o.sphere.Hit(ray, tMin, tMax)
	case QuadKind:
		hit, ok = o.quad.Hit(ray, tMin, tMax)
	default:
		panic(fmt.Sprintf("geometry: unknown object kind %v", o.kind))
	}

	if ok {
		hit.Material = o.material
	}
	return hit, ok
}
