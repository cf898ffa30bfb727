package material

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// TextureKind tags the variant stored in a Texture
type TextureKind uint8

const (
	SolidTexture TextureKind = iota
	CheckeredTexture
)

func (k TextureKind) String() string {
	switch k {
	case SolidTexture:
		return "solid"
	case CheckeredTexture:
		return "checkered"
	default:
		return fmt.Sprintf("TextureKind(%d)", uint8(k))
	}
}

// Texture is a procedural color source shared between materials.
//
// A texture is immutable once constructed and may only reference textures that
// already exist, so texture graphs are acyclic by construction. Handles are
// reference counted: constructors return a texture holding one reference that
// belongs to the caller.
type Texture struct {
	kind TextureKind

	// Solid
	color core.Vec3

	// Checkered
	children  [2]*Texture
	cellWidth float64

	refs     atomic.Int32
	released atomic.Bool
}

// NewSolidTexture creates a texture that returns the same color everywhere
func NewSolidTexture(color core.Vec3) *Texture {
	t := &Texture{kind: SolidTexture, color: color}
	t.refs.Store(1)
	return t
}

// NewCheckeredTexture creates a 3D checkerboard alternating between a and b in
// cubic cells of side cellWidth. Both children are acquired.
func NewCheckeredTexture(a, b *Texture, cellWidth float64) (*Texture, error) {
	if a == nil || b == nil {
		return nil, errors.Wrap(core.ErrInvalidArgument, "checkered texture needs two children")
	}
	if !(cellWidth > 0) || math.IsInf(cellWidth, 0) {
		return nil, errors.Wrapf(core.ErrInvalidArgument, "checkered cell width %v", cellWidth)
	}

	t := &Texture{
		kind:      CheckeredTexture,
		children:  [2]*Texture{a.Acquire(), b.Acquire()},
		cellWidth: cellWidth,
	}
	t.refs.Store(1)
	return t, nil
}

// NewCheckeredSolidTexture creates a checkerboard of two solid colors. The
// solid children are owned solely by the returned texture.
func NewCheckeredSolidTexture(color1, color2 core.Vec3, cellWidth float64) (*Texture, error) {
	a := NewSolidTexture(color1)
	b := NewSolidTexture(color2)
	defer a.Release()
	defer b.Release()
	return NewCheckeredTexture(a, b, cellWidth)
}

// Kind returns the texture variant
func (t *Texture) Kind() TextureKind {
	return t.kind
}

// Sample returns the texture color at surface coordinates (u, v) and world position p
func (t *Texture) Sample(u, v float64, p core.Vec3) core.Vec3 {
	switch t.kind {
	case SolidTexture:
		return t.color
	case CheckeredTexture:
		return t.children[checkerParity(p, t.cellWidth)].Sample(u, v, p)
	default:
		panic(fmt.Sprintf("material: unknown texture kind %v", t.kind))
	}
}

// checkerParity returns 0 or 1 for the cell containing p. The sum of the cell
// indices is reduced with a positive modulo so negative cells alternate correctly.
func checkerParity(p core.Vec3, cellWidth float64) int {
	cell := p.Divide(cellWidth).Floor()
	sum := int64(cell.X) + int64(cell.Y) + int64(cell.Z)
	return int(((sum % 2) + 2) % 2)
}

// Acquire adds a reference and returns the same texture
func (t *Texture) Acquire() *Texture {
	if t.released.Load() {
		panic("material: acquire of released texture")
	}
	t.refs.Add(1)
	return t
}

// Release drops a reference. When the last reference goes away the texture
// releases its children.
func (t *Texture) Release() {
	n := t.refs.Add(-1)
	switch {
	case n < 0:
		panic("material: texture reference count underflow")
	case n == 0:
		t.released.Store(true)
		if t.kind == CheckeredTexture {
			t.children[0].Release()
			t.children[1].Release()
		}
	}
}

// RefCount returns the current number of references
func (t *Texture) RefCount() int {
	return int(t.refs.Load())
}

// Released reports whether the last reference has been dropped
func (t *Texture) Released() bool {
	return t.released.Load()
}
