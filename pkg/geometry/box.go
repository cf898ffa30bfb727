package geometry

import (
	"math"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// NewBox returns the six outward facing quads of a box centered at center
// with the given half extents, rotated by rotationY radians about the
// vertical axis through its center.
func NewBox(center, halfSize core.Vec3, rotationY float64) ([6]Quad, error) {
	// Unit box corners, indexed by bits: x = bit 0, y = bit 1, z = bit 2
	var corners [8]core.Vec3
	sin, cos := math.Sincos(rotationY)
	for i := range corners {
		p := core.NewVec3(
			sign(i&1)*halfSize.X,
			sign(i&2)*halfSize.Y,
			sign(i&4)*halfSize.Z,
		)
		corners[i] = core.NewVec3(p.X*cos+p.Z*sin, p.Y, -p.X*sin+p.Z*cos).Add(center)
	}

	// corner, u end, v end for each face; u×v points out of the box
	faces := [6][3]int{
		{4, 5, 6}, // +Z
		{1, 0, 3}, // -Z
		{5, 1, 7}, // +X
		{0, 4, 2}, // -X
		{6, 7, 2}, // +Y
		{0, 1, 4}, // -Y
	}

	var quads [6]Quad
	for i, f := range faces {
		corner := corners[f[0]]
		q, err := NewQuad(corner, corners[f[1]].Subtract(corner), corners[f[2]].Subtract(corner), false)
		if err != nil {
			return quads, err
		}
		quads[i] = q
	}
	return quads, nil
}

func sign(bit int) float64 {
	if bit != 0 {
		return 1
	}
	return -1
}
