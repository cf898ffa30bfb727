package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() (float64, float64)
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator.
// It is not safe for concurrent use: each render band owns its own instance.
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates an independent sampler seeded deterministically
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() (float64, float64) {
	return r.random.Float64(), r.random.Float64()
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// DeriveSeed mixes a master seed with a stream index so that sibling streams
// (one per render band) are decorrelated but reproducible.
func DeriveSeed(master int64, stream int) int64 {
	// splitmix64 finalizer
	z := uint64(master) + uint64(stream+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}

// RandomUnitVector returns a direction uniformly distributed on the unit sphere.
// Points are drawn in the [-1,1]³ cube and rejected when outside the unit ball
// or too close to the origin to normalize safely.
func RandomUnitVector(sampler Sampler) Vec3 {
	for {
		p := sampler.Get3D().Multiply(2).Subtract(NewVec3(1, 1, 1))
		lenSq := p.LengthSquared()
		if lenSq > 1.0 || lenSq < 1e-12 {
			continue
		}
		return p.Divide(math.Sqrt(lenSq))
	}
}

// RandomInUnitDisk generates a random point in the unit disk on the XY plane.
// Candidates are drawn in [-1,1]² and rejected while x²+y² >= 1.
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for {
		x, y := sampler.Get2D()
		p := NewVec3(2*x-1, 2*y-1, 0)
		if p.X*p.X+p.Y*p.Y < 1.0 {
			return p
		}
	}
}
