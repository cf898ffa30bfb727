package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-tiled-pathtracer/pkg/camera"
	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/log"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// newRandomScene builds a scene with n random spheres and quads inside a 20-unit cube
func newRandomScene(t testing.TB, n int, seed int64) *Scene {
	t.Helper()

	s := New(camera.New(core.NewVec3(0, 0, 30), math.Pi/4, 1, 100, 1, 0))
	s.SetLogger(log.Discard())

	mat := material.NewSolidLambertian(core.NewVec3(0.5, 0.5, 0.5))
	defer mat.Release()

	sampler := core.NewSeededSampler(seed)
	for i := 0; i < n; i++ {
		p := sampler.Get3D().Multiply(20).Subtract(core.NewVec3(10, 10, 10))
		if i%4 == 3 {
			u := core.RandomUnitVector(sampler).Multiply(0.5 + 2*sampler.Get1D())
			v := core.RandomUnitVector(sampler).Multiply(0.5 + 2*sampler.Get1D())
			if u.Cross(v).LengthSquared() < 1e-6 {
				v = core.NewVec3(1, 0, 0).Cross(u)
			}
			require.NoError(t, s.AddQuad(p, u, v, i%8 == 7, mat))
		} else {
			require.NoError(t, s.AddSphere(p, 0.1+sampler.Get1D(), mat))
		}
	}

	require.NoError(t, s.Build())
	t.Cleanup(s.Destroy)
	return s
}

func TestBuild_NodeLayout(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 64, 257} {
		s := newRandomScene(t, n, int64(n))
		nodes := s.Nodes()

		assert.Len(t, nodes, 2*n-1, "n=%d", n)

		stats := s.Stats()
		assert.Equal(t, len(nodes), stats.Nodes)
		assert.Equal(t, n, stats.Leaves)

		// Every object appears in exactly one leaf
		seen := make(map[int]int)
		for _, node := range nodes {
			if node.IsLeaf() {
				seen[node.Object]++
			}
		}
		assert.Len(t, seen, n)
		for object, count := range seen {
			assert.Equal(t, 1, count, "object %d", object)
		}
	}
}

func TestBuild_BoxesContainChildren(t *testing.T) {
	s := newRandomScene(t, 300, 42)
	nodes := s.Nodes()
	objects := s.Objects()

	for i, node := range nodes {
		require.True(t, node.Box.IsValid(), "node %d", i)
		if node.IsLeaf() {
			assert.Equal(t, objects[node.Object].Box(), node.Box)
			continue
		}
		assert.Greater(t, node.Left, i, "children follow their parent")
		assert.Greater(t, node.Right, i, "children follow their parent")
		assert.True(t, node.Box.Contains(nodes[node.Left].Box), "node %d left", i)
		assert.True(t, node.Box.Contains(nodes[node.Right].Box), "node %d right", i)
	}

	// The root bounds every object
	for i := range objects {
		assert.True(t, nodes[0].Box.Contains(objects[i].Box()), "object %d", i)
	}
}

func TestIntersect_MatchesLinearScan(t *testing.T) {
	s := newRandomScene(t, 500, 1234)
	sampler := core.NewSeededSampler(99)

	hits := 0
	for i := 0; i < 5000; i++ {
		origin := sampler.Get3D().Multiply(30).Subtract(core.NewVec3(15, 15, 15))
		ray := core.NewRay(origin, core.RandomUnitVector(sampler))

		expected, expectedOK := s.IntersectLinear(ray, 0.001, math.Inf(1))
		actual, actualOK := s.Intersect(ray, 0.001, math.Inf(1))

		require.Equal(t, expectedOK, actualOK, "ray %d", i)
		if expectedOK {
			hits++
			assert.Equal(t, expected.Object, actual.Object, "ray %d", i)
			assert.InDelta(t, expected.T, actual.T, 1e-12, "ray %d", i)
		}
	}
	assert.Greater(t, hits, 100, "test rays should actually hit something")
}

func TestIntersect_AxisAlignedRays(t *testing.T) {
	s := newRandomScene(t, 200, 5)

	// Zero direction components give infinite reciprocals in the slab test
	directions := []core.Vec3{
		core.NewVec3(1, 0, 0), core.NewVec3(-1, 0, 0),
		core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0),
		core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1),
		core.NewVec3(math.Copysign(0, -1), 0, -1),
	}

	sampler := core.NewSeededSampler(3)
	for _, dir := range directions {
		for i := 0; i < 200; i++ {
			origin := sampler.Get3D().Multiply(24).Subtract(core.NewVec3(12, 12, 12))
			ray := core.NewRay(origin, dir)

			expected, expectedOK := s.IntersectLinear(ray, 0.001, math.Inf(1))
			actual, actualOK := s.Intersect(ray, 0.001, math.Inf(1))
			require.Equal(t, expectedOK, actualOK, "dir %v origin %v", dir, origin)
			if expectedOK {
				assert.Equal(t, expected.Object, actual.Object)
			}
		}
	}
}

func TestIntersect_EmptyScene(t *testing.T) {
	s := New(camera.New(core.Vec3{}, math.Pi/4, 1, 100, 1, 0))
	s.SetLogger(log.Discard())
	require.NoError(t, s.Build())

	_, ok := s.Intersect(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	assert.False(t, ok)
	assert.Empty(t, s.Nodes())
}

func BenchmarkIntersect(b *testing.B) {
	s := newRandomScene(b, 10000, 8)
	sampler := core.NewSeededSampler(1)

	rays := make([]core.Ray, 1024)
	for i := range rays {
		rays[i] = core.NewRay(core.NewVec3(0, 0, 30), core.RandomUnitVector(sampler))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Intersect(rays[i%len(rays)], 0.001, math.Inf(1))
	}
}
