package scene

import (
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/geometry"
	"github.com/df07/go-tiled-pathtracer/pkg/log"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// BVHNode is a node of the flattened bounding volume hierarchy.
// A leaf references one object; an internal node references two child nodes.
type BVHNode struct {
	Box    core.AABB
	Left   int // child node index, internal nodes only
	Right  int // child node index, internal nodes only
	Object int // object index for leaves, -1 for internal nodes
	Axis   int // split axis, internal nodes only
}

// IsLeaf reports whether the node references an object
func (n *BVHNode) IsLeaf() bool {
	return n.Object >= 0
}

// BVHStats describes the shape of a built hierarchy
type BVHStats struct {
	Nodes     int
	Leaves    int
	MaxDepth  int
	BuildTime time.Duration
}

type bvhBuilder struct {
	logger log.Logger

	objects []geometry.Object

	// Permutation of object indices; ranges of it are sorted in place
	order []int

	// Nodes in pre-order, so the root is always node 0
	nodes    []BVHNode
	maxNodes int

	numLeaves int
	maxDepth  int
}

// buildBVH constructs the hierarchy over objects. One leaf is created per
// object, so a scene of N objects produces exactly 2N-1 nodes.
func buildBVH(objects []geometry.Object, logger log.Logger) ([]BVHNode, BVHStats, error) {
	if len(objects) == 0 {
		return nil, BVHStats{}, nil
	}

	builder := &bvhBuilder{
		logger:   logger,
		objects:  objects,
		order:    make([]int, len(objects)),
		maxNodes: 2*len(objects) - 1,
	}
	builder.nodes = make([]BVHNode, 0, builder.maxNodes)
	for i := range builder.order {
		builder.order[i] = i
	}

	start := time.Now()
	if _, err := builder.partition(0, len(objects), 0); err != nil {
		return nil, BVHStats{}, err
	}

	stats := BVHStats{
		Nodes:     len(builder.nodes),
		Leaves:    builder.numLeaves,
		MaxDepth:  builder.maxDepth,
		BuildTime: time.Since(start),
	}
	logger.Debugf(
		"BVH build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d",
		stats.BuildTime.Nanoseconds()/1e6, stats.MaxDepth, stats.Nodes, stats.Leaves,
	)
	return builder.nodes, stats, nil
}

// allocNode appends a node and returns its index
func (b *bvhBuilder) allocNode(node BVHNode) (int, error) {
	if len(b.nodes) >= b.maxNodes {
		return -1, errors.Wrapf(core.ErrInvariantViolation, "BVH node count exceeds %d", b.maxNodes)
	}
	b.nodes = append(b.nodes, node)
	return len(b.nodes) - 1, nil
}

// partition builds the subtree over order[start:end] and returns its node index
func (b *bvhBuilder) partition(start, end, depth int) (int, error) {
	if depth > b.maxDepth {
		b.maxDepth = depth
	}

	// A single object becomes a leaf
	if end-start == 1 {
		object := b.order[start]
		b.numLeaves++
		return b.allocNode(BVHNode{
			Box:    b.objects[object].Box(),
			Left:   -1,
			Right:  -1,
			Object: object,
		})
	}

	box := core.EmptyAABB()
	for _, object := range b.order[start:end] {
		box = box.Union(b.objects[object].Box())
	}
	axis := box.LongestAxis()

	// Stable so that equal keys keep insertion order and builds are reproducible
	span := b.order[start:end]
	sort.SliceStable(span, func(i, j int) bool {
		return b.objects[span[i]].Box().Min.Axis(axis) < b.objects[span[j]].Box().Min.Axis(axis)
	})

	nodeIndex, err := b.allocNode(BVHNode{Box: box, Object: -1, Axis: axis})
	if err != nil {
		return -1, err
	}

	mid := start + (end-start)/2
	left, err := b.partition(start, mid, depth+1)
	if err != nil {
		return -1, err
	}
	right, err := b.partition(mid, end, depth+1)
	if err != nil {
		return -1, err
	}

	// The node box is the union of its children's boxes
	b.nodes[nodeIndex].Left = left
	b.nodes[nodeIndex].Right = right
	b.nodes[nodeIndex].Box = b.nodes[left].Box.Union(b.nodes[right].Box)
	return nodeIndex, nil
}

// intersectBVH walks the hierarchy with an explicit stack and returns the
// closest hit in [tMin, tMax].
func intersectBVH(nodes []BVHNode, objects []geometry.Object, ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	var (
		closest material.HitRecord
		hitAny  bool
	)
	if len(nodes) == 0 {
		return closest, false
	}

	invDir := ray.InvDirection()

	// A balanced tree over 2^20 objects is 21 levels deep; the stack grows if needed
	stack := make([]int, 0, 64)
	stack = append(stack, 0)

	for len(stack) > 0 {
		index := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &nodes[index]
		if !node.Box.HitInv(ray.Origin, invDir, tMin, tMax) {
			continue
		}

		if node.IsLeaf() {
			if hit, ok := objects[node.Object].Hit(ray, tMin, tMax); ok {
				hit.Object = node.Object
				closest = hit
				hitAny = true
				tMax = hit.T
			}
			continue
		}

		// Push the far child first so the near child is visited next
		near, far := node.Left, node.Right
		if invDir.Axis(node.Axis) < 0 {
			near, far = far, near
		}
		stack = append(stack, far, near)
	}

	return closest, hitAny
}

// intersectLinear tests every object and returns the closest hit
func intersectLinear(objects []geometry.Object, ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	var (
		closest material.HitRecord
		hitAny  bool
	)
	for i := range objects {
		if hit, ok := objects[i].Hit(ray, tMin, tMax); ok {
			hit.Object = i
			closest = hit
			hitAny = true
			tMax = hit.T
		}
	}
	return closest, hitAny
}
