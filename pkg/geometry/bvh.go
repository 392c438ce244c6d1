package geometry

import (
	"math"
	"sort"

	"github.com/voxdump/go-orbit-tracer/pkg/core"
)

// Leaf threshold: nodes with this many or fewer surfaces stay leaves
const leafThreshold = 8

// bvhNode is one node of the hierarchy
type bvhNode struct {
	bounds   AABB
	left     *bvhNode
	right    *bvhNode
	surfaces []Surface // Leaf payload (nil for internal nodes)
}

// BVH accelerates nearest-hit queries over a set of surfaces. The node
// tree is immutable after construction, but the traversal stack is
// reused across queries, so a BVH must not be shared between
// goroutines; Clone hands each worker its own.
type BVH struct {
	root  *bvhNode
	stack []*bvhNode
}

// NewBVH constructs a BVH from a slice of surfaces
func NewBVH(surfaces []Surface) *BVH {
	if len(surfaces) == 0 {
		return &BVH{}
	}

	// Copy so building can reorder without touching the caller's slice
	copied := make([]Surface, len(surfaces))
	copy(copied, surfaces)

	return &BVH{
		root:  buildNode(copied),
		stack: make([]*bvhNode, 0, 64),
	}
}

// Clone returns a BVH sharing the immutable node tree but owning a
// private traversal stack.
func (b *BVH) Clone() *BVH {
	return &BVH{
		root:  b.root,
		stack: make([]*bvhNode, 0, 64),
	}
}

// buildNode recursively builds the hierarchy by median split along the
// longest axis, which is fast and good enough for our scene sizes
func buildNode(surfaces []Surface) *bvhNode {
	bounds := surfaces[0].BoundingBox()
	for _, s := range surfaces[1:] {
		bounds = bounds.Union(s.BoundingBox())
	}

	if len(surfaces) <= leafThreshold {
		return &bvhNode{
			bounds:   bounds,
			surfaces: surfaces,
		}
	}

	axis := bounds.LongestAxis()
	sortSurfacesByAxis(surfaces, axis)

	mid := len(surfaces) / 2
	return &bvhNode{
		bounds: bounds,
		left:   buildNode(surfaces[:mid]),
		right:  buildNode(surfaces[mid:]),
	}
}

// sortSurfacesByAxis sorts surfaces by bounding box center along the axis
func sortSurfacesByAxis(surfaces []Surface, axis int) {
	sort.Slice(surfaces, func(i, j int) bool {
		centerI := surfaces[i].BoundingBox().Center()
		centerJ := surfaces[j].BoundingBox().Center()

		switch axis {
		case 0:
			return centerI.X < centerJ.X
		case 1:
			return centerI.Y < centerJ.Y
		default:
			return centerI.Z < centerJ.Z
		}
	})
}

// NearestHit returns the closest surface intersection along the ray
func (b *BVH) NearestHit(ray core.Ray) (Hit, bool) {
	if b.root == nil {
		return Hit{}, false
	}

	closest := Hit{T: math.Inf(1)}
	found := false

	b.stack = b.stack[:0]
	b.stack = append(b.stack, b.root)
	for len(b.stack) > 0 {
		node := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]

		if !node.bounds.Hit(ray, 0, closest.T) {
			continue
		}

		if node.surfaces != nil {
			for _, s := range node.surfaces {
				if t, ok := s.Intersect(ray); ok && t < closest.T {
					closest = Hit{Surface: s, T: t}
					found = true
				}
			}
			continue
		}

		if node.left != nil {
			b.stack = append(b.stack, node.left)
		}
		if node.right != nil {
			b.stack = append(b.stack, node.right)
		}
	}

	return closest, found
}
