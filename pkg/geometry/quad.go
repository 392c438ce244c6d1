package geometry

import (
	"math"

	"github.com/voxdump/go-orbit-tracer/pkg/core"
	"github.com/voxdump/go-orbit-tracer/pkg/material"
)

// Quad represents a parallelogram defined by a corner and two edge vectors
type Quad struct {
	Corner core.Vec3 // One corner of the quad
	U      core.Vec3 // First edge vector
	V      core.Vec3 // Second edge vector
	Mat    *material.Material

	normal core.Vec3 // Unit normal (U × V)
	d      float64   // Plane equation constant: normal · corner
	w      core.Vec3 // Cached vector for barycentric coordinates
	bbox   AABB
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, mat *material.Material) *Quad {
	cross := u.Cross(v)
	normal := cross.Normalize()

	q := &Quad{
		Corner: corner,
		U:      u,
		V:      v,
		Mat:    mat,
		normal: normal,
		d:      normal.Dot(corner),
		// w maps hit offsets onto barycentric alpha/beta
		w: normal.Multiply(1.0 / normal.Dot(cross)),
	}
	// Pad slightly so axis-aligned quads don't get a zero-thickness box
	const pad = 1e-4
	bbox := NewAABBFromPoints(
		corner,
		corner.Add(u),
		corner.Add(v),
		corner.Add(u).Add(v),
	)
	q.bbox = NewAABB(
		bbox.Min.Subtract(core.NewVec3(pad, pad, pad)),
		bbox.Max.Add(core.NewVec3(pad, pad, pad)),
	)
	return q
}

// Intersect returns the ray parameter where the ray meets the quad
func (q *Quad) Intersect(ray core.Ray) (float64, bool) {
	denominator := ray.Direction.Dot(q.normal)

	// Ray parallel to the quad's plane
	if math.Abs(denominator) < 1e-8 {
		return 0, false
	}

	t := (q.d - ray.Origin.Dot(q.normal)) / denominator
	if t < hitEpsilon {
		return 0, false
	}

	// Reject points outside the parallelogram
	hitVector := ray.At(t).Subtract(q.Corner)
	alpha := q.w.Dot(hitVector.Cross(q.V))
	beta := q.w.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return 0, false
	}

	return t, true
}

// NormalAt returns the quad's normal, which is the same everywhere
func (q *Quad) NormalAt(core.Vec3) core.Vec3 {
	return q.normal
}

// Material returns the quad's material
func (q *Quad) Material() *material.Material {
	return q.Mat
}

// BoundingBox returns the axis-aligned bounding box for this quad
func (q *Quad) BoundingBox() AABB {
	return q.bbox
}
