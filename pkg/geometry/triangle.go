package geometry

import (
	"github.com/voxdump/go-orbit-tracer/pkg/core"
	"github.com/voxdump/go-orbit-tracer/pkg/material"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3
	Mat        *material.Material

	normal core.Vec3 // Cached face normal
	bbox   AABB      // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, mat *material.Material) *Triangle {
	t := &Triangle{
		V0:  v0,
		V1:  v1,
		V2:  v2,
		Mat: mat,
	}

	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)
	t.normal = edge1.Cross(edge2).Normalize()

	// Pad slightly so axis-aligned triangles don't get a zero-thickness box
	const pad = 1e-4
	bbox := NewAABBFromPoints(v0, v1, v2)
	t.bbox = NewAABB(
		bbox.Min.Subtract(core.NewVec3(pad, pad, pad)),
		bbox.Max.Add(core.NewVec3(pad, pad, pad)),
	)

	return t
}

// Intersect tests the ray against the triangle using Möller-Trumbore
func (t *Triangle) Intersect(ray core.Ray) (float64, bool) {
	const epsilon = 1e-8

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Determinant near zero: ray lies in the triangle's plane
	if a > -epsilon && a < epsilon {
		return 0, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, false
	}

	tParam := f * edge2.Dot(q)
	if tParam < hitEpsilon {
		return 0, false
	}

	return tParam, true
}

// NormalAt returns the triangle's face normal
func (t *Triangle) NormalAt(core.Vec3) core.Vec3 {
	return t.normal
}

// Material returns the triangle's material
func (t *Triangle) Material() *material.Material {
	return t.Mat
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() AABB {
	return t.bbox
}
