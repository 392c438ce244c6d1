package geometry

import (
	"math"

	"github.com/voxdump/go-orbit-tracer/pkg/core"
	"github.com/voxdump/go-orbit-tracer/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point  core.Vec3 // A point on the plane
	Normal core.Vec3 // Normal vector (normalized by the constructor)
	Mat    *material.Material
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, mat *material.Material) *Plane {
	return &Plane{
		Point:  point,
		Normal: normal.Normalize(),
		Mat:    mat,
	}
}

// Intersect returns the ray parameter where the ray meets the plane
func (p *Plane) Intersect(ray core.Ray) (float64, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Ray parallel to the plane
	if math.Abs(denominator) < 1e-8 {
		return 0, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t < hitEpsilon {
		return 0, false
	}

	return t, true
}

// NormalAt returns the plane's normal, which is the same everywhere
func (p *Plane) NormalAt(core.Vec3) core.Vec3 {
	return p.Normal
}

// Material returns the plane's material
func (p *Plane) Material() *material.Material {
	return p.Mat
}

// axisAlignment classifies a normal as perpendicular to one of the axes
type axisAlignment int

const (
	notAxisAligned axisAlignment = iota
	xAxisAligned
	yAxisAligned
	zAxisAligned
)

func alignmentOf(normal core.Vec3) axisAlignment {
	const tolerance = 1e-9
	switch {
	case math.Abs(math.Abs(normal.X)-1) < tolerance:
		return xAxisAligned
	case math.Abs(math.Abs(normal.Y)-1) < tolerance:
		return yAxisAligned
	case math.Abs(math.Abs(normal.Z)-1) < tolerance:
		return zAxisAligned
	default:
		return notAxisAligned
	}
}

// BoundingBox returns a bounding box for this plane. Axis-aligned planes
// get a thin slab so the hierarchy can still prune against them.
func (p *Plane) BoundingBox() AABB {
	const largeValue = 1e6
	const epsilon = 0.001

	switch alignmentOf(p.Normal) {
	case xAxisAligned:
		x := p.Point.X
		return NewAABB(
			core.NewVec3(x-epsilon, -largeValue, -largeValue),
			core.NewVec3(x+epsilon, largeValue, largeValue),
		)
	case yAxisAligned:
		y := p.Point.Y
		return NewAABB(
			core.NewVec3(-largeValue, y-epsilon, -largeValue),
			core.NewVec3(largeValue, y+epsilon, largeValue),
		)
	case zAxisAligned:
		z := p.Point.Z
		return NewAABB(
			core.NewVec3(-largeValue, -largeValue, z-epsilon),
			core.NewVec3(largeValue, largeValue, z+epsilon),
		)
	default:
		return NewAABB(
			core.NewVec3(-largeValue, -largeValue, -largeValue),
			core.NewVec3(largeValue, largeValue, largeValue),
		)
	}
}
