package geometry

import (
	"math"

	"github.com/voxdump/go-orbit-tracer/pkg/core"
	"github.com/voxdump/go-orbit-tracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
	Mat    *material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat *material.Material) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
		Mat:    mat,
	}
}

// Intersect returns the nearest ray parameter where the ray meets the sphere
func (s *Sphere) Intersect(ray core.Ray) (float64, bool) {
	// Quadratic equation coefficients: at² + bt + c = 0
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return 0, false
	}

	// Try the closer intersection point first
	sqrtD := math.Sqrt(discriminant)
	root := (-halfB - sqrtD) / a
	if root < hitEpsilon {
		root = (-halfB + sqrtD) / a
		if root < hitEpsilon {
			return 0, false
		}
	}

	return root, true
}

// NormalAt returns the outward normal at a point on the sphere
func (s *Sphere) NormalAt(p core.Vec3) core.Vec3 {
	return p.Subtract(s.Center).Multiply(1.0 / s.Radius)
}

// Material returns the sphere's material
func (s *Sphere) Material() *material.Material {
	return s.Mat
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() AABB {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}
