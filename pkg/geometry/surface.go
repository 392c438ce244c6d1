package geometry

import (
	"github.com/voxdump/go-orbit-tracer/pkg/core"
	"github.com/voxdump/go-orbit-tracer/pkg/material"
)

// hitEpsilon rejects intersections closer than this along the ray, so a
// ray leaving a surface does not immediately hit it again.
const hitEpsilon = 1e-6

// Surface is an object a ray can hit. Intersect returns only the ray
// parameter; the normal and material are resolved lazily once a hit is
// known to be the nearest.
type Surface interface {
	Intersect(ray core.Ray) (t float64, ok bool)
	NormalAt(p core.Vec3) core.Vec3
	Material() *material.Material
	BoundingBox() AABB
}

// Hit pairs a surface with the ray parameter where it was hit.
type Hit struct {
	Surface Surface
	T       float64
}
