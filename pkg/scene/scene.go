package scene

import (
	"github.com/voxdump/go-orbit-tracer/pkg/core"
	"github.com/voxdump/go-orbit-tracer/pkg/geometry"
	"github.com/voxdump/go-orbit-tracer/pkg/integrator"
	"github.com/voxdump/go-orbit-tracer/pkg/material"
	"github.com/voxdump/go-orbit-tracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	Surfaces     []geometry.Surface    // Objects in the scene
	CameraConfig renderer.CameraConfig // Orbit camera parameters
	TracerConfig integrator.Config     // Light and sky setup

	camera *renderer.Camera
	bvh    *geometry.BVH // Acceleration structure for ray-surface intersection
}

// Preprocess builds the camera and acceleration structure. Call it once
// after the surface list is final; rendering uses the results.
func (s *Scene) Preprocess() {
	s.camera = renderer.NewCamera(s.CameraConfig)
	s.bvh = geometry.NewBVH(s.Surfaces)
}

// GetCamera returns the scene's camera
func (s *Scene) GetCamera() *renderer.Camera {
	return s.camera
}

// GetTracerConfig returns the light and sky configuration for the tracer
func (s *Scene) GetTracerConfig() integrator.Config {
	return s.TracerConfig
}

// NearestIntersection finds the closest surface hit along the ray
func (s *Scene) NearestIntersection(ray core.Ray) (geometry.Hit, bool) {
	return s.bvh.NearestHit(ray)
}

// Clone hands a render worker its own traversable copy of the scene.
// Surfaces and the BVH node tree are shared; only traversal state is
// duplicated.
func (s *Scene) Clone() renderer.Scene {
	clone := *s
	clone.bvh = s.bvh.Clone()
	return &clone
}

// GetPrimitiveCount returns the total number of surfaces in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Surfaces)
}

// NewGroundPlane creates a horizontal matte plane at the given height
// with normal pointing up
func NewGroundPlane(height float64, albedo core.Vec3) *geometry.Plane {
	return geometry.NewPlane(core.NewVec3(0, height, 0), core.NewVec3(0, 1, 0), material.NewDiffuse(albedo))
}
