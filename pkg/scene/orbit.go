package scene

import (
	"github.com/voxdump/go-orbit-tracer/pkg/core"
	"github.com/voxdump/go-orbit-tracer/pkg/geometry"
	"github.com/voxdump/go-orbit-tracer/pkg/integrator"
	"github.com/voxdump/go-orbit-tracer/pkg/material"
	"github.com/voxdump/go-orbit-tracer/pkg/renderer"
)

// NewOrbitScene creates the default scene: a glossy centerpiece with
// satellite spheres on a matte ground, sized so the orbiting camera
// keeps everything in frame for a full loop.
func NewOrbitScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := renderer.DefaultCameraConfig()
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	// Create materials
	glossyRed := material.NewGlossy(core.NewVec3(0.85, 0.25, 0.2), 0.04)
	matteBlue := material.NewDiffuse(core.NewVec3(0.2, 0.35, 0.7))
	glossySilver := material.NewGlossy(core.NewVec3(0.9, 0.85, 0.8), 0.6)
	matteOchre := material.NewDiffuse(core.NewVec3(0.75, 0.6, 0.25))
	glowWarm := material.NewEmissive(core.NewVec3(6, 4.5, 3))

	s := &Scene{
		Name:         "orbit",
		CameraConfig: cameraConfig,
		TracerConfig: integrator.DefaultConfig(),
	}

	// Everything rests on the ground plane at y = -0.5
	s.Surfaces = append(s.Surfaces,
		NewGroundPlane(-0.5, core.NewVec3(0.65, 0.6, 0.55)),
		geometry.NewSphere(core.NewVec3(0, 0, 0), 0.5, glossyRed),
		geometry.NewSphere(core.NewVec3(-1.05, -0.15, 0.25), 0.35, matteBlue),
		geometry.NewSphere(core.NewVec3(1.05, -0.15, -0.25), 0.35, glossySilver),
		geometry.NewSphere(core.NewVec3(-0.45, -0.38, -0.7), 0.12, matteOchre),
		geometry.NewSphere(core.NewVec3(0.35, -0.35, -0.8), 0.15, glowWarm),
	)

	s.Preprocess()
	return s
}
