package scene

import (
	"github.com/voxdump/go-orbit-tracer/pkg/core"
	"github.com/voxdump/go-orbit-tracer/pkg/geometry"
	"github.com/voxdump/go-orbit-tracer/pkg/integrator"
	"github.com/voxdump/go-orbit-tracer/pkg/material"
	"github.com/voxdump/go-orbit-tracer/pkg/renderer"
)

// NewCornellScene creates a classic Cornell box: colored side walls, an
// open front, and a ceiling light. The camera starts in front of the
// opening; an animated orbit circles the outside of the box.
func NewCornellScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := renderer.CameraConfig{
		Width:       600,
		Height:      600, // Square frame for the box
		FOV:         40,
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		OrbitCenter: core.NewVec3(0, 0, 0),
		OrbitA:      core.NewVec3(0, 0, -3.2),
		OrbitB:      core.NewVec3(-3.2, 0, 0),
		FocusRatio:  0.75,
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	s := &Scene{
		Name:         "cornell",
		CameraConfig: cameraConfig,
		TracerConfig: integrator.Config{
			MaxBounces:     6,
			LightPosition:  core.NewVec3(0, 0.85, 0),
			LightIntensity: 4,
			SkyUp:          core.NewVec3(0, 0, 0), // Black outside the box
			SkyHorizon:     core.NewVec3(0, 0, 0),
		},
	}

	// Create materials
	white := material.NewDiffuse(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewDiffuse(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewDiffuse(core.NewVec3(0.12, 0.45, 0.15))
	mirror := material.NewGlossy(core.NewVec3(0.95, 0.95, 0.95), 0.9)
	panelGlow := material.NewEmissive(core.NewVec3(4, 4, 4))

	// Box interior spans [-1,1] on every axis with the front (z=-1) left
	// open for the camera. Quad windings put every normal inside the box.

	// Floor (white) at y=-1, normal up
	floor := geometry.NewQuad(
		core.NewVec3(-1, -1, -1),
		core.NewVec3(0, 0, 2),
		core.NewVec3(2, 0, 0),
		white,
	)

	// Ceiling (white) at y=1, normal down
	ceiling := geometry.NewQuad(
		core.NewVec3(-1, 1, -1),
		core.NewVec3(2, 0, 0),
		core.NewVec3(0, 0, 2),
		white,
	)

	// Back wall (white) at z=1, normal toward the opening
	backWall := geometry.NewQuad(
		core.NewVec3(-1, -1, 1),
		core.NewVec3(0, 2, 0),
		core.NewVec3(2, 0, 0),
		white,
	)

	// Left wall (red) at x=-1, normal +x
	leftWall := geometry.NewQuad(
		core.NewVec3(-1, -1, -1),
		core.NewVec3(0, 2, 0),
		core.NewVec3(0, 0, 2),
		red,
	)

	// Right wall (green) at x=1, normal -x
	rightWall := geometry.NewQuad(
		core.NewVec3(1, -1, -1),
		core.NewVec3(0, 0, 2),
		core.NewVec3(0, 2, 0),
		green,
	)

	// Glowing panel just below the ceiling, facing down. The point light
	// sits under it so the panel never shadows its own illumination.
	lightPanel := geometry.NewQuad(
		core.NewVec3(-0.3, 0.98, -0.3),
		core.NewVec3(0.6, 0, 0),
		core.NewVec3(0, 0, 0.6),
		panelGlow,
	)

	leftSphere := geometry.NewSphere(core.NewVec3(-0.42, -0.65, 0.25), 0.35, mirror)
	rightSphere := geometry.NewSphere(core.NewVec3(0.44, -0.7, -0.2), 0.3, white)

	s.Surfaces = append(s.Surfaces,
		floor, ceiling, backWall, leftWall, rightWall,
		lightPanel, leftSphere, rightSphere,
	)

	s.Preprocess()
	return s
}
