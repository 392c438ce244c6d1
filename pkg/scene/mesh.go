package scene

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/voxdump/go-orbit-tracer/pkg/core"
	"github.com/voxdump/go-orbit-tracer/pkg/integrator"
	"github.com/voxdump/go-orbit-tracer/pkg/loaders"
	"github.com/voxdump/go-orbit-tracer/pkg/material"
	"github.com/voxdump/go-orbit-tracer/pkg/renderer"
)

// NewMeshScene loads a model file and stages it on the ground plane,
// scaled and centered so the camera orbit keeps it in frame.
func NewMeshScene(path string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	mesh, err := loaders.LoadMesh(path)
	if err != nil {
		return nil, err
	}
	if mesh.TriangleCount() == 0 {
		return nil, errors.Errorf("mesh %s has no triangles", path)
	}

	cameraConfig := renderer.DefaultCameraConfig()
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	// Fit the longest side into ~1.6 units and rest the base on the ground
	bounds := mesh.Bounds()
	size := bounds.Size()
	maxExtent := math.Max(size.X, math.Max(size.Y, size.Z))
	scale := 1.0
	if maxExtent > 0 {
		scale = 1.6 / maxExtent
	}

	center := bounds.Center()
	translate := core.NewVec3(
		-center.X*scale,
		-0.5-bounds.Min.Y*scale,
		-center.Z*scale,
	)

	s := &Scene{
		Name:         strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		CameraConfig: cameraConfig,
		TracerConfig: integrator.DefaultConfig(),
	}

	body := material.NewGlossy(core.NewVec3(0.75, 0.72, 0.68), 0.08)
	s.Surfaces = append(s.Surfaces, NewGroundPlane(-0.5, core.NewVec3(0.65, 0.6, 0.55)))
	s.Surfaces = append(s.Surfaces, mesh.Build(body, scale, translate)...)

	s.Preprocess()
	return s, nil
}
