package scene

import (
	"math"

	"pgregory.net/rand"

	"github.com/voxdump/go-orbit-tracer/pkg/core"
	"github.com/voxdump/go-orbit-tracer/pkg/geometry"
	"github.com/voxdump/go-orbit-tracer/pkg/integrator"
	"github.com/voxdump/go-orbit-tracer/pkg/material"
	"github.com/voxdump/go-orbit-tracer/pkg/renderer"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	// Convert hue from degrees to radians
	hRad := h * math.Pi / 180.0

	// Convert from OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	r = math.Max(0, math.Min(1, r))
	g = math.Max(0, math.Min(1, g))
	blue = math.Max(0, math.Min(1, blue))

	return core.NewVec3(r, g, blue)
}

// NewSphereGridScene creates a grid of small spheres whose hue varies
// across one axis and chroma across the other, with seeded random gloss
// so repeated runs build the identical scene.
func NewSphereGridScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := renderer.DefaultCameraConfig()
	cameraConfig.LookAt = core.NewVec3(0, -0.3, 0) // Aim slightly down at the grid
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	s := &Scene{
		Name:         "spheregrid",
		CameraConfig: cameraConfig,
		TracerConfig: integrator.DefaultConfig(),
	}

	s.Surfaces = append(s.Surfaces, NewGroundPlane(-0.5, core.NewVec3(0.5, 0.5, 0.5)))

	// Seeded so gloss assignments are stable across runs
	rng := rand.New(11)

	// Scale the grid to stay inside the camera orbit
	gridSize := 12
	targetArea := 3.2
	spacing := targetArea / float64(gridSize-1)
	sphereRadius := spacing * 0.35

	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2
			z := float64(j)*spacing - targetArea/2
			y := -0.5 + sphereRadius // Sphere sits on the ground plane

			// Hue across X, chroma across Z, a ripple of lightness
			hue := float64(i) / float64(gridSize-1) * 360.0
			chroma := minChroma + float64(j)/float64(gridSize-1)*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			color := oklchToRGB(lightness, chroma, hue)

			// Mostly glossy with varied base reflectance, some matte
			var mat *material.Material
			if rng.Float64() < 0.25 {
				mat = material.NewDiffuse(color)
			} else {
				mat = material.NewGlossy(color, 0.04+0.4*rng.Float64())
			}

			s.Surfaces = append(s.Surfaces, geometry.NewSphere(core.NewVec3(x, y, z), sphereRadius, mat))
		}
	}

	s.Preprocess()
	return s
}
