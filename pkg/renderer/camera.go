package renderer

import (
	"math"

	"github.com/voxdump/go-orbit-tracer/pkg/core"
)

// CameraConfig controls the orbiting camera and the image it projects onto
type CameraConfig struct {
	Width       int       // Image width in pixels
	Height      int       // Image height in pixels
	FOV         float64   // Horizontal field of view in degrees
	LookAt      core.Vec3 // Point the camera always faces
	Up          core.Vec3 // World up direction
	OrbitCenter core.Vec3 // Center of the orbit circle
	OrbitA      core.Vec3 // Radial offset at orbit angle zero
	OrbitB      core.Vec3 // Radial offset a quarter turn along the orbit
	LensRadius  float64   // Thin-lens aperture radius; 0 disables depth of field
	FocusRatio  float64   // Focus distance as a fraction of the distance to LookAt
}

// DefaultCameraConfig returns the standard orbit around the scene origin
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Width:       1280,
		Height:      720,
		FOV:         80.0,
		LookAt:      core.NewVec3(0, -0.125, 0),
		Up:          core.NewVec3(0, 1, 0),
		OrbitCenter: core.NewVec3(0, 1.5, 0),
		OrbitA:      core.NewVec3(1.2, 0, -3.0),
		OrbitB:      core.NewVec3(3.0, 0, 1.2),
		LensRadius:  0,
		FocusRatio:  0.75,
	}
}

// MergeCameraConfig overlays any non-zero fields of override onto base
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	merged := base
	if override.Width != 0 {
		merged.Width = override.Width
	}
	if override.Height != 0 {
		merged.Height = override.Height
	}
	if override.FOV != 0 {
		merged.FOV = override.FOV
	}
	zero := core.Vec3{}
	if override.LookAt != zero {
		merged.LookAt = override.LookAt
	}
	if override.Up != zero {
		merged.Up = override.Up
	}
	if override.OrbitCenter != zero {
		merged.OrbitCenter = override.OrbitCenter
	}
	if override.OrbitA != zero {
		merged.OrbitA = override.OrbitA
		merged.OrbitB = override.OrbitB
	}
	if override.LensRadius != 0 {
		merged.LensRadius = override.LensRadius
	}
	if override.FocusRatio != 0 {
		merged.FocusRatio = override.FocusRatio
	}
	return merged
}

// Camera generates primary rays from a position that circles the orbit
// center while always aiming at the look-at point
type Camera struct {
	config       CameraConfig
	sensorWidth  float64
	sensorHeight float64
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	fovRadians := config.FOV * math.Pi / 180.0
	aspectRatio := float64(config.Width) / float64(config.Height)
	sensorWidth := 2 * math.Tan(fovRadians/2)

	return &Camera{
		config:       config,
		sensorWidth:  sensorWidth,
		sensorHeight: sensorWidth / aspectRatio,
	}
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// Resolution returns the image dimensions the camera projects onto
func (c *Camera) Resolution() (width, height int) {
	return c.config.Width, c.config.Height
}

// GetRay generates the primary ray for a pixel. The first two sampler
// dimensions jitter the sub-pixel position through a triangular warp;
// when frames > 0 a third dimension jitters the orbit angle so motion
// blurs smoothly across the animation.
func (c *Camera) GetRay(x, y, frame, frames int, smp *core.Sampler) core.Ray {
	sampleX := core.TriangleDist(smp.Next1D())
	sampleY := core.TriangleDist(smp.Next1D())

	time := 0.0
	if frames > 0 {
		time = 2 * math.Pi * (float64(frame) + core.TriangleDist(smp.Next1D())) / float64(frames)
	}
	cosT := math.Cos(time)
	sinT := math.Sin(time)

	origin := c.config.OrbitCenter.
		Add(c.config.OrbitA.Multiply(cosT)).
		Add(c.config.OrbitB.Multiply(sinT))

	forward := c.config.LookAt.Subtract(origin).Normalize()
	right := c.config.Up.Cross(forward)
	up := forward.Cross(right)

	width := float64(c.config.Width)
	height := float64(c.config.Height)
	pixelX := right.Multiply(c.sensorWidth / width)
	pixelY := up.Multiply(-c.sensorHeight / height)

	direction := forward.
		Add(pixelX.Multiply(float64(x) - width*0.5 + sampleX + 0.5)).
		Add(pixelY.Multiply(float64(y) - height*0.5 + sampleY + 0.5)).
		Normalize()

	if c.config.LensRadius > 0 {
		origin, direction = c.defocus(origin, direction, forward, right, up, smp)
	}

	return core.NewRay(origin, direction)
}

// defocus perturbs the ray origin across the lens disc and re-aims it at
// the focal point so everything off the focal plane blurs
func (c *Camera) defocus(origin, direction, forward, right, up core.Vec3, smp *core.Sampler) (core.Vec3, core.Vec3) {
	focusDistance := origin.Subtract(c.config.LookAt).Length() * c.config.FocusRatio

	u1, u2 := smp.Next2D()
	lensX, lensY := core.DiscPoint(u1, u2)
	lensX *= c.config.LensRadius
	lensY *= c.config.LensRadius

	focalPoint := origin.Add(direction.Multiply(focusDistance / direction.Dot(forward)))
	newOrigin := origin.Add(right.Multiply(lensX)).Add(up.Multiply(lensY))
	newDirection := focalPoint.Subtract(newOrigin).Normalize()

	return newOrigin, newDirection
}
