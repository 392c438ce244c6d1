package integrator

import (
	"math"

	"github.com/voxdump/go-orbit-tracer/pkg/core"
	"github.com/voxdump/go-orbit-tracer/pkg/geometry"
	"github.com/voxdump/go-orbit-tracer/pkg/material"
)

// Scene is the view of a scene the integrator needs: nearest-hit queries
type Scene interface {
	NearestIntersection(ray core.Ray) (geometry.Hit, bool)
}

// Config holds the integrator's lighting and termination parameters
type Config struct {
	MaxBounces     int       // Bounce cap; paths trace at most MaxBounces+1 segments
	LightPosition  core.Vec3 // World position of the point light
	LightIntensity float64   // Point light power
	SkyUp          core.Vec3 // Sky color straight up
	SkyHorizon     core.Vec3 // Sky color at the horizon
}

// DefaultConfig returns the standard lighting setup: a single point
// light high to the side and a muted dusk gradient for the sky
func DefaultConfig() Config {
	return Config{
		MaxBounces:     5,
		LightPosition:  core.NewVec3(8, 12, -6),
		LightIntensity: 720,
		SkyUp:          core.NewVec3(53.0/255.0, 112.0/255.0, 128.0/255.0).Multiply(0.75),
		SkyHorizon:     core.NewVec3(182.0/255.0, 175.0/255.0, 157.0/255.0).Multiply(0.8),
	}
}

// Sample is the result of tracing one camera ray: the radiance estimate
// plus the first-hit normal and albedo channels consumed by denoisers
type Sample struct {
	Beauty core.Vec3
	Normal core.Vec3
	Albedo core.Vec3
}

// specularAlbedo is the fixed reflectance of the Fresnel specular lobe
var specularAlbedo = core.NewVec3(0.95, 0.95, 0.95)

// absorbThreshold ends paths whose strongest albedo channel cannot
// contribute anymore
const absorbThreshold = 1e-8

// rouletteAfter is the bounce count beyond which Russian roulette runs
const rouletteAfter = 2

// PathTracer implements unbiased iterative path tracing with a fixed
// point light and an analytic sky
type PathTracer struct {
	config Config
}

// NewPathTracer creates a new path tracer
func NewPathTracer(config Config) *PathTracer {
	return &PathTracer{config: config}
}

// Trace follows one camera ray through the scene and returns its
// radiance estimate and first-hit AOVs. Sampler dimensions are consumed
// lazily in a fixed order, so identical inputs replay identical paths.
func (pt *PathTracer) Trace(ray core.Ray, scene Scene, smp *core.Sampler) Sample {
	var out Sample
	throughput := core.NewVec3(1, 1, 1)
	bounce := 0

	for {
		hit, ok := scene.NearestIntersection(ray)
		if !ok {
			out.Beauty = out.Beauty.Add(throughput.MultiplyVec(pt.sky(ray.Direction)))
			break
		}

		hitPoint := ray.At(hit.T)
		normal := hit.Surface.NormalAt(hitPoint)
		mat := hit.Surface.Material()

		if bounce == 0 {
			// Y and Z swapped so the normal map reads green-up
			out.Normal = core.NewVec3(normal.X, normal.Z, normal.Y).Multiply(0.5).Add(core.NewVec3(0.5, 0.5, 0.5))
			out.Albedo = mat.Albedo
		}

		out.Beauty = out.Beauty.Add(throughput.MultiplyVec(mat.Emission))

		// Choose between the specular lobe and the diffuse base
		albedo := mat.Albedo
		specular := false
		if mat.Fresnel {
			fresnel := material.SchlickFresnel(normal, ray.Direction, mat.R0)
			if smp.Next1D() < fresnel {
				specular = true
				albedo = specularAlbedo
			}
		}

		// The specular lobe finds the light through its own bounce
		if !specular {
			direct := pt.directLight(hitPoint, normal, albedo, scene)
			out.Beauty = out.Beauty.Add(throughput.MultiplyVec(direct))
		}

		bounce++
		if bounce > pt.config.MaxBounces {
			break
		}

		maxAlbedo := albedo.MaxComponent()
		if maxAlbedo < absorbThreshold {
			break
		}

		if bounce > rouletteAfter {
			// Terminated paths are compensated by the survivors, so the
			// estimator stays unbiased
			survival := math.Min(1, math.Max(0, maxAlbedo))
			if smp.Next1D() > survival {
				break
			}
			throughput = throughput.Multiply(1 / survival)
		}

		var nextDir core.Vec3
		if specular {
			nextDir = ray.Direction.Subtract(normal.Multiply(2 * normal.Dot(ray.Direction)))
		} else {
			u1, u2 := smp.Next2D()
			nextDir = core.CosineDirection(normal, u1, u2)
		}

		throughput = throughput.MultiplyVec(albedo)
		ray = core.NewRay(hitPoint, nextDir)
	}

	return out
}

// sky returns the background radiance for a miss direction, blending
// from the up color at the zenith toward the horizon color
func (pt *PathTracer) sky(dir core.Vec3) core.Vec3 {
	height := 1 - math.Max(0, dir.Y)
	blend := height * height * height * height
	return pt.config.SkyUp.Lerp(pt.config.SkyHorizon, blend)
}

// directLight estimates the point light's contribution at a diffuse hit
// with a single shadow ray and inverse square falloff
func (pt *PathTracer) directLight(p, normal, albedo core.Vec3, scene Scene) core.Vec3 {
	toLight := pt.config.LightPosition.Subtract(p)
	distance := toLight.Length()
	direction := toLight.Multiply(1 / distance)

	nDotL := normal.Dot(direction)
	if nDotL <= 0 {
		return core.Vec3{}
	}

	shadowRay := core.NewRay(p, direction)
	if shadow, blocked := scene.NearestIntersection(shadowRay); blocked && shadow.T < distance {
		return core.Vec3{}
	}

	return albedo.Multiply(nDotL / (distance * distance) * pt.config.LightIntensity)
}
